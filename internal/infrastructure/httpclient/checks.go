package httpclient

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"supply_api/internal/pkg/utils"
)

// CheckDeployment fetches every stats endpoint and checks the relationships between them.
// expectedTotal is the literal /total must return.
func (c *StatsClient) CheckDeployment(ctx context.Context, expectedTotal string, decimals int32) []CheckResult {
	var results []CheckResult
	add := func(name string, err error) {
		r := CheckResult{Name: name, OK: err == nil}
		if err != nil {
			r.Detail = err.Error()
		}
		results = append(results, r)
	}

	add("total literal", func() error {
		body, err := c.GetText(ctx, "/total")
		if err != nil {
			return err
		}
		if body != expectedTotal {
			return fmt.Errorf("got %q, want %q", body, expectedTotal)
		}
		return nil
	}())

	add("totalSupply formats agree", func() error {
		weiText, err := c.GetText(ctx, "/totalSupply?format=wei")
		if err != nil {
			return err
		}
		wei, err := parseInt(weiText)
		if err != nil {
			return err
		}
		human, err := c.GetText(ctx, "/totalSupply")
		if err != nil {
			return err
		}
		if want := utils.FormatUnits(wei, decimals); human != want {
			return fmt.Errorf("default body %q, want %q for %s wei", human, want, weiText)
		}
		return nil
	}())

	add("circulating consistent", func() error {
		circ, err := c.GetCirculating(ctx)
		if err != nil {
			return err
		}
		return checkCirculating(circ, decimals)
	}())

	add("pool consistent", func() error {
		pool, err := c.GetPool(ctx)
		if err != nil {
			return err
		}
		return checkPool(pool, decimals)
	}())

	return results
}

func checkCirculating(p *CirculatingPayload, decimals int32) error {
	if p.Raw == nil {
		return fmt.Errorf("default body has no raw section")
	}
	total, err := parseInt(p.Raw.TotalSupply)
	if err != nil {
		return err
	}
	circ, err := parseInt(p.Raw.CirculatingSupply)
	if err != nil {
		return err
	}
	if circ.Sign() < 0 || circ.Cmp(total) > 0 {
		return fmt.Errorf("circulating %s outside [0, %s]", circ, total)
	}

	expected := new(big.Int).Set(total)
	for _, ex := range p.Raw.Excluded {
		b, err := parseInt(ex.Balance)
		if err != nil {
			return err
		}
		expected.Sub(expected, b)
	}
	if expected.Sign() < 0 {
		expected.SetInt64(0)
	}
	if expected.Cmp(circ) != 0 {
		return fmt.Errorf("circulating %s, want total minus excluded = %s", circ, expected)
	}
	if got := utils.FormatUnits(circ, decimals); got != p.CirculatingSupply {
		return fmt.Errorf("human circulating %q, want %q", p.CirculatingSupply, got)
	}
	return nil
}

func checkPool(p *PoolPayload, decimals int32) error {
	if p.Raw == nil {
		return fmt.Errorf("default body has no raw section")
	}
	reserveToken, err := parseInt(p.Raw.ReserveXalara)
	if err != nil {
		return err
	}
	reserveEth, err := parseInt(p.Raw.ReserveEth)
	if err != nil {
		return err
	}
	if reserveToken.Sign() == 0 {
		return nil
	}
	price, err := strconv.ParseFloat(p.PriceEthPerXalara, 64)
	if err != nil {
		return fmt.Errorf("price %q: %w", p.PriceEthPerXalara, err)
	}
	want, _ := new(big.Rat).SetFrac(reserveEth, reserveToken).Float64()
	if diff := price - want; diff > want*1e-9 || diff < -want*1e-9 {
		return fmt.Errorf("price %v, want %v from raw reserves", price, want)
	}
	if got := utils.FormatUnits(reserveToken, decimals); got != p.ReserveXalara {
		return fmt.Errorf("human token reserve %q, want %q", p.ReserveXalara, got)
	}
	return nil
}

func parseInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}
