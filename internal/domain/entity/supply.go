package entity

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// HolderBalance is the token balance of one excluded holder.
type HolderBalance struct {
	Address common.Address
	Balance *big.Int
}

// CirculatingSupply is the result of one circulating-supply computation, in base units.
type CirculatingSupply struct {
	Token       common.Address
	Total       *big.Int
	Excluded    []HolderBalance
	Circulating *big.Int
	// Clamped is set when total minus excluded balances went negative and was reported as zero.
	Clamped    bool
	Endpoint   string
	ComputedAt time.Time
}

// ExcludedSum returns the sum of all excluded balances.
func (c *CirculatingSupply) ExcludedSum() *big.Int {
	sum := new(big.Int)
	for _, h := range c.Excluded {
		if h.Balance != nil {
			sum.Add(sum, h.Balance)
		}
	}
	return sum
}

// ComputeCirculating returns max(0, total - sum(excluded)) and whether clamping happened.
// Inputs are not modified.
func ComputeCirculating(total *big.Int, excluded []HolderBalance) (*big.Int, bool) {
	circulating := new(big.Int)
	if total != nil {
		circulating.Set(total)
	}
	for _, h := range excluded {
		if h.Balance != nil {
			circulating.Sub(circulating, h.Balance)
		}
	}
	if circulating.Sign() < 0 {
		return new(big.Int), true
	}
	return circulating, false
}

// TotalSupply is a total-supply reading in base units.
type TotalSupply struct {
	Token common.Address
	Total *big.Int
	// Fixed is set when the value came from configuration rather than the chain.
	Fixed      bool
	Endpoint   string
	ComputedAt time.Time
}
