package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"

	"supply_api/internal/app/port"
	"supply_api/internal/pkg/utils"
)

// Minimal ERC-20 plus Uniswap V2 pair ABI. A pair is itself an ERC-20 (its LP token),
// so totalSupply and balanceOf serve both contracts.
const pairTokenABI = `[
{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"}
]`

var (
	parsedPairTokenABI  abi.ABI
	parsedPairTokenOnce sync.Once
)

func contractABI() abi.ABI {
	parsedPairTokenOnce.Do(func() {
		var err error
		parsedPairTokenABI, err = abi.JSON(strings.NewReader(pairTokenABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse pair/token ABI: %v", err))
		}
	})
	return parsedPairTokenABI
}

// EVMConnection implements port.ChainConnection on top of go-ethereum's ethclient.
type EVMConnection struct {
	ethClient *ethclient.Client
	endpoint  string
	// label is the redacted endpoint used in error messages.
	label string
}

var _ port.ChainConnection = (*EVMConnection)(nil)

// NewEVMConnection wraps an already dialed client.
func NewEVMConnection(endpoint string, ethClient *ethclient.Client) *EVMConnection {
	contractABI()
	return &EVMConnection{ethClient: ethClient, endpoint: endpoint, label: utils.RedactURL(endpoint)}
}

// Endpoint returns the RPC URL of the connection.
func (c *EVMConnection) Endpoint() string {
	return c.endpoint
}

// Close releases the underlying RPC client.
func (c *EVMConnection) Close() {
	c.ethClient.Close()
}

// ChainID asks the endpoint which network it serves.
func (c *EVMConnection) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("eth_chainId on %s: %w", c.label, utils.RedactError(err, c.endpoint))
	}
	return id, nil
}

// CodeAt returns the bytecode deployed at address on the latest block.
func (c *EVMConnection) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	code, err := c.ethClient.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getCode %s on %s: %w", address.Hex(), c.label, utils.RedactError(err, c.endpoint))
	}
	return code, nil
}

// TotalSupply calls totalSupply() on contract.
func (c *EVMConnection) TotalSupply(ctx context.Context, contract common.Address) (*big.Int, error) {
	out, err := c.call(ctx, contract, "totalSupply")
	if err != nil {
		return nil, err
	}
	return bigIntAt(out, 0, "totalSupply")
}

// BalanceOf calls balanceOf(holder) on contract.
func (c *EVMConnection) BalanceOf(ctx context.Context, contract, holder common.Address) (*big.Int, error) {
	out, err := c.call(ctx, contract, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	return bigIntAt(out, 0, "balanceOf")
}

// PairTokens calls token0() and token1() on pair in parallel.
func (c *EVMConnection) PairTokens(ctx context.Context, pair common.Address) (common.Address, common.Address, error) {
	var (
		g      errgroup.Group
		t0, t1 common.Address
	)
	g.Go(func() error {
		var err error
		t0, err = c.addressCall(ctx, pair, "token0")
		return err
	})
	g.Go(func() error {
		var err error
		t1, err = c.addressCall(ctx, pair, "token1")
		return err
	})
	if err := g.Wait(); err != nil {
		return common.Address{}, common.Address{}, err
	}
	return t0, t1, nil
}

// PairReserves calls getReserves() on pair and drops blockTimestampLast.
func (c *EVMConnection) PairReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	out, err := c.call(ctx, pair, "getReserves")
	if err != nil {
		return nil, nil, err
	}
	r0, err := bigIntAt(out, 0, "getReserves")
	if err != nil {
		return nil, nil, err
	}
	r1, err := bigIntAt(out, 1, "getReserves")
	if err != nil {
		return nil, nil, err
	}
	return r0, r1, nil
}

func (c *EVMConnection) addressCall(ctx context.Context, contract common.Address, method string) (common.Address, error) {
	out, err := c.call(ctx, contract, method)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s returned no values", method)
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s returned %T, want address", method, out[0])
	}
	return addr, nil
}

func (c *EVMConnection) call(ctx context.Context, contract common.Address, method string, args ...any) ([]any, error) {
	parsed := contractABI()
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_call %s on %s via %s: %w", method, contract.Hex(), c.label, utils.RedactError(err, c.endpoint))
	}
	out, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s result %s: %w", method, hexutil.Encode(raw), err)
	}
	return out, nil
}

func bigIntAt(out []any, i int, method string) (*big.Int, error) {
	if len(out) <= i {
		return nil, fmt.Errorf("%s returned %d values, want at least %d", method, len(out), i+1)
	}
	v, ok := out[i].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s value %d has type %T, want *big.Int", method, i, out[i])
	}
	return v, nil
}
