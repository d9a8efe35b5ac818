// Package porttest provides in-memory implementations of the chain ports for tests.
package porttest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"supply_api/internal/app/port"
)

// ErrCallFailed is returned by Connection for reads that were not configured.
var ErrCallFailed = errors.New("execution reverted")

// Connection is a scripted port.ChainConnection.
type Connection struct {
	URL string

	mu       sync.Mutex
	Code     map[common.Address][]byte
	Supplies map[common.Address]*big.Int
	Balances map[[2]common.Address]*big.Int
	Token0   common.Address
	Token1   common.Address
	Reserve0 *big.Int
	Reserve1 *big.Int
	// Fail makes every read call (not CodeAt) return this error.
	Fail  error
	Calls int
}

var _ port.ChainConnection = (*Connection)(nil)

// NewConnection returns an empty scripted connection for url.
func NewConnection(url string) *Connection {
	return &Connection{
		URL:      url,
		Code:     make(map[common.Address][]byte),
		Supplies: make(map[common.Address]*big.Int),
		Balances: make(map[[2]common.Address]*big.Int),
	}
}

// WithCode marks addr as a deployed contract.
func (c *Connection) WithCode(addr common.Address) *Connection {
	c.Code[addr] = []byte{0x60, 0x80, 0x60, 0x40}
	return c
}

// WithSupply sets totalSupply() of contract.
func (c *Connection) WithSupply(contract common.Address, v *big.Int) *Connection {
	c.Supplies[contract] = v
	return c
}

// WithBalance sets balanceOf(holder) on contract.
func (c *Connection) WithBalance(contract, holder common.Address, v *big.Int) *Connection {
	c.Balances[[2]common.Address{contract, holder}] = v
	return c
}

// WithPair sets token0, token1 and the reserves reported by any pair.
func (c *Connection) WithPair(token0, token1 common.Address, r0, r1 *big.Int) *Connection {
	c.Token0, c.Token1, c.Reserve0, c.Reserve1 = token0, token1, r0, r1
	return c
}

func (c *Connection) Endpoint() string { return c.URL }

func (c *Connection) CodeAt(_ context.Context, addr common.Address) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Code[addr], nil
}

func (c *Connection) TotalSupply(_ context.Context, contract common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Fail != nil {
		return nil, c.Fail
	}
	v, ok := c.Supplies[contract]
	if !ok {
		return nil, fmt.Errorf("totalSupply on %s: %w", contract.Hex(), ErrCallFailed)
	}
	return new(big.Int).Set(v), nil
}

func (c *Connection) BalanceOf(_ context.Context, contract, holder common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Fail != nil {
		return nil, c.Fail
	}
	v, ok := c.Balances[[2]common.Address{contract, holder}]
	if !ok {
		return nil, fmt.Errorf("balanceOf %s on %s: %w", holder.Hex(), contract.Hex(), ErrCallFailed)
	}
	return new(big.Int).Set(v), nil
}

func (c *Connection) PairTokens(_ context.Context, _ common.Address) (common.Address, common.Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Fail != nil {
		return common.Address{}, common.Address{}, c.Fail
	}
	return c.Token0, c.Token1, nil
}

func (c *Connection) PairReserves(_ context.Context, _ common.Address) (*big.Int, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Fail != nil {
		return nil, nil, c.Fail
	}
	if c.Reserve0 == nil || c.Reserve1 == nil {
		return nil, nil, fmt.Errorf("getReserves: %w", ErrCallFailed)
	}
	return new(big.Int).Set(c.Reserve0), new(big.Int).Set(c.Reserve1), nil
}

// Provider is a port.ConnectionProvider over scripted connections. Endpoints without a
// connection fail to dial.
type Provider struct {
	mu          sync.Mutex
	conns       map[string]port.ChainConnection
	Dialed      []string
	Invalidated []string
}

var _ port.ConnectionProvider = (*Provider)(nil)

// NewProvider returns a provider serving the given connections by their endpoint URL.
func NewProvider(conns ...port.ChainConnection) *Provider {
	p := &Provider{conns: make(map[string]port.ChainConnection)}
	for _, c := range conns {
		p.conns[c.Endpoint()] = c
	}
	return p
}

func (p *Provider) Connect(_ context.Context, endpoint string) (port.ChainConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Dialed = append(p.Dialed, endpoint)
	c, ok := p.conns[endpoint]
	if !ok {
		return nil, fmt.Errorf("failed to connect to RPC %s: connection refused", endpoint)
	}
	return c, nil
}

func (p *Provider) Invalidate(endpoint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Invalidated = append(p.Invalidated, endpoint)
}

// DialedEndpoints returns the endpoints Connect was called with, in order.
func (p *Provider) DialedEndpoints() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Dialed...)
}
