package port

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"supply_api/internal/domain/entity"
)

// ChainConnection is a live, read-only connection to one RPC endpoint.
type ChainConnection interface {
	// Endpoint returns the URL the connection was dialed with.
	Endpoint() string

	// CodeAt returns the deployed bytecode at the address on the latest block.
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)

	// TotalSupply calls totalSupply() on an ERC-20 or pair contract.
	TotalSupply(ctx context.Context, token common.Address) (*big.Int, error)

	// BalanceOf calls balanceOf(holder) on an ERC-20 or pair contract.
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)

	// PairTokens calls token0() and token1() on a pair contract.
	PairTokens(ctx context.Context, pair common.Address) (token0, token1 common.Address, err error)

	// PairReserves calls getReserves() on a pair contract.
	PairReserves(ctx context.Context, pair common.Address) (reserve0, reserve1 *big.Int, err error)
}

// ConnectionProvider hands out connections for endpoint URLs.
type ConnectionProvider interface {
	// Connect returns a connection to the endpoint, verified to be on the expected chain.
	Connect(ctx context.Context, endpoint string) (ChainConnection, error)

	// Invalidate drops any reused connection for the endpoint.
	Invalidate(endpoint string)
}

// NetworkDefinitionProvider exposes the single network the service reads from.
type NetworkDefinitionProvider interface {
	Definition() entity.NetworkDefinition

	// Endpoints returns the ordered RPC candidate list.
	Endpoints() []string
}
