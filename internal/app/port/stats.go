package port

import (
	"context"

	"supply_api/internal/domain/entity"
)

// SupplyService computes token supply figures.
type SupplyService interface {
	Circulating(ctx context.Context) (*entity.CirculatingSupply, error)
	TotalSupply(ctx context.Context) (*entity.TotalSupply, error)
}

// PoolService reads the liquidity pair state.
type PoolService interface {
	Pool(ctx context.Context) (*entity.PoolSnapshot, error)
}

// HolderProvider returns extra addresses to exclude from circulating supply.
type HolderProvider interface {
	GetHolders() ([]entity.AddressRef, error)
}
