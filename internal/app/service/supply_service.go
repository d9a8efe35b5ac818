package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"supply_api/internal/app/port"
	"supply_api/internal/domain/entity"
	"supply_api/internal/infrastructure/network/fallback"
	"supply_api/internal/pkg/metrics"
	"supply_api/internal/pkg/utils"
)

// SupplyConfig is the resolved configuration the supply service reads.
type SupplyConfig struct {
	Token entity.AddressRef
	// Excluded holders, in order: treasury, deployer, then any extras.
	Excluded []entity.AddressRef
	// FixedTotalSupply, when set, answers TotalSupply without any RPC work.
	FixedTotalSupply *big.Int
}

// supplyServiceImpl implements port.SupplyService.
type supplyServiceImpl struct {
	cfg       SupplyConfig
	executor  *fallback.Executor
	endpoints port.NetworkDefinitionProvider
	logger    *zap.Logger
	now       func() time.Time
}

// NewSupplyService creates a new supply service.
func NewSupplyService(cfg SupplyConfig, executor *fallback.Executor, endpoints port.NetworkDefinitionProvider, logger *zap.Logger) port.SupplyService {
	return &supplyServiceImpl{
		cfg:       cfg,
		executor:  executor,
		endpoints: endpoints,
		logger:    logger.Named("supply_service"),
		now:       time.Now,
	}
}

// Circulating returns total supply minus the balances of the excluded holders, clamped at zero.
func (s *supplyServiceImpl) Circulating(ctx context.Context) (*entity.CirculatingSupply, error) {
	token, err := s.cfg.Token.Resolve()
	if err != nil {
		return nil, err
	}
	excluded, err := entity.ResolveAll(s.cfg.Excluded...)
	if err != nil {
		return nil, err
	}
	excluded = uniqueAddresses(excluded)

	result, err := fallback.TryEndpoints(ctx, s.executor, s.endpoints.Endpoints(), token,
		func(ctx context.Context, conn port.ChainConnection) (*entity.CirculatingSupply, error) {
			return s.supplyBatch(ctx, conn, token, excluded)
		})
	if err != nil {
		return nil, fmt.Errorf("circulating supply: %w", err)
	}

	if result.Clamped {
		metrics.CirculatingClamped.Inc()
		s.logger.Warn("Excluded balances exceed total supply, reporting zero circulating supply",
			zap.String("total", result.Total.String()),
			zap.String("excluded", result.ExcludedSum().String()),
			zap.String("endpoint", utils.RedactURL(result.Endpoint)))
	}
	return result, nil
}

// supplyBatch reads totalSupply and every excluded balance in parallel. All calls run to
// completion; any failure fails the batch.
func (s *supplyServiceImpl) supplyBatch(ctx context.Context, conn port.ChainConnection, token common.Address, excluded []common.Address) (*entity.CirculatingSupply, error) {
	var (
		g        errgroup.Group
		total    *big.Int
		balances = make([]entity.HolderBalance, len(excluded))
	)

	g.Go(func() error {
		v, err := conn.TotalSupply(ctx, token)
		if err != nil {
			return err
		}
		total = v
		return nil
	})
	for i, holder := range excluded {
		g.Go(func() error {
			v, err := conn.BalanceOf(ctx, token, holder)
			if err != nil {
				return err
			}
			balances[i] = entity.HolderBalance{Address: holder, Balance: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	circulating, clamped := entity.ComputeCirculating(total, balances)
	return &entity.CirculatingSupply{
		Token:       token,
		Total:       total,
		Excluded:    balances,
		Circulating: circulating,
		Clamped:     clamped,
		Endpoint:    conn.Endpoint(),
		ComputedAt:  s.now().UTC(),
	}, nil
}

// TotalSupply returns the configured fixed supply, or reads totalSupply() on chain.
func (s *supplyServiceImpl) TotalSupply(ctx context.Context) (*entity.TotalSupply, error) {
	token, err := s.cfg.Token.Resolve()
	if err != nil {
		return nil, err
	}
	if s.cfg.FixedTotalSupply != nil {
		return &entity.TotalSupply{
			Token:      token,
			Total:      new(big.Int).Set(s.cfg.FixedTotalSupply),
			Fixed:      true,
			ComputedAt: s.now().UTC(),
		}, nil
	}

	result, err := fallback.TryEndpoints(ctx, s.executor, s.endpoints.Endpoints(), token,
		func(ctx context.Context, conn port.ChainConnection) (*entity.TotalSupply, error) {
			total, err := conn.TotalSupply(ctx, token)
			if err != nil {
				return nil, err
			}
			return &entity.TotalSupply{Token: token, Total: total, Endpoint: conn.Endpoint(), ComputedAt: s.now().UTC()}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("total supply: %w", err)
	}
	return result, nil
}

func uniqueAddresses(in []common.Address) []common.Address {
	out := make([]common.Address, 0, len(in))
	seen := make(map[common.Address]struct{}, len(in))
	for _, a := range in {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
