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
	"supply_api/internal/pkg/utils"
)

// PoolConfig is the resolved configuration the pool service reads.
type PoolConfig struct {
	Token    entity.AddressRef
	Pair     entity.AddressRef
	Partner  entity.AddressRef
	Treasury entity.AddressRef
}

// poolServiceImpl implements port.PoolService.
type poolServiceImpl struct {
	cfg       PoolConfig
	executor  *fallback.Executor
	endpoints port.NetworkDefinitionProvider
	logger    *zap.Logger
	now       func() time.Time
}

// NewPoolService creates a new pool service.
func NewPoolService(cfg PoolConfig, executor *fallback.Executor, endpoints port.NetworkDefinitionProvider, logger *zap.Logger) port.PoolService {
	return &poolServiceImpl{
		cfg:       cfg,
		executor:  executor,
		endpoints: endpoints,
		logger:    logger.Named("pool_service"),
		now:       time.Now,
	}
}

// Pool reads the pair reserves and the treasury's LP position. The pair contract is the
// verification address.
func (s *poolServiceImpl) Pool(ctx context.Context) (*entity.PoolSnapshot, error) {
	addrs, err := entity.ResolveAll(s.cfg.Token, s.cfg.Pair, s.cfg.Partner, s.cfg.Treasury)
	if err != nil {
		return nil, err
	}
	token, pair, partner, treasury := addrs[0], addrs[1], addrs[2], addrs[3]

	snap, err := fallback.TryEndpoints(ctx, s.executor, s.endpoints.Endpoints(), pair,
		func(ctx context.Context, conn port.ChainConnection) (*entity.PoolSnapshot, error) {
			state, err := readPair(ctx, conn, pair, treasury)
			if err != nil {
				return nil, err
			}
			reserveToken, reservePartner, err := entity.MatchReserves(state, token, partner)
			if err != nil {
				return nil, err
			}
			return &entity.PoolSnapshot{
				Token:          token,
				Partner:        partner,
				Pair:           pair,
				Treasury:       treasury,
				ReserveToken:   reserveToken,
				ReservePartner: reservePartner,
				LPTreasury:     state.LPHolder,
				LPTotal:        state.LPTotal,
				Endpoint:       conn.Endpoint(),
				ComputedAt:     s.now().UTC(),
			}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	s.logger.Debug("Pool snapshot read", zap.String("endpoint", utils.RedactURL(snap.Endpoint)), zap.String("pair", pair.Hex()))
	return snap, nil
}

// readPair issues the four independent pair reads in parallel and waits for all of them.
func readPair(ctx context.Context, conn port.ChainConnection, pair, holder common.Address) (entity.PairState, error) {
	var (
		g     errgroup.Group
		state entity.PairState
	)
	g.Go(func() error {
		t0, t1, err := conn.PairTokens(ctx, pair)
		state.Token0, state.Token1 = t0, t1
		return err
	})
	g.Go(func() error {
		r0, r1, err := conn.PairReserves(ctx, pair)
		state.Reserve0, state.Reserve1 = r0, r1
		return err
	})
	g.Go(func() error {
		v, err := conn.TotalSupply(ctx, pair)
		state.LPTotal = v
		return err
	})
	g.Go(func() error {
		v, err := conn.BalanceOf(ctx, pair, holder)
		state.LPHolder = v
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.PairState{}, err
	}
	if state.LPTotal == nil {
		state.LPTotal = new(big.Int)
	}
	if state.LPHolder == nil {
		state.LPHolder = new(big.Int)
	}
	return state, nil
}
