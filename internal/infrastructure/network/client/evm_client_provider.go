package client

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"supply_api/internal/app/port"
	"supply_api/internal/domain/entity"
	"supply_api/internal/pkg/metrics"
	"supply_api/internal/pkg/utils"
)

const (
	defaultDialTimeout       = 10 * time.Second
	defaultConnectionIdleTTL = 5 * time.Minute
)

// ProviderConfig tunes how connections are dialed and reused.
type ProviderConfig struct {
	ExpectedChainID uint64
	DialTimeout     time.Duration
	IdleTTL         time.Duration
}

// evmClientProvider implements port.ConnectionProvider. Connections are reused per endpoint URL
// and closed after IdleTTL without use.
type evmClientProvider struct {
	conns  *cache.Cache
	cfg    ProviderConfig
	logger *zap.Logger
}

// NewEVMClientProvider creates a provider whose connections must report cfg.ExpectedChainID.
func NewEVMClientProvider(cfg ProviderConfig, logger *zap.Logger) port.ConnectionProvider {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultConnectionIdleTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &evmClientProvider{
		conns:  cache.New(cfg.IdleTTL, cfg.IdleTTL/2),
		cfg:    cfg,
		logger: logger.Named("evm_client_provider"),
	}
	p.conns.OnEvicted(func(endpoint string, v interface{}) {
		if conn, ok := v.(*EVMConnection); ok {
			conn.Close()
			p.logger.Debug("Closed RPC connection", zap.String("endpoint", utils.RedactURL(endpoint)))
		}
	})
	return p
}

// Connect returns a cached connection or dials a new one and checks its chain id.
func (p *evmClientProvider) Connect(ctx context.Context, endpoint string) (port.ChainConnection, error) {
	if v, ok := p.conns.Get(endpoint); ok {
		// Re-set to slide the idle expiry.
		p.conns.SetDefault(endpoint, v)
		return v.(*EVMConnection), nil
	}

	conn, err := p.dial(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if err := p.conns.Add(endpoint, conn, cache.DefaultExpiration); err != nil {
		// Another request dialed the same endpoint first.
		if v, ok := p.conns.Get(endpoint); ok {
			conn.Close()
			return v.(*EVMConnection), nil
		}
		p.conns.SetDefault(endpoint, conn)
	}
	return conn, nil
}

// Invalidate drops and closes the cached connection for endpoint, if any.
func (p *evmClientProvider) Invalidate(endpoint string) {
	p.conns.Delete(endpoint)
}

func (p *evmClientProvider) dial(ctx context.Context, endpoint string) (*EVMConnection, error) {
	dialCtx, cancel := context.WithTimeout(ctx, p.cfg.DialTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(dialCtx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", utils.RedactURL(endpoint), utils.RedactError(err, endpoint))
	}
	conn := NewEVMConnection(endpoint, ethClient)

	if p.cfg.ExpectedChainID != 0 {
		id, err := conn.ChainID(dialCtx)
		if err != nil {
			conn.Close()
			return nil, err
		}
		if !id.IsUint64() || id.Uint64() != p.cfg.ExpectedChainID {
			conn.Close()
			return nil, fmt.Errorf("%w: %s reports %s, want %d", entity.ErrChainIDMismatch, utils.RedactURL(endpoint), id, p.cfg.ExpectedChainID)
		}
	}

	label := utils.RedactURL(endpoint)
	metrics.ConnectionsDialed.WithLabelValues(label).Inc()
	p.logger.Info("Dialed RPC endpoint", zap.String("endpoint", label), zap.Uint64("chain_id", p.cfg.ExpectedChainID))
	return conn, nil
}
