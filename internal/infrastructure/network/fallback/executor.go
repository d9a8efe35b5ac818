package fallback

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"supply_api/internal/app/port"
	"supply_api/internal/domain/entity"
	"supply_api/internal/pkg/metrics"
	"supply_api/internal/pkg/utils"
)

// Executor runs read-call batches against the first RPC endpoint that works.
type Executor struct {
	provider port.ConnectionProvider
	logger   *zap.Logger
}

// NewExecutor creates an Executor that obtains connections from provider.
func NewExecutor(provider port.ConnectionProvider, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{provider: provider, logger: logger.Named("rpc_fallback")}
}

// TryEndpoints tries endpoints strictly in order. For each it connects, checks that verify has
// bytecode, and runs batch; the first successful batch result is returned and no later endpoint
// is touched. Connect, bytecode and batch failures all advance to the next endpoint. When every
// endpoint fails the returned error wraps entity.ErrAllEndpointsFailed and the last error seen.
// Endpoint URLs are redacted to scheme and host in errors, logs and metric labels.
//
// It is a free function because Go methods cannot declare type parameters.
func TryEndpoints[T any](ctx context.Context, e *Executor, endpoints []string, verify common.Address, batch func(ctx context.Context, conn port.ChainConnection) (T, error)) (T, error) {
	var zero T
	if len(endpoints) == 0 {
		return zero, entity.ErrNoEndpoints
	}

	var lastErr error
	for i, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		label := utils.RedactURL(endpoint)
		log := e.logger.With(zap.String("endpoint", label), zap.Int("position", i))

		result, outcome, err := attempt(ctx, e.provider, endpoint, verify, batch)
		metrics.RPCAttempts.WithLabelValues(label, outcome).Inc()
		if err == nil {
			log.Debug("RPC endpoint served batch")
			return result, nil
		}

		lastErr = utils.RedactError(err, endpoint)
		e.provider.Invalidate(endpoint)
		log.Warn("RPC endpoint attempt failed", zap.String("outcome", outcome), zap.Error(lastErr))
	}

	metrics.EndpointsExhausted.Inc()
	return zero, fmt.Errorf("%w: %w", entity.ErrAllEndpointsFailed, lastErr)
}

func attempt[T any](ctx context.Context, provider port.ConnectionProvider, endpoint string, verify common.Address, batch func(ctx context.Context, conn port.ChainConnection) (T, error)) (T, string, error) {
	var zero T

	conn, err := provider.Connect(ctx, endpoint)
	if err != nil {
		return zero, metrics.OutcomeDialError, err
	}

	code, err := conn.CodeAt(ctx, verify)
	if err != nil {
		return zero, metrics.OutcomeDialError, err
	}
	if len(code) == 0 {
		return zero, metrics.OutcomeNoCode, fmt.Errorf("%w: %s on %s", entity.ErrNoContractCode, verify.Hex(), utils.RedactURL(endpoint))
	}

	result, err := batch(ctx, conn)
	if err != nil {
		return zero, metrics.OutcomeBatchError, fmt.Errorf("batch on %s: %w", utils.RedactURL(endpoint), err)
	}
	return result, metrics.OutcomeSuccess, nil
}
