package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEndpoints is returned when the candidate RPC endpoint list is empty.
	ErrNoEndpoints = errors.New("no RPC endpoints configured")
	// ErrAllEndpointsFailed wraps the last error observed once every candidate endpoint was tried.
	ErrAllEndpointsFailed = errors.New("all RPC endpoints failed")
	// ErrNoContractCode means the verification contract has no bytecode on the connected network.
	ErrNoContractCode = errors.New("no contract code at verification address")
	// ErrChainIDMismatch means the endpoint serves a different network than expected.
	ErrChainIDMismatch = errors.New("unexpected chain id")
	// ErrUnexpectedPairOrdering means the pair does not hold exactly {token, wrapped native}.
	ErrUnexpectedPairOrdering = errors.New("unexpected token ordering in pair")
)

// ConfigError reports a malformed configured value. It is never retried.
type ConfigError struct {
	Role   string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s address %q: %s", e.Role, e.Value, e.Reason)
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
