package networkdefinition

import (
	"fmt"

	"supply_api/internal/app/port"
	"supply_api/internal/domain/entity"
	"supply_api/internal/pkg/utils"
)

// Ethereum is the only network the service reads from.
var Ethereum = entity.NetworkDefinition{ //nolint:gochecknoglobals // Global for definitions
	ChainID:         1,
	Name:            "Ethereum Mainnet",
	Identifier:      "ethereum",
	PrimaryRPCURL:   "https://cloudflare-eth.com",
	FallbackRPCURLs: []string{"https://eth.llamarpc.com", "https://rpc.ankr.com/eth"},
}

// NetworkDefinitionProvider holds the network definition and its ordered RPC candidates.
type NetworkDefinitionProvider struct {
	logger    port.Logger
	def       entity.NetworkDefinition
	endpoints []string
}

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)

// NewNetworkDefinitionProvider builds the candidate list: override first, then the configured
// public endpoints, then the definition's own URLs. Empty entries and duplicates are dropped.
func NewNetworkDefinitionProvider(log port.Logger, def entity.NetworkDefinition, override string, configured []string) *NetworkDefinitionProvider {
	builtin := append([]string{def.PrimaryRPCURL}, def.FallbackRPCURLs...)
	if len(configured) > 0 {
		builtin = configured
	}
	p := &NetworkDefinitionProvider{
		logger:    log,
		def:       def,
		endpoints: BuildEndpointList(override, builtin...),
	}

	if len(p.endpoints) == 0 {
		p.logger.Warn("No RPC endpoints configured; every on-chain request will fail", "network", def.Identifier)
	} else {
		p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized for %s with %d RPC endpoints", def.Name, len(p.endpoints)))
		for i, ep := range p.endpoints {
			p.logger.Debug("RPC endpoint candidate", "position", i, "endpoint", utils.RedactURL(ep))
		}
	}
	return p
}

// BuildEndpointList returns override followed by fallbacks, trimmed, without blanks or repeats.
func BuildEndpointList(override string, fallbacks ...string) []string {
	return utils.UniqueNonEmpty(append([]string{override}, fallbacks...))
}

// Definition returns the network definition.
func (p *NetworkDefinitionProvider) Definition() entity.NetworkDefinition {
	return p.def
}

// Endpoints returns a copy of the ordered RPC candidate list.
func (p *NetworkDefinitionProvider) Endpoints() []string {
	if p == nil {
		return []string{}
	}
	out := make([]string, len(p.endpoints))
	copy(out, p.endpoints)
	return out
}
