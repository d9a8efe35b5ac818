package entity

// NetworkDefinition holds the configuration for the blockchain network the service reads from.
type NetworkDefinition struct {
	ChainID         uint64   `json:"chainId" yaml:"chainId"`
	Name            string   `json:"name" yaml:"name"`
	Identifier      string   `json:"identifier" yaml:"identifier"`
	PrimaryRPCURL   string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
}
