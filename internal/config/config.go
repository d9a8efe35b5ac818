package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset. A missing file at this path is not an error.
const DefaultPath = "config/config.yaml"

// Built-in mainnet addresses.
const (
	DefaultTokenAddress         = "0x20F58aC708D2ebBA5f4B6f1687073f631714f9F3"
	DefaultPairAddress          = "0x87D0F6e909C459B1dA253F1A9570cceC8F59Bb91"
	DefaultTreasuryAddress      = "0x5aBB817aaE8C17fBc97D2E2b4f08B35457aA1405"
	DefaultDeployerAddress      = "0x57cBC130C4556F080C55e54da54bB58CCD9A3e71"
	DefaultWrappedNativeAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
)

const (
	TotalSupplySourceOnchain = "onchain"
	TotalSupplySourceFixed   = "fixed"

	DefaultDisplayTotal = "1000000000"
	DefaultNotes        = "Circulating = total − treasury(Safe) − deployer EOA. Pool tokens are counted as circulating."
)

// Config holds the overall configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Network   NetworkConfig   `yaml:"network"`
	Addresses AddressesConfig `yaml:"addresses"`
	Supply    SupplyConfig    `yaml:"supply"`
	Cache     CacheConfig     `yaml:"cache"`
	Swagger   SwaggerConfig   `yaml:"swagger"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port            string  `yaml:"port"`
	ReadTimeout     int     `yaml:"readTimeout"`
	WriteTimeout    int     `yaml:"writeTimeout"`
	IdleTimeout     int     `yaml:"idleTimeout"`
	ShutdownTimeout int     `yaml:"shutdownTimeout"`
	RateLimit       float64 `yaml:"rateLimit"` // requests per second, 0 disables
	RateBurst       int     `yaml:"rateBurst"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// NetworkConfig holds RPC settings. RPCURL is the preferred endpoint and is tried first.
type NetworkConfig struct {
	ChainID                  uint64   `yaml:"chainID"`
	RPCURL                   string   `yaml:"rpcURL"`
	Endpoints                []string `yaml:"endpoints"`
	DialTimeoutMs            int64    `yaml:"dialTimeoutMs"`
	ConnectionIdleTTLSeconds int      `yaml:"connectionIdleTTLSeconds"`
}

// AddressesConfig holds the contract and account addresses, as hex strings.
type AddressesConfig struct {
	Token         string `yaml:"token"`
	Pair          string `yaml:"pair"`
	Treasury      string `yaml:"treasury"`
	Deployer      string `yaml:"deployer"`
	WrappedNative string `yaml:"wrappedNative"`
}

// SupplyConfig controls the supply endpoints.
type SupplyConfig struct {
	TotalSupplySource string   `yaml:"totalSupplySource"` // onchain or fixed
	DisplayTotal      string   `yaml:"displayTotal"`      // body of /total, in whole tokens
	Decimals          int32    `yaml:"decimals"`
	ExtraExcluded     []string `yaml:"extraExcluded"`
	HolderFile        string   `yaml:"holderFile"`
	Notes             string   `yaml:"notes"`
}

// CacheControl is one endpoint's Cache-Control policy for fronting caches.
type CacheControl struct {
	MaxAgeSeconds               int `yaml:"maxAgeSeconds"`
	StaleWhileRevalidateSeconds int `yaml:"staleWhileRevalidateSeconds"`
}

// Header renders the policy as a Cache-Control value.
func (c CacheControl) Header() string {
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate=%d", c.MaxAgeSeconds, c.StaleWhileRevalidateSeconds)
}

// CacheConfig holds the Cache-Control policy per endpoint.
type CacheConfig struct {
	Circulating CacheControl `yaml:"circulating"`
	Pool        CacheControl `yaml:"pool"`
	TotalSupply CacheControl `yaml:"totalSupply"`
	Total       CacheControl `yaml:"total"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path"`
	SpecFile string `yaml:"specFile"`
}

// LoadConfig loads configuration from a YAML file. When optional is set a missing file yields
// the defaults instead of an error.
func LoadConfig(path string, optional bool) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
		logrus.Infof("Config file %s not found, using built-in defaults", path)
	default:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = int(cfg.Server.RateLimit) + 1
		logrus.Infof("Server.RateBurst not set, defaulting to %d", cfg.Server.RateBurst)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Network.ChainID == 0 {
		cfg.Network.ChainID = 1
	}
	if cfg.Network.DialTimeoutMs <= 0 {
		cfg.Network.DialTimeoutMs = 10000
	}
	if cfg.Network.ConnectionIdleTTLSeconds <= 0 {
		cfg.Network.ConnectionIdleTTLSeconds = 300
	}

	if cfg.Addresses.Token == "" {
		cfg.Addresses.Token = DefaultTokenAddress
	}
	if cfg.Addresses.Pair == "" {
		cfg.Addresses.Pair = DefaultPairAddress
	}
	if cfg.Addresses.Treasury == "" {
		cfg.Addresses.Treasury = DefaultTreasuryAddress
	}
	if cfg.Addresses.Deployer == "" {
		cfg.Addresses.Deployer = DefaultDeployerAddress
	}
	if cfg.Addresses.WrappedNative == "" {
		cfg.Addresses.WrappedNative = DefaultWrappedNativeAddress
	}

	if cfg.Supply.TotalSupplySource == "" {
		cfg.Supply.TotalSupplySource = TotalSupplySourceOnchain
	}
	if cfg.Supply.TotalSupplySource != TotalSupplySourceOnchain && cfg.Supply.TotalSupplySource != TotalSupplySourceFixed {
		logrus.Warnf("Unknown supply.totalSupplySource %q, using %q", cfg.Supply.TotalSupplySource, TotalSupplySourceOnchain)
		cfg.Supply.TotalSupplySource = TotalSupplySourceOnchain
	}
	if cfg.Supply.DisplayTotal == "" {
		cfg.Supply.DisplayTotal = DefaultDisplayTotal
	}
	if cfg.Supply.Decimals == 0 {
		cfg.Supply.Decimals = 18
	}
	if cfg.Supply.Notes == "" {
		cfg.Supply.Notes = DefaultNotes
	}

	defaultCache(&cfg.Cache.Circulating, 300, 600)
	defaultCache(&cfg.Cache.Pool, 60, 600)
	defaultCache(&cfg.Cache.TotalSupply, 60, 600)
	defaultCache(&cfg.Cache.Total, 86400, 604800)

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "docs/swagger.yaml"
	}
}

func defaultCache(c *CacheControl, maxAge, swr int) {
	if c.MaxAgeSeconds == 0 {
		c.MaxAgeSeconds = maxAge
	}
	if c.StaleWhileRevalidateSeconds == 0 {
		c.StaleWhileRevalidateSeconds = swr
	}
}
