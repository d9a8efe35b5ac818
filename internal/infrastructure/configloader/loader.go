package configloader

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"supply_api/internal/app/port"
	"supply_api/internal/config"
	"supply_api/internal/domain/entity"
	"supply_api/internal/pkg/utils"
)

// Environment overrides. Values are trimmed; empty values are ignored.
const (
	EnvConfigPath     = "CONFIG_PATH"
	EnvToken          = "TOKEN_ADDRESS"
	EnvPair           = "PAIR_ADDRESS"
	EnvTreasury       = "TREASURY_ADDRESS"
	EnvSafe           = "SAFE_ADDRESS"
	EnvDeployer       = "DEPLOYER_ADDRESS"
	EnvWrappedNative  = "WRAPPED_NATIVE_ADDRESS"
	EnvRPCURL         = "ETHEREUM_RPC_URL"
	EnvRPCURLAlias    = "RPC_URL"
	EnvRPCURLs        = "ETHEREUM_RPC_URLS"
	EnvExtraExcluded  = "EXTRA_EXCLUDED_ADDRESSES"
	EnvLogLevel       = "LOG_LEVEL"
	EnvListenAddr     = "LISTEN_ADDR"
	EnvHolderFile     = "EXCLUDED_HOLDERS_FILE"
	EnvSupplySource   = "TOTAL_SUPPLY_SOURCE"
	EnvSwaggerEnabled = "SWAGGER_ENABLED"
)

// Snapshot is the immutable configuration handed to the services, with every address resolved.
type Snapshot struct {
	Config        *config.Config
	Token         entity.AddressRef
	Pair          entity.AddressRef
	Treasury      entity.AddressRef
	Deployer      entity.AddressRef
	WrappedNative entity.AddressRef
	// ExtraExcluded holds configured and file-loaded holders beyond treasury and deployer.
	ExtraExcluded []entity.AddressRef
	// FixedTotalSupply is set, in base units, when supply.totalSupplySource is "fixed".
	FixedTotalSupply *big.Int
}

// Excluded returns treasury, deployer and the extra holders, in that order.
func (s *Snapshot) Excluded() []entity.AddressRef {
	out := make([]entity.AddressRef, 0, 2+len(s.ExtraExcluded))
	out = append(out, s.Treasury, s.Deployer)
	return append(out, s.ExtraExcluded...)
}

// ConfigErrors returns the validation errors of every configured address.
func (s *Snapshot) ConfigErrors() []error {
	var errs []error
	for _, ref := range append([]entity.AddressRef{s.Token, s.Pair, s.WrappedNative}, s.Excluded()...) {
		if err := ref.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// LoadEnvFiles loads .env and then .env.local, which wins. Missing files are fine.
func LoadEnvFiles() {
	if err := godotenv.Load(); err == nil {
		logrus.Info("Loaded environment from .env")
	}
	if err := godotenv.Overload(".env.local"); err == nil {
		logrus.Info("Loaded environment from .env.local")
	}
}

// Load reads the YAML file named by CONFIG_PATH (or the default path) and applies the
// environment overrides on top of it.
func Load() (*config.Config, error) {
	path := config.DefaultPath
	optional := true
	if p := env(EnvConfigPath); p != "" {
		path, optional = p, false
	}
	cfg, err := config.LoadConfig(path, optional)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	return cfg, nil
}

// ApplyEnv overlays the environment variables onto cfg.
func ApplyEnv(cfg *config.Config) {
	override(&cfg.Addresses.Token, EnvToken)
	override(&cfg.Addresses.Pair, EnvPair)
	override(&cfg.Addresses.Treasury, EnvSafe)
	override(&cfg.Addresses.Treasury, EnvTreasury)
	override(&cfg.Addresses.Deployer, EnvDeployer)
	override(&cfg.Addresses.WrappedNative, EnvWrappedNative)
	override(&cfg.Network.RPCURL, EnvRPCURLAlias)
	override(&cfg.Network.RPCURL, EnvRPCURL)
	override(&cfg.Logging.Level, EnvLogLevel)
	override(&cfg.Server.Port, EnvListenAddr)
	override(&cfg.Supply.HolderFile, EnvHolderFile)
	override(&cfg.Supply.TotalSupplySource, EnvSupplySource)

	if v := env(EnvRPCURLs); v != "" {
		cfg.Network.Endpoints = utils.SplitCSV(v)
		logrus.Infof("Using %d RPC endpoints from %s", len(cfg.Network.Endpoints), EnvRPCURLs)
	}
	if v := env(EnvExtraExcluded); v != "" {
		cfg.Supply.ExtraExcluded = append(cfg.Supply.ExtraExcluded, utils.SplitCSV(v)...)
	}
	if v := strings.ToLower(env(EnvSwaggerEnabled)); v != "" {
		cfg.Swagger.Enabled = v == "1" || v == "true" || v == "yes"
	}
}

// Resolve validates every address and builds the snapshot. Malformed addresses do not fail
// Resolve; they are logged and kept so that dependent requests fail closed.
func Resolve(cfg *config.Config, holders port.HolderProvider) (*Snapshot, error) {
	s := &Snapshot{
		Config:        cfg,
		Token:         entity.NewAddressRef("token", cfg.Addresses.Token),
		Pair:          entity.NewAddressRef("pair", cfg.Addresses.Pair),
		Treasury:      entity.NewAddressRef("treasury", cfg.Addresses.Treasury),
		Deployer:      entity.NewAddressRef("deployer", cfg.Addresses.Deployer),
		WrappedNative: entity.NewAddressRef("wrapped native", cfg.Addresses.WrappedNative),
	}

	for i, raw := range cfg.Supply.ExtraExcluded {
		s.ExtraExcluded = append(s.ExtraExcluded, entity.NewAddressRef(fmt.Sprintf("excluded holder #%d", i+1), raw))
	}
	if holders != nil {
		fromFile, err := holders.GetHolders()
		if err != nil {
			return nil, err
		}
		s.ExtraExcluded = append(s.ExtraExcluded, fromFile...)
	}

	if cfg.Supply.TotalSupplySource == config.TotalSupplySourceFixed {
		fixed, err := ParseTokenAmount(cfg.Supply.DisplayTotal, cfg.Supply.Decimals)
		if err != nil {
			return nil, fmt.Errorf("supply.displayTotal: %w", err)
		}
		s.FixedTotalSupply = fixed
	}

	for _, err := range s.ConfigErrors() {
		logrus.Errorf("Configuration error, dependent endpoints will fail: %v", err)
	}
	return s, nil
}

// ParseTokenAmount converts a whole-token decimal string to base units.
func ParseTokenAmount(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid token amount %q: %w", amount, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("invalid token amount %q: negative", amount)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("invalid token amount %q: more than %d decimals", amount, decimals)
	}
	return scaled.BigInt(), nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func override(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}
