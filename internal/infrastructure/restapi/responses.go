package restapi

import "time"

// timestampLayout matches JavaScript's Date.prototype.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CirculatingHumanResponse is the format=human body of /circulating.
type CirculatingHumanResponse struct {
	CirculatingSupply string   `json:"circulatingSupply"`
	TotalSupply       string   `json:"totalSupply"`
	ExcludedAddresses []string `json:"excludedAddresses"`
	UpdatedAt         string   `json:"updatedAt"`
	Notes             string   `json:"notes"`
}

// ExcludedBalance is one excluded holder in base units.
type ExcludedBalance struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// CirculatingRaw holds the base-unit values behind /circulating.
type CirculatingRaw struct {
	CirculatingSupply string            `json:"circulatingSupply"`
	TotalSupply       string            `json:"totalSupply"`
	Excluded          []ExcludedBalance `json:"excluded"`
}

// CirculatingResponse is the default body of /circulating.
type CirculatingResponse struct {
	CirculatingHumanResponse
	Raw CirculatingRaw `json:"raw"`
}

// PoolLP is the treasury's LP position in token units.
type PoolLP struct {
	Safe         string `json:"safe"`
	Total        string `json:"total"`
	SafeSharePct string `json:"safeSharePct"`
}

// PoolHumanResponse is the format=human body of /pool.
type PoolHumanResponse struct {
	Token             string `json:"token"`
	Pair              string `json:"pair"`
	ReserveXalara     string `json:"reserveXalara"`
	ReserveEth        string `json:"reserveEth"`
	PriceEthPerXalara string `json:"priceEthPerXalara"`
	LP                PoolLP `json:"lp"`
	AsOf              string `json:"asOf"`
}

// PoolRaw holds the base-unit values behind /pool.
type PoolRaw struct {
	ReserveXalara string `json:"reserveXalara"`
	ReserveEth    string `json:"reserveEth"`
	LPSafe        string `json:"lpSafe"`
	LPTotal       string `json:"lpTotal"`
}

// PoolRawResponse is the format=raw body of /pool.
type PoolRawResponse struct {
	Token string  `json:"token"`
	Pair  string  `json:"pair"`
	Raw   PoolRaw `json:"raw"`
	AsOf  string  `json:"asOf"`
}

// PoolResponse is the default body of /pool.
type PoolResponse struct {
	PoolHumanResponse
	Raw PoolRaw `json:"raw"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status           string   `json:"status"`
	ChainID          uint64   `json:"chainId"`
	RPCEndpoints     int      `json:"rpcEndpoints"`
	FixedTotalSupply bool     `json:"fixedTotalSupply"`
	ConfigErrors     []string `json:"configErrors,omitempty"`
}
