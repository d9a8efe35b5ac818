package httpclient

// CirculatingPayload mirrors the default /circulating body.
type CirculatingPayload struct {
	CirculatingSupply string   `json:"circulatingSupply"`
	TotalSupply       string   `json:"totalSupply"`
	ExcludedAddresses []string `json:"excludedAddresses"`
	UpdatedAt         string   `json:"updatedAt"`
	Notes             string   `json:"notes"`
	Raw               *struct {
		CirculatingSupply string `json:"circulatingSupply"`
		TotalSupply       string `json:"totalSupply"`
		Excluded          []struct {
			Address string `json:"address"`
			Balance string `json:"balance"`
		} `json:"excluded"`
	} `json:"raw"`
}

// PoolPayload mirrors the default /pool body.
type PoolPayload struct {
	Token             string `json:"token"`
	Pair              string `json:"pair"`
	ReserveXalara     string `json:"reserveXalara"`
	ReserveEth        string `json:"reserveEth"`
	PriceEthPerXalara string `json:"priceEthPerXalara"`
	LP                struct {
		Safe         string `json:"safe"`
		Total        string `json:"total"`
		SafeSharePct string `json:"safeSharePct"`
	} `json:"lp"`
	AsOf string `json:"asOf"`
	Raw  *struct {
		ReserveXalara string `json:"reserveXalara"`
		ReserveEth    string `json:"reserveEth"`
		LPSafe        string `json:"lpSafe"`
		LPTotal       string `json:"lpTotal"`
	} `json:"raw"`
}

// CheckResult is the outcome of one deployment check.
type CheckResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}
