package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supply_api/internal/app/port"
	"supply_api/internal/config"
	"supply_api/internal/domain/entity"
	"supply_api/internal/pkg/utils"
)

// HandlerConfig is the static part of the responses.
type HandlerConfig struct {
	Cache            config.CacheConfig
	DisplayTotal     string
	Notes            string
	Decimals         int32
	ChainID          uint64
	RPCEndpoints     int
	FixedTotalSupply bool
	ConfigErrors     []error
}

// StatsHandler serves the supply and pool endpoints.
type StatsHandler struct {
	supply port.SupplyService
	pool   port.PoolService
	cfg    HandlerConfig
	logger *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(supply port.SupplyService, pool port.PoolService, cfg HandlerConfig, logger *zap.Logger) *StatsHandler {
	if cfg.Decimals == 0 {
		cfg.Decimals = 18
	}
	return &StatsHandler{supply: supply, pool: pool, cfg: cfg, logger: logger.Named("stats_handler")}
}

// Circulating handles GET /circulating?format=wei|human.
func (h *StatsHandler) Circulating(c *gin.Context) {
	result, err := h.supply.Circulating(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", h.cfg.Cache.Circulating.Header())

	format := entity.ParseOutputFormat(c.Query("format"), entity.FormatWei, entity.FormatHuman)
	if format == entity.FormatWei {
		c.String(http.StatusOK, result.Circulating.String())
		return
	}

	human := CirculatingHumanResponse{
		CirculatingSupply: utils.FormatUnits(result.Circulating, h.cfg.Decimals),
		TotalSupply:       utils.FormatUnits(result.Total, h.cfg.Decimals),
		ExcludedAddresses: make([]string, 0, len(result.Excluded)),
		UpdatedAt:         formatTimestamp(result.ComputedAt),
		Notes:             h.cfg.Notes,
	}
	raw := CirculatingRaw{
		CirculatingSupply: result.Circulating.String(),
		TotalSupply:       result.Total.String(),
		Excluded:          make([]ExcludedBalance, 0, len(result.Excluded)),
	}
	for _, ex := range result.Excluded {
		human.ExcludedAddresses = append(human.ExcludedAddresses, ex.Address.Hex())
		raw.Excluded = append(raw.Excluded, ExcludedBalance{Address: ex.Address.Hex(), Balance: ex.Balance.String()})
	}

	if format == entity.FormatHuman {
		h.json(c, human)
		return
	}
	h.json(c, CirculatingResponse{CirculatingHumanResponse: human, Raw: raw})
}

// Pool handles GET /pool?format=human|raw.
func (h *StatsHandler) Pool(c *gin.Context) {
	snap, err := h.pool.Pool(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", h.cfg.Cache.Pool.Header())

	asOf := formatTimestamp(snap.ComputedAt)
	raw := PoolRaw{
		ReserveXalara: snap.ReserveToken.String(),
		ReserveEth:    snap.ReservePartner.String(),
		LPSafe:        snap.LPTreasury.String(),
		LPTotal:       snap.LPTotal.String(),
	}

	format := entity.ParseOutputFormat(c.Query("format"), entity.FormatHuman, entity.FormatRaw)
	if format == entity.FormatRaw {
		h.json(c, PoolRawResponse{Token: snap.Token.Hex(), Pair: snap.Pair.Hex(), Raw: raw, AsOf: asOf})
		return
	}

	price := utils.UnitsToFloat(snap.ReservePartner, h.cfg.Decimals) / utils.UnitsToFloat(snap.ReserveToken, h.cfg.Decimals)
	human := PoolHumanResponse{
		Token:             snap.Token.Hex(),
		Pair:              snap.Pair.Hex(),
		ReserveXalara:     utils.FormatUnits(snap.ReserveToken, h.cfg.Decimals),
		ReserveEth:        utils.FormatUnits(snap.ReservePartner, h.cfg.Decimals),
		PriceEthPerXalara: utils.FormatJSNumber(price),
		LP: PoolLP{
			Safe:         utils.FormatUnits(snap.LPTreasury, h.cfg.Decimals),
			Total:        utils.FormatUnits(snap.LPTotal, h.cfg.Decimals),
			SafeSharePct: utils.SharePercent(snap.LPTreasury, snap.LPTotal),
		},
		AsOf: asOf,
	}

	if format == entity.FormatHuman {
		h.json(c, human)
		return
	}
	h.json(c, PoolResponse{PoolHumanResponse: human, Raw: raw})
}

// TotalSupply handles GET /totalSupply?format=wei. Both shapes are plain text.
func (h *StatsHandler) TotalSupply(c *gin.Context) {
	result, err := h.supply.TotalSupply(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", h.cfg.Cache.TotalSupply.Header())

	if entity.ParseOutputFormat(c.Query("format"), entity.FormatWei) == entity.FormatWei {
		c.String(http.StatusOK, result.Total.String())
		return
	}
	c.String(http.StatusOK, utils.FormatUnits(result.Total, h.cfg.Decimals))
}

// Total handles GET /total. It never touches the network.
func (h *StatsHandler) Total(c *gin.Context) {
	c.Header("Cache-Control", h.cfg.Cache.Total.Header())
	c.String(http.StatusOK, h.cfg.DisplayTotal)
}

// Healthz reports liveness and any configuration errors. It never touches the network.
func (h *StatsHandler) Healthz(c *gin.Context) {
	resp := HealthResponse{
		Status:           "ok",
		ChainID:          h.cfg.ChainID,
		RPCEndpoints:     h.cfg.RPCEndpoints,
		FixedTotalSupply: h.cfg.FixedTotalSupply,
	}
	for _, err := range h.cfg.ConfigErrors {
		resp.ConfigErrors = append(resp.ConfigErrors, err.Error())
	}
	c.JSON(http.StatusOK, resp)
}

// json writes v, indented when the request carries ?pretty.
func (h *StatsHandler) json(c *gin.Context, v any) {
	if _, pretty := c.GetQuery("pretty"); pretty {
		c.IndentedJSON(http.StatusOK, v)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *StatsHandler) fail(c *gin.Context, err error) {
	if entity.IsConfigError(err) {
		h.logger.Error("Request rejected by configuration error", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
