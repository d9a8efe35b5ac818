package restapi

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"supply_api/internal/config"
	"supply_api/internal/domain/entity"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	token    = common.HexToAddress("0x20F58aC708D2ebBA5f4B6f1687073f631714f9F3")
	pair     = common.HexToAddress("0x87D0F6e909C459B1dA253F1A9570cceC8F59Bb91")
	weth     = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	treasury = common.HexToAddress("0x5aBB817aaE8C17fBc97D2E2b4f08B35457aA1405")
	deployer = common.HexToAddress("0x57cBC130C4556F080C55e54da54bB58CCD9A3e71")
	asOf     = time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.UTC)
)

type fakeSupply struct {
	circulating *entity.CirculatingSupply
	total       *entity.TotalSupply
	err         error
	calls       int
}

func (f *fakeSupply) Circulating(context.Context) (*entity.CirculatingSupply, error) {
	f.calls++
	return f.circulating, f.err
}

func (f *fakeSupply) TotalSupply(context.Context) (*entity.TotalSupply, error) {
	f.calls++
	return f.total, f.err
}

type fakePool struct {
	snap  *entity.PoolSnapshot
	err   error
	calls int
}

func (f *fakePool) Pool(context.Context) (*entity.PoolSnapshot, error) {
	f.calls++
	return f.snap, f.err
}

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func circulatingFixture() *entity.CirculatingSupply {
	excluded := []entity.HolderBalance{
		{Address: treasury, Balance: big.NewInt(200)},
		{Address: deployer, Balance: big.NewInt(100)},
	}
	circ, _ := entity.ComputeCirculating(big.NewInt(1000), excluded)
	return &entity.CirculatingSupply{Token: token, Total: big.NewInt(1000), Excluded: excluded, Circulating: circ, ComputedAt: asOf}
}

func poolFixture() *entity.PoolSnapshot {
	return &entity.PoolSnapshot{
		Token:          token,
		Partner:        weth,
		Pair:           pair,
		Treasury:       treasury,
		ReserveToken:   e18(1_000_000),
		ReservePartner: new(big.Int).Mul(big.NewInt(14), new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil)),
		LPTreasury:     e18(1),
		LPTotal:        e18(4),
		ComputedAt:     asOf,
	}
}

func newTestRouter(t *testing.T, supply *fakeSupply, pool *fakePool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	h := NewStatsHandler(supply, pool, HandlerConfig{
		Cache:        cfg.Cache,
		DisplayTotal: cfg.Supply.DisplayTotal,
		Notes:        cfg.Supply.Notes,
		Decimals:     18,
		ChainID:      1,
		RPCEndpoints: 3,
	}, zaptest.NewLogger(t))
	return SetupRouter(h, RouterOptions{Logger: zaptest.NewLogger(t)})
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCirculatingWei(t *testing.T) {
	r := newTestRouter(t, &fakeSupply{circulating: circulatingFixture()}, &fakePool{})

	w := do(r, http.MethodGet, "/circulating?format=wei")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "700", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "s-maxage=300, stale-while-revalidate=600", w.Header().Get("Cache-Control"))
}

func TestCirculatingHumanAndDefault(t *testing.T) {
	r := newTestRouter(t, &fakeSupply{circulating: circulatingFixture()}, &fakePool{})

	w := do(r, http.MethodGet, "/circulating?format=HUMAN")
	require.Equal(t, http.StatusOK, w.Code)
	var human map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &human))
	assert.Equal(t, "0.0000000000000007", human["circulatingSupply"])
	assert.Equal(t, "0.000000000000001", human["totalSupply"])
	assert.Equal(t, []any{treasury.Hex(), deployer.Hex()}, human["excludedAddresses"])
	assert.Equal(t, "2024-05-01T12:30:00.123Z", human["updatedAt"])
	assert.Equal(t, config.DefaultNotes, human["notes"])
	assert.NotContains(t, human, "raw")

	w = do(r, http.MethodGet, "/circulating")
	require.Equal(t, http.StatusOK, w.Code)
	var full CirculatingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &full))
	assert.Equal(t, "0.0000000000000007", full.CirculatingSupply)
	assert.Equal(t, "700", full.Raw.CirculatingSupply)
	assert.Equal(t, "1000", full.Raw.TotalSupply)
	assert.Equal(t, []ExcludedBalance{{Address: treasury.Hex(), Balance: "200"}, {Address: deployer.Hex(), Balance: "100"}}, full.Raw.Excluded)
}

func TestUnknownFormatFallsBackToDefault(t *testing.T) {
	supply := &fakeSupply{circulating: circulatingFixture(), total: &entity.TotalSupply{Total: e18(1_000_000_000)}}
	pool := &fakePool{snap: poolFixture()}
	r := newTestRouter(t, supply, pool)

	for _, path := range []string{"/circulating", "/pool", "/totalSupply"} {
		t.Run(path, func(t *testing.T) {
			plain := do(r, http.MethodGet, path)
			for _, f := range []string{"xml", "raw2", "weii"} {
				odd := do(r, http.MethodGet, path+"?format="+f)
				assert.Equal(t, plain.Code, odd.Code)
				assert.Equal(t, plain.Body.String(), odd.Body.String(), "format=%s", f)
			}
		})
	}
}

func TestPoolShapes(t *testing.T) {
	r := newTestRouter(t, &fakeSupply{}, &fakePool{snap: poolFixture()})

	w := do(r, http.MethodGet, "/pool?format=human")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s-maxage=60, stale-while-revalidate=600", w.Header().Get("Cache-Control"))
	var human PoolHumanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &human))
	assert.Equal(t, token.Hex(), human.Token)
	assert.Equal(t, pair.Hex(), human.Pair)
	assert.Equal(t, "1000000.0", human.ReserveXalara)
	assert.Equal(t, "1.4", human.ReserveEth)
	assert.Equal(t, "0.0000014", human.PriceEthPerXalara)
	assert.Equal(t, PoolLP{Safe: "1.0", Total: "4.0", SafeSharePct: "25"}, human.LP)
	assert.Equal(t, "2024-05-01T12:30:00.123Z", human.AsOf)

	w = do(r, http.MethodGet, "/pool?format=raw")
	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.ElementsMatch(t, []string{"token", "pair", "raw", "asOf"}, keys(raw))
	assert.Equal(t, map[string]any{
		"reserveXalara": e18(1_000_000).String(),
		"reserveEth":    "1400000000000000000",
		"lpSafe":        e18(1).String(),
		"lpTotal":       e18(4).String(),
	}, raw["raw"])

	w = do(r, http.MethodGet, "/pool")
	require.Equal(t, http.StatusOK, w.Code)
	var full PoolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &full))
	assert.Equal(t, human, full.PoolHumanResponse)
	assert.Equal(t, "1400000000000000000", full.Raw.ReserveEth)
}

func TestPoolPrettyIsIndented(t *testing.T) {
	r := newTestRouter(t, &fakeSupply{}, &fakePool{snap: poolFixture()})
	w := do(r, http.MethodGet, "/pool?pretty")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\n    \"token\"")
}

func TestTotalSupply(t *testing.T) {
	supply := &fakeSupply{total: &entity.TotalSupply{Total: e18(1_000_000_000)}}
	r := newTestRouter(t, supply, &fakePool{})

	w := do(r, http.MethodGet, "/totalSupply?format=wei")
	assert.Equal(t, "1000000000000000000000000000", w.Body.String())
	assert.Equal(t, "s-maxage=60, stale-while-revalidate=600", w.Header().Get("Cache-Control"))

	w = do(r, http.MethodGet, "/totalSupply")
	assert.Equal(t, "1000000000.0", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestTotalIsLiteralWithoutRPC(t *testing.T) {
	supply := &fakeSupply{err: errors.New("network down")}
	pool := &fakePool{err: errors.New("network down")}
	r := newTestRouter(t, supply, pool)

	w := do(r, http.MethodGet, "/total")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000000000", w.Body.String())
	assert.Equal(t, "s-maxage=86400, stale-while-revalidate=604800", w.Header().Get("Cache-Control"))
	assert.Zero(t, supply.calls)
	assert.Zero(t, pool.calls)
}

func TestNonGetRejectedBeforeWork(t *testing.T) {
	supply := &fakeSupply{circulating: circulatingFixture()}
	pool := &fakePool{snap: poolFixture()}
	r := newTestRouter(t, supply, pool)

	for _, path := range []string{"/circulating", "/pool", "/totalSupply", "/total"} {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := do(r, method, path)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", method, path)
			assert.Equal(t, "GET", w.Header().Get("Allow"))
			assert.JSONEq(t, `{"error":"method not allowed"}`, w.Body.String())
		}
	}
	assert.Zero(t, supply.calls)
	assert.Zero(t, pool.calls)
}

func TestFailuresBecome500(t *testing.T) {
	cfgErr := entity.NewAddressRef("pair", "0x12").Err()
	exhausted := fmt.Errorf("pool: %w: %w", entity.ErrAllEndpointsFailed, entity.ErrUnexpectedPairOrdering)

	r := newTestRouter(t, &fakeSupply{err: cfgErr}, &fakePool{err: exhausted})

	w := do(r, http.MethodGet, "/circulating?format=wei")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, cfgErr.Error(), body.Error)

	w = do(r, http.MethodGet, "/pool")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body.Error, "pool: all RPC endpoints failed"))
}

func TestHealthzAndMetrics(t *testing.T) {
	r := newTestRouter(t, &fakeSupply{}, &fakePool{})

	w := do(r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","chainId":1,"rpcEndpoints":3,"fixedTotalSupply":false}`, w.Body.String())

	w = do(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStatsHandler(&fakeSupply{}, &fakePool{}, HandlerConfig{DisplayTotal: "1000000000"}, zaptest.NewLogger(t))
	r := SetupRouter(h, RouterOptions{Logger: zaptest.NewLogger(t), RateLimit: 0.001, RateBurst: 1})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/total").Code)
	w := do(r, http.MethodGet, "/total")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
