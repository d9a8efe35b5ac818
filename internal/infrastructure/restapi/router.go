package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RouterOptions configures the middleware stack and optional routes.
type RouterOptions struct {
	Logger *zap.Logger
	// RateLimit is requests per second across all clients; 0 disables limiting.
	RateLimit float64
	RateBurst int

	SwaggerEnabled  bool
	SwaggerPath     string
	SwaggerSpecFile string
}

// SetupRouter builds the gin engine with every route registered.
func SetupRouter(h *StatsHandler, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(methodNotAllowed)
	router.NoRoute(notFound)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(opts.Logger.Named("http")))
	router.Use(gin.Recovery())
	router.Use(MetricsMiddleware())
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		router.Use(RateLimitMiddleware(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
	}

	router.GET("/circulating", h.Circulating)
	router.GET("/pool", h.Pool)
	router.GET("/totalSupply", h.TotalSupply)
	router.GET("/total", h.Total)
	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.SwaggerEnabled {
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerSpecFile)
		router.GET(opts.SwaggerPath+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.yaml")))
		opts.Logger.Info("Swagger UI enabled", zap.String("path", opts.SwaggerPath+"/index.html"))
	}

	return router
}
