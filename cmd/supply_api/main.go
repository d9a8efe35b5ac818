package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"supply_api/internal/app/service"
	"supply_api/internal/infrastructure/configloader"
	"supply_api/internal/infrastructure/holderloader"
	clientprovider "supply_api/internal/infrastructure/network/client"
	networkdefinition "supply_api/internal/infrastructure/network/definition"
	"supply_api/internal/infrastructure/network/fallback"
	"supply_api/internal/infrastructure/restapi"
	"supply_api/internal/pkg/logger"
	"supply_api/internal/pkg/metrics"
	"supply_api/internal/pkg/utils"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	configloader.LoadEnvFiles()
	cfg, err := configloader.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if lvl, lerr := logrus.ParseLevel(cfg.Logging.Level); lerr == nil {
		logrus.SetLevel(lvl)
	}

	appLogger := logger.NewSlogAdapter()
	snap, err := configloader.Resolve(cfg, holderloader.NewHolderFileLoader(cfg.Supply.HolderFile, appLogger))
	if err != nil {
		zapLogger.Fatal("Failed to resolve configuration", zap.Error(err))
	}

	metrics.MustRegisterMetrics()

	def := networkdefinition.Ethereum
	def.ChainID = cfg.Network.ChainID
	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(
		logger.NewZapAdapter(zapLogger.Named("network_definition")), def, cfg.Network.RPCURL, cfg.Network.Endpoints)
	network := netDefProvider.Definition()

	connProvider := clientprovider.NewEVMClientProvider(clientprovider.ProviderConfig{
		ExpectedChainID: network.ChainID,
		DialTimeout:     time.Duration(cfg.Network.DialTimeoutMs) * time.Millisecond,
		IdleTTL:         time.Duration(cfg.Network.ConnectionIdleTTLSeconds) * time.Second,
	}, zapLogger)
	executor := fallback.NewExecutor(connProvider, zapLogger)

	supplySvc := service.NewSupplyService(service.SupplyConfig{
		Token:            snap.Token,
		Excluded:         snap.Excluded(),
		FixedTotalSupply: snap.FixedTotalSupply,
	}, executor, netDefProvider, zapLogger)
	poolSvc := service.NewPoolService(service.PoolConfig{
		Token:    snap.Token,
		Pair:     snap.Pair,
		Partner:  snap.WrappedNative,
		Treasury: snap.Treasury,
	}, executor, netDefProvider, zapLogger)

	handler := restapi.NewStatsHandler(supplySvc, poolSvc, restapi.HandlerConfig{
		Cache:            cfg.Cache,
		DisplayTotal:     cfg.Supply.DisplayTotal,
		Notes:            cfg.Supply.Notes,
		Decimals:         cfg.Supply.Decimals,
		ChainID:          network.ChainID,
		RPCEndpoints:     len(netDefProvider.Endpoints()),
		FixedTotalSupply: snap.FixedTotalSupply != nil,
		ConfigErrors:     snap.ConfigErrors(),
	}, zapLogger)

	gin.SetMode(gin.ReleaseMode)
	router := restapi.SetupRouter(handler, restapi.RouterOptions{
		Logger:          zapLogger,
		RateLimit:       cfg.Server.RateLimit,
		RateBurst:       cfg.Server.RateBurst,
		SwaggerEnabled:  cfg.Swagger.Enabled,
		SwaggerPath:     cfg.Swagger.Path,
		SwaggerSpecFile: cfg.Swagger.SpecFile,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port),
			zap.String("network", network.Name),
			zap.String("token", snap.Token.String()),
			zap.Strings("rpc_endpoints", utils.RedactURLs(netDefProvider.Endpoints())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
