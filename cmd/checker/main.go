package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"supply_api/internal/infrastructure/configloader"
	"supply_api/internal/infrastructure/httpclient"
	"supply_api/internal/pkg/logger"
)

// checker fetches every stats endpoint of a running deployment and exits non-zero when any
// cross-endpoint check fails.
func main() {
	baseURL := flag.String("url", envOr("CHECK_BASE_URL", "http://localhost:8080"), "base URL of the deployment")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := httpclient.NewStatsClient(*baseURL, *timeout, zapLogger)
	results := client.CheckDeployment(ctx, cfg.Supply.DisplayTotal, cfg.Supply.Decimals)

	failed := 0
	for _, r := range results {
		if r.OK {
			zapLogger.Info("Check passed", zap.String("check", r.Name))
			continue
		}
		failed++
		zapLogger.Error("Check failed", zap.String("check", r.Name), zap.String("detail", r.Detail))
	}

	zapLogger.Info("Deployment check finished", zap.String("url", *baseURL), zap.Int("checks", len(results)), zap.Int("failed", failed))
	if failed > 0 {
		_ = zapLogger.Sync()
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
