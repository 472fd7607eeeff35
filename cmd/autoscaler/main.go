package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"autoscaler/internal/autoscaler"
	"autoscaler/internal/clock"
	"autoscaler/internal/config"
	"autoscaler/internal/logger"
	"autoscaler/internal/metricsclient"
	"autoscaler/internal/persistence"
	"autoscaler/internal/runtimeadapter"
	"autoscaler/internal/shutdown"
	"autoscaler/internal/statestore"
)

const metricsCacheTTL = 3 * time.Second

var (
	configPath = flag.String("config", "", "Path to the autoscaler config file (yaml/json/toml)")
	verbosity  = flag.String("verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
)

func main() {
	flag.Parse()
	logger.Setup(*verbosity)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	runtime, err := runtimeadapter.NewDockerAdapter()
	if err != nil {
		logrus.Fatalf("failed to connect to container runtime: %v", err)
	}

	metrics, err := metricsclient.New(cfg.MetricsBackendURL, metricsCacheTTL)
	if err != nil {
		logrus.Fatalf("failed to connect to metrics backend: %v", err)
	}

	var layer *persistence.Layer
	if cfg.Persistence.Enabled {
		store, err := statestore.NewRedisStore(context.Background(), cfg.Persistence.StoreURL, "", 0)
		if err != nil {
			logrus.Fatalf("failed to connect to state store: %v", err)
		}

		layer = persistence.New(store, cfg.Persistence.KeyPrefix, cfg.Persistence.BatchSize, int64(cfg.Persistence.SnapshotTTL/time.Second))
	}

	scaler := autoscaler.New(runtime, metrics, layer, clock.NewReal(), cfg)

	ctx := context.Background()
	scaler.Recover(ctx, nil)

	logrus.Info("autoscaler control plane started")

	shutdown.WaitForSignal(func() {
		scaler.Shutdown()
	})
}
