package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridbot/internal/config"
	"gridbot/internal/core"
	"gridbot/internal/exchange"
	"gridbot/internal/infrastructure/metrics"
	"gridbot/internal/trading"
	"gridbot/pkg/concurrency"
	"gridbot/pkg/logging"
	"gridbot/pkg/telemetry"
)

var (
	// Version information (set via build flags)
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gridbot version %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewZapLogger(cfg.System.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting gridbot",
		"version", version,
		"exchange", cfg.Exchange.Name,
		"pairs", len(cfg.Strategy.Pairs),
		"grid_levels", cfg.Strategy.GridLevels,
	)

	tel, err := telemetry.Setup("gridbot")
	if err != nil {
		logger.Warn("Telemetry setup failed, continuing without metrics", "error", err)
	}

	var metricsServer *metrics.Server
	if cfg.Telemetry.EnableMetrics {
		metricsServer = metrics.NewServer(cfg.Telemetry.MetricsPort, logger)
		metricsServer.Start()
	}

	exch, err := exchange.NewExchange(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create exchange", "error", err)
	}
	logger.Info("Exchange connected", "name", exch.GetName())

	pool := concurrency.NewWorkerPool(concurrency.PoolConfig{
		Name:        "order_submissions",
		MaxWorkers:  8,
		MaxCapacity: 256,
	}, logger)

	submitter := trading.NewSubmitter(exch, pool, logger)
	runner := trading.NewRunner(cfg.ToStrategy(), cfg.Account.ID, exch, submitter, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	interval := time.Duration(cfg.System.CycleIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Strategy loop started", "cycle_interval", interval.String())
	runCycle(ctx, runner, logger)

loop:
	for {
		select {
		case <-ticker.C:
			runCycle(ctx, runner, logger)
		case sig := <-sigCh:
			logger.Info("Shutdown signal received", "signal", sig.String())
			break loop
		}
	}

	cancel()
	pool.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if metricsServer != nil {
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", "error", err)
		}
	}
	if tel != nil {
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}
	logger.Info("Shutdown complete")
}

func runCycle(ctx context.Context, runner *trading.Runner, logger core.ILogger) {
	results := runner.RunCycle(ctx)

	var submitted, failed, errored int
	for _, r := range results {
		submitted += r.Submitted
		failed += r.Failed
		if r.Err != nil {
			errored++
		}
	}
	logger.Info("Cycle complete",
		"pairs", len(results),
		"submitted", submitted,
		"failed", failed,
		"pair_errors", errored,
	)
}
