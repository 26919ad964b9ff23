package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-bridge/internal/config"
	"github.com/rxtech-lab/argo-bridge/internal/dashboard"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/monitor"
	"github.com/rxtech-lab/argo-bridge/internal/server"
	"github.com/rxtech-lab/argo-bridge/internal/version"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// serveAction runs the API server, the minute ticker, the config watcher, the optional metrics
// listener and, unless headless, the dashboard. Quitting the dashboard stops the server.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	headless := cmd.Bool("headless")

	cfg, loader, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithOptions(logger.Options{
		FilePath:   cfg.Log.File,
		Level:      cfg.Log.Level,
		Console:    headless,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return err
	}

	defer func() { _ = log.Sync() }()

	loader.SetLogger(log)

	store, err := config.NewStore(cfg.Runtime, log)
	if err != nil {
		return err
	}

	source, err := buildDataSource(cfg.DataSource, log)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitor.NewMetrics(registry)

	requestMonitor := monitor.NewRequestMonitor(monitor.Options{
		LogCapacity:   cfg.Monitor.LogCapacity,
		RecentEntries: cfg.Monitor.RecentEntries,
	}, metrics, log)
	ticker := monitor.NewMinuteTicker(requestMonitor, cfg.Monitor.ResetInterval, nil, log)

	srv := server.NewServer(server.Options{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
		StreamInterval:  cfg.Dashboard.PollInterval,
	}, source, store, requestMonitor, metrics, log)

	// bind before starting anything else so a busy port fails fast
	if err := srv.Listen(); err != nil {
		return err
	}

	loader.WatchRuntime(store)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Starting bridge",
		zap.String("version", version.GetVersion()),
		zap.String("provider", source.Name()),
		zap.String("addr", srv.Addr()),
		zap.Int("filter_window_days", store.FilterWindowDays()),
		zap.Bool("headless", headless),
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		return srv.Run(ctx)
	})

	p.Go(func(ctx context.Context) error {
		ticker.Run(ctx)

		return nil
	})

	if cfg.Metrics.Enabled {
		p.Go(func(ctx context.Context) error {
			return runMetrics(ctx, cfg.Metrics.Addr, registry, log)
		})
	}

	if !headless {
		model := dashboard.NewModel(
			dashboard.NewMonitorClient(cfg.Dashboard.MonitorURL, cfg.Dashboard.RequestTimeout),
			dashboard.NewPublicIPResolver(cfg.Dashboard.PublicIPURL, cfg.Dashboard.PublicIPTimeout),
			dashboard.Options{
				PollInterval: cfg.Dashboard.PollInterval,
				Controller:   store,
			},
		)

		p.Go(func(ctx context.Context) error {
			defer cancel()

			return dashboard.Run(ctx, model)
		})
	}

	return p.Wait()
}

// runMetrics serves Prometheus metrics until ctx is done.
func runMetrics(ctx context.Context, addr string, registry *prometheus.Registry, log *logger.Logger) error {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	metricsServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- metricsServer.ListenAndServe()
	}()

	log.Info("Metrics listener started", zap.String("addr", addr))

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return metricsServer.Shutdown(shutdownCtx)
}
