package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/decide-lab/launch-interceptor/internal/audit"
	"github.com/decide-lab/launch-interceptor/internal/config"
	"github.com/decide-lab/launch-interceptor/internal/metrics"
	"github.com/decide-lab/launch-interceptor/internal/rpc"
)

// #region serve
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve DecideService over gRPC with health and /metrics",
		Long: `serve reads DECIDE_ADDR, DECIDE_DB, DECIDE_METRICS_ADDR, DECIDE_DEBUG and
DECIDE_BATCH_LIMIT from the environment; flags override them. Set DECIDE_DB
or DECIDE_METRICS_ADDR to "off" to disable the decision log or /metrics.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Addr, _ = f.GetString("addr")
			}
			if f.Changed("db") {
				v, _ := f.GetString("db")
				cfg.DBPath = config.Optional(v)
			}
			if f.Changed("metrics-addr") {
				v, _ := f.GetString("metrics-addr")
				cfg.MetricsAddr = config.Optional(v)
			}
			if f.Changed("debug") {
				cfg.Debug, _ = f.GetBool("debug")
			}
			if f.Changed("batch-limit") {
				cfg.BatchLimit, _ = f.GetInt("batch-limit")
			}
			if cfg.BatchLimit < 1 {
				return usagef("serve: --batch-limit must be >= 1")
			}

			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			lis, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.Addr, err)
			}
			return serve(cmd.Context(), cfg, lis, logger)
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "gRPC listen address (DECIDE_ADDR)")
	f.String("db", "", "SQLite decision log, empty or off disables (DECIDE_DB)")
	f.String("metrics-addr", "", "metrics listen address, empty or off disables (DECIDE_METRICS_ADDR)")
	f.Bool("debug", false, "debug logging (DECIDE_DEBUG)")
	f.Int("batch-limit", 0, "concurrent evaluations per batch (DECIDE_BATCH_LIMIT)")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// serve runs the gRPC server on lis, plus /metrics when enabled, until ctx
// ends or a listener fails.
func serve(ctx context.Context, cfg config.Config, lis net.Listener, logger *zap.Logger) error {
	rec := metrics.New()
	opts := []rpc.Option{rpc.WithMetrics(rec), rpc.WithBatchLimit(cfg.BatchLimit)}

	if cfg.AuditEnabled() {
		store, err := audit.Open(cfg.DBPath)
		if err != nil {
			lis.Close()
			return fmt.Errorf("open decision log: %w", err)
		}
		defer store.Close()
		opts = append(opts, rpc.WithDecisionLog(store))
	}

	gs := rpc.NewGRPCServer(logger)
	hs := rpc.Register(gs, rpc.NewServer(logger, opts...))

	var httpSrv *http.Server
	if cfg.MetricsEnabled() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", rec.Handler())
		httpSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving",
			zap.String("addr", lis.Addr().String()),
			zap.Bool("audit", cfg.AuditEnabled()),
			zap.String("metrics_addr", cfg.MetricsAddr),
		)
		if err := gs.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	if httpSrv != nil {
		g.Go(func() error {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics serve: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		hs.Shutdown()
		gs.GracefulStop()
		if httpSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		}
		return nil
	})
	return g.Wait()
}

// #endregion serve
