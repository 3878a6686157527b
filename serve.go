package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/config"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/api"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/dispatcher"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/fetch"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/health"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/project"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/roadmap"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/scenario"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/store"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the roadmap pipeline and the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) error {
	gateway, err := newGateway(cfg, logger)
	if err != nil {
		return err
	}

	var (
		projectLedger project.Ledger
		apiLedger     api.Ledger
	)
	if cfg.Database.DSN != "" {
		s, err := store.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(ctx); err != nil {
			return err
		}
		projectLedger, apiLedger = s, s
		logger.Info("assistant ledger enabled")
	}

	// Event pipeline
	reader := dispatcher.NewReader(cfg.Queue)
	writer := dispatcher.NewWriter(cfg.Queue)
	fetcher := fetch.New(cfg.Fetch.Timeout, cfg.Fetch.AWSRegion, logger)
	builder := roadmap.NewBuilder(gateway, nil, logger)
	pipeline := dispatcher.NewPipeline(
		dispatcher.NewDispatcher(reader, cfg.Queue.PollTimeout, cfg.Queue.IdleSleep, logger),
		reader, writer, fetcher, builder,
		cfg.Worker.Count, cfg.Dispatcher.BufferSize, logger)
	checker := health.NewChecker(cfg.Queue.Brokers, nil, cfg.Dispatcher.HealthInterval, logger)

	// HTTP surface
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Deps{
		Projects:        project.NewManager(cfg.Project.FilesDir, gateway, projectLedger, logger),
		Scenarios:       scenario.NewOrchestrator(gateway, logger),
		Provider:        gateway,
		Ledger:          apiLedger,
		Healthy:         checker.Healthy,
		ConsumerRunning: pipeline.Running,
		MaxUploadBytes:  cfg.HTTP.MaxUploadBytes,
		Logger:          logger,
	})
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return checker.Run(gctx)
	})
	g.Go(func() error {
		if err := checker.WaitHealthy(gctx, cfg.Dispatcher.StartDelay); err != nil {
			// Never started; release the clients ourselves.
			return errors.Join(reader.Close(), writer.Close())
		}
		logger.Info("starting workers", zap.Int("workers", cfg.Worker.Count))
		return pipeline.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("stopped", zap.Error(err))
	return err
}
