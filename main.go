package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/config"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/helpers"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/llm"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

type rootOptions struct {
	configPath string
	envFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:          "roadmap-ai",
		Short:        "Lecture roadmap pipeline and project QA assistant service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "Path to an optional YAML config file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to an optional .env file")

	root.AddCommand(serve)
	root.AddCommand(newRoadmapCommand(opts))
	root.AddCommand(newFilesCommand(opts))
	return root
}

// bootstrap loads the environment and configuration and builds the logger.
func (o *rootOptions) bootstrap() (*config.AppConfig, *zap.Logger, error) {
	envErr := helpers.LoadEnv(o.envFile)

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	if envErr != nil {
		logger.Info("env file not loaded", zap.String("path", o.envFile), zap.Error(envErr))
	}
	logger.Info("configuration loaded", zap.String("env", cfg.Env), zap.Strings("brokers", cfg.Queue.Brokers))
	return cfg, logger, nil
}

func newGateway(cfg *config.AppConfig, logger *zap.Logger) (*llm.Gateway, error) {
	return llm.New(llm.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		SummarizeModel:    cfg.OpenAI.SummarizeModel,
		AssistantModel:    cfg.OpenAI.AssistantModel,
		Temperature:       cfg.OpenAI.Temperature,
		RunPollInterval:   cfg.OpenAI.RunPollInterval,
		RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		Burst:             cfg.OpenAI.Burst,
		RequestTimeout:    cfg.OpenAI.RequestTimeout,
	}, logger)
}
