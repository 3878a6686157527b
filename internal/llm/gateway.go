// Package llm wraps the hosted LLM provider. It exposes two interaction shapes: single-shot chat
// completions used for summarization, and assistant/thread runs used for strict function calls.
// The gateway holds no per-caller state; credentials and pacing are process-wide.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// Default configuration values.
const (
	DefaultSummarizeModel  = openai.GPT3Dot5Turbo
	DefaultAssistantModel  = openai.GPT4o
	DefaultTemperature     = 0.5
	DefaultRunPollInterval = 500 * time.Millisecond
	DefaultRequestTimeout  = 2 * time.Minute
)

// Config holds the provider settings.
type Config struct {
	// APIKey is the provider API key (required).
	APIKey string

	// BaseURL overrides the provider endpoint, e.g. for a proxy or a test server.
	BaseURL string

	SummarizeModel string
	AssistantModel string
	Temperature    float32

	// RunPollInterval is the wait between run status checks.
	RunPollInterval time.Duration

	// RequestsPerSecond paces every provider call. Zero disables pacing.
	RequestsPerSecond float64
	Burst             int

	RequestTimeout time.Duration
}

// Gateway talks to the LLM provider.
type Gateway struct {
	client  *openai.Client
	limiter *rate.Limiter
	cfg     Config
	logger  *zap.Logger
	sleep   func(context.Context, time.Duration) error
}

// Option customizes the gateway.
type Option func(*Gateway)

// WithHTTPClient overrides the HTTP client used for provider calls.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = openai.NewClientWithConfig(g.clientConfig(client))
		}
	}
}

// WithSleeper overrides how run polling waits (useful for tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(g *Gateway) {
		if sleep != nil {
			g.sleep = sleep
		}
	}
}

// New creates a gateway from cfg.
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: API key is required")
	}
	if cfg.SummarizeModel == "" {
		cfg.SummarizeModel = DefaultSummarizeModel
	}
	if cfg.AssistantModel == "" {
		cfg.AssistantModel = DefaultAssistantModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.RunPollInterval <= 0 {
		cfg.RunPollInterval = DefaultRunPollInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	g := &Gateway{
		cfg:    cfg,
		logger: logging.Component(logger, "llm"),
		sleep:  sleepContext,
	}
	g.client = openai.NewClientWithConfig(g.clientConfig(&http.Client{Timeout: cfg.RequestTimeout}))

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// AssistantModel returns the model used when creating assistants.
func (g *Gateway) AssistantModel() string {
	return g.cfg.AssistantModel
}

func (g *Gateway) clientConfig(httpClient *http.Client) openai.ClientConfig {
	clientCfg := openai.DefaultConfig(g.cfg.APIKey)
	if g.cfg.BaseURL != "" {
		clientCfg.BaseURL = g.cfg.BaseURL
	}
	clientCfg.HTTPClient = httpClient
	return clientCfg
}

// wait blocks until the limiter admits another provider call.
func (g *Gateway) wait(ctx context.Context, op string) error {
	if g.limiter == nil {
		return nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return apperr.E(apperr.Upstream, op, err)
	}
	return nil
}

// upstream tags a provider failure, keeping the provider's message.
func upstream(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperr.E(apperr.Upstream, op, fmt.Errorf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message))
	}
	return apperr.E(apperr.Upstream, op, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
