// Package health tracks whether the event bus is reachable and gates pipeline start on it.
package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// Probe checks a single broker address.
type Probe func(ctx context.Context, broker string) error

// DialProbe opens and closes a connection to the broker.
func DialProbe(timeout time.Duration) Probe {
	dialer := &kafka.Dialer{Timeout: timeout}
	return func(ctx context.Context, broker string) error {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Checker periodically probes the brokers. The bus counts as healthy while at least one broker
// answers.
type Checker struct {
	brokers  []string
	probe    Probe
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	healthy bool

	readyOnce sync.Once
	ready     chan struct{}
}

func NewChecker(brokers []string, probe Probe, interval time.Duration, logger *zap.Logger) *Checker {
	if probe == nil {
		probe = DialProbe(5 * time.Second)
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Checker{
		brokers:  brokers,
		probe:    probe,
		interval: interval,
		logger:   logging.Component(logger, "health"),
		ready:    make(chan struct{}),
	}
}

// Healthy reports the result of the latest check.
func (c *Checker) Healthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

// Check probes the brokers once and records the result.
func (c *Checker) Check(ctx context.Context) bool {
	var errs []error
	healthy := false
	for _, broker := range c.brokers {
		if err := c.probe(ctx, broker); err != nil {
			errs = append(errs, err)
			continue
		}
		healthy = true
		break
	}

	c.mu.Lock()
	changed := c.healthy != healthy
	c.healthy = healthy
	c.mu.Unlock()

	if changed || !healthy {
		c.logger.Info("bus health checked", zap.Bool("healthy", healthy), zap.Error(errors.Join(errs...)))
	}
	if healthy {
		c.readyOnce.Do(func() { close(c.ready) })
	}
	return healthy
}

// Run checks immediately and then once per interval until ctx is done.
func (c *Checker) Run(ctx context.Context) error {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// WaitHealthy blocks until the first successful check, then waits startDelay more.
func (c *Checker) WaitHealthy(ctx context.Context, startDelay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ready:
	}
	if startDelay <= 0 {
		return nil
	}
	c.logger.Info("waiting before starting workers", zap.Duration("start_delay", startDelay))
	timer := time.NewTimer(startDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
