// Package dispatcher runs the roadmap event pipeline: a dispatcher polls the inbound topic and
// hands records to workers, which fetch the document, build its roadmap and publish the result.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/config"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// MessageReader consumes the inbound topic. ReadMessage commits the offset of the record it returns.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// MessageWriter publishes to the outbound topic. WriteMessages returns once the records are acknowledged.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewReader joins the consumer group on the inbound topic, starting from the earliest offset
// when the group has none.
func NewReader(cfg config.QueueConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.InboundTopic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     cfg.PollTimeout,
	})
}

// NewWriter returns the process-wide producer for the outbound topic. Records are partitioned by key.
func NewWriter(cfg config.QueueConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OutboundTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Dispatcher polls the inbound topic and feeds records to the workers.
type Dispatcher struct {
	reader      MessageReader
	pollTimeout time.Duration
	idleSleep   time.Duration
	logger      *zap.Logger
	sleep       func(context.Context, time.Duration) error
}

// NewDispatcher returns a dispatcher that waits up to pollTimeout per poll and idleSleep after an
// empty poll.
func NewDispatcher(reader MessageReader, pollTimeout, idleSleep time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		reader:      reader,
		pollTimeout: pollTimeout,
		idleSleep:   idleSleep,
		logger:      logging.Component(logger, "dispatcher"),
		sleep:       sleepContext,
	}
}

// Run polls until ctx is cancelled. Poll errors are logged and skipped.
func (d *Dispatcher) Run(ctx context.Context, messageQueue chan<- kafka.Message) error {
	d.logger.Info("starting dispatcher")
	for {
		if ctx.Err() != nil {
			return nil
		}

		pollCtx, cancel := context.WithTimeout(ctx, d.pollTimeout)
		msg, err := d.reader.ReadMessage(pollCtx)
		cancel()

		switch {
		case err == nil:
			d.logger.Debug("message received",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			select {
			case messageQueue <- msg:
			case <-ctx.Done():
				return nil
			}
			continue
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, io.EOF):
			return fmt.Errorf("inbound reader closed: %w", err)
		case !errors.Is(err, context.DeadlineExceeded):
			d.logger.Error("error receiving message", zap.Error(err))
		}

		if err := d.sleep(ctx, d.idleSleep); err != nil {
			return nil
		}
	}
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
