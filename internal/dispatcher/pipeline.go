package dispatcher

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// Pipeline owns the inbound reader and the outbound writer for the lifetime of Run.
type Pipeline struct {
	dispatcher *Dispatcher
	workers    []*Worker
	reader     MessageReader
	writer     MessageWriter
	bufferSize int
	logger     *zap.Logger
	running    atomic.Bool
}

// NewPipeline wires a dispatcher over reader and workerCount workers publishing through writer.
func NewPipeline(dispatcher *Dispatcher, reader MessageReader, writer MessageWriter, fetcher Fetcher, builder RoadmapBuilder, workerCount, bufferSize int, logger *zap.Logger) *Pipeline {
	if workerCount < 1 {
		workerCount = 1
	}
	workers := make([]*Worker, 0, workerCount)
	for i := 1; i <= workerCount; i++ {
		workers = append(workers, NewWorker(i, fetcher, builder, writer, logger))
	}
	return &Pipeline{
		dispatcher: dispatcher,
		workers:    workers,
		reader:     reader,
		writer:     writer,
		bufferSize: bufferSize,
		logger:     logging.Component(logger, "pipeline"),
	}
}

// Running reports whether the consumer loop is active.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// Run consumes until ctx is cancelled, then releases the subscription and flushes the producer.
func (p *Pipeline) Run(ctx context.Context) error {
	p.running.Store(true)
	defer p.running.Store(false)

	messageQueue := make(chan kafka.Message, p.bufferSize)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(messageQueue)
		return p.dispatcher.Run(gctx, messageQueue)
	})
	for _, w := range p.workers {
		g.Go(func() error {
			w.Run(gctx, messageQueue)
			return nil
		})
	}

	err := g.Wait()
	p.logger.Info("stopping pipeline")
	return errors.Join(err, p.close())
}

func (p *Pipeline) close() error {
	var errs []error
	if err := p.reader.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
