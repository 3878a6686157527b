package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/roadmap"
)

// Fetcher downloads the document behind a job's URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RoadmapBuilder turns document bytes into a roadmap.
type RoadmapBuilder interface {
	Build(ctx context.Context, data []byte) (roadmap.Roadmap, error)
}

// Worker processes inbound records one at a time.
type Worker struct {
	id      int
	fetcher Fetcher
	builder RoadmapBuilder
	writer  MessageWriter
	logger  *zap.Logger
}

// NewWorker returns worker number id. All workers share writer.
func NewWorker(id int, fetcher Fetcher, builder RoadmapBuilder, writer MessageWriter, logger *zap.Logger) *Worker {
	return &Worker{
		id:      id,
		fetcher: fetcher,
		builder: builder,
		writer:  writer,
		logger:  logging.Component(logger, "worker").With(zap.Int("worker", id)),
	}
}

// Run processes records from messageQueue until it is closed or ctx is cancelled. A failed record
// is logged and dropped.
func (w *Worker) Run(ctx context.Context, messageQueue <-chan kafka.Message) {
	w.logger.Info("starting worker")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messageQueue:
			if !ok {
				return
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic while processing message", zap.Any("panic", r), zap.Int64("offset", msg.Offset))
		}
	}()

	if err := w.Process(ctx, msg); err != nil {
		w.logger.Error("error processing message",
			zap.String("kind", string(apperr.KindOf(err))),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
	}
}

// Process decodes one inbound record, builds the roadmap and publishes the result keyed by lecture id.
func (w *Worker) Process(ctx context.Context, msg kafka.Message) error {
	if !utf8.Valid(msg.Value) {
		return apperr.Errorf(apperr.Decode, "decode job", "payload is not valid UTF-8")
	}
	var work Work
	if err := json.Unmarshal(msg.Value, &work); err != nil {
		return apperr.E(apperr.Decode, "decode job", err)
	}
	if !work.IsValid() {
		return apperr.Errorf(apperr.Decode, "decode job", "lectureId and fileName are required")
	}

	logger := w.logger.With(
		zap.String(logging.FieldLectureID, work.LectureID.String()),
		zap.String(logging.FieldFileURL, work.FileURL))
	logger.Info("processing roadmap job")

	data, err := w.fetcher.Fetch(ctx, work.FileURL)
	if err != nil {
		return err
	}

	rm, err := w.builder.Build(ctx, data)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(Result{LectureID: work.LectureID, FileURL: work.FileURL, Roadmap: rm})
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if err := w.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(work.LectureID.String()),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}

	logger.Info("roadmap published", zap.Int("sections", len(rm.Sections)))
	return nil
}
