package asynqadp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

// Worker consumes ingestion tasks and drives the pipeline.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker constructs the asynq server and registers the ingest handler.
// A validation failure is terminal (asynq.SkipRetry): re-running the
// pipeline on the same file cannot make missing mandatory fields appear.
func NewWorker(redisURL string, ingest usecase.IngestService) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}
	srv := asynq.NewServer(opt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskIngestResume, func(ctx context.Context, t *asynq.Task) error {
		tracer := otel.Tracer("queue.worker")
		ctx, span := tracer.Start(ctx, "IngestResume")
		defer span.End()
		var p domain.IngestTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		slog.Info("ingest task started", slog.String("resume_id", p.ResumeID))
		if err := ingest.Process(ctx, p.ResumeID); err != nil {
			observability.IngestJob("queued", "error")
			slog.Error("ingest task failed",
				slog.String("resume_id", p.ResumeID), slog.Any("error", err))
			if errors.Is(err, domain.ErrValidation) {
				return asynq.SkipRetry
			}
			return err
		}
		observability.IngestJob("queued", "ok")
		slog.Info("ingest task completed", slog.String("resume_id", p.ResumeID))
		return nil
	})

	return &Worker{server: srv, mux: mux}, nil
}

// Start runs the server until Stop is called.
func (w *Worker) Start() error { return w.server.Start(w.mux) }

// Stop shuts the server down gracefully.
func (w *Worker) Stop() { w.server.Shutdown() }
