// Command worker consumes background resume-ingestion tasks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	asynqadp "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/queue/asynq"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/repo/postgres"
	localext "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/textextractor/local"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/providers"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := observability.SetupLogger("ai-mock-interviewer-worker", cfg.AppEnv, cfg.IsDev())
	slog.SetDefault(logger)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		slog.Error("schema setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	provider, err := providers.Build(ctx, cfg)
	if err != nil {
		slog.Error("llm provider construction failed", slog.Any("error", err))
		os.Exit(1)
	}

	// The worker never enqueues, so it carries no queue client.
	ingest := usecase.NewIngestService(postgres.NewResumeRepo(pool), localext.New(), provider, nil, cfg.IngestSyncTimeout)

	worker, err := asynqadp.NewWorker(cfg.RedisURL, ingest)
	if err != nil {
		slog.Error("worker construction failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := worker.Start(); err != nil {
		slog.Error("worker start failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("worker started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	worker.Stop()
	slog.Info("worker stopped")
}
