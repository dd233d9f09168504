// Command server starts the mock-interview HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpserver "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/httpserver"
	asynqadp "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/queue/asynq"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/repo/postgres"
	localext "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/textextractor/local"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/app"
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
	logger := observability.SetupLogger("ai-mock-interviewer", cfg.AppEnv, cfg.IsDev())
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

	resumeRepo := postgres.NewResumeRepo(pool)
	sessionRepo := postgres.NewSessionRepo(pool)
	questionRepo := postgres.NewQuestionRepo(pool)

	provider, err := providers.Build(ctx, cfg)
	if err != nil {
		slog.Error("llm provider construction failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("llm provider ready", slog.String("provider", provider.Name()))

	queue, err := asynqadp.New(cfg.RedisURL, cfg.IngestMaxRetries)
	if err != nil {
		slog.Error("queue client connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = queue.Close() }()

	ingest := usecase.NewIngestService(resumeRepo, localext.New(), provider, queue, cfg.IngestSyncTimeout)
	interviews := usecase.NewInterviewService(sessionRepo, questionRepo, resumeRepo, provider)

	srv := httpserver.NewServer(interviews, ingest, cfg.UploadDir, cfg.MaxUploadMB)
	handler := app.BuildRouter(cfg, srv)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		slog.Info("http server listening", slog.Int("port", cfg.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
	slog.Info("server stopped")
}
