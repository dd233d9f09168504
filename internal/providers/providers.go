// Package providers assembles the LLM provider chain from configuration.
package providers

import (
	"context"
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	geminicli "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/gemini"
	openaicli "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/openai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Build constructs every backend with configured credentials and wires them
// into the fallback chain. Returns ErrConfiguration when no backend is
// usable.
func Build(ctx context.Context, cfg config.Config) (domain.LLMProvider, error) {
	// Both names are always present so the factory can tell an unknown
	// primary name apart from a merely unconfigured backend.
	candidates := map[string]domain.LLMProvider{"openai": nil, "gemini": nil}

	if cfg.OpenAIAPIKey != "" {
		cli, err := openaicli.New(cfg.OpenAIAPIKey, openaicli.Options{
			BaseURL:       cfg.OpenAIBaseURL,
			Model:         cfg.OpenAIModel,
			Timeout:       cfg.LLMTimeout,
			MaxRetries:    cfg.LLMMaxRetries,
			RetryInterval: cfg.LLMRetryInterval,
		})
		if err != nil {
			return nil, err
		}
		candidates["openai"] = cli
	} else {
		slog.Info("openai provider skipped", slog.String("reason", "OPENAI_API_KEY is empty"))
	}

	if cfg.GeminiAPIKey != "" {
		cli, err := geminicli.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		candidates["gemini"] = cli
	} else {
		slog.Info("gemini provider skipped", slog.String("reason", "GEMINI_API_KEY is empty"))
	}

	return ai.Build(cfg.LLMPrimaryProvider, candidates)
}
