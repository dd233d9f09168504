package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
)

// Fallback composes exactly two providers behind the LLMProvider interface.
// Each operation tries primary first; a *ProviderError switches to secondary
// with the same arguments. A second *ProviderError propagates unchanged.
// Non-provider errors propagate immediately without touching secondary: they
// signal a contract bug, not a service outage.
type Fallback struct {
	primary   domain.LLMProvider
	secondary domain.LLMProvider
}

// NewFallback wires primary and secondary providers together.
func NewFallback(primary, secondary domain.LLMProvider) *Fallback {
	slog.Info("llm fallback chain initialized",
		slog.String("primary", primary.Name()),
		slog.String("secondary", secondary.Name()))
	return &Fallback{primary: primary, secondary: secondary}
}

// Name identifies the composed chain.
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func callWithFallback[T any](f *Fallback, op string, call func(domain.LLMProvider) (T, error)) (T, error) {
	out, err := call(f.primary)
	if err == nil {
		observability.ProviderCall(f.primary.Name(), op, "ok")
		return out, nil
	}
	observability.ProviderCall(f.primary.Name(), op, "error")
	if !domain.IsProviderError(err) {
		return out, err
	}
	slog.Warn("primary provider failed, trying secondary",
		slog.String("primary", f.primary.Name()),
		slog.String("operation", op),
		slog.Any("error", err))
	observability.FallbackActivated(op)
	out, err = call(f.secondary)
	if err != nil {
		observability.ProviderCall(f.secondary.Name(), op, "error")
		slog.Error("secondary provider failed",
			slog.String("secondary", f.secondary.Name()),
			slog.String("operation", op),
			slog.Any("error", err))
		return out, err
	}
	observability.ProviderCall(f.secondary.Name(), op, "ok")
	return out, nil
}

// GenerateQuestions delegates with fallback.
func (f *Fallback) GenerateQuestions(ctx context.Context, p domain.Prompt) ([]domain.GeneratedQuestion, error) {
	return callWithFallback(f, "generate_questions", func(pr domain.LLMProvider) ([]domain.GeneratedQuestion, error) {
		return pr.GenerateQuestions(ctx, p)
	})
}

// GenerateFeedback delegates with fallback.
func (f *Fallback) GenerateFeedback(ctx context.Context, p domain.Prompt) (domain.EvaluationResult, error) {
	return callWithFallback(f, "generate_feedback", func(pr domain.LLMProvider) (domain.EvaluationResult, error) {
		return pr.GenerateFeedback(ctx, p)
	})
}

// GenerateCompletion delegates with fallback.
func (f *Fallback) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	return callWithFallback(f, "generate_completion", func(pr domain.LLMProvider) (string, error) {
		return pr.GenerateCompletion(ctx, prompt)
	})
}

// ParseResume delegates with fallback.
func (f *Fallback) ParseResume(ctx context.Context, text string) (domain.ResumeAnalysis, error) {
	return callWithFallback(f, "parse_resume", func(pr domain.LLMProvider) (domain.ResumeAnalysis, error) {
		return pr.ParseResume(ctx, text)
	})
}

// Build assembles the provider chain from the candidates keyed by name.
// The primary role is assigned by primaryName; usable candidates are the
// non-nil ones. One usable candidate operates alone with no fallback; none
// is a configuration error surfaced at construction time.
func Build(primaryName string, candidates map[string]domain.LLMProvider) (domain.LLMProvider, error) {
	primary, ok := candidates[primaryName]
	if !ok && primaryName != "" {
		return nil, fmt.Errorf("%w: unknown primary provider %q", domain.ErrConfiguration, primaryName)
	}
	var secondary domain.LLMProvider
	for name, p := range candidates {
		if name != primaryName && p != nil {
			secondary = p
			break
		}
	}
	switch {
	case primary != nil && secondary != nil:
		return NewFallback(primary, secondary), nil
	case primary != nil:
		slog.Warn("single llm provider, no fallback", slog.String("provider", primary.Name()))
		return primary, nil
	case secondary != nil:
		slog.Warn("primary llm provider unavailable, using fallback alone",
			slog.String("provider", secondary.Name()))
		return secondary, nil
	default:
		return nil, fmt.Errorf("%w: no usable LLM provider, set OPENAI_API_KEY or GEMINI_API_KEY", domain.ErrConfiguration)
	}
}
