package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

type fakeProvider struct {
	name  string
	calls int
	err   error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GenerateQuestions(context.Context, domain.Prompt) ([]domain.GeneratedQuestion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.GeneratedQuestion{{Text: "from " + f.name}}, nil
}

func (f *fakeProvider) GenerateFeedback(context.Context, domain.Prompt) (domain.EvaluationResult, error) {
	f.calls++
	if f.err != nil {
		return domain.EvaluationResult{}, f.err
	}
	return domain.EvaluationResult{Summary: "from " + f.name}, nil
}

func (f *fakeProvider) GenerateCompletion(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "from " + f.name, nil
}

func (f *fakeProvider) ParseResume(context.Context, string) (domain.ResumeAnalysis, error) {
	f.calls++
	if f.err != nil {
		return domain.ResumeAnalysis{}, f.err
	}
	return domain.ResumeAnalysis{Name: "from " + f.name}, nil
}

func TestFallbackPrimarySucceeds(t *testing.T) {
	t.Parallel()
	primary := &fakeProvider{name: "openai"}
	secondary := &fakeProvider{name: "gemini"}
	chain := NewFallback(primary, secondary)

	out, err := chain.GenerateQuestions(context.Background(), domain.Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "from openai", out[0].Text)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, secondary.calls)
	assert.Equal(t, "openai+gemini", chain.Name())
}

func TestFallbackSwitchesOnProviderError(t *testing.T) {
	t.Parallel()
	primary := &fakeProvider{name: "openai", err: domain.NewProviderError("openai", errors.New("rate limited"))}
	secondary := &fakeProvider{name: "gemini"}
	chain := NewFallback(primary, secondary)

	out, err := chain.GenerateFeedback(context.Background(), domain.Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "from gemini", out.Summary)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackSkipsSecondaryOnNonProviderError(t *testing.T) {
	t.Parallel()
	ctxErr := context.Canceled
	primary := &fakeProvider{name: "openai", err: ctxErr}
	secondary := &fakeProvider{name: "gemini"}
	chain := NewFallback(primary, secondary)

	_, err := chain.ParseResume(context.Background(), "text")
	require.ErrorIs(t, err, ctxErr)
	assert.Zero(t, secondary.calls)
}

func TestFallbackBothFail(t *testing.T) {
	t.Parallel()
	primary := &fakeProvider{name: "openai", err: domain.NewProviderError("openai", errors.New("down"))}
	secondaryErr := domain.NewProviderError("gemini", errors.New("also down"))
	secondary := &fakeProvider{name: "gemini", err: secondaryErr}
	chain := NewFallback(primary, secondary)

	_, err := chain.GenerateCompletion(context.Background(), "hi")
	require.Error(t, err)
	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "gemini", pe.Provider)
}

func TestBuildVariants(t *testing.T) {
	t.Parallel()
	openai := &fakeProvider{name: "openai"}
	gemini := &fakeProvider{name: "gemini"}

	t.Run("both configured", func(t *testing.T) {
		t.Parallel()
		p, err := Build("openai", map[string]domain.LLMProvider{"openai": openai, "gemini": gemini})
		require.NoError(t, err)
		assert.Equal(t, "openai+gemini", p.Name())
	})

	t.Run("primary missing degrades to secondary", func(t *testing.T) {
		t.Parallel()
		p, err := Build("openai", map[string]domain.LLMProvider{"openai": nil, "gemini": gemini})
		require.NoError(t, err)
		assert.Equal(t, "gemini", p.Name())
	})

	t.Run("single provider alone", func(t *testing.T) {
		t.Parallel()
		p, err := Build("openai", map[string]domain.LLMProvider{"openai": openai, "gemini": nil})
		require.NoError(t, err)
		assert.Equal(t, "openai", p.Name())
	})

	t.Run("none configured", func(t *testing.T) {
		t.Parallel()
		_, err := Build("openai", map[string]domain.LLMProvider{"openai": nil, "gemini": nil})
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("unknown primary name", func(t *testing.T) {
		t.Parallel()
		_, err := Build("mistral", map[string]domain.LLMProvider{"openai": openai, "gemini": gemini})
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
