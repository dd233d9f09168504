// Package gemini implements an LLM provider backed by the Google Gemini API.
//
// Gemini has no native JSON mode, so responses are fence-stripped before
// structured decoding.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.0-flash"
)

// Client implements domain.LLMProvider via the genai SDK.
type Client struct {
	client *genai.Client
	model  string
}

// New constructs a Gemini client.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key required", domain.ErrConfiguration)
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("op=gemini.new: %w", err)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	slog.Info("gemini provider initialized", slog.String("model", model))
	return &Client{client: cli, model: model}, nil
}

// Name returns the provider name carried by ProviderError.
func (c *Client) Name() string { return providerName }

// generate sends one prompt and concatenates the textual candidate parts.
// Every failure, including an empty response, becomes a *ProviderError.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", domain.NewProviderError(providerName, err)
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", domain.NewProviderError(providerName, errors.New("empty response"))
	}
	return out, nil
}

// GenerateQuestions asks for interview questions and decodes the union form.
func (c *Client) GenerateQuestions(ctx context.Context, p domain.Prompt) ([]domain.GeneratedQuestion, error) {
	raw, err := c.generate(ctx, p.System+"\n\n"+p.User)
	if err != nil {
		return nil, err
	}
	qs, err := ai.DecodeQuestions(raw)
	if err != nil {
		return nil, domain.NewProviderError(providerName, err)
	}
	slog.Info("gemini questions generated", slog.Int("count", len(qs)), slog.String("model", c.model))
	return qs, nil
}

// GenerateFeedback asks for a session evaluation.
func (c *Client) GenerateFeedback(ctx context.Context, p domain.Prompt) (domain.EvaluationResult, error) {
	raw, err := c.generate(ctx, p.System+"\n\n"+p.User)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	res, err := ai.DecodeEvaluation(raw)
	if err != nil {
		return domain.EvaluationResult{}, domain.NewProviderError(providerName, err)
	}
	return res, nil
}

// GenerateCompletion returns a free-form completion.
func (c *Client) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt)
}

// ParseResume extracts structured resume data from raw text.
func (c *Client) ParseResume(ctx context.Context, text string) (domain.ResumeAnalysis, error) {
	raw, err := c.generate(ctx, resumeParserPrompt+"\n\nRESUME TEXT:\n"+text)
	if err != nil {
		return domain.ResumeAnalysis{}, err
	}
	a, err := ai.DecodeResumeAnalysis(raw)
	if err != nil {
		return domain.ResumeAnalysis{}, domain.NewProviderError(providerName, err)
	}
	return a, nil
}

const resumeParserPrompt = "You are a professional resume parser. Extract structured resume data " +
	"from the provided raw text.\n" +
	"Return ONLY valid JSON with exactly the following fields:\n" +
	"- name (string)\n" +
	"- email (string)\n" +
	"- summary (string)\n" +
	"- inferred_role (string) - if not explicitly stated, infer from summary\n" +
	"- skills (array of strings)\n" +
	"- education (array of objects: degree, university, start_date, end_date, cgpa, certification, institution, date)\n" +
	"- experience (array of objects: job_title, company, start_date, end_date, description)\n" +
	"- years_of_experience (float)\n" +
	"- confidence_score (float 0.0-1.0)\n" +
	"- processing_time (float in seconds)\n" +
	"No additional text, no markdown, no code fences."
