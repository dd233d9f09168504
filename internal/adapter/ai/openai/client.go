// Package openai implements an LLM provider backed by the OpenAI
// chat-completions API (or any OpenAI-compatible endpoint).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

const providerName = "openai"

// Options tune the client; zero values fall back to defaults.
type Options struct {
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
}

// Client implements domain.LLMProvider against /chat/completions.
type Client struct {
	apiKey        string
	baseURL       string
	model         string
	hc            *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

// New constructs a Client. The API key must be non-empty; key presence is
// decided by the factory, not here.
func New(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key required", domain.ErrConfiguration)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}
	return &Client{
		apiKey:        apiKey,
		baseURL:       opts.BaseURL,
		model:         opts.Model,
		hc:            &http.Client{Timeout: opts.Timeout},
		maxRetries:    uint64(opts.MaxRetries),
		retryInterval: opts.RetryInterval,
	}, nil
}

// Name returns the provider name carried by ProviderError.
func (c *Client) Name() string { return providerName }

// retryable marks transient upstream failures worth an in-backend retry.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// chat posts a chat completion and returns the first choice content.
// Rate-limit, timeout and 5xx responses are retried with linear backoff up
// to the configured budget before the failure is normalized into a
// *ProviderError.
func (c *Client) chat(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	body := map[string]any{
		"model":       c.model,
		"temperature": 0.3,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	if jsonMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", domain.NewProviderError(providerName, err)
	}

	var content string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(req)
		if err != nil {
			// Client timeouts and transport errors are transient.
			return &retryableError{err: err}
		}
		defer func() { _ = resp.Body.Close() }()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return &retryableError{err: err}
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return &retryableError{err: fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(string(raw), 200))}
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(string(raw), 200)))
		}
		var out struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
			return backoff.Permanent(errors.New("empty completion"))
		}
		content = out.Choices[0].Message.Content
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryInterval), c.maxRetries), ctx)
	notify := func(err error, d time.Duration) {
		slog.Warn("openai transient failure, retrying",
			slog.Any("error", err), slog.Duration("backoff", d))
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", domain.NewProviderError(providerName, err)
	}
	return content, nil
}

// GenerateQuestions asks for interview questions and decodes the union form.
func (c *Client) GenerateQuestions(ctx context.Context, p domain.Prompt) ([]domain.GeneratedQuestion, error) {
	raw, err := c.chat(ctx, p.System, p.User, true)
	if err != nil {
		return nil, err
	}
	qs, err := ai.DecodeQuestions(raw)
	if err != nil {
		return nil, domain.NewProviderError(providerName, err)
	}
	slog.Info("openai questions generated", slog.Int("count", len(qs)), slog.String("model", c.model))
	return qs, nil
}

// GenerateFeedback asks for a session evaluation.
func (c *Client) GenerateFeedback(ctx context.Context, p domain.Prompt) (domain.EvaluationResult, error) {
	raw, err := c.chat(ctx, p.System, p.User, true)
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
	return c.chat(ctx, "You are a helpful assistant.", prompt, false)
}

// ParseResume extracts structured resume data from raw text.
func (c *Client) ParseResume(ctx context.Context, text string) (domain.ResumeAnalysis, error) {
	raw, err := c.chat(ctx, resumeParserSystemPrompt, "RESUME TEXT:\n"+text, true)
	if err != nil {
		return domain.ResumeAnalysis{}, err
	}
	a, err := ai.DecodeResumeAnalysis(raw)
	if err != nil {
		return domain.ResumeAnalysis{}, domain.NewProviderError(providerName, err)
	}
	return a, nil
}

const resumeParserSystemPrompt = "You are a professional resume parser. Extract structured data from the " +
	"provided resume text. Return ONLY valid JSON with these fields:\n" +
	"- name (string)\n" +
	"- email (string)\n" +
	"- summary (string)\n" +
	"- inferred_role (string) — infer from content if not explicit\n" +
	"- skills (array of strings)\n" +
	"- education (array of objects: degree, university, start_date, end_date, cgpa, certification, institution, date)\n" +
	"- experience (array of objects: job_title, company, start_date, end_date, description)\n" +
	"- years_of_experience (float)\n" +
	"- confidence_score (float 0.0-1.0)\n" +
	"- processing_time (float in seconds)\n\n" +
	"If a field is missing, use null or empty array."

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
