package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// DecodeQuestions decodes a question-generation response. Accepted shapes:
// a bare JSON array, or an object with a "questions" array. Elements may be
// structured objects ({type, question, difficulty}) or plain strings; plain
// strings degrade to category "general" with an empty difficulty so the
// workflow can apply its default.
func DecodeQuestions(raw string) ([]domain.GeneratedQuestion, error) {
	cleaned := CleanJSONResponse(raw)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		var envelope struct {
			Questions []json.RawMessage `json:"questions"`
		}
		if err2 := json.Unmarshal([]byte(cleaned), &envelope); err2 != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
		items = envelope.Questions
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("decode questions: empty list")
	}

	out := make([]domain.GeneratedQuestion, 0, len(items))
	for _, item := range items {
		var obj struct {
			Type       string `json:"type"`
			Category   string `json:"category"`
			Question   string `json:"question"`
			Difficulty string `json:"difficulty"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Question != "" {
			category := obj.Type
			if category == "" {
				category = obj.Category
			}
			out = append(out, domain.GeneratedQuestion{
				Text:       strings.TrimSpace(obj.Question),
				Category:   strings.TrimSpace(category),
				Difficulty: strings.TrimSpace(strings.ToLower(obj.Difficulty)),
			})
			continue
		}
		var plain string
		if err := json.Unmarshal(item, &plain); err == nil && strings.TrimSpace(plain) != "" {
			out = append(out, domain.GeneratedQuestion{
				Text:     strings.TrimSpace(plain),
				Category: domain.CategoryGeneral,
			})
			continue
		}
		// Skip unrecognizable elements rather than failing the whole batch.
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("decode questions: no usable entries")
	}
	return out, nil
}

// DecodeEvaluation decodes a feedback-generation response.
func DecodeEvaluation(raw string) (domain.EvaluationResult, error) {
	cleaned := CleanJSONResponse(raw)
	var res domain.EvaluationResult
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("decode evaluation: %w", err)
	}
	return res, nil
}

// DecodeResumeAnalysis decodes a resume-parse response.
func DecodeResumeAnalysis(raw string) (domain.ResumeAnalysis, error) {
	cleaned := CleanJSONResponse(raw)
	var a domain.ResumeAnalysis
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return domain.ResumeAnalysis{}, fmt.Errorf("decode resume analysis: %w", err)
	}
	return a, nil
}
