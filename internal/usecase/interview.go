// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// InterviewService drives one mock-interview session from question
// generation through answer collection to the final evaluation.
type InterviewService struct {
	Sessions  domain.SessionRepository
	Questions domain.QuestionRepository
	Resumes   domain.ResumeRepository
	Provider  domain.LLMProvider
}

// NewInterviewService constructs an InterviewService with its dependencies.
func NewInterviewService(s domain.SessionRepository, q domain.QuestionRepository, r domain.ResumeRepository, p domain.LLMProvider) InterviewService {
	return InterviewService{Sessions: s, Questions: q, Resumes: r, Provider: p}
}

// StartInput carries the session configuration.
type StartInput struct {
	UserID        string
	ResumeID      string // empty selects the latest resume
	QuestionCount int
	Difficulty    string
	FocusAreas    []string
}

// StartResult is the session together with its generated questions.
type StartResult struct {
	Session   domain.InterviewSession
	Questions []domain.InterviewQuestion
}

func validDifficulty(d string) bool {
	switch d {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard, domain.DifficultyMixed:
		return true
	}
	return false
}

// Start resolves the resume, creates the session row, generates questions
// via the provider chain and persists them as one ordered batch.
//
// A provider failure is fatal to Start: the already-created session stays
// behind with zero questions and is unusable. Callers must treat this as a
// start failure, not partial success, and must not retry blindly (each call
// creates a new session).
func (s InterviewService) Start(ctx context.Context, in StartInput) (StartResult, error) {
	if in.QuestionCount < 5 || in.QuestionCount > 30 {
		return StartResult{}, fmt.Errorf("%w: question_count must be between 5 and 30", domain.ErrValidation)
	}
	if !validDifficulty(in.Difficulty) {
		return StartResult{}, fmt.Errorf("%w: invalid difficulty %q", domain.ErrValidation, in.Difficulty)
	}

	var resume domain.Resume
	var err error
	if in.ResumeID != "" {
		resume, err = s.Resumes.GetOwned(ctx, in.ResumeID, in.UserID)
	} else {
		resume, err = s.Resumes.LatestByUser(ctx, in.UserID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return StartResult{}, fmt.Errorf("%w: Resume", domain.ErrNotFound)
		}
		return StartResult{}, err
	}

	session := domain.InterviewSession{
		UserID:        in.UserID,
		ResumeID:      resume.ID,
		StartedAt:     time.Now().UTC(),
		Difficulty:    in.Difficulty,
		QuestionCount: in.QuestionCount,
		FocusAreas:    in.FocusAreas,
	}
	sessionID, err := s.Sessions.Create(ctx, session)
	if err != nil {
		return StartResult{}, err
	}
	session.ID = sessionID

	prompt := buildQuestionPrompt(BuildResumeContext(resume), in.QuestionCount, in.Difficulty, in.FocusAreas)
	generated, err := s.Provider.GenerateQuestions(ctx, prompt)
	if err != nil {
		slog.Error("question generation failed",
			slog.String("session_id", sessionID), slog.Any("error", err))
		return StartResult{}, fmt.Errorf("%w: failed to generate questions", domain.ErrProviderUnavailable)
	}

	fallbackDifficulty := in.Difficulty
	if fallbackDifficulty == domain.DifficultyMixed {
		fallbackDifficulty = domain.DifficultyMedium
	}
	questions := make([]domain.InterviewQuestion, 0, len(generated))
	for idx, g := range generated {
		category := g.Category
		if category == "" {
			category = domain.CategoryGeneral
		}
		difficulty := g.Difficulty
		if difficulty == "" {
			difficulty = fallbackDifficulty
		}
		questions = append(questions, domain.InterviewQuestion{
			SessionID:  sessionID,
			Text:       g.Text,
			Category:   category,
			Difficulty: difficulty,
			OrderIndex: idx,
		})
	}
	if err := s.Questions.CreateBatch(ctx, questions); err != nil {
		return StartResult{}, err
	}
	slog.Info("interview session started",
		slog.String("session_id", sessionID),
		slog.String("user_id", in.UserID),
		slog.Int("questions", len(questions)))
	return StartResult{Session: session, Questions: questions}, nil
}

// SubmitAnswer records (or overwrites) the answer on an owned question and
// returns the next unanswered question, or nil when the interview is ready
// to complete.
func (s InterviewService) SubmitAnswer(ctx context.Context, userID, sessionID, questionID, answerText string, timeTaken *int) (*domain.InterviewQuestion, error) {
	if _, err := s.Sessions.GetOwned(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	question, err := s.Questions.GetInSession(ctx, questionID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Questions.SetAnswer(ctx, question.ID, answerText, timeTaken); err != nil {
		return nil, err
	}
	return s.nextUnanswered(ctx, sessionID)
}

// GetNextQuestion returns the first unanswered question in session order,
// or nil when all are answered.
func (s InterviewService) GetNextQuestion(ctx context.Context, userID, sessionID string) (*domain.InterviewQuestion, error) {
	if _, err := s.Sessions.GetOwned(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.nextUnanswered(ctx, sessionID)
}

func (s InterviewService) nextUnanswered(ctx context.Context, sessionID string) (*domain.InterviewQuestion, error) {
	next, err := s.Questions.FirstUnanswered(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &next, nil
}

// Complete evaluates a fully-answered session. No state is written until the
// evaluation response passes validation; the session row and all matched
// per-question feedback are then committed in one transaction, so a failed
// completion can simply be retried later without re-answering.
func (s InterviewService) Complete(ctx context.Context, userID, sessionID string) (domain.SummaryResult, error) {
	if _, err := s.Sessions.GetOwned(ctx, sessionID, userID); err != nil {
		return domain.SummaryResult{}, err
	}
	questions, err := s.Questions.GetBySession(ctx, sessionID)
	if err != nil {
		return domain.SummaryResult{}, err
	}
	if len(questions) == 0 {
		return domain.SummaryResult{}, fmt.Errorf("%w: no questions for this session", domain.ErrValidation)
	}
	for _, q := range questions {
		if !q.Answered() {
			return domain.SummaryResult{}, fmt.Errorf("%w: all questions must be answered before completing the interview", domain.ErrValidation)
		}
	}

	evaluation, err := s.Provider.GenerateFeedback(ctx, buildEvaluationPrompt(questions))
	if err != nil {
		slog.Error("interview evaluation failed",
			slog.String("session_id", sessionID), slog.Any("error", err))
		return domain.SummaryResult{}, fmt.Errorf("%w: interview evaluation failed", domain.ErrProviderUnavailable)
	}
	if evaluation.Summary == "" || evaluation.ConfidenceScore == nil || len(evaluation.PerQuestionFeedback) == 0 {
		return domain.SummaryResult{}, fmt.Errorf("%w: evaluation response missing required fields", domain.ErrMalformedResponse)
	}

	// Feedback entries whose question id does not belong to this session are
	// dropped: providers occasionally hallucinate ids.
	known := make(map[string]int, len(questions))
	for i, q := range questions {
		known[q.ID] = i
	}
	matched := make([]domain.QuestionFeedback, 0, len(evaluation.PerQuestionFeedback))
	for _, fb := range evaluation.PerQuestionFeedback {
		i, ok := known[fb.QuestionID]
		if !ok {
			slog.Warn("dropping feedback for unknown question",
				slog.String("session_id", sessionID), slog.String("question_id", fb.QuestionID))
			continue
		}
		matched = append(matched, fb)
		score := fb.EvaluationScore
		comment := fb.FeedbackComment
		questions[i].EvaluationScore = &score
		questions[i].FeedbackComment = &comment
	}

	finalScore := *evaluation.ConfidenceScore
	completion := domain.SessionCompletion{
		SessionID:       sessionID,
		CompletedAt:     time.Now().UTC(),
		FinalScore:      finalScore,
		FeedbackSummary: evaluation.Summary,
		ScoreBreakdown:  evaluation.ScoreBreakdown,
		Feedback:        matched,
	}
	if err := s.Sessions.CompleteSession(ctx, completion); err != nil {
		return domain.SummaryResult{}, err
	}
	slog.Info("interview session completed",
		slog.String("session_id", sessionID),
		slog.Float64("final_score", finalScore))

	return domain.SummaryResult{
		SessionID:       sessionID,
		FinalScore:      &finalScore,
		FeedbackSummary: evaluation.Summary,
		Strengths:       evaluation.Strengths,
		Weaknesses:      evaluation.Weaknesses,
		ScoreBreakdown:  evaluation.ScoreBreakdown,
		Questions:       questions,
		Completed:       true,
	}, nil
}

// GetSummary aggregates the session and its questions for display. It does
// not require completion; an uncompleted session gets a placeholder
// narrative instead of feedback.
func (s InterviewService) GetSummary(ctx context.Context, userID, sessionID string) (domain.SummaryResult, error) {
	session, err := s.Sessions.GetOwned(ctx, sessionID, userID)
	if err != nil {
		return domain.SummaryResult{}, err
	}
	questions, err := s.Questions.GetBySession(ctx, sessionID)
	if err != nil {
		return domain.SummaryResult{}, err
	}
	summary := "Feedback not available yet. Complete the interview to receive your evaluation."
	if session.FeedbackSummary != nil {
		summary = *session.FeedbackSummary
	}
	return domain.SummaryResult{
		SessionID:       sessionID,
		FinalScore:      session.FinalScore,
		FeedbackSummary: summary,
		ScoreBreakdown:  session.ScoreBreakdown,
		Questions:       questions,
		Completed:       session.CompletedAt != nil,
	}, nil
}
