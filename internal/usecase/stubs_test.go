package usecase

import (
	"context"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

type stubResumeRepo struct {
	createFn         func(ctx context.Context, r domain.Resume) (string, error)
	getFn            func(ctx context.Context, id string) (domain.Resume, error)
	getOwnedFn       func(ctx context.Context, id, userID string) (domain.Resume, error)
	latestByUserFn   func(ctx context.Context, userID string) (domain.Resume, error)
	updateStatusFn   func(ctx context.Context, id string, status domain.ResumeStatus) error
	updateAnalysisFn func(ctx context.Context, r domain.Resume) error
}

func (s *stubResumeRepo) Create(ctx context.Context, r domain.Resume) (string, error) {
	return s.createFn(ctx, r)
}

func (s *stubResumeRepo) Get(ctx context.Context, id string) (domain.Resume, error) {
	return s.getFn(ctx, id)
}

func (s *stubResumeRepo) GetOwned(ctx context.Context, id, userID string) (domain.Resume, error) {
	return s.getOwnedFn(ctx, id, userID)
}

func (s *stubResumeRepo) LatestByUser(ctx context.Context, userID string) (domain.Resume, error) {
	return s.latestByUserFn(ctx, userID)
}

func (s *stubResumeRepo) UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus) error {
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubResumeRepo) UpdateAnalysis(ctx context.Context, r domain.Resume) error {
	return s.updateAnalysisFn(ctx, r)
}

type stubSessionRepo struct {
	createFn   func(ctx context.Context, s domain.InterviewSession) (string, error)
	getOwnedFn func(ctx context.Context, id, userID string) (domain.InterviewSession, error)
	completeFn func(ctx context.Context, c domain.SessionCompletion) error
}

func (s *stubSessionRepo) Create(ctx context.Context, sess domain.InterviewSession) (string, error) {
	return s.createFn(ctx, sess)
}

func (s *stubSessionRepo) GetOwned(ctx context.Context, id, userID string) (domain.InterviewSession, error) {
	return s.getOwnedFn(ctx, id, userID)
}

func (s *stubSessionRepo) CompleteSession(ctx context.Context, c domain.SessionCompletion) error {
	return s.completeFn(ctx, c)
}

type stubQuestionRepo struct {
	createBatchFn     func(ctx context.Context, qs []domain.InterviewQuestion) error
	getBySessionFn    func(ctx context.Context, sessionID string) ([]domain.InterviewQuestion, error)
	getInSessionFn    func(ctx context.Context, id, sessionID string) (domain.InterviewQuestion, error)
	setAnswerFn       func(ctx context.Context, id, answerText string, timeTaken *int) error
	firstUnansweredFn func(ctx context.Context, sessionID string) (domain.InterviewQuestion, error)
}

func (s *stubQuestionRepo) CreateBatch(ctx context.Context, qs []domain.InterviewQuestion) error {
	return s.createBatchFn(ctx, qs)
}

func (s *stubQuestionRepo) GetBySession(ctx context.Context, sessionID string) ([]domain.InterviewQuestion, error) {
	return s.getBySessionFn(ctx, sessionID)
}

func (s *stubQuestionRepo) GetInSession(ctx context.Context, id, sessionID string) (domain.InterviewQuestion, error) {
	return s.getInSessionFn(ctx, id, sessionID)
}

func (s *stubQuestionRepo) SetAnswer(ctx context.Context, id, answerText string, timeTaken *int) error {
	return s.setAnswerFn(ctx, id, answerText, timeTaken)
}

func (s *stubQuestionRepo) FirstUnanswered(ctx context.Context, sessionID string) (domain.InterviewQuestion, error) {
	return s.firstUnansweredFn(ctx, sessionID)
}

type stubProvider struct {
	name         string
	questionsFn  func(ctx context.Context, p domain.Prompt) ([]domain.GeneratedQuestion, error)
	feedbackFn   func(ctx context.Context, p domain.Prompt) (domain.EvaluationResult, error)
	completionFn func(ctx context.Context, prompt string) (string, error)
	parseFn      func(ctx context.Context, text string) (domain.ResumeAnalysis, error)
}

func (s *stubProvider) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubProvider) GenerateQuestions(ctx context.Context, p domain.Prompt) ([]domain.GeneratedQuestion, error) {
	return s.questionsFn(ctx, p)
}

func (s *stubProvider) GenerateFeedback(ctx context.Context, p domain.Prompt) (domain.EvaluationResult, error) {
	return s.feedbackFn(ctx, p)
}

func (s *stubProvider) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	return s.completionFn(ctx, prompt)
}

func (s *stubProvider) ParseResume(ctx context.Context, text string) (domain.ResumeAnalysis, error) {
	return s.parseFn(ctx, text)
}

type stubQueue struct {
	enqueueFn func(ctx context.Context, payload domain.IngestTaskPayload) (string, error)
}

func (s *stubQueue) EnqueueIngest(ctx context.Context, payload domain.IngestTaskPayload) (string, error) {
	return s.enqueueFn(ctx, payload)
}

type stubExtractor struct {
	extractFn func(ctx context.Context, path string) (string, error)
}

func (s *stubExtractor) ExtractPath(ctx context.Context, path string) (string, error) {
	return s.extractFn(ctx, path)
}

func ptr[T any](v T) *T { return &v }
