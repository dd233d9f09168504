// Package domain holds entities, ports and the error taxonomy shared by
// usecases and adapters.
package domain

import (
	"context"
	"time"
)

// ResumeStatus enumerates the ingestion lifecycle of a resume.
type ResumeStatus string

const (
	ResumePending    ResumeStatus = "pending"
	ResumeProcessing ResumeStatus = "processing"
	ResumeAnalyzed   ResumeStatus = "analyzed"
	ResumeError      ResumeStatus = "error"
)

// Difficulty levels accepted for sessions and questions. "mixed" is valid
// only at the session level; individual questions always carry a concrete
// level.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyMixed  = "mixed"
)

// Question categories. CategoryGeneral is the degraded default used when a
// provider returns a bare string instead of a structured question.
const (
	CategoryTechnical    = "technical"
	CategoryBehavioral   = "behavioral"
	CategoryProject      = "project"
	CategorySystemDesign = "system_design"
	CategoryCoding       = "coding"
	CategoryGeneral      = "general"
)

// Resume is the persisted resume record. Analysis holds the full parsed
// blob; the derived columns (Skills, InferredRole, ...) are denormalized
// from it during ingestion.
type Resume struct {
	ID                string
	UserID            string
	Title             string
	Description       string
	FilePath          string
	FileName          string
	FileSize          int64
	Status            ResumeStatus
	Analysis          ResumeAnalysis
	Skills            []string
	InferredRole      string
	YearsOfExperience *float64
	ConfidenceScore   *float64
	ProcessingTime    *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ResumeAnalysis is the structured output of a resume parse call.
// Skills, Experience and Education are mandatory; the rest is best-effort.
type ResumeAnalysis struct {
	Name              string           `json:"name,omitempty"`
	Email             string           `json:"email,omitempty"`
	Summary           string           `json:"summary,omitempty"`
	InferredRole      string           `json:"inferred_role,omitempty"`
	Skills            []string         `json:"skills"`
	Experience        []ExperienceItem `json:"experience"`
	Education         []map[string]any `json:"education"`
	YearsOfExperience *float64         `json:"years_of_experience,omitempty"`
	ConfidenceScore   *float64         `json:"confidence_score,omitempty"`
	ProcessingTime    *float64         `json:"processing_time,omitempty"`
}

// ExperienceItem is one work-history entry inside a resume analysis.
type ExperienceItem struct {
	JobTitle    string `json:"job_title,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// ResumeContext is the slice of a resume fed into question generation.
// Built on demand from the analysis blob; immutable once built.
type ResumeContext struct {
	InferredRole      string
	YearsOfExperience *float64
	Skills            []string
	Projects          []string
}

// InterviewSession is one mock-interview run. CompletedAt non-nil implies
// FinalScore and FeedbackSummary are set and every owned question is
// answered.
type InterviewSession struct {
	ID              string
	UserID          string
	ResumeID        string
	StartedAt       time.Time
	CompletedAt     *time.Time
	FinalScore      *float64
	FeedbackSummary *string
	Difficulty      string
	QuestionCount   int
	FocusAreas      []string
	ScoreBreakdown  map[string]float64
}

// InterviewQuestion is owned by its session and never referenced elsewhere.
// AnswerText is overwritten on re-submission; EvaluationScore and
// FeedbackComment are written only during session completion.
type InterviewQuestion struct {
	ID               string
	SessionID        string
	Text             string
	AnswerText       *string
	EvaluationScore  *float64
	FeedbackComment  *string
	Category         string
	Difficulty       string
	OrderIndex       int
	TimeTakenSeconds *int
}

// Answered reports whether the question has received an answer.
func (q InterviewQuestion) Answered() bool { return q.AnswerText != nil }

// GeneratedQuestion is the provider-boundary question form, already
// normalized from the object-or-string union providers return.
type GeneratedQuestion struct {
	Text       string
	Category   string
	Difficulty string
}

// Prompt is a two-part instruction sent to a provider.
type Prompt struct {
	System string
	User   string
}

// QuestionFeedback is one per-question entry of an evaluation.
type QuestionFeedback struct {
	QuestionID      string  `json:"question_id"`
	EvaluationScore float64 `json:"evaluation_score"`
	FeedbackComment string  `json:"feedback_comment"`
}

// EvaluationResult is the structured outcome of a feedback call.
type EvaluationResult struct {
	Summary             string             `json:"summary"`
	ConfidenceScore     *float64           `json:"confidence_score"`
	Strengths           []string           `json:"strengths"`
	Weaknesses          []string           `json:"weaknesses"`
	ScoreBreakdown      map[string]float64 `json:"score_breakdown"`
	PerQuestionFeedback []QuestionFeedback `json:"questions_feedback"`
}

// SessionCompletion carries everything written atomically when a session
// completes: the session-level fields plus matched per-question feedback.
type SessionCompletion struct {
	SessionID       string
	CompletedAt     time.Time
	FinalScore      float64
	FeedbackSummary string
	ScoreBreakdown  map[string]float64
	Feedback        []QuestionFeedback
}

// SummaryResult is returned by Complete and GetSummary.
type SummaryResult struct {
	SessionID       string
	FinalScore      *float64
	FeedbackSummary string
	Strengths       []string
	Weaknesses      []string
	ScoreBreakdown  map[string]float64
	Questions       []InterviewQuestion
	Completed       bool
}

// IngestTaskPayload is the background-job payload for resume parsing. The
// worker re-reads the resume row by id, so the id is all it needs.
type IngestTaskPayload struct {
	ResumeID string `json:"resume_id"`
}

// Repositories (ports)

// ResumeRepository persists resumes.
type ResumeRepository interface {
	Create(ctx context.Context, r Resume) (string, error)
	Get(ctx context.Context, id string) (Resume, error)
	GetOwned(ctx context.Context, id, userID string) (Resume, error)
	LatestByUser(ctx context.Context, userID string) (Resume, error)
	UpdateStatus(ctx context.Context, id string, status ResumeStatus) error
	UpdateAnalysis(ctx context.Context, r Resume) error
}

// SessionRepository persists interview sessions.
type SessionRepository interface {
	Create(ctx context.Context, s InterviewSession) (string, error)
	GetOwned(ctx context.Context, id, userID string) (InterviewSession, error)
	// CompleteSession applies the completion in one transaction: either the
	// session row and all matched question feedback are written, or nothing is.
	CompleteSession(ctx context.Context, c SessionCompletion) error
}

// QuestionRepository persists interview questions.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, qs []InterviewQuestion) error
	GetBySession(ctx context.Context, sessionID string) ([]InterviewQuestion, error)
	GetInSession(ctx context.Context, id, sessionID string) (InterviewQuestion, error)
	SetAnswer(ctx context.Context, id string, answerText string, timeTaken *int) error
	// FirstUnanswered returns the lowest order_index question without an
	// answer, or ErrNotFound when all are answered.
	FirstUnanswered(ctx context.Context, sessionID string) (InterviewQuestion, error)
}

// Queue (port)

// Queue submits background work by name. Enqueue failures trigger the
// synchronous ingestion fallback, not a hard error.
type Queue interface {
	EnqueueIngest(ctx context.Context, payload IngestTaskPayload) (string, error)
}

// LLMProvider (port)

// LLMProvider is the uniform capability set of one text-generation backend.
// Every failure is surfaced as *ProviderError; callers never see
// provider-specific error types.
type LLMProvider interface {
	Name() string
	GenerateQuestions(ctx context.Context, p Prompt) ([]GeneratedQuestion, error)
	GenerateFeedback(ctx context.Context, p Prompt) (EvaluationResult, error)
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	ParseResume(ctx context.Context, text string) (ResumeAnalysis, error)
}

// TextExtractor (port)

// TextExtractor turns a stored document into plain text. The format is
// chosen by file extension; unsupported extensions are a hard error.
type TextExtractor interface {
	ExtractPath(ctx context.Context, path string) (string, error)
}
