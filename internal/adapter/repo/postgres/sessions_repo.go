package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// SessionRepo persists and loads interview sessions.
type SessionRepo struct{ Pool PgxPool }

// NewSessionRepo constructs a SessionRepo with the given pool.
func NewSessionRepo(p PgxPool) *SessionRepo { return &SessionRepo{Pool: p} }

// Create inserts a new session and returns its id.
func (r *SessionRepo) Create(ctx context.Context, s domain.InterviewSession) (string, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Create")
	defer span.End()
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO interview_sessions (id, user_id, resume_id, started_at, difficulty, question_count, focus_areas)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.Pool.Exec(ctx, q, id, s.UserID, s.ResumeID, s.StartedAt, s.Difficulty, s.QuestionCount, nonNilStrings(s.FocusAreas))
	if err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	return id, nil
}

// GetOwned loads a session by id constrained to its owner.
func (r *SessionRepo) GetOwned(ctx context.Context, id, userID string) (domain.InterviewSession, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.GetOwned")
	defer span.End()
	q := `SELECT id, user_id, resume_id, started_at, completed_at, final_score, feedback_summary,
		difficulty, question_count, focus_areas, score_breakdown
		FROM interview_sessions WHERE id=$1 AND user_id=$2`
	row := r.Pool.QueryRow(ctx, q, id, userID)
	var s domain.InterviewSession
	var breakdown []byte
	if err := row.Scan(&s.ID, &s.UserID, &s.ResumeID, &s.StartedAt, &s.CompletedAt, &s.FinalScore,
		&s.FeedbackSummary, &s.Difficulty, &s.QuestionCount, &s.FocusAreas, &breakdown); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.InterviewSession{}, fmt.Errorf("op=session.get_owned: %w", domain.ErrNotFound)
		}
		return domain.InterviewSession{}, fmt.Errorf("op=session.get_owned: %w", err)
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &s.ScoreBreakdown); err != nil {
			return domain.InterviewSession{}, fmt.Errorf("op=session.get_owned: decode breakdown: %w", err)
		}
	}
	return s, nil
}

// CompleteSession marks the session completed and writes all matched
// per-question feedback in a single transaction. Either everything is
// written or nothing is.
func (r *SessionRepo) CompleteSession(ctx context.Context, c domain.SessionCompletion) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.CompleteSession")
	defer span.End()
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	breakdown, err := json.Marshal(c.ScoreBreakdown)
	if err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	q := `UPDATE interview_sessions SET completed_at=$2, final_score=$3, feedback_summary=$4, score_breakdown=$5 WHERE id=$1`
	if _, err := tx.Exec(ctx, q, c.SessionID, c.CompletedAt, c.FinalScore, c.FeedbackSummary, breakdown); err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	// Constrained to the session so a hallucinated id can never touch
	// another session's rows.
	qq := `UPDATE interview_questions SET evaluation_score=$3, feedback_comment=$4 WHERE id=$1 AND session_id=$2`
	for _, fb := range c.Feedback {
		if _, err := tx.Exec(ctx, qq, fb.QuestionID, c.SessionID, fb.EvaluationScore, fb.FeedbackComment); err != nil {
			return fmt.Errorf("op=session.complete: question %s: %w", fb.QuestionID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	return nil
}
