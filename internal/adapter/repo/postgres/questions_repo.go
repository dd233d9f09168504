package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// QuestionRepo persists and loads interview questions.
type QuestionRepo struct{ Pool PgxPool }

// NewQuestionRepo constructs a QuestionRepo with the given pool.
func NewQuestionRepo(p PgxPool) *QuestionRepo { return &QuestionRepo{Pool: p} }

const questionColumns = `id, session_id, question_text, answer_text, evaluation_score,
	feedback_comment, category, difficulty, order_index, time_taken_seconds`

// CreateBatch inserts all questions of a session in one transaction,
// preserving order_index as given.
func (r *QuestionRepo) CreateBatch(ctx context.Context, qs []domain.InterviewQuestion) error {
	tracer := otel.Tracer("repo.questions")
	ctx, span := tracer.Start(ctx, "questions.CreateBatch")
	defer span.End()
	if len(qs) == 0 {
		return nil
	}
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("op=question.create_batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	q := `INSERT INTO interview_questions (id, session_id, question_text, category, difficulty, order_index)
		VALUES ($1,$2,$3,$4,$5,$6)`
	for i := range qs {
		id := qs[i].ID
		if id == "" {
			id = uuid.New().String()
			qs[i].ID = id
		}
		if _, err := tx.Exec(ctx, q, id, qs[i].SessionID, qs[i].Text, qs[i].Category, qs[i].Difficulty, qs[i].OrderIndex); err != nil {
			return fmt.Errorf("op=question.create_batch: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=question.create_batch: %w", err)
	}
	return nil
}

// GetBySession loads all questions of a session in fixed creation order.
func (r *QuestionRepo) GetBySession(ctx context.Context, sessionID string) ([]domain.InterviewQuestion, error) {
	tracer := otel.Tracer("repo.questions")
	ctx, span := tracer.Start(ctx, "questions.GetBySession")
	defer span.End()
	q := `SELECT ` + questionColumns + ` FROM interview_questions WHERE session_id=$1 ORDER BY order_index`
	rows, err := r.Pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("op=question.by_session: %w", err)
	}
	defer rows.Close()
	var out []domain.InterviewQuestion
	for rows.Next() {
		var iq domain.InterviewQuestion
		if err := rows.Scan(&iq.ID, &iq.SessionID, &iq.Text, &iq.AnswerText, &iq.EvaluationScore,
			&iq.FeedbackComment, &iq.Category, &iq.Difficulty, &iq.OrderIndex, &iq.TimeTakenSeconds); err != nil {
			return nil, fmt.Errorf("op=question.by_session: %w", err)
		}
		out = append(out, iq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=question.by_session: %w", err)
	}
	return out, nil
}

// GetInSession loads one question by id constrained to its session.
func (r *QuestionRepo) GetInSession(ctx context.Context, id, sessionID string) (domain.InterviewQuestion, error) {
	tracer := otel.Tracer("repo.questions")
	ctx, span := tracer.Start(ctx, "questions.GetInSession")
	defer span.End()
	q := `SELECT ` + questionColumns + ` FROM interview_questions WHERE id=$1 AND session_id=$2`
	return r.scanOne(ctx, "question.in_session", q, id, sessionID)
}

// SetAnswer overwrites the answer (and optional timing) on a question.
// Re-submission overwrites; last write wins.
func (r *QuestionRepo) SetAnswer(ctx context.Context, id string, answerText string, timeTaken *int) error {
	tracer := otel.Tracer("repo.questions")
	ctx, span := tracer.Start(ctx, "questions.SetAnswer")
	defer span.End()
	q := `UPDATE interview_questions SET answer_text=$2, time_taken_seconds=COALESCE($3, time_taken_seconds) WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, answerText, timeTaken); err != nil {
		return fmt.Errorf("op=question.set_answer: %w", err)
	}
	return nil
}

// FirstUnanswered returns the lowest order_index question without an answer.
func (r *QuestionRepo) FirstUnanswered(ctx context.Context, sessionID string) (domain.InterviewQuestion, error) {
	tracer := otel.Tracer("repo.questions")
	ctx, span := tracer.Start(ctx, "questions.FirstUnanswered")
	defer span.End()
	q := `SELECT ` + questionColumns + ` FROM interview_questions
		WHERE session_id=$1 AND answer_text IS NULL ORDER BY order_index LIMIT 1`
	return r.scanOne(ctx, "question.first_unanswered", q, sessionID)
}

func (r *QuestionRepo) scanOne(ctx context.Context, op, q string, args ...any) (domain.InterviewQuestion, error) {
	row := r.Pool.QueryRow(ctx, q, args...)
	var iq domain.InterviewQuestion
	if err := row.Scan(&iq.ID, &iq.SessionID, &iq.Text, &iq.AnswerText, &iq.EvaluationScore,
		&iq.FeedbackComment, &iq.Category, &iq.Difficulty, &iq.OrderIndex, &iq.TimeTakenSeconds); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.InterviewQuestion{}, fmt.Errorf("op=%s: %w", op, domain.ErrNotFound)
		}
		return domain.InterviewQuestion{}, fmt.Errorf("op=%s: %w", op, err)
	}
	return iq, nil
}
