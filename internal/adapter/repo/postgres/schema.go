package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema creates the tables and indexes the repositories depend on.
// Idempotent; both commands run it at startup so a fresh database works
// without an external migration step.
func EnsureSchema(ctx context.Context, pool PgxPool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			analysis JSONB,
			skills TEXT[] NOT NULL DEFAULT '{}',
			inferred_role TEXT,
			years_of_experience DOUBLE PRECISION,
			confidence_score DOUBLE PRECISION,
			processing_time DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resumes_user_created ON resumes (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS interview_sessions (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			resume_id UUID NOT NULL REFERENCES resumes(id),
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			final_score DOUBLE PRECISION,
			feedback_summary TEXT,
			difficulty TEXT NOT NULL,
			question_count INT NOT NULL,
			focus_areas TEXT[] NOT NULL DEFAULT '{}',
			score_breakdown JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON interview_sessions (user_id)`,
		`CREATE TABLE IF NOT EXISTS interview_questions (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES interview_sessions(id) ON DELETE CASCADE,
			question_text TEXT NOT NULL,
			answer_text TEXT,
			evaluation_score DOUBLE PRECISION,
			feedback_comment TEXT,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			order_index INT NOT NULL,
			time_taken_seconds INT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_session_order ON interview_questions (session_id, order_index)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("op=schema.ensure: %w", err)
		}
	}
	return nil
}
