package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// ResumeRepo persists and loads resumes using a minimal pgx pool.
type ResumeRepo struct{ Pool PgxPool }

// NewResumeRepo constructs a ResumeRepo with the given pool.
func NewResumeRepo(p PgxPool) *ResumeRepo { return &ResumeRepo{Pool: p} }

const resumeColumns = `id, user_id, title, COALESCE(description,''), file_path, file_name, file_size,
	status, COALESCE(analysis,'{}'), skills, COALESCE(inferred_role,''),
	years_of_experience, confidence_score, processing_time, created_at, updated_at`

// Create inserts a placeholder resume row and returns its id.
func (r *ResumeRepo) Create(ctx context.Context, res domain.Resume) (string, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Create")
	defer span.End()
	id := res.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO resumes (id, user_id, title, description, file_path, file_name, file_size, status, skills, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	now := time.Now().UTC()
	_, err := r.Pool.Exec(ctx, q, id, res.UserID, res.Title, res.Description, res.FilePath,
		res.FileName, res.FileSize, res.Status, nonNilStrings(res.Skills), now, now)
	if err != nil {
		return "", fmt.Errorf("op=resume.create: %w", err)
	}
	return id, nil
}

// Get loads a resume by id.
func (r *ResumeRepo) Get(ctx context.Context, id string) (domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Get")
	defer span.End()
	q := `SELECT ` + resumeColumns + ` FROM resumes WHERE id=$1`
	return r.scanOne(ctx, "resume.get", q, id)
}

// GetOwned loads a resume by id constrained to its owner.
func (r *ResumeRepo) GetOwned(ctx context.Context, id, userID string) (domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.GetOwned")
	defer span.End()
	q := `SELECT ` + resumeColumns + ` FROM resumes WHERE id=$1 AND user_id=$2`
	return r.scanOne(ctx, "resume.get_owned", q, id, userID)
}

// LatestByUser loads the most recently created resume for a user.
func (r *ResumeRepo) LatestByUser(ctx context.Context, userID string) (domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.LatestByUser")
	defer span.End()
	q := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(ctx, "resume.latest", q, userID)
}

// UpdateStatus transitions the ingestion status.
func (r *ResumeRepo) UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus) error {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.UpdateStatus")
	defer span.End()
	q := `UPDATE resumes SET status=$2, updated_at=$3 WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=resume.update_status: %w", err)
	}
	return nil
}

// UpdateAnalysis writes the parsed analysis blob, the derived columns and the
// analyzed status in one statement.
func (r *ResumeRepo) UpdateAnalysis(ctx context.Context, res domain.Resume) error {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.UpdateAnalysis")
	defer span.End()
	blob, err := json.Marshal(res.Analysis)
	if err != nil {
		return fmt.Errorf("op=resume.update_analysis: %w", err)
	}
	q := `UPDATE resumes SET status=$2, analysis=$3, skills=$4, inferred_role=$5, title=$6,
		description=$7, years_of_experience=$8, confidence_score=$9, processing_time=$10, updated_at=$11
		WHERE id=$1`
	_, err = r.Pool.Exec(ctx, q, res.ID, res.Status, blob, nonNilStrings(res.Skills), res.InferredRole,
		res.Title, res.Description, res.YearsOfExperience, res.ConfidenceScore, res.ProcessingTime,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=resume.update_analysis: %w", err)
	}
	return nil
}

func (r *ResumeRepo) scanOne(ctx context.Context, op, q string, args ...any) (domain.Resume, error) {
	row := r.Pool.QueryRow(ctx, q, args...)
	var res domain.Resume
	var blob []byte
	if err := row.Scan(&res.ID, &res.UserID, &res.Title, &res.Description, &res.FilePath,
		&res.FileName, &res.FileSize, &res.Status, &blob, &res.Skills, &res.InferredRole,
		&res.YearsOfExperience, &res.ConfidenceScore, &res.ProcessingTime,
		&res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Resume{}, fmt.Errorf("op=%s: %w", op, domain.ErrNotFound)
		}
		return domain.Resume{}, fmt.Errorf("op=%s: %w", op, err)
	}
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &res.Analysis); err != nil {
			return domain.Resume{}, fmt.Errorf("op=%s: decode analysis: %w", op, err)
		}
	}
	return res, nil
}
