package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
)

// IngestService runs the resume ingestion pipeline:
// PENDING → PROCESSING → {ANALYZED | ERROR}.
//
// The pipeline itself (Process) is transport-agnostic; Upload is the thin
// dispatching caller that prefers the background queue and falls back to an
// in-process run when the queue is unreachable.
type IngestService struct {
	Resumes   domain.ResumeRepository
	Extractor domain.TextExtractor
	Provider  domain.LLMProvider
	Queue     domain.Queue
	// SyncTimeout bounds the in-process fallback run, independent of the
	// provider's own retry budget.
	SyncTimeout time.Duration
}

// NewIngestService constructs an IngestService with its dependencies.
func NewIngestService(r domain.ResumeRepository, e domain.TextExtractor, p domain.LLMProvider, q domain.Queue, syncTimeout time.Duration) IngestService {
	if syncTimeout <= 0 {
		syncTimeout = 2 * time.Minute
	}
	return IngestService{Resumes: r, Extractor: e, Provider: p, Queue: q, SyncTimeout: syncTimeout}
}

// UploadInput describes an accepted resume file already saved to disk.
type UploadInput struct {
	UserID           string
	FilePath         string
	FileName         string
	OriginalFilename string
	FileSize         int64
}

// UploadResult reports how the ingestion was dispatched.
type UploadResult struct {
	ResumeID string
	TaskID   string // empty when the synchronous fallback ran
}

// Upload creates the PENDING placeholder row and dispatches parsing. When
// the queue rejects the task the pipeline runs in-process on a detached,
// time-bounded context so the upload request itself stays fast and the
// request transaction is never shared.
func (s IngestService) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	resume := domain.Resume{
		UserID:   in.UserID,
		Title:    in.OriginalFilename,
		FilePath: in.FilePath,
		FileName: in.FileName,
		FileSize: in.FileSize,
		Status:   domain.ResumePending,
	}
	resumeID, err := s.Resumes.Create(ctx, resume)
	if err != nil {
		return UploadResult{}, err
	}

	taskID, err := s.Queue.EnqueueIngest(ctx, domain.IngestTaskPayload{ResumeID: resumeID})
	if err == nil {
		return UploadResult{ResumeID: resumeID, TaskID: taskID}, nil
	}

	slog.Warn("queue unreachable, running ingestion in-process",
		slog.String("resume_id", resumeID), slog.Any("error", err))
	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), s.SyncTimeout)
		defer cancel()
		if err := s.Process(runCtx, resumeID); err != nil {
			observability.IngestJob("sync", "error")
			slog.Error("in-process ingestion failed",
				slog.String("resume_id", resumeID), slog.Any("error", err))
			return
		}
		observability.IngestJob("sync", "ok")
	}()
	return UploadResult{ResumeID: resumeID}, nil
}

// Process runs the whole pipeline for one resume: extract text, parse via
// the provider chain, validate mandatory fields, persist the analysis and
// transition to ANALYZED. Any failure transitions the resume to ERROR and
// is returned to the caller.
func (s IngestService) Process(ctx context.Context, resumeID string) error {
	resume, err := s.Resumes.Get(ctx, resumeID)
	if err != nil {
		return err
	}
	if err := s.Resumes.UpdateStatus(ctx, resumeID, domain.ResumeProcessing); err != nil {
		return err
	}
	if err := s.process(ctx, &resume); err != nil {
		if stErr := s.Resumes.UpdateStatus(ctx, resumeID, domain.ResumeError); stErr != nil {
			slog.Error("failed to mark resume as errored",
				slog.String("resume_id", resumeID), slog.Any("error", stErr))
		}
		return err
	}
	slog.Info("resume analyzed", slog.String("resume_id", resumeID))
	return nil
}

func (s IngestService) process(ctx context.Context, resume *domain.Resume) error {
	start := time.Now()
	text, err := s.Extractor.ExtractPath(ctx, resume.FilePath)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("%w: extracted text is empty", domain.ErrValidation)
	}

	analysis, err := s.Provider.ParseResume(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: resume parsing failed: %v", domain.ErrProviderUnavailable, err)
	}
	if err := validateAnalysis(analysis); err != nil {
		return err
	}

	resume.Status = domain.ResumeAnalyzed
	resume.Analysis = analysis
	resume.Skills = analysis.Skills
	resume.InferredRole = analysis.InferredRole
	resume.YearsOfExperience = analysis.YearsOfExperience
	resume.ConfidenceScore = analysis.ConfidenceScore
	resume.Description = analysis.Summary
	if analysis.ProcessingTime != nil {
		resume.ProcessingTime = analysis.ProcessingTime
	} else {
		elapsed := time.Since(start).Seconds()
		resume.ProcessingTime = &elapsed
	}
	if analysis.Name != "" {
		resume.Title = analysis.Name
	} else if resume.Title == "" {
		resume.Title = filepath.Base(resume.FilePath)
	}
	return s.Resumes.UpdateAnalysis(ctx, *resume)
}

// validateAnalysis enforces the mandatory parsed fields. Missing data is a
// caller-visible validation failure, not something to retry.
func validateAnalysis(a domain.ResumeAnalysis) error {
	if len(a.Skills) == 0 {
		return fmt.Errorf("%w: mandatory field 'skills' is missing or empty", domain.ErrValidation)
	}
	if len(a.Experience) == 0 {
		return fmt.Errorf("%w: mandatory field 'experience' is missing or empty", domain.ErrValidation)
	}
	if len(a.Education) == 0 {
		return fmt.Errorf("%w: mandatory field 'education' is missing or empty", domain.ErrValidation)
	}
	return nil
}
