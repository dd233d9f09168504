package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

type statusRecorder struct {
	mu       sync.Mutex
	statuses []domain.ResumeStatus
}

func (r *statusRecorder) record(s domain.ResumeStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *statusRecorder) snapshot() []domain.ResumeStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ResumeStatus, len(r.statuses))
	copy(out, r.statuses)
	return out
}

func validAnalysis() domain.ResumeAnalysis {
	return domain.ResumeAnalysis{
		Name:       "Ada Lovelace",
		Skills:     []string{"go", "postgres"},
		Experience: []domain.ExperienceItem{{JobTitle: "Engineer", Description: "Built a billing service"}},
		Education:  []map[string]any{{"degree": "BSc"}},
	}
}

func TestProcessHappyPath(t *testing.T) {
	t.Parallel()
	rec := &statusRecorder{}
	var saved domain.Resume
	repo := &stubResumeRepo{
		getFn: func(_ context.Context, id string) (domain.Resume, error) {
			return domain.Resume{ID: id, UserID: "u1", FilePath: "/tmp/resumes/x.pdf", Status: domain.ResumePending}, nil
		},
		updateStatusFn: func(_ context.Context, _ string, status domain.ResumeStatus) error {
			rec.record(status)
			return nil
		},
		updateAnalysisFn: func(_ context.Context, r domain.Resume) error {
			saved = r
			return nil
		},
	}
	extractor := &stubExtractor{
		extractFn: func(_ context.Context, _ string) (string, error) { return "resume text", nil },
	}
	provider := &stubProvider{
		parseFn: func(_ context.Context, _ string) (domain.ResumeAnalysis, error) {
			return validAnalysis(), nil
		},
	}
	svc := NewIngestService(repo, extractor, provider, nil, time.Minute)

	require.NoError(t, svc.Process(context.Background(), "r1"))
	assert.Equal(t, []domain.ResumeStatus{domain.ResumeProcessing}, rec.snapshot())
	assert.Equal(t, domain.ResumeAnalyzed, saved.Status)
	assert.Equal(t, "Ada Lovelace", saved.Title)
	assert.Equal(t, []string{"go", "postgres"}, saved.Skills)
	require.NotNil(t, saved.ProcessingTime)
}

func TestProcessMissingMandatoryField(t *testing.T) {
	t.Parallel()
	rec := &statusRecorder{}
	repo := &stubResumeRepo{
		getFn: func(_ context.Context, id string) (domain.Resume, error) {
			return domain.Resume{ID: id, FilePath: "/tmp/resumes/x.pdf"}, nil
		},
		updateStatusFn: func(_ context.Context, _ string, status domain.ResumeStatus) error {
			rec.record(status)
			return nil
		},
	}
	extractor := &stubExtractor{
		extractFn: func(_ context.Context, _ string) (string, error) { return "resume text", nil },
	}
	provider := &stubProvider{
		parseFn: func(_ context.Context, _ string) (domain.ResumeAnalysis, error) {
			a := validAnalysis()
			a.Skills = nil
			return a, nil
		},
	}
	svc := NewIngestService(repo, extractor, provider, nil, time.Minute)

	err := svc.Process(context.Background(), "r1")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "skills")
	assert.Equal(t, []domain.ResumeStatus{domain.ResumeProcessing, domain.ResumeError}, rec.snapshot())
}

func TestProcessEmptyExtractedText(t *testing.T) {
	t.Parallel()
	rec := &statusRecorder{}
	repo := &stubResumeRepo{
		getFn: func(_ context.Context, id string) (domain.Resume, error) {
			return domain.Resume{ID: id, FilePath: "/tmp/resumes/blank.txt"}, nil
		},
		updateStatusFn: func(_ context.Context, _ string, status domain.ResumeStatus) error {
			rec.record(status)
			return nil
		},
	}
	extractor := &stubExtractor{
		extractFn: func(_ context.Context, _ string) (string, error) { return "", nil },
	}
	svc := NewIngestService(repo, extractor, nil, nil, time.Minute)

	err := svc.Process(context.Background(), "r1")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []domain.ResumeStatus{domain.ResumeProcessing, domain.ResumeError}, rec.snapshot())
}

func TestProcessProviderFailure(t *testing.T) {
	t.Parallel()
	rec := &statusRecorder{}
	repo := &stubResumeRepo{
		getFn: func(_ context.Context, id string) (domain.Resume, error) {
			return domain.Resume{ID: id, FilePath: "/tmp/resumes/x.pdf"}, nil
		},
		updateStatusFn: func(_ context.Context, _ string, status domain.ResumeStatus) error {
			rec.record(status)
			return nil
		},
	}
	extractor := &stubExtractor{
		extractFn: func(_ context.Context, _ string) (string, error) { return "resume text", nil },
	}
	provider := &stubProvider{
		parseFn: func(_ context.Context, _ string) (domain.ResumeAnalysis, error) {
			return domain.ResumeAnalysis{}, domain.NewProviderError("openai", errors.New("down"))
		},
	}
	svc := NewIngestService(repo, extractor, provider, nil, time.Minute)

	err := svc.Process(context.Background(), "r1")
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Equal(t, []domain.ResumeStatus{domain.ResumeProcessing, domain.ResumeError}, rec.snapshot())
}

func TestUploadEnqueues(t *testing.T) {
	t.Parallel()
	repo := &stubResumeRepo{
		createFn: func(_ context.Context, r domain.Resume) (string, error) {
			assert.Equal(t, domain.ResumePending, r.Status)
			return "r1", nil
		},
	}
	var gotPayload domain.IngestTaskPayload
	queue := &stubQueue{
		enqueueFn: func(_ context.Context, payload domain.IngestTaskPayload) (string, error) {
			gotPayload = payload
			return "task-1", nil
		},
	}
	svc := NewIngestService(repo, nil, nil, queue, time.Minute)

	out, err := svc.Upload(context.Background(), UploadInput{
		UserID:           "u1",
		FilePath:         "/tmp/resumes/abc.pdf",
		FileName:         "abc.pdf",
		OriginalFilename: "cv.pdf",
		FileSize:         1024,
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", out.ResumeID)
	assert.Equal(t, "task-1", out.TaskID)
	assert.Equal(t, "r1", gotPayload.ResumeID)
}

func TestUploadFallsBackWhenQueueDown(t *testing.T) {
	t.Parallel()
	processed := make(chan struct{})
	repo := &stubResumeRepo{
		createFn: func(_ context.Context, _ domain.Resume) (string, error) { return "r1", nil },
		getFn: func(_ context.Context, id string) (domain.Resume, error) {
			return domain.Resume{ID: id, FilePath: "/tmp/resumes/x.txt"}, nil
		},
		updateStatusFn: func(_ context.Context, _ string, _ domain.ResumeStatus) error { return nil },
		updateAnalysisFn: func(_ context.Context, _ domain.Resume) error {
			close(processed)
			return nil
		},
	}
	queue := &stubQueue{
		enqueueFn: func(_ context.Context, _ domain.IngestTaskPayload) (string, error) {
			return "", errors.New("redis unreachable")
		},
	}
	extractor := &stubExtractor{
		extractFn: func(_ context.Context, _ string) (string, error) { return "resume text", nil },
	}
	provider := &stubProvider{
		parseFn: func(_ context.Context, _ string) (domain.ResumeAnalysis, error) {
			return validAnalysis(), nil
		},
	}
	svc := NewIngestService(repo, extractor, provider, queue, time.Minute)

	out, err := svc.Upload(context.Background(), UploadInput{UserID: "u1", FilePath: "/tmp/resumes/x.txt"})
	require.NoError(t, err)
	assert.Equal(t, "r1", out.ResumeID)
	assert.Empty(t, out.TaskID)

	select {
	case <-processed:
	case <-time.After(2 * time.Second):
		t.Fatal("synchronous fallback never ran")
	}
}
