package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

func TestExtractPathTxt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Senior\x00 Engineer\n\nwith   Go  "), 0o600))

	out, err := New().ExtractPath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer with Go", out)
}

func TestExtractPathUnsupportedExtension(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "resume.rtf")
	require.NoError(t, os.WriteFile(path, []byte("{\\rtf1}"), 0o600))

	_, err := New().ExtractPath(context.Background(), path)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestExtractPathMissingFile(t *testing.T) {
	t.Parallel()
	_, err := New().ExtractPath(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestExtractPathCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().ExtractPath(ctx, "any.txt")
	require.ErrorIs(t, err, context.Canceled)
}
