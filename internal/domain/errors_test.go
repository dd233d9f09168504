package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderErrorWrapping(t *testing.T) {
	t.Parallel()
	base := errors.New("timeout")
	pe := NewProviderError("openai", base)

	assert.Equal(t, "provider openai: timeout", pe.Error())
	assert.ErrorIs(t, pe, base)
	assert.True(t, IsProviderError(pe))
	assert.True(t, IsProviderError(fmt.Errorf("wrapped: %w", pe)))
	assert.False(t, IsProviderError(base))
	assert.False(t, IsProviderError(nil))
}

func TestAnswered(t *testing.T) {
	t.Parallel()
	q := InterviewQuestion{}
	assert.False(t, q.Answered())
	answer := "yes"
	q.AnswerText = &answer
	require.True(t, q.Answered())
}
