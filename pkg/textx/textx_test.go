package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello world", SanitizeText("  hello\x00 world\x07  "))
	assert.Equal(t, "a\tb\nc", SanitizeText("a\tb\nc"))
	assert.Equal(t, "", SanitizeText("\x00\x01\x02"))
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a b c", CollapseWhitespace("a\n\n b\t\t c  "))
	assert.Equal(t, "", CollapseWhitespace("   \n\t "))
}
