package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, ParseOrigins(""))
	assert.Equal(t, []string{"*"}, ParseOrigins("*"))
	assert.Equal(t, []string{"*"}, ParseOrigins(" , , "))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		ParseOrigins(" https://a.example , https://b.example "))
}
