//go:build !gguf

package gguf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medibot/internal/domain"
)

func TestNew_WithoutGGUFTag(t *testing.T) {
	_, err := New("", 0)
	assert.ErrorIs(t, err, ErrModelPathRequired)

	_, err = New("models/all-MiniLM-L6-v2.Q8_0.gguf", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.ErrorContains(t, err, "-tags gguf")
}
