//go:build !gguf

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibot/internal/config"
	"medibot/internal/domain"
)

func TestNewEmbedder_Hashing(t *testing.T) {
	emb, closeEmb, err := newEmbedder(config.EmbedderConfig{
		Type:    "hashing",
		Hashing: config.HashingEmbedderConfig{Dimension: 16},
	})
	require.NoError(t, err)
	defer closeEmb()

	vecs, err := emb.Embed(context.Background(), []string{"When does the clinic open?"})
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Len(t, vecs[0], 16)
}

func TestNewEmbedder_GGUFWithoutBuildTag(t *testing.T) {
	_, _, err := newEmbedder(config.EmbedderConfig{
		Type: "gguf",
		GGUF: config.GGUFEmbedderConfig{ModelPath: "all-MiniLM-L6-v2.gguf"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNewEmbedder_Unknown(t *testing.T) {
	_, _, err := newEmbedder(config.EmbedderConfig{Type: "bert"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
