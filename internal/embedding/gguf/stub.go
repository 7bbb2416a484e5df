//go:build !gguf

package gguf

import (
	"context"
	"fmt"

	"medibot/internal/domain"
)

// Embedder stands in for the llama.cpp embedder in builds without the gguf tag.
type Embedder struct{}

// New always fails: this binary has no llama.cpp support.
func New(modelPath string, gpuLayers int) (*Embedder, error) {
	if modelPath == "" {
		return nil, ErrModelPathRequired
	}
	return nil, fmt.Errorf("%w: built without gguf support, rebuild with -tags gguf", domain.ErrInvalidConfig)
}

func (e *Embedder) Name() string   { return "gguf" }
func (e *Embedder) Dimension() int { return 0 }

func (e *Embedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, fmt.Errorf("%w: built without gguf support", domain.ErrInvalidConfig)
}

func (e *Embedder) Close() error { return nil }
