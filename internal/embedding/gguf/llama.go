//go:build gguf

package gguf

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelindar/search"

	"medibot/internal/domain"
)

// Embedder implements domain.Embedder on top of a llama.cpp vectorizer.
// The vectorizer is not safe for concurrent use, so calls are serialized.
type Embedder struct {
	mu         sync.Mutex
	vectorizer *search.Vectorizer
	dimension  int
}

// New loads the model at modelPath. gpuLayers > 0 offloads layers to the GPU.
func New(modelPath string, gpuLayers int) (*Embedder, error) {
	if modelPath == "" {
		return nil, ErrModelPathRequired
	}
	v, err := search.NewVectorizer(modelPath, gpuLayers)
	if err != nil {
		return nil, fmt.Errorf("load gguf model %s: %w", modelPath, err)
	}
	return &Embedder{vectorizer: v}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "gguf" }

// Dimension returns the model output size once at least one text was embedded.
func (e *Embedder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimension
}

// Embed embeds each text in order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := e.vectorizer.EmbedText(text)
		if err != nil {
			return nil, fmt.Errorf("gguf embed: %w", err)
		}
		if e.dimension == 0 {
			e.dimension = len(vec)
		}
		if len(vec) != e.dimension {
			return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vec), e.dimension)
		}
		out[i] = vec
	}
	return out, nil
}

// Close releases the model.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vectorizer.Close()
}
