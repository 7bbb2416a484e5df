package index

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"medibot/internal/domain"
)

// Flat is an exact in-memory index using squared Euclidean distance.
// Ids are insertion positions. Vectors can be appended but never removed.
type Flat struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
}

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("index dimension %d: %w", dimension, domain.ErrInvalidConfig)
	}
	return &Flat{dimension: dimension}, nil
}

// Factory adapts NewFlat to domain.IndexFactory.
func Factory(dimension int) (domain.Index, error) {
	return NewFlat(dimension)
}

// Dimension returns the fixed vector length of the index.
func (f *Flat) Dimension() int { return f.dimension }

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

// Add appends all vectors or none of them.
func (f *Flat) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != f.dimension {
			return fmt.Errorf("vector %d has length %d, want %d: %w", i, len(v), f.dimension, domain.ErrDimensionMismatch)
		}
	}
	copied := make([][]float32, len(vectors))
	for i, v := range vectors {
		copied[i] = slices.Clone(v)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors = append(f.vectors, copied...)
	return nil
}

// Search returns up to k nearest vectors ordered by ascending distance.
// Equal distances keep insertion order.
func (f *Flat) Search(query []float32, k int) ([]domain.Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k=%d: %w", k, domain.ErrInvalidConfig)
	}
	if len(query) != f.dimension {
		return nil, fmt.Errorf("query has length %d, want %d: %w", len(query), f.dimension, domain.ErrDimensionMismatch)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	hits := make([]domain.Neighbor, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = domain.Neighbor{ID: i, Distance: squaredL2(query, v)}
	}
	slices.SortStableFunc(hits, func(a, b domain.Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k:k], nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
