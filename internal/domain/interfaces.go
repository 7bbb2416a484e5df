package domain

import "context"

// Role tags a conversation turn with its author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message of the prompt sent to a completion model.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Neighbor is a single nearest-neighbor hit: the insertion position of the
// stored vector and its squared L2 distance to the query.
type Neighbor struct {
	ID       int
	Distance float64
}

// Segmenter turns raw text into an ordered list of sentences.
type Segmenter interface {
	Segment(text string) []string
	BuildCorpus(path string) ([]string, error)
}

// Embedder maps texts to fixed-dimension vectors, one per input, same order.
// A single query is embedded as a batch of one.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index stores vectors and answers k-nearest-neighbor queries.
type Index interface {
	Dimension() int
	Len() int
	Add(vectors [][]float32) error
	Search(query []float32, k int) ([]Neighbor, error)
}

// IndexFactory creates an empty index of the given dimension.
type IndexFactory func(dimension int) (Index, error)

// Completer generates a reply for an ordered list of turns.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}
