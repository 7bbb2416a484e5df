package domain

import "errors"

// Errors shared across the retrieval pipeline. Packages wrap them with
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrCorpusUnreadable is returned when the corpus file is missing or cannot be read.
	ErrCorpusUnreadable = errors.New("corpus file unreadable")

	// ErrInvalidConfig is returned for invalid parameters such as a non-positive dimension or k.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDimensionMismatch is returned when a vector length differs from the expected dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyCorpus is returned when segmentation yields no sentences.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrCorpusMismatch is returned when the number of embeddings differs from the number of sentences.
	ErrCorpusMismatch = errors.New("embedding count does not match corpus size")

	// ErrEmptyQuery is returned when a query is blank after trimming.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrNoCompleter is returned by Respond when no completion backend was configured.
	ErrNoCompleter = errors.New("completion backend not configured")
)
