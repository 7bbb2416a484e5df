package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"medibot/internal/conversation"
	"medibot/internal/domain"
	"medibot/internal/logger"
)

// DefaultTopK is the number of sentences retrieved per query unless configured otherwise.
const DefaultTopK = 5

// RAGService builds the sentence index once and answers queries against it.
// Corpus and index are read-only after Initialize; the conversation session
// belongs to a single user.
type RAGService struct {
	segmenter domain.Segmenter
	embedder  domain.Embedder
	newIndex  domain.IndexFactory
	completer domain.Completer
	session   *conversation.Session
	topK      int
	log       *slog.Logger

	mu     sync.RWMutex
	corpus []string
	index  domain.Index
}

// Option configures a RAGService.
type Option func(*RAGService)

// WithCompleter sets the chat-completion backend used by Respond.
func WithCompleter(c domain.Completer) Option {
	return func(s *RAGService) { s.completer = c }
}

// WithTopK sets how many sentences Respond retrieves. Non-positive values are ignored.
func WithTopK(k int) Option {
	return func(s *RAGService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithLogger sets the logger. A nil logger keeps the discard default.
func WithLogger(l *slog.Logger) Option {
	return func(s *RAGService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSession replaces the conversation session created by default.
func WithSession(sess *conversation.Session) Option {
	return func(s *RAGService) {
		if sess != nil {
			s.session = sess
		}
	}
}

// NewRAGService wires the retrieval pipeline. Nothing is loaded until Initialize.
func NewRAGService(segmenter domain.Segmenter, embedder domain.Embedder, newIndex domain.IndexFactory, opts ...Option) *RAGService {
	s := &RAGService{
		segmenter: segmenter,
		embedder:  embedder,
		newIndex:  newIndex,
		session:   conversation.NewSession(),
		topK:      DefaultTopK,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("rag"), logger.SessionID(s.session.ID()))
	return s
}

// Initialize segments the corpus file, embeds every sentence and builds the
// index. On failure the previously built corpus and index are kept.
func (s *RAGService) Initialize(ctx context.Context, corpusPath string) error {
	start := time.Now()
	corpus, err := s.segmenter.BuildCorpus(corpusPath)
	if err != nil {
		return fmt.Errorf("build corpus: %w", err)
	}
	if len(corpus) == 0 {
		return fmt.Errorf("%s: %w", corpusPath, domain.ErrEmptyCorpus)
	}
	embeddings, err := s.embedder.Embed(ctx, corpus)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}
	if len(embeddings) != len(corpus) {
		return fmt.Errorf("%w: %d embeddings for %d sentences", domain.ErrCorpusMismatch, len(embeddings), len(corpus))
	}
	idx, err := s.newIndex(len(embeddings[0]))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := idx.Add(embeddings); err != nil {
		return fmt.Errorf("populate index: %w", err)
	}

	s.mu.Lock()
	s.corpus = corpus
	s.index = idx
	s.mu.Unlock()

	s.log.InfoContext(ctx, "index built",
		slog.String("corpus", corpusPath),
		slog.String("embedder", s.embedder.Name()),
		logger.Count("sentences", len(corpus)),
		logger.Count("dimension", idx.Dimension()),
		logger.Duration(time.Since(start)),
	)
	return nil
}

// Retrieve returns up to k corpus sentences nearest to query, closest first.
// Before Initialize it returns an empty result.
func (s *RAGService) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	s.mu.RLock()
	corpus, idx := s.corpus, s.index
	s.mu.RUnlock()
	if idx == nil || idx.Len() == 0 {
		return []string{}, nil
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: %d embeddings for 1 query", domain.ErrCorpusMismatch, len(vecs))
	}
	hits, err := idx.Search(vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		if h.ID < 0 || h.ID >= len(corpus) {
			return nil, fmt.Errorf("%w: index returned id %d for %d sentences", domain.ErrCorpusMismatch, h.ID, len(corpus))
		}
		out[i] = corpus[h.ID]
	}
	return out, nil
}

// ComposePrompt builds the turns sent to the completion backend: the fixed
// preamble, the session history, the retrieved sentences and the query.
func (s *RAGService) ComposePrompt(query string, sentences []string) []domain.Turn {
	return conversation.Compose(s.session.Turns(), query, sentences)
}

// Reset clears the conversation. The index is kept.
func (s *RAGService) Reset() {
	s.session.Reset()
	s.log.Info("conversation reset")
}

// Respond answers query with the completion backend and records the exchange
// in the session history. A failed completion leaves the history untouched.
func (s *RAGService) Respond(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", domain.ErrEmptyQuery
	}
	if s.completer == nil {
		return "", domain.ErrNoCompleter
	}
	sentences, err := s.Retrieve(ctx, query, s.topK)
	if err != nil {
		return "", err
	}
	start := time.Now()
	answer, err := s.completer.Complete(ctx, s.ComposePrompt(query, sentences))
	if err != nil {
		s.log.ErrorContext(ctx, "completion failed", logger.Error(err), logger.Duration(time.Since(start)))
		return "", fmt.Errorf("complete: %w", err)
	}

	turns := make([]domain.Turn, 0, len(sentences)+2)
	for _, sent := range sentences {
		turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: sent})
	}
	turns = append(turns,
		domain.Turn{Role: domain.RoleUser, Content: query},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)
	s.session.Append(turns...)

	s.log.InfoContext(ctx, "answered",
		logger.Count("retrieved", len(sentences)),
		logger.Duration(time.Since(start)),
	)
	return answer, nil
}

// Corpus returns a copy of the indexed sentences.
func (s *RAGService) Corpus() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.corpus)
}

// SessionID identifies the conversation held by this service.
func (s *RAGService) SessionID() string { return s.session.ID() }
