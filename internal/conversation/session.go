package conversation

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"medibot/internal/domain"
)

var preamble = []domain.Turn{
	{Role: domain.RoleSystem, Content: "You are a helpful assistant."},
	{Role: domain.RoleSystem, Content: "Please provide a detailed answer based on the nearest sentences."},
	{Role: domain.RoleSystem, Content: "Use the following sentences to answer the user's query:"},
}

// Preamble returns the fixed system turns that open every prompt.
func Preamble() []domain.Turn {
	return slices.Clone(preamble)
}

// Compose builds a prompt: the preamble, prior history, one system turn per
// retrieved sentence in retrieval order, then the user query.
func Compose(history []domain.Turn, query string, sentences []string) []domain.Turn {
	turns := make([]domain.Turn, 0, len(preamble)+len(history)+len(sentences)+1)
	turns = append(turns, preamble...)
	turns = append(turns, history...)
	for _, s := range sentences {
		turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: s})
	}
	return append(turns, domain.Turn{Role: domain.RoleUser, Content: query})
}

// Session holds the conversation history of a single user.
type Session struct {
	id    string
	mu    sync.Mutex
	turns []domain.Turn
}

// NewSession creates an empty session with a random id.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Turns returns a copy of the history.
func (s *Session) Turns() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.turns)
}

// Append adds turns to the end of the history.
func (s *Session) Append(turns ...domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
}

// Reset empties the history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
