package conversation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibot/internal/domain"
)

func TestCompose_Order(t *testing.T) {
	turns := Compose(nil, "When does the clinic open?", []string{"The clinic opens at 9am.", "Bring your insurance card."})

	require.Len(t, turns, 6)
	assert.Equal(t, Preamble(), turns[:3])
	assert.Equal(t, domain.Turn{Role: domain.RoleSystem, Content: "The clinic opens at 9am."}, turns[3])
	assert.Equal(t, domain.Turn{Role: domain.RoleSystem, Content: "Bring your insurance card."}, turns[4])
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "When does the clinic open?"}, turns[5])
}

func TestCompose_IncludesHistoryAfterPreamble(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}
	turns := Compose(history, "next", nil)

	require.Len(t, turns, 6)
	assert.Equal(t, history, turns[3:5])
	assert.Equal(t, domain.RoleUser, turns[5].Role)
}

func TestPreamble_IsACopy(t *testing.T) {
	p := Preamble()
	require.Len(t, p, 3)
	p[0].Content = "changed"
	assert.Equal(t, "You are a helpful assistant.", Preamble()[0].Content)
	for _, turn := range Preamble() {
		assert.Equal(t, domain.RoleSystem, turn.Role)
	}
}

func TestSession_AppendAndReset(t *testing.T) {
	s := NewSession()
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)

	s.Append(domain.Turn{Role: domain.RoleUser, Content: "q"}, domain.Turn{Role: domain.RoleAssistant, Content: "a"})
	assert.Len(t, s.Turns(), 2)

	snapshot := s.Turns()
	snapshot[0].Content = "mutated"
	assert.Equal(t, "q", s.Turns()[0].Content)

	s.Reset()
	assert.Empty(t, s.Turns())
	assert.Equal(t, Preamble(), Compose(s.Turns(), "q", nil)[:3])
	assert.Len(t, Compose(s.Turns(), "q", nil), 4)
}
