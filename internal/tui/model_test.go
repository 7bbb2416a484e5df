package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibot/internal/domain"
)

type mockChat struct {
	answer  string
	err     error
	queries []string
	resets  int
}

func (m *mockChat) Respond(_ context.Context, q string) (string, error) {
	m.queries = append(m.queries, q)
	return m.answer, m.err
}

func (m *mockChat) Reset() { m.resets++ }

func sized(t *testing.T, svc ChatPort) Model {
	t.Helper()
	next, _ := New(context.Background(), svc).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func typeAndSend(t *testing.T, m Model, q string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(q)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestNew_StartsWithGreeting(t *testing.T) {
	m := sized(t, &mockChat{})
	require.Len(t, m.messages, 1)
	assert.Equal(t, domain.RoleAssistant, m.messages[0].role)
	assert.Equal(t, Greeting, m.messages[0].text)
	assert.Contains(t, m.View(), "MediBot")
}

func TestEnter_SendsQueryAndShowsAnswer(t *testing.T) {
	svc := &mockChat{answer: "We open at 9am."}
	m, cmd := typeAndSend(t, sized(t, svc), "  When do you open?  ")
	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, message{role: domain.RoleUser, text: "When do you open?"}, m.messages[1])

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.pending)
	assert.Equal(t, []string{"When do you open?"}, svc.queries)
	require.Len(t, m.messages, 3)
	assert.Equal(t, message{role: domain.RoleAssistant, text: "We open at 9am."}, m.messages[2])
}

func TestEnter_IgnoresBlankAndPending(t *testing.T) {
	svc := &mockChat{answer: "ok"}
	m, cmd := typeAndSend(t, sized(t, svc), "   ")
	assert.Nil(t, cmd)
	assert.Len(t, m.messages, 1)

	m, cmd = typeAndSend(t, m, "first")
	require.NotNil(t, cmd)
	_, cmd = typeAndSend(t, m, "second")
	assert.Nil(t, cmd)
}

func TestResponseError_RestoresQuery(t *testing.T) {
	svc := &mockChat{err: errors.New("rate limited")}
	m, cmd := typeAndSend(t, sized(t, svc), "When do you open?")

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Len(t, m.messages, 1)
	assert.Equal(t, "When do you open?", m.input.Value())
	assert.Contains(t, m.status, "rate limited")
}

func TestCtrlR_ResetsConversation(t *testing.T) {
	svc := &mockChat{answer: "ok"}
	m, cmd := typeAndSend(t, sized(t, svc), "hi")
	next, _ := m.Update(cmd())
	m = next.(Model)
	require.Len(t, m.messages, 3)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	assert.Equal(t, 1, svc.resets)
	require.Len(t, m.messages, 1)
	assert.Equal(t, Greeting, m.messages[0].text)
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := sized(t, &mockChat{}).Update(tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func longAnswer(t *testing.T, svc *mockChat) Model {
	t.Helper()
	svc.answer = strings.TrimSuffix(strings.Repeat("line\n", 200), "\n")
	next, _ := New(context.Background(), svc).Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, cmd := typeAndSend(t, next.(Model), "tell me everything")
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestTranscript_Scrolls(t *testing.T) {
	m := longAnswer(t, &mockChat{})
	require.True(t, m.viewport.AtBottom())
	bottom := m.viewport.YOffset

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	m = next.(Model)
	assert.Less(t, m.viewport.YOffset, bottom)

	paged := m.viewport.YOffset
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.Equal(t, paged-1, m.viewport.YOffset)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m = next.(Model)
	assert.Greater(t, m.viewport.YOffset, paged-1)
}

func TestTranscript_LettersGoToInput(t *testing.T) {
	m := longAnswer(t, &mockChat{})
	bottom := m.viewport.YOffset

	for _, r := range "kbu" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	assert.Equal(t, bottom, m.viewport.YOffset)
	assert.Equal(t, "kbu", m.input.Value())
}
