package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"medibot/internal/domain"
)

// Greeting is the first message shown in every conversation.
const Greeting = "Hello! I am MediBot, your virtual assistant. How can I help you today?"

// ChatPort is the TUI-facing subset of the RAG service.
type ChatPort interface {
	Respond(ctx context.Context, query string) (string, error)
	Reset()
}

type message struct {
	role domain.Role
	text string
}

type responseMsg struct {
	answer string
	err    error
}

// Model is the Bubble Tea model for the chat window.
type Model struct {
	ctx      context.Context
	service  ChatPort
	input    textinput.Model
	viewport viewport.Model
	messages []message
	status   string
	pending  bool
	ready    bool
}

// New creates a chat model that starts with the greeting.
func New(ctx context.Context, service ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	vp.KeyMap = scrollKeys()
	return Model{
		ctx:      ctx,
		service:  service,
		input:    ti,
		viewport: vp,
		messages: []message{{role: domain.RoleAssistant, text: Greeting}},
		status:   "Enter to send, ctrl+r to start over, esc to quit.",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and response events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input line
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-ch)
		m.refresh()
		return m, nil
	case responseMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			// Put the failed query back in the input for a retry.
			last := m.messages[len(m.messages)-1]
			m.messages = m.messages[:len(m.messages)-1]
			m.input.SetValue(last.text)
		} else {
			m.status = ""
			m.messages = append(m.messages, message{role: domain.RoleAssistant, text: msg.answer})
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			if m.pending {
				return m, nil
			}
			m.service.Reset()
			m.messages = []message{{role: domain.RoleAssistant, text: Greeting}}
			m.status = "Conversation cleared."
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending {
				return m, nil
			}
			m.pending = true
			m.status = "Thinking..."
			m.messages = append(m.messages, message{role: domain.RoleUser, text: q})
			m.input.Reset()
			m.refresh()
			return m, m.respond(q)
		}
	}
	var inputCmd, viewportCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewportCmd)
}

// scrollKeys leaves letter keys to the input line.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

func (m Model) respond(q string) tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		answer, err := svc.Respond(ctx, q)
		return responseMsg{answer: answer, err: err}
	}
}

// View renders the transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("MediBot")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	width := max(10, m.viewport.Width-2)
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.role == domain.RoleUser {
			b.WriteString(userStyle.Render("You"))
		} else {
			b.WriteString(botStyle.Render("MediBot"))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.text))
	}
	return b.String()
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
