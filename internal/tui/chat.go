package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"chat-relay/internal/relay"
)

// ChatApp is the terminal chat client. Each submitted prompt drives one
// adapter run against the relay; esc cancels the turn in flight, which aborts
// the relay's upstream call transitively.
type ChatApp struct {
	adapter *relay.ChatAdapter
}

func NewChat(adapter *relay.ChatAdapter) *ChatApp {
	return &ChatApp{adapter: adapter}
}

func (a *ChatApp) Run() error {
	p := tea.NewProgram(newChatModel(a.adapter))
	_, err := p.Run()
	return err
}

type replyMsg struct {
	text string
}

type turnErrMsg struct {
	err error
}

// chromeHeight is the number of view lines around the history viewport:
// title, blank, status line, input line, footer.
const chromeHeight = 5

type chatModel struct {
	adapter *relay.ChatAdapter
	turns   []relay.ChatTurn
	note    string
	waiting bool
	cancel  context.CancelFunc

	width   int
	height  int
	spin    spinner.Model
	input   textinput.Model
	history viewport.Model
}

func newChatModel(adapter *relay.ChatAdapter) chatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "send a message"
	ti.Focus()

	return chatModel{
		adapter: adapter,
		spin:    s,
		input:   ti,
		history: viewport.New(),
	}
}

func (m chatModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The input owns typing and paste; the viewport owns scrolling. Both see
	// every message, our bindings below run on top.
	var inputCmd, histCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.history, histCmd = m.history.Update(msg)
	cmds = append(cmds, inputCmd, histCmd)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.SetWidth(msg.Width)
		m.history.SetHeight(max(msg.Height-chromeHeight, 1))
		m.syncHistory()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "esc":
			if m.waiting && m.cancel != nil {
				m.cancel()
			}
		case "enter":
			if !m.waiting && strings.TrimSpace(m.input.Value()) != "" {
				m.turns = append(m.turns, relay.ChatTurn{
					Role:    "user",
					Content: []relay.ContentPart{{Type: "text", Text: m.input.Value()}},
				})
				m.input.Reset()
				m.note = ""
				m.waiting = true
				m.syncHistory()
				var cmd tea.Cmd
				m, cmd = m.startTurn()
				cmds = append(cmds, cmd)
			}
		}
	case replyMsg:
		m.waiting = false
		m.cancel = nil
		m.turns = append(m.turns, relay.ChatTurn{
			Role:    "assistant",
			Content: []relay.ContentPart{{Type: "text", Text: msg.text}},
		})
		m.syncHistory()
	case turnErrMsg:
		m.waiting = false
		m.cancel = nil
		if errors.Is(msg.err, context.Canceled) {
			m.note = "turn cancelled"
		} else {
			m.note = msg.err.Error()
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *chatModel) syncHistory() {
	m.history.SetContent(renderTurns(m.turns))
	m.history.GotoBottom()
}

func (m chatModel) startTurn() (chatModel, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	adapter := m.adapter
	turns := make([]relay.ChatTurn, len(m.turns))
	copy(turns, m.turns)

	return m, func() tea.Msg {
		defer cancel()
		var text strings.Builder
		err := adapter.Run(ctx, turns, func(chunk relay.Chunk) error {
			for _, part := range chunk.Content {
				if part.Type == "text" {
					text.WriteString(part.Text)
				}
			}
			return nil
		})
		if err != nil {
			return turnErrMsg{err: err}
		}
		return replyMsg{text: text.String()}
	}
}

func (m chatModel) View() tea.View {
	status := ""
	if m.waiting {
		status = fmt.Sprintf("%s waiting for reply (esc cancels)", m.spin.View())
	}
	if m.note != "" {
		status = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(m.note)
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Render("chat-relay"),
		"",
		m.history.View(),
		status,
		m.input.View(),
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Render("enter sends, esc cancels the turn, ctrl+c quits"),
	}

	v := tea.NewView(lipgloss.JoinVertical(lipgloss.Left, lines...))
	v.AltScreen = true
	return v
}

func renderTurns(turns []relay.ChatTurn) string {
	userStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	botStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		label := userStyle.Render("you")
		if turn.Role == "assistant" {
			label = botStyle.Render("assistant")
		}
		lines = append(lines, fmt.Sprintf("%s %s", label, turnText(turn)))
	}
	return strings.Join(lines, "\n")
}

func turnText(turn relay.ChatTurn) string {
	parts := make([]string, 0, len(turn.Content))
	for _, part := range turn.Content {
		if part.Type != "text" {
			continue
		}
		parts = append(parts, part.Text)
	}
	return strings.Join(parts, "\n")
}
