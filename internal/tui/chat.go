// Package tui implements the interactive chat terminal for the
// assignment assistant. The model holds the conversation transcript and
// the echoed protocol state (prior message and pending decision token);
// the conversation engine itself stays stateless.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/projectnexus/taskpilot/internal/assistant"
)

// TurnRunner runs one turn of the assignment conversation.
type TurnRunner interface {
	ProposeOrExecute(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error)
}

// turnDoneMsg carries the result of an asynchronous conversation turn.
type turnDoneMsg struct {
	result assistant.TurnResult
	err    error
}

type chatRole string

const (
	roleUser      chatRole = "you"
	roleAssistant chatRole = "taskpilot"
)

type chatLine struct {
	role chatRole
	text string
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ChatApp is the bubbletea model for the assistant chat.
type ChatApp struct {
	runner TurnRunner
	input  textinput.Model

	history []chatLine

	// priorMessage and pendingToken are echoed back to the conversation on
	// the next turn; they are the only protocol state the client holds.
	priorMessage string
	pendingToken string

	waiting  bool
	width    int
	quitting bool
}

// NewChatApp creates a chat model around the given conversation engine.
func NewChatApp(runner TurnRunner) *ChatApp {
	ti := textinput.New()
	ti.Placeholder = `Try "assign PN2-7 to Varad" and press Enter...`
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return &ChatApp{
		runner: runner,
		input:  ti,
		width:  80,
	}
}

// Init implements tea.Model.
func (a *ChatApp) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *ChatApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit

		case "enter":
			if a.waiting {
				return a, nil
			}
			text := strings.TrimSpace(a.input.Value())
			if text == "" {
				return a, nil
			}
			a.input.Reset()
			a.history = append(a.history, chatLine{role: roleUser, text: text})
			a.waiting = true
			return a, a.runTurn(text)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.input.Width = msg.Width - 6

	case turnDoneMsg:
		a.waiting = false
		if msg.err != nil {
			a.history = append(a.history, chatLine{
				role: roleAssistant,
				text: errorStyle.Render(fmt.Sprintf("error: %v", msg.err)),
			})
			return a, nil
		}
		a.history = append(a.history, chatLine{role: roleAssistant, text: msg.result.Reply})
		a.applyTurnState(msg.result)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// runTurn sends one message to the conversation, echoing the held
// protocol state. The prior message is recorded before the turn runs so
// the next turn sees this one as its predecessor.
func (a *ChatApp) runTurn(message string) tea.Cmd {
	prior := a.priorMessage
	token := a.pendingToken
	a.priorMessage = message

	return func() tea.Msg {
		result, err := a.runner.ProposeOrExecute(context.Background(), message, prior, token)
		return turnDoneMsg{result: result, err: err}
	}
}

// applyTurnState updates the echoed token from a finished turn: a new
// proposal replaces it, an executed write consumes it, and anything else
// leaves the current proposal standing.
func (a *ChatApp) applyTurnState(result assistant.TurnResult) {
	switch {
	case result.Token != "":
		a.pendingToken = result.Token
	case result.Executed:
		a.pendingToken = ""
	}
}

// View implements tea.Model.
func (a *ChatApp) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	for _, line := range a.history {
		switch line.role {
		case roleUser:
			b.WriteString(userStyle.Render("you> ") + line.text + "\n")
		case roleAssistant:
			b.WriteString(assistantStyle.Render("taskpilot> ") + line.text + "\n")
		}
	}

	if a.pendingToken != "" {
		b.WriteString(pendingStyle.Render("(a proposed assignment is awaiting your confirmation)") + "\n")
	}
	if a.waiting {
		b.WriteString(assistantStyle.Render("taskpilot> ") + "thinking...\n")
	}

	input := inputBoxStyle.Width(a.width - 2).Render(userStyle.Render("> ") + a.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, b.String(), input)
}

// NewChatProgram creates a bubbletea program for the chat.
func NewChatProgram(runner TurnRunner) *tea.Program {
	return tea.NewProgram(NewChatApp(runner))
}
