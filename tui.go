package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hark/hotkey"
	"hark/session"
)

type controller interface {
	ToggleListening()
	Copy()
	Clear()
	Summarize()
}

type stateMsg struct{ state session.State }
type statesClosedMsg struct{}

type tuiModel struct {
	ctrl     controller
	states   <-chan session.State
	hotkeyOn bool

	state         session.State
	width, height int
}

var (
	listeningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	idleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	placeholder    = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	panelStyle     = lipgloss.NewStyle().Padding(0, 1)
)

func newTUIModel(ctrl controller, states <-chan session.State, hotkeyOn bool) tuiModel {
	return tuiModel{ctrl: ctrl, states: states, hotkeyOn: hotkeyOn}
}

// readState waits for the next published state. Update re-arms it after
// every stateMsg.
func readState(states <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return statesClosedMsg{}
		}
		return stateMsg{state: st}
	}
}

func (m tuiModel) Init() tea.Cmd {
	return readState(m.states)
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case stateMsg:
		m.state = msg.state
		return m, readState(m.states)

	case statesClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case keyQuit, keyInterrupt:
			return m, tea.Quit
		case keyToggle:
			m.ctrl.ToggleListening()
		case keyCopy:
			m.ctrl.Copy()
		case keyClear:
			m.ctrl.Clear()
		case keySummarize:
			if m.state.CanSummarize() {
				m.ctrl.Summarize()
			}
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	width := m.width - 4
	if width < 20 {
		width = 76
	}

	var b strings.Builder
	if m.state.Listening {
		b.WriteString(listeningStyle.Render("● LISTENING"))
	} else {
		b.WriteString(idleStyle.Render("○ IDLE"))
	}
	if m.state.Summarizing {
		b.WriteString("  " + idleStyle.Render("summarizing…"))
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Transcript") + "\n")
	if m.state.Transcript == "" {
		b.WriteString(placeholder.Render("Transcript will appear here.") + "\n")
	} else {
		for _, line := range wrapText(m.state.Transcript, width) {
			b.WriteString(textStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n")

	if m.state.Summary != "" {
		b.WriteString(titleStyle.Render("Summary") + "\n")
		for _, line := range wrapText(m.state.Summary, width) {
			b.WriteString(summaryStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if msg := m.state.ErrorMessage(); msg != "" {
		for _, line := range wrapText("! "+msg, width) {
			b.WriteString(errorStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.helpLine())
	return panelStyle.Render(b.String())
}

func (m tuiModel) helpLine() string {
	toggle := "start"
	if m.state.Listening {
		toggle = "stop"
	}
	item := func(key, label string) string {
		return helpKeyStyle.Render(key) + helpStyle.Render(" "+label)
	}
	summarize := item("s", "summarize")
	if !m.state.CanSummarize() {
		summarize = dimStyle.Render("s summarize")
	}
	parts := []string{
		item("space", toggle),
		item("c", "copy"),
		item("x", "clear"),
		summarize,
		item("q", "quit"),
	}
	line := strings.Join(parts, helpStyle.Render(" · "))
	if m.hotkeyOn {
		line += "\n" + item(hotkey.Label, "to start/stop from anywhere")
	}
	return line
}

// wrapText breaks text at spaces so no line exceeds width runes. A word
// longer than width is split.
func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	rs := []rune(strings.TrimRight(text, " "))
	var lines []string
	for len(rs) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if rs[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, string(rs[:splitAt]))
		rs = []rune(strings.TrimLeft(string(rs[splitAt:]), " "))
	}
	if len(rs) > 0 {
		lines = append(lines, string(rs))
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
