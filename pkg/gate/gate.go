// File: pkg/gate/gate.go

// Package gate provides a Bubble Tea model that keeps the host application's
// main UI hidden until the onboarding flow has been completed. Terminal hosts
// wrap their root model in a gate.Model; windowed hosts can implement the
// same policy directly off onboard.Client.Subscribe.
package gate

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onboardkit/onboardkit/pkg/onboard"
)

// Builder constructs the gated content model once onboarding completes. The
// collected mapping (possibly nil) is handed through so the content can
// personalize itself.
type Builder func(data map[string]string) tea.Model

// CompletedMsg is emitted into the program when the onboarding flow
// completes. Hosts embedding gate.Model inside a larger model can intercept
// it.
type CompletedMsg struct {
	Data map[string]string
}

// ResetMsg is emitted when the onboarding state is reset; the gate drops its
// content and shows the placeholder again.
type ResetMsg struct{}

var (
	placeholderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(1, 3)

	placeholderTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("250"))

	placeholderHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// Model gates a content model behind onboarding completion. Construct with
// New; the zero value renders an empty view.
type Model struct {
	build   Builder
	events  <-chan onboard.Event
	cancel  func()
	content tea.Model
	width   int
	height  int
}

// New creates a gate over the given client. When the client has already
// completed onboarding the content model is built immediately and no
// placeholder is ever shown.
func New(client *onboard.Client, build Builder) Model {
	m := Model{build: build}

	if client != nil {
		m.events, m.cancel = client.Subscribe()
		if client.Completed() {
			m.content = build(client.Data())
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent()}
	if m.content != nil {
		cmds = append(cmds, m.content.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. State events swap the view between the
// placeholder and the content; everything else is forwarded to the content
// once it exists.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.content == nil {
			return m, nil
		}

	case CompletedMsg:
		if m.content == nil && m.build != nil {
			m.content = m.build(msg.Data)
			return m, tea.Batch(m.content.Init(), m.waitForEvent())
		}
		return m, m.waitForEvent()

	case ResetMsg:
		m.content = nil
		return m, m.waitForEvent()
	}

	if m.content == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.content != nil {
		return m.content.View()
	}

	box := placeholderStyle.Render(
		placeholderTitleStyle.Render("Welcome") + "\n\n" +
			placeholderHintStyle.Render("Complete onboarding in the browser window to continue."),
	)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// Done reports whether the gated content is currently shown.
func (m Model) Done() bool {
	return m.content != nil
}

// Close cancels the state subscription. Call when the program exits.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// waitForEvent blocks on the next state event and translates it into a
// message. A closed subscription ends the listen loop.
func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		if ev.Completed {
			return CompletedMsg{Data: ev.Data}
		}
		return ResetMsg{}
	}
}
