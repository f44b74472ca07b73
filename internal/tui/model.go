package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressModel is the Bubble Tea model for the inline task progress display
// shown while the dashboard loads.
type ProgressModel struct {
	tasks          []Task
	spinner        spinner.Model
	progress       progress.Model
	events         <-chan Event
	done           bool
	cancelled      bool
	author         string
	rateLimited    bool
	rateLimitReset time.Time
}

// doneMsg signals that the event channel was closed.
type doneMsg struct{}

// ProgressOption is a functional option for configuring a ProgressModel.
type ProgressOption func(*ProgressModel)

// WithTasks sets the tasks to display.
func WithTasks(tasks []Task) ProgressOption {
	return func(m *ProgressModel) {
		m.tasks = tasks
	}
}

// WithProgressAuthor shows whose pull requests are being fetched.
func WithProgressAuthor(author string) ProgressOption {
	return func(m *ProgressModel) {
		m.author = author
	}
}

// NewProgressModel creates a progress display fed by events.
func NewProgressModel(events <-chan Event, opts ...ProgressOption) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	p := progress.New(
		progress.WithScaledGradient("#60a5fa", "#1e3a8a"),
		progress.WithWidth(25),
		progress.WithoutPercentage(),
	)

	m := ProgressModel{
		tasks:    DashboardTasks(),
		spinner:  s,
		progress: p,
		events:   events,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model.
func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.events),
	)
}

// Cancelled reports whether the user quit before the work finished.
func (m ProgressModel) Cancelled() bool {
	return m.cancelled
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case TaskEvent:
		var cmd tea.Cmd
		m, cmd = m.updateTask(msg)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case RateLimitEvent:
		m.rateLimited = msg.Limited
		m.rateLimitReset = msg.ResetAt
		return m, waitForEvent(m.events)

	case DoneEvent, doneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// updateTask updates a task based on a TaskEvent.
func (m ProgressModel) updateTask(e TaskEvent) (ProgressModel, tea.Cmd) {
	var cmd tea.Cmd
	for i := range m.tasks {
		if m.tasks[i].ID != e.Task {
			continue
		}
		m.tasks[i].apply(e)
		if e.Progress > 0 {
			cmd = m.progress.SetPercent(e.Progress)
		}
		break
	}
	return m, cmd
}

// View renders the model.
func (m ProgressModel) View() string {
	var b strings.Builder

	if m.author != "" {
		fmt.Fprintf(&b, "  Dashboard for %s\n", userStyle.Render(m.author))
	}
	for _, task := range m.tasks {
		b.WriteString(task.View(m.spinner.View(), m.progress))
		b.WriteString("\n")
	}

	if m.rateLimited {
		if d := time.Until(m.rateLimitReset).Round(time.Second); d > 0 {
			b.WriteString(warnStyle.Render(fmt.Sprintf("\n  Rate limited (resets in %s)\n", d)))
		}
	}

	if !m.done {
		b.WriteString(footerStyle.Render("\n  Press Ctrl+C to cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// waitForEvent creates a command that waits for the next event.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return event
	}
}
