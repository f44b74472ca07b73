// Package tui implements the interactive terminal views: the pull request
// browser and the progress display used while the dashboard loads.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/spiffcs/prdash/internal/prcache"
	"github.com/spiffcs/prdash/internal/view"
)

// RunProgress starts the progress display and blocks until the event channel
// closes or the user cancels. It reports whether the user cancelled.
func RunProgress(events <-chan Event, opts ...ProgressOption) (bool, error) {
	model := NewProgressModel(events, opts...)
	// Don't use alt screen - render inline
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if pm, ok := final.(ProgressModel); ok {
		return pm.Cancelled(), nil
	}
	return false, nil
}

// RunPRView starts the interactive pull request view.
func RunPRView(ctx context.Context, pages *prcache.PageCache, search *prcache.Overlay, state view.State, opts ...PROption) error {
	model := NewPRModel(ctx, pages, search, state, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("pull request view: %w", err)
	}
	return nil
}

// ciVars are environment variables whose presence means output is not
// watched by a person.
var ciVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"JENKINS_URL",
	"TRAVIS",
	"CIRCLECI",
	"GITLAB_CI",
	"BUILDKITE",
}

// ShouldUseTUI returns true if the TUI should be used based on environment.
func ShouldUseTUI() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return !inCI(os.Getenv)
}

func inCI(getenv func(string) string) bool {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// SendEvent sends an event to the channel in a non-blocking manner.
func SendEvent(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- e:
	default:
		// drop the event rather than stall the worker
	}
}

// SendTaskEvent is a convenience function for sending task events.
func SendTaskEvent(ch chan<- Event, task TaskID, status TaskStatus, opts ...TaskEventOption) {
	e := TaskEvent{
		Task:   task,
		Status: status,
	}
	for _, opt := range opts {
		opt(&e)
	}
	SendEvent(ch, e)
}

// TaskEventOption is a functional option for TaskEvent.
type TaskEventOption func(*TaskEvent)

// WithMessage sets the message on a TaskEvent.
func WithMessage(msg string) TaskEventOption {
	return func(e *TaskEvent) {
		e.Message = msg
	}
}

// WithCount sets the count on a TaskEvent.
func WithCount(count int) TaskEventOption {
	return func(e *TaskEvent) {
		e.Count = count
	}
}

// WithProgress sets the progress on a TaskEvent.
func WithProgress(progress float64) TaskEventOption {
	return func(e *TaskEvent) {
		e.Progress = progress
	}
}

// WithError sets the error on a TaskEvent.
func WithError(err error) TaskEventOption {
	return func(e *TaskEvent) {
		e.Error = err
	}
}
