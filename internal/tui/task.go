package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// Task is one line in the progress display.
type Task struct {
	ID       TaskID
	Name     string
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64
	Error    error
}

// NewTask creates a pending task.
func NewTask(id TaskID, name string) Task {
	return Task{
		ID:     id,
		Name:   name,
		Status: StatusPending,
	}
}

// DashboardTasks returns the task list for the dashboard command.
func DashboardTasks() []Task {
	return []Task{
		NewTask(TaskFetchPRs, "Fetching recent pull requests"),
		NewTask(TaskLoadLists, "Reading local lists"),
		NewTask(TaskRender, "Building summary"),
	}
}

// apply merges an event into the task. Zero fields leave the previous value.
func (t *Task) apply(e TaskEvent) {
	t.Status = e.Status
	if e.Message != "" {
		t.Message = e.Message
	}
	if e.Count > 0 {
		t.Count = e.Count
	}
	if e.Progress > 0 {
		t.Progress = e.Progress
	}
	if e.Error != nil {
		t.Error = e.Error
	}
}

// View renders the task as a single line.
func (t Task) View(spinnerFrame string, prog progress.Model) string {
	var b strings.Builder

	name := taskNameStyle.Render(t.Name)
	if t.Status == StatusPending {
		name = taskDimStyle.Render(t.Name)
	}
	fmt.Fprintf(&b, "  %s %s", StatusIcon(t.Status, spinnerFrame), name)

	switch {
	case t.Status == StatusRunning && t.Progress > 0:
		fmt.Fprintf(&b, " %s %d%%", prog.ViewAs(t.Progress), int(t.Progress*100))
		if t.Message != "" {
			b.WriteString(" " + messageStyle.Render("("+t.Message+")"))
		}
	case t.Message != "":
		b.WriteString(" " + messageStyle.Render(t.Message))
	case t.Count > 0:
		b.WriteString(" " + messageStyle.Render(fmt.Sprintf("(%d)", t.Count)))
	}

	if t.Error != nil {
		b.WriteString(" " + errorStyle.Render(t.Error.Error()))
	}

	return b.String()
}
