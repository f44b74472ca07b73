package tui

import "time"

// TaskID identifies a task in the dashboard progress display.
type TaskID int

const (
	TaskFetchPRs  TaskID = iota // recent pull requests, page 1
	TaskLoadLists               // to-do, movie and problem list counts
	TaskRender                  // formatting the summary
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
	StatusSkipped
)

// Event is the interface for all progress events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64 // 0.0 to 1.0
	Error    error
}

func (TaskEvent) isEvent() {}

// RateLimitEvent reports that the search quota is exhausted.
type RateLimitEvent struct {
	Limited bool
	ResetAt time.Time
}

func (RateLimitEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
