// Package prcache holds the in-memory pull request stores behind the view:
// a page-indexed cache for browsing and a term-indexed overlay for search.
// Entries live for the lifetime of the process and are never evicted.
package prcache

// Phase is the lifecycle position of one page slot.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Status is the state of a single page. Err is only set in PhaseError and
// holds the message shown to the user.
type Status struct {
	Phase Phase
	Err   string
}
