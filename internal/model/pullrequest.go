// Package model contains domain types for the prdash application.
// These types are independent of any external GitHub library.
package model

import (
	"fmt"
	"time"
)

// State is the lifecycle state reported by the search API.
// Merged pull requests are reported as closed.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// PullRequest is an immutable copy of one search result item.
type PullRequest struct {
	ID           int64     `json:"id"`
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	HTMLURL      string    `json:"htmlUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	State        State     `json:"state"`
	RepoFullName string    `json:"repoFullName,omitempty"`
}

// StatusFilter selects which pull requests are displayed by state.
type StatusFilter string

const (
	FilterAll    StatusFilter = "all"
	FilterOpen   StatusFilter = "open"
	FilterClosed StatusFilter = "closed"
)

// AllStatusFilters lists the filters in the order the UI cycles through them.
var AllStatusFilters = []StatusFilter{FilterAll, FilterOpen, FilterClosed}

// Matches reports whether a pull request passes the filter.
func (f StatusFilter) Matches(pr PullRequest) bool {
	return f == FilterAll || State(f) == pr.State
}

// Next returns the filter following f in AllStatusFilters.
func (f StatusFilter) Next() StatusFilter {
	for i, candidate := range AllStatusFilters {
		if candidate == f {
			return AllStatusFilters[(i+1)%len(AllStatusFilters)]
		}
	}
	return FilterAll
}

// ParseStatusFilter validates a filter name.
func ParseStatusFilter(s string) (StatusFilter, error) {
	for _, f := range AllStatusFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid status filter: %s (must be all, open or closed)", s)
}

// SortMode orders the displayed pull requests.
type SortMode string

const (
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortRepo   SortMode = "repo"
)

// AllSortModes lists the sort modes in the order the UI cycles through them.
var AllSortModes = []SortMode{SortNewest, SortOldest, SortRepo}

// Next returns the sort mode following m in AllSortModes.
func (m SortMode) Next() SortMode {
	for i, candidate := range AllSortModes {
		if candidate == m {
			return AllSortModes[(i+1)%len(AllSortModes)]
		}
	}
	return SortNewest
}

// Label is the human readable name of the sort mode.
func (m SortMode) Label() string {
	switch m {
	case SortOldest:
		return "Oldest First"
	case SortRepo:
		return "By Repository"
	default:
		return "Newest First"
	}
}

// ParseSortMode validates a sort mode name.
func ParseSortMode(s string) (SortMode, error) {
	for _, m := range AllSortModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid sort mode: %s (must be newest, oldest or repo)", s)
}
