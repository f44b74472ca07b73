// Package view derives what the pull request view shows from the caches and
// the user's filter, sort and page selection. Everything here is pure and is
// recomputed on every change; nothing is memoized.
package view

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spiffcs/prdash/internal/model"
)

// Reduce filters prs by status and orders them by mode. The input slice is
// never modified; the result is always a new slice.
func Reduce(prs []model.PullRequest, filter model.StatusFilter, mode model.SortMode) []model.PullRequest {
	out := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if filter.Matches(pr) {
			out = append(out, pr)
		}
	}

	switch mode {
	case model.SortOldest:
		slices.SortStableFunc(out, func(a, b model.PullRequest) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case model.SortRepo:
		// Collators keep scratch buffers and are not safe to share.
		col := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b model.PullRequest) int {
			return col.CompareString(a.RepoFullName, b.RepoFullName)
		})
	default:
		slices.SortStableFunc(out, func(a, b model.PullRequest) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}

	return out
}

// Stats counts pull requests by state.
type Stats struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

// Summarize counts prs. Fed with every fetched page, the result is a lower
// bound on the author's totals that grows as more pages are visited.
func Summarize(prs []model.PullRequest) Stats {
	s := Stats{Total: len(prs)}
	for _, pr := range prs {
		switch pr.State {
		case model.StateOpen:
			s.Open++
		case model.StateClosed:
			s.Closed++
		}
	}
	return s
}
