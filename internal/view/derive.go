package view

import (
	"strings"

	"github.com/spiffcs/prdash/internal/model"
	"github.com/spiffcs/prdash/internal/prcache"
)

// PageSource is the read side of a page cache.
type PageSource interface {
	Peek(n int) ([]model.PullRequest, bool)
	Status(n int) prcache.Status
	HasNext(k int) bool
	All() []model.PullRequest
}

// SearchSource is the read side of a search overlay.
type SearchSource interface {
	Active() (string, bool)
	Peek(term string) ([]model.PullRequest, bool)
	Loading() bool
	Err() string
}

var (
	_ PageSource   = (*prcache.PageCache)(nil)
	_ SearchSource = (*prcache.Overlay)(nil)
)

// Mode says which store feeds the list.
type Mode int

const (
	ModePaged Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "paged"
}

// State is the user's selection. The active search term is owned by the
// overlay, not by State.
type State struct {
	Page   int
	Input  string
	Filter model.StatusFilter
	Sort   model.SortMode
}

// NewState returns the initial selection: page 1, no input.
func NewState(filter model.StatusFilter, sort model.SortMode) State {
	return State{Page: 1, Filter: filter, Sort: sort}
}

// PrevPage moves back one page, never below 1.
func (s State) PrevPage() State {
	s.Page = max(1, s.Page-1)
	return s
}

// NextPage moves forward one page.
func (s State) NextPage() State {
	s.Page = max(1, s.Page) + 1
	return s
}

// StaleHint reports whether the typed input no longer matches what is shown.
func StaleHint(input, active string, hasActive bool) bool {
	return strings.TrimSpace(input) != "" && (!hasActive || input != active)
}

// Display is everything needed to render one frame.
type Display struct {
	Mode    Mode
	Term    string // active search term in ModeSearch
	Page    int
	Loading bool
	Err     string
	PRs     []model.PullRequest
	CanPrev bool
	CanNext bool
	Stale   bool
	Stats   Stats
}

// Empty reports whether there is nothing to list and nothing pending.
func (d Display) Empty() bool {
	return !d.Loading && d.Err == "" && len(d.PRs) == 0
}

// Derive computes the frame for state. A pending or failed search takes the
// list area in either mode; otherwise the active term's results or the
// current page are filtered and sorted. Stats always cover fetched pages only.
func Derive(state State, pages PageSource, search SearchSource) Display {
	page := max(1, state.Page)
	term, hasActive := search.Active()

	d := Display{
		Mode:  ModePaged,
		Page:  page,
		Stale: StaleHint(state.Input, term, hasActive),
		Stats: Summarize(pages.All()),
	}
	if hasActive {
		d.Mode = ModeSearch
		d.Term = term
	}

	switch {
	case search.Loading():
		d.Loading = true
	case search.Err() != "":
		d.Err = search.Err()
	case hasActive:
		prs, _ := search.Peek(term)
		d.PRs = Reduce(prs, state.Filter, state.Sort)
	default:
		if prs, ok := pages.Peek(page); ok {
			d.PRs = Reduce(prs, state.Filter, state.Sort)
		} else if st := pages.Status(page); st.Phase == prcache.PhaseError {
			d.Err = st.Err
		} else {
			d.Loading = true
		}
	}

	if d.Mode == ModePaged {
		d.CanPrev = page > 1
		d.CanNext = pages.HasNext(page)
	}

	return d
}
