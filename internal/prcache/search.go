package prcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/ghclient"
	"github.com/spiffcs/prdash/internal/log"
	"github.com/spiffcs/prdash/internal/model"
)

// ErrEmptyTerm is returned when a search term is blank.
var ErrEmptyTerm = errors.New("search term is empty")

// Overlay caches full search results keyed by the exact submitted term.
// While a term is active it replaces paged browsing. The loading flag and
// error slot are shared by all terms and independent of page status.
type Overlay struct {
	searcher ghclient.Searcher
	author   string
	pageSize int

	group singleflight.Group

	mu        sync.RWMutex
	results   map[string][]model.PullRequest
	active    string
	hasActive bool
	inflight  int
	err       string
}

// NewOverlay creates a search overlay for author's pull requests.
// A pageSize below 1 uses the default.
func NewOverlay(searcher ghclient.Searcher, author string, pageSize int) *Overlay {
	if pageSize < 1 {
		pageSize = constants.DefaultSearchPageSize
	}
	return &Overlay{
		searcher: searcher,
		author:   author,
		pageSize: pageSize,
		results:  make(map[string][]model.PullRequest),
	}
}

// Search activates term, fetching its results unless they are cached.
// On failure the shared error is set and the active term is left as it was.
func (o *Overlay) Search(ctx context.Context, term string) ([]model.PullRequest, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptyTerm
	}

	if o.Activate(term) {
		log.Trace("search cache hit", "term", term)
		prs, _ := o.Peek(term)
		return prs, nil
	}

	v, err, _ := o.group.Do(term, func() (any, error) {
		return o.load(ctx, term)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.PullRequest), nil
}

func (o *Overlay) load(ctx context.Context, term string) ([]model.PullRequest, error) {
	o.mu.Lock()
	if prs, ok := o.results[term]; ok {
		o.active, o.hasActive = term, true
		o.mu.Unlock()
		return prs, nil
	}
	o.inflight++
	o.err = ""
	o.mu.Unlock()

	prs, err := o.searcher.SearchPullRequests(ctx, ghclient.SearchRequest{
		Author:  o.author,
		Term:    term,
		PerPage: o.pageSize,
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inflight--

	if err != nil {
		o.err = ghclient.ErrorMessage(err, constants.FallbackSearchError)
		log.Debug("search failed", "term", term, "error", err)
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	if prs == nil {
		prs = []model.PullRequest{}
	}
	o.results[term] = prs
	o.active, o.hasActive = term, true
	log.Debug("search complete", "term", term, "items", len(prs))
	return prs, nil
}

// Activate makes a cached term the active one. It never fetches and reports
// whether term was cached.
func (o *Overlay) Activate(term string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.results[term]; !ok {
		return false
	}
	o.active, o.hasActive = term, true
	return true
}

// Reset returns to paged browsing and clears the search error.
// Cached results are kept.
func (o *Overlay) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active, o.hasActive = "", false
	o.err = ""
}

// Active returns the active term, if any.
func (o *Overlay) Active() (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.active, o.hasActive
}

// Loading reports whether any search request is outstanding.
func (o *Overlay) Loading() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.inflight > 0
}

// Err returns the last search error message, or "" if none.
func (o *Overlay) Err() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

// Peek returns the cached results for term without fetching.
func (o *Overlay) Peek(term string) ([]model.PullRequest, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	prs, ok := o.results[term]
	return prs, ok
}
