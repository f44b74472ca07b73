package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/spiffcs/prdash/internal/ghclient"
	"github.com/spiffcs/prdash/internal/model"
	"github.com/spiffcs/prdash/internal/prcache"
)

// scriptedSearcher serves fixed pages and search terms and counts requests.
type scriptedSearcher struct {
	mu    sync.Mutex
	pages map[int][]model.PullRequest
	terms map[string][]model.PullRequest
	calls int
}

func (s *scriptedSearcher) SearchPullRequests(_ context.Context, req ghclient.SearchRequest) ([]model.PullRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if req.Term != "" {
		prs, ok := s.terms[req.Term]
		if !ok {
			return nil, errors.New("Validation Failed")
		}
		return prs, nil
	}
	prs, ok := s.pages[req.Page]
	if !ok {
		return nil, fmt.Errorf("no page %d", req.Page)
	}
	return prs, nil
}

func (s *scriptedSearcher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func openPRs(n int) []model.PullRequest {
	prs := make([]model.PullRequest, n)
	for i := range prs {
		prs[i] = pr(int64(i+1), model.StateOpen, "octo/repo", i+1)
	}
	return prs
}

func newStores(s *scriptedSearcher) (*prcache.PageCache, *prcache.Overlay) {
	return prcache.NewPageCache(s, "octocat", 6), prcache.NewOverlay(s, "octocat", 100)
}

func TestDeriveLoadingBeforeFirstPage(t *testing.T) {
	pages, overlay := newStores(&scriptedSearcher{})
	d := Derive(NewState(model.FilterAll, model.SortNewest), pages, overlay)

	if !d.Loading {
		t.Error("expected loading before page 1 arrives")
	}
	if d.Mode != ModePaged || d.CanPrev || d.CanNext {
		t.Errorf("unexpected display: %+v", d)
	}
	if d.Empty() {
		t.Error("a loading display is not empty")
	}
}

func TestDeriveLastPageScenario(t *testing.T) {
	s := &scriptedSearcher{pages: map[int][]model.PullRequest{1: openPRs(6), 2: {}}}
	pages, overlay := newStores(s)
	ctx := context.Background()
	state := NewState(model.FilterAll, model.SortNewest)

	if _, err := pages.Fetch(ctx, 1); err != nil {
		t.Fatalf("Fetch(1) error: %v", err)
	}
	d := Derive(state, pages, overlay)
	if len(d.PRs) != 6 {
		t.Fatalf("expected 6 items on page 1, got %d", len(d.PRs))
	}
	if !pages.ShouldReadAhead(1) {
		t.Fatal("expected page 2 read-ahead to be due")
	}

	<-pages.ReadAhead(ctx, 1)

	d = Derive(state, pages, overlay)
	if d.CanNext {
		t.Error("next should be disabled when page 2 is empty")
	}
	if d.CanPrev {
		t.Error("previous should be disabled on page 1")
	}
	if s.count() != 2 {
		t.Errorf("expected 2 requests, got %d", s.count())
	}
}

func TestDeriveNextEnabledWhenFollowingPageHasItems(t *testing.T) {
	s := &scriptedSearcher{pages: map[int][]model.PullRequest{1: openPRs(6), 2: openPRs(2)}}
	pages, overlay := newStores(s)
	ctx := context.Background()

	_, _ = pages.Fetch(ctx, 1)
	<-pages.ReadAhead(ctx, 1)

	state := NewState(model.FilterAll, model.SortNewest)
	if d := Derive(state, pages, overlay); !d.CanNext {
		t.Error("expected next enabled")
	}

	state = state.NextPage()
	d := Derive(state, pages, overlay)
	if !d.CanPrev || d.Page != 2 || len(d.PRs) != 2 {
		t.Errorf("unexpected page 2 display: %+v", d)
	}
	if d.Stats.Total != 8 {
		t.Errorf("expected stats over both pages, got %+v", d.Stats)
	}
}

func TestDerivePageError(t *testing.T) {
	s := &scriptedSearcher{pages: map[int][]model.PullRequest{}}
	pages, overlay := newStores(s)

	_, _ = pages.Fetch(context.Background(), 1)
	d := Derive(NewState(model.FilterAll, model.SortNewest), pages, overlay)

	if d.Err != "no page 1" {
		t.Errorf("expected page error, got %q", d.Err)
	}
	if d.Loading {
		t.Error("a failed page is not loading")
	}
}

func TestDeriveSearchFilterWithoutRefetch(t *testing.T) {
	s := &scriptedSearcher{
		pages: map[int][]model.PullRequest{1: openPRs(6)},
		terms: map[string][]model.PullRequest{"readme": openPRs(3)},
	}
	pages, overlay := newStores(s)
	ctx := context.Background()

	_, _ = pages.Fetch(ctx, 1)
	state := NewState(model.FilterAll, model.SortNewest)
	state.Input = "readme"
	if _, err := overlay.Search(ctx, state.Input); err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	d := Derive(state, pages, overlay)
	if d.Mode != ModeSearch || d.Term != "readme" || len(d.PRs) != 3 {
		t.Fatalf("unexpected search display: %+v", d)
	}
	if d.CanPrev || d.CanNext {
		t.Error("pagination is hidden in search mode")
	}
	if d.Stale {
		t.Error("no stale hint when input matches the active term")
	}

	before := s.count()
	state.Filter = model.FilterClosed
	d = Derive(state, pages, overlay)
	if len(d.PRs) != 0 || !d.Empty() {
		t.Errorf("expected empty list for closed filter, got %d items", len(d.PRs))
	}
	if s.count() != before {
		t.Error("changing the filter must not fetch")
	}

	// search results never feed the stats
	if d.Stats.Total != 6 {
		t.Errorf("expected stats over page 1 only, got %+v", d.Stats)
	}
}

func TestDeriveStaleHintBeforeSearch(t *testing.T) {
	pages, overlay := newStores(&scriptedSearcher{})
	state := NewState(model.FilterAll, model.SortNewest)
	state.Input = "bugfix"

	d := Derive(state, pages, overlay)
	if !d.Stale {
		t.Error("expected stale hint for unsubmitted input")
	}
	if _, ok := overlay.Active(); ok {
		t.Error("typing must not activate a search")
	}
}

func TestDeriveSearchErrorBlocksList(t *testing.T) {
	s := &scriptedSearcher{pages: map[int][]model.PullRequest{1: openPRs(6)}}
	pages, overlay := newStores(s)
	ctx := context.Background()

	_, _ = pages.Fetch(ctx, 1)
	_, _ = overlay.Search(ctx, "missing")

	state := NewState(model.FilterAll, model.SortNewest)
	d := Derive(state, pages, overlay)
	if d.Err != "Validation Failed" || len(d.PRs) != 0 {
		t.Errorf("expected search error to replace the list, got %+v", d)
	}

	overlay.Reset()
	d = Derive(state, pages, overlay)
	if d.Err != "" || len(d.PRs) != 6 {
		t.Errorf("expected page 1 after reset, got %+v", d)
	}
}
