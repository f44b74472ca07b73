package prcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spiffcs/prdash/internal/ghclient"
	"github.com/spiffcs/prdash/internal/model"
)

func termResponder(results map[string]int) func(ghclient.SearchRequest, int) ([]model.PullRequest, error) {
	return func(req ghclient.SearchRequest, _ int) ([]model.PullRequest, error) {
		n, ok := results[req.Term]
		if !ok {
			return nil, errors.New("Validation Failed")
		}
		return makePRs(req.Term, n), nil
	}
}

func TestOverlaySearchCachesAndActivates(t *testing.T) {
	fake := &fakeSearcher{respond: termResponder(map[string]int{"readme": 3})}
	o := NewOverlay(fake, "octocat", 100)
	ctx := context.Background()

	prs, err := o.Search(ctx, "readme")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(prs) != 3 {
		t.Errorf("expected 3 results, got %d", len(prs))
	}
	if term, ok := o.Active(); !ok || term != "readme" {
		t.Errorf("Active() = %q, %v", term, ok)
	}

	want := ghclient.SearchRequest{Author: "octocat", Term: "readme", PerPage: 100}
	if diff := cmp.Diff(want, fake.requests[0]); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	o.Reset()
	if _, ok := o.Active(); ok {
		t.Error("expected no active term after reset")
	}

	again, err := o.Search(ctx, "readme")
	if err != nil {
		t.Fatalf("repeat Search() error: %v", err)
	}
	if fake.calls() != 1 {
		t.Errorf("expected cached repeat search, got %d calls", fake.calls())
	}
	if diff := cmp.Diff(prs, again); diff != "" {
		t.Errorf("cached result differs (-first +again):\n%s", diff)
	}
	if term, ok := o.Active(); !ok || term != "readme" {
		t.Errorf("expected readme active again, got %q, %v", term, ok)
	}
}

func TestOverlayEmptyTerm(t *testing.T) {
	fake := &fakeSearcher{respond: termResponder(nil)}
	o := NewOverlay(fake, "octocat", 100)

	for _, term := range []string{"", "   ", "\t\n"} {
		if _, err := o.Search(context.Background(), term); !errors.Is(err, ErrEmptyTerm) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyTerm", term, err)
		}
	}
	if fake.calls() != 0 {
		t.Errorf("expected no network calls, got %d", fake.calls())
	}
	if _, ok := o.Active(); ok {
		t.Error("expected no active term")
	}
}

func TestOverlayKeysOnExactTerm(t *testing.T) {
	fake := &fakeSearcher{respond: termResponder(map[string]int{"readme": 1, " readme": 1})}
	o := NewOverlay(fake, "octocat", 100)
	ctx := context.Background()

	_, _ = o.Search(ctx, "readme")
	_, _ = o.Search(ctx, " readme")

	if fake.calls() != 2 {
		t.Errorf("distinct raw terms should be fetched separately, got %d calls", fake.calls())
	}
	if term, _ := o.Active(); term != " readme" {
		t.Errorf("expected padded term active, got %q", term)
	}
}

func TestOverlayFailureKeepsActiveTerm(t *testing.T) {
	fake := &fakeSearcher{respond: termResponder(map[string]int{"readme": 2})}
	o := NewOverlay(fake, "octocat", 100)
	ctx := context.Background()

	if _, err := o.Search(ctx, "readme"); err != nil {
		t.Fatalf("Search(readme) error: %v", err)
	}
	if _, err := o.Search(ctx, "broken"); err == nil {
		t.Fatal("expected search failure")
	}

	if got := o.Err(); got != "Validation Failed" {
		t.Errorf("Err() = %q, want %q", got, "Validation Failed")
	}
	if term, ok := o.Active(); !ok || term != "readme" {
		t.Errorf("active term changed on failure: %q, %v", term, ok)
	}
	if o.Loading() {
		t.Error("loading should be cleared after failure")
	}
	if _, ok := o.Peek("broken"); ok {
		t.Error("failed term should not be cached")
	}

	// activating a cached term leaves the error alone; reset clears it
	if _, err := o.Search(ctx, "readme"); err != nil {
		t.Fatalf("Search(readme) error: %v", err)
	}
	if o.Err() == "" {
		t.Error("cached activation should not clear the error")
	}
	o.Reset()
	if o.Err() != "" {
		t.Errorf("expected error cleared by reset, got %q", o.Err())
	}
}

func TestOverlayFailureIsRetried(t *testing.T) {
	fake := &fakeSearcher{
		respond: func(req ghclient.SearchRequest, call int) ([]model.PullRequest, error) {
			if call == 1 {
				return nil, errors.New("")
			}
			return makePRs(req.Term, 1), nil
		},
	}
	o := NewOverlay(fake, "octocat", 100)
	ctx := context.Background()

	_, _ = o.Search(ctx, "fix")
	if got := o.Err(); got != "search failed" {
		t.Errorf("expected fallback message, got %q", got)
	}

	if _, err := o.Search(ctx, "fix"); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if o.Err() != "" {
		t.Errorf("expected error cleared by new request, got %q", o.Err())
	}
	if fake.calls() != 2 {
		t.Errorf("expected 2 calls, got %d", fake.calls())
	}
}

func TestOverlayActivate(t *testing.T) {
	fake := &fakeSearcher{respond: termResponder(map[string]int{"a": 1})}
	o := NewOverlay(fake, "octocat", 100)

	if o.Activate("a") {
		t.Error("Activate should fail for an uncached term")
	}
	_, _ = o.Search(context.Background(), "a")
	o.Reset()
	if !o.Activate("a") {
		t.Error("Activate should succeed for a cached term")
	}
	if fake.calls() != 1 {
		t.Errorf("Activate must not fetch, got %d calls", fake.calls())
	}
}

func TestOverlayLoadingWhileInFlight(t *testing.T) {
	fake := &fakeSearcher{
		gate:    make(chan struct{}),
		respond: termResponder(map[string]int{"slow": 1}),
	}
	o := NewOverlay(fake, "octocat", 100)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = o.Search(context.Background(), "slow")
		}()
	}

	deadline := time.Now().Add(time.Second)
	for fake.calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !o.Loading() {
		t.Error("expected loading while a search is outstanding")
	}
	close(fake.gate)
	wg.Wait()

	if o.Loading() {
		t.Error("expected loading cleared")
	}
	if fake.calls() != 1 {
		t.Errorf("expected duplicate searches to collapse, got %d calls", fake.calls())
	}
}
