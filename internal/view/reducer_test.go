package view

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spiffcs/prdash/internal/model"
)

func pr(id int64, state model.State, repo string, day int) model.PullRequest {
	return model.PullRequest{
		ID:           id,
		State:        state,
		RepoFullName: repo,
		CreatedAt:    time.Date(2024, 5, day, 12, 0, 0, 0, time.UTC),
	}
}

func ids(prs []model.PullRequest) []int64 {
	out := make([]int64, len(prs))
	for i, p := range prs {
		out[i] = p.ID
	}
	return out
}

var sample = []model.PullRequest{
	pr(1, model.StateOpen, "octo/zeta", 3),
	pr(2, model.StateClosed, "octo/alpha", 9),
	pr(3, model.StateOpen, "", 1),
	pr(4, model.StateClosed, "Octo/Beta", 5),
	pr(5, model.StateOpen, "octo/alpha", 7),
}

func TestReduceFilter(t *testing.T) {
	tests := []struct {
		filter model.StatusFilter
		want   []int64
	}{
		{model.FilterAll, []int64{2, 5, 4, 1, 3}},
		{model.FilterOpen, []int64{5, 1, 3}},
		{model.FilterClosed, []int64{2, 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := ids(Reduce(sample, tt.filter, model.SortNewest))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Reduce() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduceFilterPartitions(t *testing.T) {
	all := Reduce(sample, model.FilterAll, model.SortNewest)
	open := Reduce(sample, model.FilterOpen, model.SortNewest)
	closed := Reduce(sample, model.FilterClosed, model.SortNewest)

	if len(open)+len(closed) != len(all) {
		t.Fatalf("open (%d) + closed (%d) != all (%d)", len(open), len(closed), len(all))
	}

	seen := make(map[int64]bool)
	for _, p := range append(open, closed...) {
		if seen[p.ID] {
			t.Errorf("id %d appears in both open and closed", p.ID)
		}
		seen[p.ID] = true
	}
	for _, p := range all {
		if !seen[p.ID] {
			t.Errorf("id %d lost by filtering", p.ID)
		}
	}

	// reapplying a filter to its own output changes nothing
	if diff := cmp.Diff(open, Reduce(open, model.FilterOpen, model.SortNewest)); diff != "" {
		t.Errorf("filter not idempotent (-once +twice):\n%s", diff)
	}
}

func TestReduceSortNewestReversedIsOldest(t *testing.T) {
	newest := ids(Reduce(sample, model.FilterAll, model.SortNewest))
	oldest := ids(Reduce(sample, model.FilterAll, model.SortOldest))

	slices.Reverse(newest)
	if diff := cmp.Diff(oldest, newest); diff != "" {
		t.Errorf("reversed newest != oldest (-oldest +reversed):\n%s", diff)
	}
}

func TestReduceSortRepo(t *testing.T) {
	got := Reduce(sample, model.FilterAll, model.SortRepo)

	if got[0].RepoFullName != "" {
		t.Errorf("expected empty repository first, got %q", got[0].RepoFullName)
	}

	var repos []string
	for _, p := range got {
		repos = append(repos, p.RepoFullName)
	}
	// locale order ignores case, unlike a byte comparison
	want := []string{"", "octo/alpha", "octo/alpha", "Octo/Beta", "octo/zeta"}
	if diff := cmp.Diff(want, repos); diff != "" {
		t.Errorf("repo order mismatch (-want +got):\n%s", diff)
	}

	// equal repositories keep their input order
	if got[1].ID != 2 || got[2].ID != 5 {
		t.Errorf("expected stable order for equal repos, got ids %d, %d", got[1].ID, got[2].ID)
	}
}

func TestReduceIsIdempotentAndPure(t *testing.T) {
	input := slices.Clone(sample)

	for _, mode := range model.AllSortModes {
		for _, filter := range model.AllStatusFilters {
			once := Reduce(input, filter, mode)
			twice := Reduce(once, filter, mode)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("%s/%s not idempotent (-once +twice):\n%s", filter, mode, diff)
			}
		}
	}

	if diff := cmp.Diff(sample, input); diff != "" {
		t.Errorf("Reduce modified its input (-want +got):\n%s", diff)
	}
}

func TestReduceEmpty(t *testing.T) {
	got := Reduce(nil, model.FilterOpen, model.SortRepo)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSummarize(t *testing.T) {
	want := Stats{Total: 5, Open: 3, Closed: 2}
	if diff := cmp.Diff(want, Summarize(sample)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
	if got := Summarize(nil); got != (Stats{}) {
		t.Errorf("Summarize(nil) = %+v", got)
	}
}

func TestStaleHint(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		active    string
		hasActive bool
		want      bool
	}{
		{"empty input", "", "", false, false},
		{"whitespace input", "   ", "", false, false},
		{"typed, nothing active", "bugfix", "", false, true},
		{"typed equals active", "bugfix", "bugfix", true, false},
		{"typed differs from active", "bugfix2", "bugfix", true, true},
		{"padding differs", "bugfix ", "bugfix", true, true},
		{"cleared input with active", "", "bugfix", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StaleHint(tt.input, tt.active, tt.hasActive); got != tt.want {
				t.Errorf("StaleHint(%q, %q, %v) = %v, want %v", tt.input, tt.active, tt.hasActive, got, tt.want)
			}
		})
	}
}

func TestStatePaging(t *testing.T) {
	s := NewState(model.FilterAll, model.SortNewest)
	if s.Page != 1 {
		t.Fatalf("expected page 1, got %d", s.Page)
	}
	if got := s.PrevPage().Page; got != 1 {
		t.Errorf("PrevPage at 1 = %d, want 1", got)
	}
	if got := s.NextPage().NextPage().PrevPage().Page; got != 2 {
		t.Errorf("expected page 2, got %d", got)
	}
}
