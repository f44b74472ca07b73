package model

import "testing"

func TestStatusFilterMatches(t *testing.T) {
	open := PullRequest{State: StateOpen}
	closed := PullRequest{State: StateClosed}

	tests := []struct {
		filter     StatusFilter
		wantOpen   bool
		wantClosed bool
	}{
		{FilterAll, true, true},
		{FilterOpen, true, false},
		{FilterClosed, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			if got := tt.filter.Matches(open); got != tt.wantOpen {
				t.Errorf("%s.Matches(open) = %v, want %v", tt.filter, got, tt.wantOpen)
			}
			if got := tt.filter.Matches(closed); got != tt.wantClosed {
				t.Errorf("%s.Matches(closed) = %v, want %v", tt.filter, got, tt.wantClosed)
			}
		})
	}
}

func TestCycling(t *testing.T) {
	if got := FilterAll.Next().Next().Next(); got != FilterAll {
		t.Errorf("three filter steps should wrap to all, got %s", got)
	}
	if got := FilterOpen.Next(); got != FilterClosed {
		t.Errorf("FilterOpen.Next() = %s, want closed", got)
	}
	if got := SortRepo.Next(); got != SortNewest {
		t.Errorf("SortRepo.Next() = %s, want newest", got)
	}
	if got := SortMode("bogus").Next(); got != SortNewest {
		t.Errorf("unknown sort should reset to newest, got %s", got)
	}
}

func TestParse(t *testing.T) {
	if _, err := ParseStatusFilter("merged"); err == nil {
		t.Error("expected error for merged filter")
	}
	if f, err := ParseStatusFilter("closed"); err != nil || f != FilterClosed {
		t.Errorf("ParseStatusFilter(closed) = %s, %v", f, err)
	}
	if _, err := ParseSortMode("title"); err == nil {
		t.Error("expected error for title sort")
	}
	if m, err := ParseSortMode("repo"); err != nil || m != SortRepo {
		t.Errorf("ParseSortMode(repo) = %s, %v", m, err)
	}
}
