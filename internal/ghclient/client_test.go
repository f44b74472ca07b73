package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/spiffcs/prdash/internal/model"
)

// newTestClient starts a server for handler and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestSearchRequestQuery(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
		want string
	}{
		{"no term", SearchRequest{Author: "octocat"}, "author:octocat type:pr"},
		{"with term", SearchRequest{Author: "octocat", Term: "readme"}, "author:octocat type:pr readme"},
		{"padded term", SearchRequest{Author: "octocat", Term: "  fix bug "}, "author:octocat type:pr fix bug"},
		{"blank term", SearchRequest{Author: "octocat", Term: "   "}, "author:octocat type:pr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Query(); got != tt.want {
				t.Errorf("Query() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchPullRequests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/issues" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("q"); got != "author:octocat type:pr" {
			t.Errorf("q = %q", got)
		}
		if got := q.Get("per_page"); got != "6" {
			t.Errorf("per_page = %q, want 6", got)
		}
		if got := q.Get("page"); got != "2" {
			t.Errorf("page = %q, want 2", got)
		}

		w.Header().Set("X-RateLimit-Remaining", "9")
		w.Header().Set("X-RateLimit-Limit", "10")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
		fmt.Fprint(w, `{
			"total_count": 2,
			"items": [
				{"id": 11, "number": 5, "title": "Add docs", "html_url": "https://github.com/octo/docs/pull/5",
				 "created_at": "2024-03-01T10:00:00Z", "state": "open",
				 "repository_url": "https://api.github.com/repos/octo/docs"},
				{"id": 12, "number": 9, "title": "Fix build", "html_url": "https://github.com/octo/app/pull/9",
				 "created_at": "2024-02-01T10:00:00Z", "state": "closed"}
			]
		}`)
	})

	prs, err := c.SearchPullRequests(context.Background(), SearchRequest{Author: "octocat", PerPage: 6, Page: 2})
	if err != nil {
		t.Fatalf("SearchPullRequests() error: %v", err)
	}
	if len(prs) != 2 {
		t.Fatalf("expected 2 pull requests, got %d", len(prs))
	}

	first := prs[0]
	if first.ID != 11 || first.Number != 5 || first.Title != "Add docs" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.State != model.StateOpen {
		t.Errorf("expected state open, got %q", first.State)
	}
	if first.RepoFullName != "octo/docs" {
		t.Errorf("expected repo octo/docs, got %q", first.RepoFullName)
	}
	if want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC); !first.CreatedAt.Equal(want) {
		t.Errorf("expected created %v, got %v", want, first.CreatedAt)
	}
	if prs[1].RepoFullName != "" {
		t.Errorf("expected empty repo for item without repository_url, got %q", prs[1].RepoFullName)
	}

	remaining, limit, _, ok := GetRateLimitStatus()
	if !ok || remaining != 9 || limit != 10 {
		t.Errorf("rate limit status = %d/%d (seen=%v), want 9/10", remaining, limit, ok)
	}
}

func TestSearchPullRequestsOmitsPageForSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("page") {
			t.Errorf("page should be omitted, got %q", q.Get("page"))
		}
		if got := q.Get("q"); got != "author:octocat type:pr readme" {
			t.Errorf("q = %q", got)
		}
		fmt.Fprint(w, `{"total_count": 0, "items": []}`)
	})

	prs, err := c.SearchPullRequests(context.Background(), SearchRequest{Author: "octocat", Term: "readme", PerPage: 100})
	if err != nil {
		t.Fatalf("SearchPullRequests() error: %v", err)
	}
	if len(prs) != 0 {
		t.Errorf("expected no results, got %d", len(prs))
	}
}

func TestSearchPullRequestsErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed"}`)
	})

	_, err := c.SearchPullRequests(context.Background(), SearchRequest{Author: "octocat", PerPage: 6, Page: 1})
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
	if got := ErrorMessage(err, "fallback"); got != "Validation Failed" {
		t.Errorf("ErrorMessage() = %q, want %q", got, "Validation Failed")
	}
}

func TestSearchPullRequestsRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Limit", "10")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
	})

	_, err := c.SearchPullRequests(context.Background(), SearchRequest{Author: "octocat", PerPage: 6, Page: 1})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := ErrorMessage(err, "fallback"); got != "API rate limit exceeded" {
		t.Errorf("ErrorMessage() = %q", got)
	}
	if !IsRateLimited() {
		t.Error("expected global state to report rate limited")
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	if got := ErrorMessage(nil, "fallback"); got != "fallback" {
		t.Errorf("nil error: got %q", got)
	}
	if got := ErrorMessage(errors.New("connection refused"), "fallback"); got != "connection refused" {
		t.Errorf("plain error: got %q", got)
	}
}

func TestRepoFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://api.github.com/repos/owner/repo", "owner/repo"},
		{"https://ghe.example.com/api/v3/repos/org/project", "org/project"},
		{"https://api.github.com/repos/owner", ""},
		{"https://api.github.com/repos/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := repoFromURL(tt.url); got != tt.want {
			t.Errorf("repoFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseRateLimitHeaders(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining != -1 || limit != -1 || !resetAt.IsZero() {
		t.Errorf("expected -1/-1/zero for missing headers, got %d/%d/%v", remaining, limit, resetAt)
	}

	resp.Header.Set("X-RateLimit-Remaining", "4")
	resp.Header.Set("X-RateLimit-Limit", "30")
	resp.Header.Set("X-RateLimit-Reset", "1700000000")
	remaining, limit, resetAt = parseRateLimitHeaders(resp)
	if remaining != 4 || limit != 30 || resetAt.Unix() != 1700000000 {
		t.Errorf("got %d/%d/%v", remaining, limit, resetAt)
	}
}
