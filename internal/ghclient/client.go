// Package ghclient provides GitHub issue-search access for pull requests.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/prdash/internal/log"
	"github.com/spiffcs/prdash/internal/model"
)

// SearchRequest describes one call to the issue-search endpoint.
type SearchRequest struct {
	Author  string
	Term    string // optional free-text term
	PerPage int
	Page    int // 0 leaves the page parameter out
}

// Query builds the search query string, e.g. "author:octocat type:pr readme".
func (r SearchRequest) Query() string {
	parts := []string{"author:" + r.Author, "type:pr"}
	if term := strings.TrimSpace(r.Term); term != "" {
		parts = append(parts, term)
	}
	return strings.Join(parts, " ")
}

// Searcher runs pull request searches. It is the seam the caches are built on.
type Searcher interface {
	SearchPullRequests(ctx context.Context, req SearchRequest) ([]model.PullRequest, error)
}

// Client wraps the GitHub API client. Requests are unauthenticated.
type Client struct {
	client *gh.Client
}

// Ensure Client implements Searcher.
var _ Searcher = (*Client)(nil)

// NewClient creates a client. An empty apiURL uses https://api.github.com/.
func NewClient(apiURL string) (*Client, error) {
	httpClient := &http.Client{
		Transport: &rateLimitTransport{base: http.DefaultTransport},
	}
	client := gh.NewClient(httpClient)

	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", apiURL, err)
		}
		client.BaseURL = base
	}

	return &Client{client: client}, nil
}

// SearchPullRequests runs a single search request and converts the items.
func (c *Client) SearchPullRequests(ctx context.Context, req SearchRequest) ([]model.PullRequest, error) {
	query := req.Query()
	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{
			PerPage: req.PerPage,
			Page:    req.Page,
		},
	}

	log.Debug("searching pull requests", "query", query, "per_page", req.PerPage, "page", req.Page)

	result, _, err := c.client.Search.Issues(ctx, query, opts)
	if err != nil {
		var rateErr *gh.RateLimitError
		if errors.As(err, &rateErr) {
			return nil, fmt.Errorf("search %q: %w: %w", query, ErrRateLimited, err)
		}
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	prs := make([]model.PullRequest, 0, len(result.Issues))
	for _, issue := range result.Issues {
		prs = append(prs, issueToPullRequest(issue))
	}

	log.Trace("search complete", "query", query, "items", len(prs), "total", result.GetTotal())
	return prs, nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// repoFromURL extracts "owner/repo" from a GitHub API repository URL.
// URL format: https://api.github.com/repos/owner/repo
func repoFromURL(apiURL string) string {
	const marker = "/repos/"
	idx := strings.Index(apiURL, marker)
	if idx < 0 {
		return ""
	}
	parts := strings.SplitN(apiURL[idx+len(marker):], "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "/" + parts[1]
}

// issueToPullRequest converts a search result issue to a model.PullRequest.
// Search items rarely carry a repository object, so the name falls back to
// the repository URL.
func issueToPullRequest(issue *gh.Issue) model.PullRequest {
	repo := issue.GetRepository().GetFullName()
	if repo == "" {
		repo = repoFromURL(issue.GetRepositoryURL())
	}

	return model.PullRequest{
		ID:           issue.GetID(),
		Number:       issue.GetNumber(),
		Title:        issue.GetTitle(),
		HTMLURL:      issue.GetHTMLURL(),
		CreatedAt:    issue.GetCreatedAt().Time,
		State:        model.State(issue.GetState()),
		RepoFullName: repo,
	}
}
