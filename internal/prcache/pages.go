package prcache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/ghclient"
	"github.com/spiffcs/prdash/internal/log"
	"github.com/spiffcs/prdash/internal/model"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page number must be at least 1")

// PageCache stores fetched result pages keyed by 1-based page number.
// A page that loaded successfully is never fetched again. Failed pages keep
// their error status but no data, so the next Fetch tries again.
//
// Returned slices are shared with the cache and must not be modified.
type PageCache struct {
	searcher ghclient.Searcher
	author   string
	pageSize int

	group singleflight.Group

	mu     sync.RWMutex
	pages  map[int][]model.PullRequest
	status map[int]Status
}

// NewPageCache creates a page cache for author's pull requests.
// A pageSize below 1 uses the default.
func NewPageCache(searcher ghclient.Searcher, author string, pageSize int) *PageCache {
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	return &PageCache{
		searcher: searcher,
		author:   author,
		pageSize: pageSize,
		pages:    make(map[int][]model.PullRequest),
		status:   make(map[int]Status),
	}
}

// PageSize returns the number of items requested per page.
func (c *PageCache) PageSize() int {
	return c.pageSize
}

// Fetch returns page n, loading it if needed. Concurrent calls for the same
// page share one request; the first caller's context governs it.
func (c *PageCache) Fetch(ctx context.Context, n int) ([]model.PullRequest, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, n)
	}

	if prs, ok := c.Peek(n); ok {
		log.Trace("page cache hit", "page", n)
		return prs, nil
	}

	v, err, shared := c.group.Do(strconv.Itoa(n), func() (any, error) {
		return c.load(ctx, n)
	})
	if shared {
		log.Trace("joined in-flight page fetch", "page", n)
	}
	if err != nil {
		return nil, err
	}
	return v.([]model.PullRequest), nil
}

func (c *PageCache) load(ctx context.Context, n int) ([]model.PullRequest, error) {
	c.mu.Lock()
	// a previous flight may have finished between Peek and Do
	if prs, ok := c.pages[n]; ok {
		c.mu.Unlock()
		return prs, nil
	}
	c.status[n] = Status{Phase: PhaseLoading}
	c.mu.Unlock()

	prs, err := c.searcher.SearchPullRequests(ctx, ghclient.SearchRequest{
		Author:  c.author,
		PerPage: c.pageSize,
		Page:    n,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		msg := ghclient.ErrorMessage(err, constants.FallbackPageError)
		c.status[n] = Status{Phase: PhaseError, Err: msg}
		log.Debug("page fetch failed", "page", n, "error", err)
		return nil, fmt.Errorf("fetch page %d: %w", n, err)
	}

	if prs == nil {
		prs = []model.PullRequest{}
	}
	c.pages[n] = prs
	c.status[n] = Status{Phase: PhaseReady}
	log.Debug("page fetched", "page", n, "items", len(prs))
	return prs, nil
}

// Peek returns page n without fetching. ok is false unless the page is ready.
func (c *PageCache) Peek(n int) ([]model.PullRequest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	prs, ok := c.pages[n]
	return prs, ok
}

// Status reports the state of page n. Pages never requested are idle.
func (c *PageCache) Status(n int) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status[n]
}

// Pages returns the numbers of all ready pages in ascending order.
func (c *PageCache) Pages() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	nums := make([]int, 0, len(c.pages))
	for n := range c.pages {
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

// All returns the union of every ready page, in page order.
func (c *PageCache) All() []model.PullRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()

	nums := make([]int, 0, len(c.pages))
	total := 0
	for n, prs := range c.pages {
		nums = append(nums, n)
		total += len(prs)
	}
	slices.Sort(nums)

	all := make([]model.PullRequest, 0, total)
	for _, n := range nums {
		all = append(all, c.pages[n]...)
	}
	return all
}

// HasNext reports whether page k+1 is ready and non-empty. An empty page is
// the only end-of-results signal the search API gives.
func (c *PageCache) HasNext(k int) bool {
	prs, ok := c.Peek(k + 1)
	return ok && len(prs) > 0
}

// ShouldReadAhead reports whether page k is ready and page k+1 is neither
// loaded nor in flight. A failed k+1 qualifies again, so callers should only
// ask when the user lands on k or k itself arrives, never in reaction to the
// k+1 result.
func (c *PageCache) ShouldReadAhead(k int) bool {
	if k < 1 {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.status[k].Phase != PhaseReady {
		return false
	}
	next := c.status[k+1].Phase
	return next == PhaseIdle || next == PhaseError
}

// ReadAhead fetches page k+1 in the background. The returned channel is
// closed once the fetch finishes, successfully or not.
func (c *PageCache) ReadAhead(ctx context.Context, k int) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := c.Fetch(ctx, k+1); err != nil {
			log.Debug("read-ahead failed", "page", k+1, "error", err)
		}
	}()
	return done
}
