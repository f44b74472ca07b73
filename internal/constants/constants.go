// Package constants provides a centralized location for configuration
// defaults and magic numbers used throughout prdash.
package constants

// Search defaults
const (
	// DefaultPageSize is the number of pull requests per browsing page.
	DefaultPageSize = 6

	// DefaultSearchPageSize is the result size for a free-text search.
	// The search API caps per_page at 100.
	DefaultSearchPageSize = 100

	// MaxPageSize is the largest per_page value the search API accepts.
	MaxPageSize = 100

	// DefaultAuthor is whose pull requests are shown when nothing is configured.
	DefaultAuthor = "ArnabChatterjee20k"
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged. Unauthenticated search allows 10 requests a minute.
	RateLimitLowWatermark = 3
)

// Local list keys
const (
	KeyTodos    = "todos"
	KeyMovies   = "movies"
	KeyProblems = "problems"
)

// Column widths for the pull request table and list view
const (
	ColState   = 8
	ColRepo    = 28
	ColTitle   = 50
	ColCreated = 12
)

// TUI layout constants
const (
	// HeaderLines covers title, stats, search box and hint.
	HeaderLines = 6

	// FooterLines covers pagination and help.
	FooterLines = 4
)

// Error messages used when the API gives no message of its own.
const (
	FallbackPageError   = "failed to fetch pull requests"
	FallbackSearchError = "search failed"
)
