// Package output renders pull request lists and the dashboard summary for
// non-interactive use.
package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/spiffcs/prdash/internal/localstore"
	"github.com/spiffcs/prdash/internal/model"
	"github.com/spiffcs/prdash/internal/view"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatMarkdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid output format: %s (must be table, json or markdown)", s)
}

// PRList is one rendered list of pull requests, either a page or a search.
type PRList struct {
	Mode         string              `json:"mode"`
	Term         string              `json:"term,omitempty"`
	Page         int                 `json:"page,omitempty"`
	Filter       model.StatusFilter  `json:"filter"`
	Sort         model.SortMode      `json:"sort"`
	HasPrev      bool                `json:"hasPrev"`
	HasNext      bool                `json:"hasNext"`
	Stats        view.Stats          `json:"stats"`
	PullRequests []model.PullRequest `json:"pullRequests"`
}

// NewPRList builds a PRList from a derived display.
func NewPRList(d view.Display, state view.State) PRList {
	prs := d.PRs
	if prs == nil {
		prs = []model.PullRequest{}
	}
	list := PRList{
		Mode:         d.Mode.String(),
		Filter:       state.Filter,
		Sort:         state.Sort,
		HasPrev:      d.CanPrev,
		HasNext:      d.CanNext,
		Stats:        d.Stats,
		PullRequests: prs,
	}
	if d.Mode == view.ModeSearch {
		list.Term = d.Term
	} else {
		list.Page = d.Page
	}
	return list
}

// Dashboard is the overview of recent pull requests and local list sizes.
type Dashboard struct {
	PullRequests []model.PullRequest `json:"pullRequests"`
	Error        string              `json:"error,omitempty"`
	Lists        localstore.Counts   `json:"lists"`
}

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatPRs(list PRList, w io.Writer) error
	FormatDashboard(d Dashboard, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{Hyperlinks: term.IsTerminal(int(os.Stdout.Fd()))}
	}
}
