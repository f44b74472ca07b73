package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/prdash/internal/format"
	"github.com/spiffcs/prdash/internal/model"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// escapeCell keeps pipes and newlines from breaking a table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(format.SingleLine(s), "|", `\|`)
}

func (f *MarkdownFormatter) writeTable(prs []model.PullRequest, w io.Writer) {
	if len(prs) == 0 {
		fmt.Fprintln(w, "No pull requests found.")
		return
	}

	fmt.Fprintln(w, "| State | Repository | Title | Created |")
	fmt.Fprintln(w, "|-------|------------|-------|---------|")
	for _, pr := range prs {
		title := escapeCell(pr.Title)
		if pr.HTMLURL != "" {
			title = fmt.Sprintf("[%s](%s)", title, pr.HTMLURL)
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			pr.State, escapeCell(pr.RepoFullName), title, format.FormatDate(pr.CreatedAt))
	}
}

// FormatPRs outputs a pull request list as Markdown
func (f *MarkdownFormatter) FormatPRs(list PRList, w io.Writer) error {
	if list.Term != "" {
		fmt.Fprintf(w, "# Pull Requests matching %q\n\n", list.Term)
	} else {
		fmt.Fprintf(w, "# Pull Requests, page %d\n\n", list.Page)
	}
	fmt.Fprintf(w, "*Filter: %s, sort: %s*\n\n", list.Filter, list.Sort.Label())

	f.writeTable(list.PullRequests, w)

	fmt.Fprintf(w, "\n**Fetched so far:** %d total, %d open, %d closed\n",
		list.Stats.Total, list.Stats.Open, list.Stats.Closed)
	return nil
}

// FormatDashboard outputs the dashboard as Markdown
func (f *MarkdownFormatter) FormatDashboard(d Dashboard, w io.Writer) error {
	fmt.Fprintln(w, "# Dashboard")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Recent Pull Requests")
	fmt.Fprintln(w)
	if d.Error != "" {
		fmt.Fprintf(w, "> %s\n", d.Error)
	} else {
		f.writeTable(d.PullRequests, w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Lists")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- **To-dos:** %d\n", d.Lists.Todos)
	fmt.Fprintf(w, "- **Movies:** %d\n", d.Lists.Movies)
	fmt.Fprintf(w, "- **Problems:** %d\n", d.Lists.Problems)
	return nil
}
