package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/format"
	"github.com/spiffcs/prdash/internal/model"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Hyperlinks wraps titles in OSC 8 links. Only useful on a terminal.
	Hyperlinks bool

	now func() time.Time
}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

func colorState(s model.State) string {
	switch s {
	case model.StateOpen:
		return color.GreenString(string(s))
	case model.StateClosed:
		return color.MagentaString(string(s))
	default:
		return string(s)
	}
}

func (f *TableFormatter) writeRows(prs []model.PullRequest, w io.Writer) {
	now := time.Now
	if f.now != nil {
		now = f.now
	}

	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		format.PadRight("State", constants.ColState),
		format.PadRight("Repository", constants.ColRepo),
		format.PadRight("Title", constants.ColTitle),
		format.PadRight("Created", constants.ColCreated),
		"Age")
	fmt.Fprintln(w, strings.Repeat("-", constants.ColState+constants.ColRepo+constants.ColTitle+constants.ColCreated+12))

	for _, pr := range prs {
		repo := pr.RepoFullName
		if repo == "" {
			repo = "-"
		}

		title := format.Cell(format.SingleLine(pr.Title), constants.ColTitle)
		if f.Hyperlinks && pr.HTMLURL != "" {
			// link only the visible text, keep the padding outside
			trimmed := strings.TrimRight(title, " ")
			title = hyperlink(trimmed, pr.HTMLURL) + title[len(trimmed):]
		}

		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			format.PadRight(colorState(pr.State), constants.ColState),
			format.Cell(repo, constants.ColRepo),
			title,
			format.PadRight(format.FormatDate(pr.CreatedAt), constants.ColCreated),
			format.Age(pr.CreatedAt, now()),
		)
	}
}

// FormatPRs outputs a page or search result as a table followed by the
// pagination and stats footer.
func (f *TableFormatter) FormatPRs(list PRList, w io.Writer) error {
	if list.Term != "" {
		fmt.Fprintf(w, "Search %q  (%s, %s)\n\n", list.Term, list.Filter, list.Sort.Label())
	} else {
		fmt.Fprintf(w, "Page %d  (%s, %s)\n\n", list.Page, list.Filter, list.Sort.Label())
	}

	if len(list.PullRequests) == 0 {
		fmt.Fprintln(w, "No pull requests found.")
	} else {
		f.writeRows(list.PullRequests, w)
	}

	fmt.Fprintln(w)
	if list.Term == "" {
		prev, next := "-", "-"
		if list.HasPrev {
			prev = fmt.Sprintf("--page %d", list.Page-1)
		}
		if list.HasNext {
			next = fmt.Sprintf("--page %d", list.Page+1)
		}
		fmt.Fprintf(w, "Previous: %s  Next: %s\n", prev, next)
	}
	fmt.Fprintf(w, "Fetched: %d total, %s open, %s closed\n",
		list.Stats.Total,
		color.GreenString("%d", list.Stats.Open),
		color.MagentaString("%d", list.Stats.Closed))

	return nil
}

// FormatDashboard outputs the recent pull requests and list counts.
func (f *TableFormatter) FormatDashboard(d Dashboard, w io.Writer) error {
	bold := color.New(color.Bold)

	bold.Fprintln(w, "Recent Pull Requests")
	switch {
	case d.Error != "":
		fmt.Fprintln(w, color.RedString(d.Error))
	case len(d.PullRequests) == 0:
		fmt.Fprintln(w, "No pull requests found.")
	default:
		f.writeRows(d.PullRequests, w)
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Lists")
	fmt.Fprintf(w, "  %-10s %d\n", "To-dos", d.Lists.Todos)
	fmt.Fprintf(w, "  %-10s %d\n", "Movies", d.Lists.Movies)
	fmt.Fprintf(w, "  %-10s %d\n", "Problems", d.Lists.Problems)

	return nil
}
