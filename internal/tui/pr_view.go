package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/format"
	"github.com/spiffcs/prdash/internal/model"
	"github.com/spiffcs/prdash/internal/view"
)

// renderPRView renders the complete pull request view
func renderPRView(m PRModel, d view.Display) string {
	var b strings.Builder

	b.WriteString("\n")
	title := titleStyle.Render("Pull Requests")
	if m.author != "" {
		title += " " + dimStyle.Render("by "+m.author)
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(renderStats(d.Stats))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	if d.Stale {
		b.WriteString("  ")
		b.WriteString(staleStyle.Render("Old data, press enter to search"))
	}
	b.WriteString("\n")
	b.WriteString(renderSelection(m.state, d))
	b.WriteString("\n\n")

	// rows available between header and footer
	availableHeight := max(3, m.windowHeight-constants.HeaderLines-constants.FooterLines-2)

	switch {
	case d.Loading:
		label := "Loading pull requests..."
		if d.Mode == view.ModeSearch || m.search.Loading() {
			label = "Searching pull requests..."
		}
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), dimStyle.Render(label)))
		b.WriteString("\n")
	case d.Err != "":
		b.WriteString(errorBoxStyle.Render(d.Err))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("r: retry   x: reset search"))
		b.WriteString("\n")
	case len(d.PRs) == 0:
		b.WriteString(emptyStyle.Render("No pull requests found."))
		b.WriteString("\n")
	default:
		cursor := min(m.cursor, len(d.PRs)-1)
		b.WriteString(renderHeader())
		b.WriteString("\n")
		b.WriteString(separatorStyle.Render(strings.Repeat("─", tableWidth())))
		b.WriteString("\n")

		start, end := calculateScrollWindow(cursor, len(d.PRs), availableHeight)
		for i := start; i < end; i++ {
			b.WriteString(renderRow(d.PRs[i], i == cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if d.Mode == view.ModePaged {
		b.WriteString(renderPagination(d))
		b.WriteString("\n")
	}

	if m.confirm != nil {
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Open %q in your browser? (y/n)", format.Truncate(m.confirm.Title, 60))))
		b.WriteString("\n")
	} else if m.statusMsg != "" {
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	if m.input.Focused() {
		b.WriteString(m.help.View(inputKeyMap{keys: m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

// renderStats renders the totals over every fetched page.
func renderStats(s view.Stats) string {
	return fmt.Sprintf("%s %d   %s %d   %s %d   %s",
		dimStyle.Render("Total"), s.Total,
		openStyle.Render("Open"), s.Open,
		closedStyle.Render("Closed"), s.Closed,
		dimStyle.Render("(pages fetched so far)"))
}

// renderSelection renders the filter, sort and active search line.
func renderSelection(state view.State, d view.Display) string {
	parts := []string{
		dimStyle.Render("Status: ") + activeStyle.Render(string(state.Filter)),
		dimStyle.Render("Sort: ") + activeStyle.Render(state.Sort.Label()),
	}
	if d.Mode == view.ModeSearch {
		parts = append(parts, dimStyle.Render("Search: ")+activeStyle.Render(fmt.Sprintf("%q", d.Term)))
	}
	return strings.Join(parts, "   ")
}

// renderPagination renders the Previous / page / Next controls.
func renderPagination(d view.Display) string {
	prev := disabledStyle.Render("◀ Prev")
	if d.CanPrev {
		prev = activeStyle.Render("◀ Prev")
	}
	next := disabledStyle.Render("Next ▶")
	if d.CanNext {
		next = activeStyle.Render("Next ▶")
	}
	return fmt.Sprintf("%s   Page %d   %s", prev, d.Page, next)
}

func tableWidth() int {
	return 2 + constants.ColState + constants.ColRepo + constants.ColTitle + constants.ColCreated + 6
}

// renderHeader renders the table header
func renderHeader() string {
	line := "  " +
		format.PadRight("State", constants.ColState) + "  " +
		format.PadRight("Repository", constants.ColRepo) + "  " +
		format.PadRight("Title", constants.ColTitle) + "  " +
		"Created"
	return headerStyle.Render(line)
}

// renderRow renders one pull request. The selected row is rendered as plain
// text inside the highlight so inner color resets do not break it.
func renderRow(pr model.PullRequest, selected bool) string {
	repo := pr.RepoFullName
	if repo == "" {
		repo = "-"
	}

	state := format.PadRight(string(pr.State), constants.ColState)
	repoCell := format.Cell(repo, constants.ColRepo)
	titleCell := format.Cell(format.SingleLine(pr.Title), constants.ColTitle)
	created := format.FormatDate(pr.CreatedAt)

	stateStyle := openStyle
	if pr.State == model.StateClosed {
		stateStyle = closedStyle
	}

	prefix := "  "
	if selected {
		prefix = "▶ "
	}
	line := prefix +
		applyStyle(stateStyle, state, selected) + "  " +
		applyStyle(repoStyle, repoCell, selected) + "  " +
		titleCell + "  " +
		applyStyle(dimStyle, created, selected)

	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

// calculateScrollWindow keeps the cursor roughly centered in a window of
// viewHeight rows.
func calculateScrollWindow(cursor, total, viewHeight int) (start, end int) {
	if total <= viewHeight {
		return 0, total
	}

	start = max(0, cursor-viewHeight/2)
	end = start + viewHeight
	if end > total {
		end = total
		start = max(0, end-viewHeight)
	}
	return start, end
}

// applyStyle renders text with the given style unless the row is selected.
func applyStyle(s lipgloss.Style, text string, selected bool) string {
	if selected {
		return text
	}
	return s.Render(text)
}
