// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches SGR color sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes color escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of s in terminal columns.
// Color sequences take no space and East Asian wide runes take two.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// Truncate shortens plain text to at most maxWidth columns, ending with "..."
// when anything was cut. Titles and repository names go through here before
// any color is applied.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces to width visible columns. Longer strings are
// returned unchanged.
func PadRight(s string, width int) string {
	visible := DisplayWidth(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// Cell truncates s to width and pads it back out, producing a fixed-width
// table cell.
func Cell(s string, width int) string {
	return PadRight(Truncate(s, width), width)
}

// SingleLine collapses runs of whitespace, including newlines, to one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
