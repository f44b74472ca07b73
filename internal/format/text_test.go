package format

import (
	"testing"
)

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "hello", "hello"},
		{"single color", "\x1b[31mred\x1b[0m", "red"},
		{"multiple colors", "\x1b[31mred\x1b[0m \x1b[32mgreen\x1b[0m", "red green"},
		{"compound", "\x1b[1;31;40mbold red on black\x1b[0m", "bold red on black"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripAnsi(tt.input); got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "octo/repo", 9},
		{"with ansi", "\x1b[32mopen\x1b[0m", 4},
		{"wide chars", "日本語", 6},
		{"mixed", "fix: 修正", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.input); got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exactly10!", 10, "exactly10!"},
		{"cut", "Add pagination to the PR view", 12, "Add pagin..."},
		{"wide runes", "日本語のタイトル", 7, "日本..."},
		{"tiny width", "abcdef", 2, "ab"},
		{"zero width", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
			if w := DisplayWidth(got); w > tt.maxWidth {
				t.Errorf("result width %d exceeds %d", w, tt.maxWidth)
			}
		})
	}
}

func TestPadRightAndCell(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight() = %q", got)
	}
	if got := PadRight("\x1b[31mab\x1b[0m", 4); got != "\x1b[31mab\x1b[0m  " {
		t.Errorf("PadRight() with color = %q", got)
	}
	if got := PadRight("toolong", 3); got != "toolong" {
		t.Errorf("PadRight() should not cut, got %q", got)
	}
	if got := Cell("a long repository name", 10); got != "a long ..." {
		t.Errorf("Cell() = %q", got)
	}
	if got := Cell("x", 3); got != "x  " {
		t.Errorf("Cell() = %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("  Fix\n\tthe   build  "); got != "Fix the build" {
		t.Errorf("SingleLine() = %q", got)
	}
}
