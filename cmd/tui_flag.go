package cmd

import (
	"fmt"

	"github.com/spiffcs/prdash/internal/tui"
)

// tuiFlag is the tri-state --tui flag. A bare --tui means true; leaving it
// off keeps auto-detection.
type tuiFlag struct {
	target **bool
}

func newTUIFlag(opts *Options) *tuiFlag {
	return &tuiFlag{target: &opts.TUI}
}

func (f *tuiFlag) String() string {
	switch {
	case *f.target == nil:
		return "auto"
	case **f.target:
		return "true"
	default:
		return "false"
	}
}

func (f *tuiFlag) Set(s string) error {
	var v bool
	switch s {
	case "true", "1", "yes":
		v = true
	case "false", "0", "no":
		v = false
	case "auto":
		*f.target = nil
		return nil
	default:
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	*f.target = &v
	return nil
}

func (f *tuiFlag) Type() string {
	return "bool"
}

func (f *tuiFlag) IsBoolFlag() bool {
	return true
}

// shouldUseTUI decides between the interactive view and plain output.
// Verbose logging and an explicit non-table format both mean plain output,
// unless --tui forces the view.
func shouldUseTUI(opts *Options) bool {
	if opts.TUI != nil {
		return *opts.TUI
	}
	if opts.Verbosity > 0 {
		return false
	}
	if opts.Format != "" && opts.Format != "table" {
		return false
	}
	return tui.ShouldUseTUI()
}
