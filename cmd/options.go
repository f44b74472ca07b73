package cmd

// Options holds the shared command-line options for the prdash CLI.
type Options struct {
	Format    string
	Page      int
	Search    string
	Status    string
	Sort      string
	Author    string
	Verbosity int
	TUI       *bool // nil = auto-detect, true = force TUI, false = disable TUI
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Page: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithPage sets the page to show.
func WithPage(page int) Option {
	return func(o *Options) {
		o.Page = page
	}
}

// WithSearch sets the search term.
func WithSearch(term string) Option {
	return func(o *Options) {
		o.Search = term
	}
}

// WithStatus sets the status filter (all, open, closed).
func WithStatus(status string) Option {
	return func(o *Options) {
		o.Status = status
	}
}

// WithSort sets the sort mode (newest, oldest, repo).
func WithSort(sort string) Option {
	return func(o *Options) {
		o.Sort = sort
	}
}

// WithAuthor overrides the configured author.
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
