package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffcs/prdash/config"
	"github.com/spiffcs/prdash/internal/ghclient"
	"github.com/spiffcs/prdash/internal/log"
	"github.com/spiffcs/prdash/internal/model"
	"github.com/spiffcs/prdash/internal/output"
	"github.com/spiffcs/prdash/internal/prcache"
	"github.com/spiffcs/prdash/internal/tui"
	"github.com/spiffcs/prdash/internal/view"
)

// session bundles the config, caches and starting selection shared by the
// pull request commands.
type session struct {
	cfg    *config.Config
	author string
	pages  *prcache.PageCache
	search *prcache.Overlay
	state  view.State
}

// NewCmdPRs creates the prs command.
func NewCmdPRs(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prs",
		Short: "Print a page of pull requests or a search (same as root prdash without a terminal)",
		Long: `Fetches one page of the author's pull requests, newest first on GitHub's
side, and prints it after applying the status filter and sort. The next page
is read ahead so the output can say whether there is more.

With --search the term is searched instead and up to one page of results is
printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPRs(cmd, opts)
		},
	}

	addPRFlags(cmd, opts)
	return cmd
}

// addPRFlags adds the selection and output flags to a command.
func addPRFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "Page to show (1-based)")
	cmd.Flags().StringVarP(&opts.Search, "search", "q", "", "Search term")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Status filter (all, open, closed)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort order (newest, oldest, repo)")
	cmd.Flags().StringVar(&opts.Author, "author", "", "GitHub login whose pull requests are listed")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
}

// newSession loads the config and builds the caches, applying flag overrides.
func newSession(opts *Options) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	filter := cfg.StatusFilter()
	if opts.Status != "" {
		if filter, err = model.ParseStatusFilter(opts.Status); err != nil {
			return nil, err
		}
	}
	sort := cfg.SortMode()
	if opts.Sort != "" {
		if sort, err = model.ParseSortMode(opts.Sort); err != nil {
			return nil, err
		}
	}
	if opts.Page < 1 {
		return nil, fmt.Errorf("%w: %d", prcache.ErrInvalidPage, opts.Page)
	}

	author := cfg.Author
	if a := strings.TrimSpace(opts.Author); a != "" {
		author = a
	}

	client, err := ghclient.NewClient(cfg.APIURL)
	if err != nil {
		return nil, err
	}

	state := view.NewState(filter, sort)
	state.Page = opts.Page
	state.Input = opts.Search

	log.Info("session ready", "author", author, "page", state.Page, "filter", filter, "sort", sort)

	return &session{
		cfg:    cfg,
		author: author,
		pages:  prcache.NewPageCache(client, author, cfg.PageSize),
		search: prcache.NewOverlay(client, author, cfg.SearchPageSize),
		state:  state,
	}, nil
}

// load fetches what the selection needs: the search, or the page plus its
// read-ahead. Failures are recorded in the caches and surface in the display.
func (s *session) load(ctx context.Context) view.Display {
	if strings.TrimSpace(s.state.Input) != "" {
		if _, err := s.search.Search(ctx, s.state.Input); err != nil {
			log.Debug("search failed", "error", err)
		}
		return view.Derive(s.state, s.pages, s.search)
	}

	if _, err := s.pages.Fetch(ctx, s.state.Page); err != nil {
		log.Debug("page fetch failed", "page", s.state.Page, "error", err)
	} else if s.pages.ShouldReadAhead(s.state.Page) {
		<-s.pages.ReadAhead(ctx, s.state.Page)
	}
	return view.Derive(s.state, s.pages, s.search)
}

// resolveFormat picks the flag format, then the configured default.
func resolveFormat(opts *Options, cfg *config.Config) (output.Format, error) {
	name := opts.Format
	if name == "" {
		name = cfg.DefaultFormat
	}
	if name == "" {
		return output.FormatTable, nil
	}
	return output.ParseFormat(name)
}

func runPRs(cmd *cobra.Command, opts *Options) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts, s.cfg)
	if err != nil {
		return err
	}

	d := s.load(cmd.Context())
	if d.Err != "" {
		if ghclient.IsRateLimited() {
			log.Warn("GitHub search quota exhausted, see 'prdash ratelimit status'")
		}
		return errors.New(d.Err)
	}

	return output.NewFormatter(format).FormatPRs(output.NewPRList(d, s.state), cmd.OutOrStdout())
}

// runInteractive hands the terminal to the pull request view.
func runInteractive(cmd *cobra.Command, opts *Options) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}

	log.Discard()
	return tui.RunPRView(cmd.Context(), s.pages, s.search, s.state,
		tui.WithAuthor(s.author),
		tui.WithInitialInput(opts.Search),
	)
}
