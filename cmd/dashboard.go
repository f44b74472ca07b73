package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/prdash/internal/ghclient"
	"github.com/spiffcs/prdash/internal/localstore"
	"github.com/spiffcs/prdash/internal/log"
	"github.com/spiffcs/prdash/internal/model"
	"github.com/spiffcs/prdash/internal/output"
	"github.com/spiffcs/prdash/internal/prcache"
	"github.com/spiffcs/prdash/internal/tui"
	"github.com/spiffcs/prdash/internal/view"
)

// dashboardRuntime bundles the progress display threaded through the
// dashboard command.
type dashboardRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
	cancel  context.CancelFunc
}

// startTUI starts the progress display if enabled. Cancelling it cancels ctx.
func (rt *dashboardRuntime) startTUI(author string) {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 16)
	rt.tuiDone = make(chan error, 1)
	go func() {
		cancelled, err := tui.RunProgress(rt.events, tui.WithProgressAuthor(author))
		if cancelled {
			rt.cancel()
		}
		rt.tuiDone <- err
	}()
}

// close closes the event channel and waits for the display to finish.
func (rt *dashboardRuntime) close() error {
	if rt.events == nil {
		return nil
	}
	close(rt.events)
	rt.events = nil
	return <-rt.tuiDone
}

func (rt *dashboardRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// NewCmdDashboard creates the dashboard command.
func NewCmdDashboard(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize recent pull requests and local lists",
		Long: `Fetches the first page of the author's pull requests and reads the local
to-do, movie and problem lists at the same time, then prints both.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().StringVar(&opts.Author, "author", "", "GitHub login whose pull requests are listed")
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable the progress display (default: auto-detect)")
	return cmd
}

func runDashboard(cmd *cobra.Command, opts *Options) error {
	// the dashboard always shows page 1 of everything
	pageOpts := *opts
	pageOpts.Page = 1
	pageOpts.Search = ""
	pageOpts.Status = ""
	pageOpts.Sort = ""

	s, err := newSession(&pageOpts)
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts, s.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt := &dashboardRuntime{useTUI: shouldUseTUI(opts) && format == output.FormatTable, cancel: cancel}
	if rt.useTUI {
		log.Discard()
	}
	rt.startTUI(s.author)

	dash, err := collectDashboard(ctx, s, rt)
	if tuiErr := rt.close(); tuiErr != nil {
		log.Warn("progress display failed", "error", tuiErr)
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
		return nil
	}

	return output.NewFormatter(format).FormatDashboard(dash, cmd.OutOrStdout())
}

// collectDashboard fetches the first page and reads the list counts
// concurrently. A failed fetch is reported in the dashboard, not returned.
func collectDashboard(ctx context.Context, s *session, rt *dashboardRuntime) (output.Dashboard, error) {
	var (
		prs    []model.PullRequest
		counts localstore.Counts
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.sendEvent(tui.TaskFetchPRs, tui.StatusRunning, tui.WithMessage("page 1"))
		fetched, err := s.pages.Fetch(gctx, 1)
		if err != nil {
			rt.sendEvent(tui.TaskFetchPRs, tui.StatusError, tui.WithError(err))
			if ghclient.IsRateLimited() {
				tui.SendEvent(rt.events, tui.RateLimitEvent{Limited: true, ResetAt: rateLimitReset()})
			}
			return nil
		}
		prs = fetched
		rt.sendEvent(tui.TaskFetchPRs, tui.StatusComplete, tui.WithCount(len(fetched)))
		return nil
	})

	g.Go(func() error {
		rt.sendEvent(tui.TaskLoadLists, tui.StatusRunning)
		store, err := localstore.NewStore(s.cfg.DataDir)
		if err != nil {
			rt.sendEvent(tui.TaskLoadLists, tui.StatusError, tui.WithError(err))
			return fmt.Errorf("failed to open local lists: %w", err)
		}
		counts = store.Counts()
		rt.sendEvent(tui.TaskLoadLists, tui.StatusComplete,
			tui.WithMessage(fmt.Sprintf("%d to-dos, %d movies, %d problems", counts.Todos, counts.Movies, counts.Problems)))
		return nil
	})

	if err := g.Wait(); err != nil {
		return output.Dashboard{}, err
	}

	rt.sendEvent(tui.TaskRender, tui.StatusRunning)
	dash := output.Dashboard{
		PullRequests: view.Reduce(prs, s.state.Filter, s.state.Sort),
		Lists:        counts,
	}
	if st := s.pages.Status(1); st.Phase == prcache.PhaseError {
		dash.Error = st.Err
	}
	rt.sendEvent(tui.TaskRender, tui.StatusComplete, tui.WithCount(len(dash.PullRequests)))

	return dash, nil
}

// rateLimitReset returns when the recorded quota resets, or zero.
func rateLimitReset() (reset time.Time) {
	_, _, reset, _ = ghclient.GetRateLimitStatus()
	return reset
}
