package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spiffcs/prdash/internal/log"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "prdash",
		Short: "Personal pull request dashboard",
		Long: `Browse one author's GitHub pull requests page by page, search them,
and filter or sort what has been fetched. Local to-do, movie and problem
lists are summarized by the dashboard command.

In a terminal the interactive view opens; otherwise 'prdash' behaves like
'prdash prs'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shouldUseTUI(opts) {
				return runInteractive(cmd, opts)
			}
			return runPRs(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		initLogging(opts.Verbosity, os.Stderr)
	}

	// `prdash` and `prdash prs` take the same flags
	addPRFlags(rootCmd, opts)
	rootCmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable the interactive view (default: auto-detect)")

	rootCmd.AddCommand(NewCmdPRs(opts))
	rootCmd.AddCommand(NewCmdDashboard(opts))
	rootCmd.AddCommand(NewCmdTodo())
	rootCmd.AddCommand(NewCmdLists())
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// initLogging points the logger at w. Commands that hand the terminal to a
// TUI call log.Discard afterwards so output does not interleave.
func initLogging(verbosity int, w io.Writer) {
	log.Initialize(verbosity, w)
}
