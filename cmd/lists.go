package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiffcs/prdash/internal/localstore"
)

// NewCmdLists creates the lists command with subcommands.
func NewCmdLists() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Inspect the local list files",
	}

	cmd.AddCommand(newCmdListsStats())
	cmd.AddCommand(newCmdListsPath())
	cmd.AddCommand(newCmdListsClear())

	return cmd
}

// newCmdListsStats creates the lists stats subcommand.
func newCmdListsStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many entries each list holds",
		RunE:  runListsStats,
	}
}

// newCmdListsPath creates the lists path subcommand.
func newCmdListsPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the list files are kept",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Dir())
			return nil
		},
	}
}

// newCmdListsClear creates the lists clear subcommand.
func newCmdListsClear() *cobra.Command {
	return &cobra.Command{
		Use:       "clear <todos|movies|problems>",
		Short:     "Delete one list",
		Args:      cobra.ExactArgs(1),
		ValidArgs: localstore.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to access lists: %w", err)
			}
			if err := store.Clear(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s.\n", args[0])
			return nil
		},
	}
}

func runListsStats(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to access lists: %w", err)
	}

	counts := store.Counts()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Lists in %s\n", store.Dir())
	fmt.Fprintf(w, "  To-dos:   %d\n", counts.Todos)
	fmt.Fprintf(w, "  Movies:   %d\n", counts.Movies)
	fmt.Fprintf(w, "  Problems: %d\n", counts.Problems)

	return nil
}
