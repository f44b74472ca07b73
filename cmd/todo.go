package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spiffcs/prdash/config"
	"github.com/spiffcs/prdash/internal/localstore"
	"github.com/spiffcs/prdash/internal/model"
)

// openStore opens the local lists in the configured data directory.
func openStore() (*localstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return localstore.NewStore(cfg.DataDir)
}

// NewCmdTodo creates the todo command with subcommands.
func NewCmdTodo() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the local to-do list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTodoList(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List to-dos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTodoList(cmd.OutOrStdout())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add a to-do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			todo, err := store.AddTodo(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", todo.ID, todo.Text)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a to-do between open and done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			todo, err := store.ToggleTodo(args[0])
			if err != nil {
				return err
			}
			writeTodo(cmd.OutOrStdout(), todo)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a to-do",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.RemoveTodo(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
			return nil
		},
	})

	return cmd
}

func runTodoList(w io.Writer) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	todos := store.Todos()
	if len(todos) == 0 {
		fmt.Fprintln(w, "No to-dos.")
		return nil
	}
	for _, t := range todos {
		writeTodo(w, t)
	}
	return nil
}

func writeTodo(w io.Writer, t model.Todo) {
	box := "[ ]"
	text := t.Text
	if t.Completed {
		box = color.GreenString("[x]")
		text = color.New(color.Faint).Sprint(text)
	}
	fmt.Fprintf(w, "%s %s  %s\n", box, color.New(color.Faint).Sprint(t.ID), text)
}
