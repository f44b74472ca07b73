package cmd

import (
	"fmt"
	"io"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/spiffcs/prdash/config"
	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long: `Display the unauthenticated GitHub API quota. Searches draw from the
search quota, which is small without a token.`,
	}
	cmd.AddCommand(NewCmdRateLimitStatus())
	return cmd
}

// NewCmdRateLimitStatus creates the ratelimit status subcommand.
func NewCmdRateLimitStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current rate limit status",
		Long:  `Display the current GitHub API rate limit status for core and search APIs.`,
		RunE:  runRateLimitStatus,
	}
}

func runRateLimitStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := ghclient.NewClient(cfg.APIURL)
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "GitHub API Rate Limits:")
	fmt.Fprintln(w)
	writeRate(w, "Core API:  ", limits.Core)
	writeRate(w, "Search API:", limits.Search)

	if limits.Search != nil && limits.Search.Remaining <= constants.RateLimitLowWatermark {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Search quota is nearly used up; searches and new pages will fail until it resets.")
	}

	return nil
}

func writeRate(w io.Writer, label string, r *gh.Rate) {
	if r == nil {
		return
	}
	resetIn := max(0, time.Until(r.Reset.Time).Round(time.Second))
	fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n", label, r.Remaining, r.Limit, resetIn)
}
