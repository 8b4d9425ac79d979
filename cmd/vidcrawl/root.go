// Package main provides the entry point for the vidcrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for vidcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vidcrawl",
		Short: "Crawler for paginated video listing sites",
		Long: `vidcrawl walks the listing pages of configured video sites from newest
to oldest, stores every video it has not seen before, tags it from the
video's detail page, and announces new discoveries.

Crawls are incremental: a video seen on an earlier run is never stored,
announced, or enriched twice, so vidcrawl can run on a schedule and only
the truly new items surface.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
