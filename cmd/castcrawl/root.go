// Package main provides the entry point for the castcrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for castcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "castcrawl",
		Short: "Crawl IMDb cast lists into actor/title records",
		Long: `castcrawl starts from IMDb title pages, follows the full credits page to
every credited cast member and emits one {actor, movie_or_TV_name} record
for each acting credit found in the performer's filmography.

Records are written as CSV by default. JSON Lines, Markdown and SQLite
outputs are selected with --format or the output file extension.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
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
