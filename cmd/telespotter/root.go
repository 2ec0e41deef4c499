// Package main provides the entry point for the TeleSpotter CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for TeleSpotter.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telespotter",
		Short: "Phone number OSINT search and correlation tool",
		Long: `TeleSpotter searches public sources for a phone number and correlates
what it finds. It queries search engines and people-search sites,
extracts names, emails, addresses, usernames, and social profiles from
the results, and scores each finding by how many independent sources
produced it.

Use it only for numbers you are authorized to investigate.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewValidateCmd())
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
