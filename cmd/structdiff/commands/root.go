// Package commands provides CLI command implementations for structdiff.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/randlee/structdiff/pkg/version"
)

// NewRootCommand creates the structdiff root command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "structdiff",
		Short: "Semantic structural diff for C# source files",
		Long: `structdiff compares two versions of a C# source file and reports a
hierarchical list of semantic changes (added, removed, modified, renamed,
moved), each classified by API-impact severity: breaking-public,
breaking-internal, non-breaking, or formatting-only.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: .structdiff.yaml)")

	root.AddCommand(
		NewCompareCommand(&configFile),
		NewHistoryCommand(&configFile),
		NewMCPCommand(&configFile),
		NewConfigCommand(),
	)

	return root
}
