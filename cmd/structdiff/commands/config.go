package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randlee/structdiff/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate structdiff configuration",
	}

	cobraCmd.AddCommand(newConfigValidateCommand())

	return cobraCmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a config file against the configuration schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			err := config.ValidateFile(args[0])
			if err != nil {
				return err //nolint:wrapcheck // Validation errors are already descriptive.
			}

			fmt.Fprintf(cobraCmd.OutOrStdout(), "%s is valid\n", args[0])

			return nil
		},
	}
}
