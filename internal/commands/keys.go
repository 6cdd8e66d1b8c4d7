package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/logic"
)

// NewKeysCommand creates a new cobra command for the keys subcommand.
func NewKeysCommand() *cobra.Command {
	cfg := &config.Config{}

	return &cobra.Command{
		Use:     "keys [flags]",
		Short:   "Validate the key sets and print the rotor keys",
		Args:    cobra.NoArgs,
		PreRunE: preRun(cfg),
		RunE: runE(cfg, func(cmd *cobra.Command) error {
			return logic.Keys(cfg, cmd.OutOrStdout(), nil)
		}),
	}
}
