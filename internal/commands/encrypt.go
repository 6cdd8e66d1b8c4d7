package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:     "encrypt [flags] files...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files under a new session",
		Long: `Encrypt files under a new session built from the configured key sets.
The session ends with the process, use --verify to check every output before it is kept.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE: runE(cfg, func(cmd *cobra.Command) error {
			return withLogger(cfg, func(logger zerolog.Logger) error {
				return logic.Run(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		}),
	}

	cmd.Flags().Bool("verify", false, "Decrypt each output in the same session and compare it with the input")

	return cmd
}
