package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/logic"
)

// NewShellCommand creates a new cobra command for the shell subcommand.
func NewShellCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "shell [flags]",
		Short: "Encrypt and decrypt interactively within one session",
		Long: `Read commands from standard input, one per line:

  keys SET | SET | SET | SET | SET | SET | SET   create a session, replacing the current one
  keys                                         create a session from --set or --sets-from
  encrypt FILE...                              encrypt files with the current session
  decrypt FILE...                              decrypt files with the current session
  status                                       show whether a session is active
  exit, quit                                   leave the shell`,
		Args:    cobra.NoArgs,
		PreRunE: preRun(cfg),
		RunE: runE(cfg, func(cmd *cobra.Command) error {
			return withLogger(cfg, func(logger zerolog.Logger) error {
				return logic.Shell(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			})
		}),
	}

	cmd.Flags().Bool("verify", false, "Decrypt each encrypted output in the session and compare it with the input")

	return cmd
}
