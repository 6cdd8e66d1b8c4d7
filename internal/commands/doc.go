// Package commands provides the command-line interface for the gorotor tool.
//
// It implements commands for:
//   - encryption of files under a one-off session
//   - inspection of the normalized rotor keys
//   - an interactive shell holding a session across commands
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/logging"
)

// preRun returns a PreRunE handler that loads the configuration into cfg,
// takes positional args as cfg.Files and validates the result.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		loaded.Files = args

		if err := loaded.Validate(); err != nil {
			return err
		}

		*cfg = *loaded

		return nil
	}
}

// withLogger runs fn with the logger described by cfg and closes its output afterwards.
func withLogger(cfg *config.Config, fn func(zerolog.Logger) error) (err error) {
	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	defer func(c io.Closer) {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing log: %w", cerr)
		}
	}(closer)

	return fn(logger)
}

// runE returns a RunE handler that prints the configuration when --show is set
// and runs fn otherwise.
func runE(cfg *config.Config, fn func(*cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if cfg.Show {
			out, err := cfg.Display()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		}

		return fn(cmd)
	}
}
