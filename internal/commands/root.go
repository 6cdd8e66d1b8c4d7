package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
)

// NewRootCommand creates the root command with common configuration.
// Every flag can also be set through a GOROTOR_* environment variable or the --config file.
func NewRootCommand(version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "gorotor [flags] command [flags]"
	root.Short = "Rotor and AES-256 file encryption utility"
	root.Long = `A file encryption utility that runs data through seventy additive rotors
built from seven key sets, then through AES-256-CBC under a key that exists only in memory.

Ciphertext can only be decrypted by the session that produced it. Use "gorotor shell"
to encrypt and decrypt within one session.`
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.StringP("config", "c", "", "Path to a config file (yaml, json or toml)")
	flags.StringArrayP("set", "S", nil, "Key set of whitespace-separated integers, repeat seven times")
	flags.String("sets-from", "", "Path to a JSONC file holding the seven key sets as an array of strings")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary after processing")

	flags.String("encrypt-ext", "_encrypted.bin", "Suffix replacing the extension of encrypted files")
	flags.String("decrypt-ext", "_decrypted.bin", "Suffix replacing the extension of decrypted files")

	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error or disabled")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("log-file", "", "Append the operations log to this file instead of stderr")

	root.AddCommand(NewEncryptCommand(), NewKeysCommand(), NewShellCommand())

	return root
}
