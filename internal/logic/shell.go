package logic

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/session"
)

const (
	prompt = "gorotor> "
	// setSeparator separates key sets on a keys line.
	setSeparator = "|"
	maxLineSize  = 1 << 20
)

var errExit = errors.New("exit")

// shell holds the state of one interactive run.
type shell struct {
	cfg    *config.Config
	out    io.Writer
	logger zerolog.Logger
	slot   session.Slot
}

// Shell reads commands from in, one per line, until EOF or exit.
// Sessions created with keys live until they are replaced or the shell ends,
// so files encrypted in a shell can be decrypted in the same shell.
func Shell(cfg *config.Config, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	sh := &shell{cfg: cfg, out: out, logger: logger}

	fmt.Fprintln(out, ephemeralWarning)
	fmt.Fprint(out, prompt)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		if args := strings.Fields(scanner.Text()); len(args) > 0 {
			err := sh.execute(args)
			if errors.Is(err, errExit) {
				return nil
			}

			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}

		fmt.Fprint(out, prompt)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}

	fmt.Fprintln(out)

	return nil
}

// execute dispatches one line through a fresh command tree.
func (sh *shell) execute(args []string) error {
	root := &cobra.Command{
		Use:               "gorotor",
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	root.SetArgs(args)
	root.SetOut(sh.out)
	root.SetErr(sh.out)

	root.AddCommand(
		sh.keysCommand(),
		sh.fileCommand(Encrypt),
		sh.fileCommand(Decrypt),
		sh.statusCommand(),
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Leave the shell and discard the session",
			Args:    cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return errExit
			},
		},
	)

	return root.Execute()
}

func (sh *shell) keysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys [SET | SET | ...]",
		Short: "Create a new session from seven key sets, or from the configured ones",
		Long: `Create a new session from seven key sets separated by "|".
Without arguments the sets from --set or --sets-from are used.
A new session replaces the current one. Files encrypted under the old session can no longer be decrypted.`,
		// Key sets are plain numbers, nothing on the line is a flag.
		DisableFlagParsing: true,
		RunE: func(_ *cobra.Command, args []string) error {
			raw, err := sh.rawSets(args)
			if err != nil {
				return err
			}

			s, err := session.FromSets(raw, session.WithLogger(sh.logger))
			if err != nil {
				return err
			}

			if sh.slot.Replace(s) {
				fmt.Fprintln(sh.out, "Previous session discarded. Its ciphertext can no longer be decrypted.")
			}

			fmt.Fprintf(sh.out, "Keys configured: %d rotors\n", s.Rotors())

			return nil
		},
	}
}

func (sh *shell) rawSets(args []string) ([]string, error) {
	if len(args) == 0 {
		return sh.cfg.KeySets()
	}

	return strings.Split(strings.Join(args, " "), setSeparator), nil
}

func (sh *shell) fileCommand(mode Mode) *cobra.Command {
	short := "Encrypt files with the current session"
	if mode == Decrypt {
		short = "Decrypt files with the current session"
	}

	return &cobra.Command{
		Use:   mode.String() + " FILE...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := sh.slot.Current()
			if err != nil {
				return err
			}

			proc := Processor{Session: s, Config: sh.cfg, Logger: sh.logger, Out: sh.out, Err: sh.out}

			return proc.Process(mode, args)
		},
	}
}

func (sh *shell) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := sh.slot.Current()
			if err != nil {
				fmt.Fprintln(sh.out, "Uninitialized: no keys set")

				return nil //nolint:nilerr // an empty slot is a valid state to report
			}

			fmt.Fprintf(sh.out, "Ready: %d rotors, keys set %s\n", s.Rotors(), humanize.Time(s.Created()))

			return nil
		},
	}
}
