// Package logic implements the file processing and interactive front ends around a cipher session.
package logic

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/fileutil"
	"github.com/idelchi/gorotor/internal/session"
)

var (
	// ErrEmptyInput is returned for input files that are missing, unreadable or empty.
	ErrEmptyInput = errors.New("empty or missing input file")
	// ErrVerify is returned when an encrypted file does not decrypt back to its input.
	ErrVerify = errors.New("verification failed")
	// ErrOutputCollision is returned when two inputs would be written to the same output,
	// or when an output would replace one of the inputs.
	ErrOutputCollision = errors.New("output collision")
)

// Mode selects the direction of a file operation.
type Mode int

const (
	Encrypt Mode = iota
	Decrypt
)

func (m Mode) String() string {
	if m == Decrypt {
		return "decrypt"
	}

	return "encrypt"
}

const ephemeralWarning = "Warning: the AES key lives only in this process. Files encrypted now cannot be decrypted after it exits."

// Processor runs file operations against one session.
type Processor struct {
	Session *session.Session
	Config  *config.Config
	Logger  zerolog.Logger

	// Out receives progress lines, Err receives errors and statistics.
	Out io.Writer
	Err io.Writer
}

// Run is the logic of the encrypt command: build a session from the configured key sets
// and encrypt cfg.Files with it. Progress goes to out, errors and statistics to errOut.
func Run(cfg *config.Config, logger zerolog.Logger, out, errOut io.Writer) error {
	sets, err := cfg.KeySets()
	if err != nil {
		return err
	}

	s, err := session.FromSets(sets, session.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Fprintln(errOut, ephemeralWarning)

	proc := Processor{Session: s, Config: cfg, Logger: logger, Out: out, Err: errOut}

	return proc.Process(Encrypt, cfg.Files)
}

// Process encrypts or decrypts every file in parallel and reports the outcome per file.
// The returned error is the first failure, all files are attempted regardless.
//
//nolint:cyclop // parallel processing pipeline with printer goroutine
func (p *Processor) Process(mode Mode, files []string) error {
	start := time.Now()

	if err := checkCollisions(files, p.suffix(mode)); err != nil {
		return err
	}

	type result struct {
		input      string
		output     string
		outputSize int64
		err        error
	}

	results := make(chan result, len(files))

	group := errgroup.Group{}
	group.SetLimit(max(1, p.Config.Parallel))

	printed := make(chan struct{})

	var processed, errored int

	var totalSize int64

	go func() {
		defer close(printed)

		for res := range results {
			if res.err != nil {
				errored++

				fmt.Fprintf(p.Err, "Error processing %q: %v\n", res.input, res.err)

				continue
			}

			processed++

			totalSize += res.outputSize

			if !p.Config.Quiet {
				fmt.Fprintf(p.Out, "Processed %q -> %q\n", res.input, res.output)
			}
		}
	}()

	for _, file := range files {
		group.Go(func() error {
			outPath := OutputPath(file, p.suffix(mode))

			size, err := p.processFile(mode, file, outPath)
			if err != nil {
				p.Logger.Error().Err(err).Str("file", file).Stringer("mode", mode).Msg("file operation failed")

				results <- result{input: file, err: err}

				return err
			}

			p.Logger.Info().Str("file", outPath).Int64("size", size).Msg("file saved")

			results <- result{input: file, output: outPath, outputSize: size}

			return nil
		})
	}

	err := group.Wait()

	close(results)

	<-printed

	if p.Config.Stats {
		printStats(p.Err, mode, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("%s files: %w", mode, err)
	}

	return nil
}

func (p *Processor) suffix(mode Mode) string {
	if mode == Decrypt {
		return p.Config.Suffixes.Decrypt
	}

	return p.Config.Suffixes.Encrypt
}

// processFile streams filename through the session into a temp file and renames it to outPath.
func (p *Processor) processFile(mode Mode, filename, outPath string) (size int64, err error) {
	if err := checkInput(filename); err != nil {
		return 0, err
	}

	tc, err := fileutil.NewTempContext(filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	in, err := os.Open(filename) //nolint:gosec
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEmptyInput, err)
	}
	defer in.Close()

	p.Logger.Debug().Str("file", filename).Int64("size", tc.SrcInfo.Size()).Msg("file read")

	if mode == Decrypt {
		_, err = p.Session.DecryptStream(in, tc.TmpFile)
	} else {
		_, err = p.Session.EncryptStream(in, tc.TmpFile)
	}

	if err != nil {
		return 0, err
	}

	if mode == Encrypt && p.Config.Verify {
		if err = p.verify(filename, tc.TmpFile); err != nil {
			return 0, err
		}
	}

	size, err = tc.Commit(outPath)
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

// verify decrypts the freshly written ciphertext and compares it with the input by SHA-256.
func (p *Processor) verify(filename string, ciphertext io.ReadSeeker) error {
	if _, err := ciphertext.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding output: %w", err)
	}

	got := sha256.New()
	if _, err := p.Session.DecryptStream(ciphertext, got); err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	in, err := os.Open(filename) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reopening input: %w", err)
	}
	defer in.Close()

	want := sha256.New()
	if _, err := io.Copy(want, in); err != nil {
		return fmt.Errorf("hashing input: %w", err)
	}

	if string(got.Sum(nil)) != string(want.Sum(nil)) {
		return fmt.Errorf("%w: %q does not decrypt to its input", ErrVerify, filename)
	}

	p.Logger.Debug().Str("file", filename).Msg("round trip verified")

	return nil
}

func checkInput(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmptyInput, err)
	}

	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyInput, filename)
	}

	return nil
}

// OutputPath replaces the extension of filename with suffix, keeping the directory.
// "docs/report.txt" with "_encrypted.bin" becomes "docs/report_encrypted.bin".
func OutputPath(filename, suffix string) string {
	base := filepath.Base(filename)

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}

	return filepath.Join(filepath.Dir(filename), stem+suffix)
}

// checkCollisions rejects batches where two inputs share an output or an output would replace an input.
func checkCollisions(files []string, suffix string) error {
	inputs := make(map[string]struct{}, len(files))
	for _, file := range files {
		inputs[filepath.Clean(file)] = struct{}{}
	}

	seen := make(map[string]string, len(files))

	for _, file := range files {
		out := filepath.Clean(OutputPath(file, suffix))

		if _, ok := inputs[out]; ok {
			return fmt.Errorf("%w: output of %q would overwrite input %q", ErrOutputCollision, file, out)
		}

		if other, ok := seen[out]; ok {
			return fmt.Errorf("%w: %q and %q both map to %q", ErrOutputCollision, other, file, out)
		}

		seen[out] = file
	}

	return nil
}

func printStats(w io.Writer, mode Mode, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats (%s)\n", mode)
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
