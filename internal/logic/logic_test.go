package logic_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/encryption"
	"github.com/idelchi/gorotor/internal/logic"
	"github.com/idelchi/gorotor/internal/session"
)

const fullSet = "1 2 3 4 5 6 7 8 9 10"

func fullSets() []string {
	sets := make([]string, 7)
	for i := range sets {
		sets[i] = fullSet
	}

	return sets
}

func testConfig() *config.Config {
	return &config.Config{
		Sets:     fullSets(),
		Parallel: 4,
		Suffixes: config.Suffixes{Encrypt: "_encrypted.bin", Decrypt: "_decrypted.bin"},
		Log:      config.Log{Level: "info", Format: "console"},
	}
}

func newProcessor(t *testing.T, cfg *config.Config) (*logic.Processor, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	s, err := session.FromSets(cfg.Sets)
	if err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer

	return &logic.Processor{Session: s, Config: cfg, Out: &out, Err: &errOut}, &out, &errOut
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return data
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, suffix, want string
	}{
		{"report.txt", "_encrypted.bin", "report_encrypted.bin"},
		{filepath.Join("docs", "report.txt"), "_encrypted.bin", filepath.Join("docs", "report_encrypted.bin")},
		{"archive.tar.gz", "_encrypted.bin", "archive.tar_encrypted.bin"},
		{"noext", "_encrypted.bin", "noext_encrypted.bin"},
		{"report_encrypted.bin", "_decrypted.bin", "report_encrypted_decrypted.bin"},
		{".profile", ".rot", ".profile.rot"},
	}

	for _, tc := range tests {
		if got := logic.OutputPath(tc.in, tc.suffix); got != tc.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tc.in, tc.suffix, got, tc.want)
		}
	}
}

func TestProcessRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig()
	proc, out, _ := newProcessor(t, cfg)

	contents := map[string][]byte{
		"short.txt": []byte("hello"),
		"block.txt": bytes.Repeat([]byte{0xAB}, 16),
		"large.dat": bytes.Repeat([]byte("rotor stack "), 10_000),
	}

	var files []string
	for name, data := range contents {
		files = append(files, writeFile(t, dir, name, data))
	}

	if err := proc.Process(logic.Encrypt, files); err != nil {
		t.Fatalf("Process(Encrypt) error = %v", err)
	}

	var encrypted []string

	for name, data := range contents {
		path := logic.OutputPath(filepath.Join(dir, name), cfg.Suffixes.Encrypt)

		cipher := readFile(t, path)
		if len(cipher) != encryption.EncryptedSize(len(data)) {
			t.Errorf("%s: ciphertext length = %d, want %d", name, len(cipher), encryption.EncryptedSize(len(data)))
		}

		if bytes.Contains(cipher, data) {
			t.Errorf("%s: ciphertext contains the plaintext", name)
		}

		encrypted = append(encrypted, path)
	}

	if got := strings.Count(out.String(), "Processed "); got != len(contents) {
		t.Fatalf("printed %d results, want %d:\n%s", got, len(contents), out)
	}

	if err := proc.Process(logic.Decrypt, encrypted); err != nil {
		t.Fatalf("Process(Decrypt) error = %v", err)
	}

	for name, data := range contents {
		encPath := logic.OutputPath(filepath.Join(dir, name), cfg.Suffixes.Encrypt)

		if got := readFile(t, logic.OutputPath(encPath, cfg.Suffixes.Decrypt)); !bytes.Equal(got, data) {
			t.Errorf("%s: decrypted content differs", name)
		}
	}
}

func TestProcessEmptyInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	proc, _, errOut := newProcessor(t, testConfig())

	empty := writeFile(t, dir, "empty.txt", nil)
	missing := filepath.Join(dir, "missing.txt")

	for _, file := range []string{empty, missing, dir} {
		err := proc.Process(logic.Encrypt, []string{file})
		if !errors.Is(err, logic.ErrEmptyInput) {
			t.Errorf("Process(%q) error = %v, want ErrEmptyInput", file, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "empty_encrypted.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Error("output written for an empty input")
	}

	if !strings.Contains(errOut.String(), "Error processing") {
		t.Errorf("errors not reported: %s", errOut)
	}
}

func TestProcessCorruptedCiphertextLeavesNoOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig()
	proc, _, _ := newProcessor(t, cfg)

	plain := writeFile(t, dir, "secret.txt", []byte("attack at dawn"))
	if err := proc.Process(logic.Encrypt, []string{plain}); err != nil {
		t.Fatal(err)
	}

	encPath := logic.OutputPath(plain, cfg.Suffixes.Encrypt)
	cipher := readFile(t, encPath)

	// Drop the last byte so the ciphertext is no longer block aligned.
	truncated := writeFile(t, dir, "truncated.bin", cipher[:len(cipher)-1])

	err := proc.Process(logic.Decrypt, []string{truncated})
	if !errors.Is(err, encryption.ErrDecryption) {
		t.Fatalf("Process(Decrypt) error = %v, want ErrDecryption", err)
	}

	if _, err := os.Stat(logic.OutputPath(truncated, cfg.Suffixes.Decrypt)); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("partial plaintext left on disk")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Fatalf("temp file %q left behind", e.Name())
		}
	}
}

func TestProcessOtherSessionCannotDecrypt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig()
	encrypter, _, _ := newProcessor(t, cfg)

	const tries = 32

	var files []string
	for i := range tries {
		files = append(files, writeFile(t, dir, "f"+strings.Repeat("x", i)+".txt", []byte("same rotor keys")))
	}

	if err := encrypter.Process(logic.Encrypt, files); err != nil {
		t.Fatal(err)
	}

	var encrypted []string
	for _, f := range files {
		encrypted = append(encrypted, logic.OutputPath(f, cfg.Suffixes.Encrypt))
	}

	decrypter, _, _ := newProcessor(t, cfg)

	// A foreign AES key passes the padding check only by chance, so at least one file fails.
	if err := decrypter.Process(logic.Decrypt, encrypted); !errors.Is(err, encryption.ErrDecryption) {
		t.Fatalf("Process(Decrypt) error = %v, want ErrDecryption", err)
	}
}

func TestProcessVerify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig()
	cfg.Verify = true
	cfg.Stats = true
	cfg.Quiet = true

	proc, out, errOut := newProcessor(t, cfg)

	files := []string{
		writeFile(t, dir, "a.txt", []byte("first")),
		writeFile(t, dir, "b.txt", bytes.Repeat([]byte{0}, 4096)),
	}

	if err := proc.Process(logic.Encrypt, files); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("quiet run printed %q", out)
	}

	for _, want := range []string{"Stats (encrypt)", "Processed: 2", "Errors:    0", "Size:"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stats missing %q:\n%s", want, errOut)
		}
	}
}

func TestProcessCollision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		encExt    string
		files     map[string]string
		untouched []string
	}{
		{
			name:   "shared output",
			encExt: "_encrypted.bin",
			files:  map[string]string{"report.txt": "one", "report.md": "two"},
		},
		{
			name:      "suffix equals input extension",
			encExt:    ".txt",
			files:     map[string]string{"notes.txt": "plaintext notes"},
			untouched: []string{"notes.txt"},
		},
		{
			name:      "output is another input",
			encExt:    "_encrypted.bin",
			files:     map[string]string{"a.txt": "first", "a_encrypted.bin": "second"},
			untouched: []string{"a.txt", "a_encrypted.bin"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			cfg := testConfig()
			cfg.Suffixes.Encrypt = tc.encExt

			proc, _, _ := newProcessor(t, cfg)

			var files []string
			for name, content := range tc.files {
				files = append(files, writeFile(t, dir, name, []byte(content)))
			}

			if err := proc.Process(logic.Encrypt, files); !errors.Is(err, logic.ErrOutputCollision) {
				t.Fatalf("Process() error = %v, want ErrOutputCollision", err)
			}

			for _, name := range tc.untouched {
				if got := readFile(t, filepath.Join(dir, name)); string(got) != tc.files[name] {
					t.Errorf("%s was overwritten: %q", name, got)
				}
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}

			if len(entries) != len(tc.files) {
				t.Fatalf("directory holds %d entries, want only the %d inputs", len(entries), len(tc.files))
			}
		})
	}
}

func TestKeys(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Sets[6] = "5 6 7"

	var out bytes.Buffer
	if err := logic.Keys(cfg, &out, nil); err != nil {
		t.Fatalf("Keys() error = %v", err)
	}

	got := out.String()

	for _, want := range []string{
		"Set 1 (10 supplied, 0 filler): " + fullSet + "\n",
		"Set 7 (3 supplied, 7 filler): 5 6 7 ",
		"Rotors: 70, net shift: ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	cfg.Sets = cfg.Sets[:6]
	if err := logic.Keys(cfg, &out, nil); err == nil {
		t.Error("Keys() accepted six sets")
	}
}
