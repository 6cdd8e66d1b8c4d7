// Package session binds a rotor stack and an AES-256-CBC layer into one cipher.
//
// A Session is created once per key setup and never changes afterwards. Its AES key
// exists only in memory: ciphertext produced by a session can only be decrypted by
// that same session.
package session

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/idelchi/gorotor/internal/encryption"
	"github.com/idelchi/gorotor/internal/keyset"
	"github.com/idelchi/gorotor/internal/rotor"
)

// Session encrypts with the rotor stack followed by AES-CBC and decrypts in the opposite order.
// It is immutable and safe for concurrent use.
type Session struct {
	stack   *rotor.Stack
	layer   *encryption.Layer
	logger  zerolog.Logger
	created time.Time
}

// Option configures a Session.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	random io.Reader
}

// WithLogger sets the logger session events are written to.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRandom sets the source for the AES key, IVs and key-set filler values.
func WithRandom(random io.Reader) Option {
	return func(o *options) {
		o.random = random
	}
}

func collect(opts []Option) options {
	o := options{logger: zerolog.Nop()}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// New builds a session from the ordered rotor keys and a freshly generated AES key.
func New(keys []*big.Int, opts ...Option) (*Session, error) {
	o := collect(opts)

	layer, err := encryption.NewLayer(o.random)
	if err != nil {
		return nil, fmt.Errorf("creating AES layer: %w", err)
	}

	s := &Session{
		stack:   rotor.NewStack(keys),
		layer:   layer,
		logger:  o.logger,
		created: time.Now(),
	}

	s.logger.Info().Int("rotors", s.stack.Len()).Msg("session created")
	s.logger.Debug().Uint8("net_shift", s.stack.Shift()).Msg("rotor stack")

	return s, nil
}

// FromSets normalizes the raw key sets and builds a session from them.
func FromSets(raw []string, opts ...Option) (*Session, error) {
	o := collect(opts)

	ks, err := keyset.Parse(raw, o.random)
	if err != nil {
		o.logger.Error().Err(err).Msg("key configuration failed")

		return nil, fmt.Errorf("parsing key sets: %w", err)
	}

	o.logger.Debug().Int("values", ks.Len()).Int("padded", ks.Padded()).Msg("key sets normalized")

	return New(ks.Flat(), opts...)
}

// Rotors returns the number of rotors in the stack.
func (s *Session) Rotors() int {
	return s.stack.Len()
}

// Created returns when the session was built.
func (s *Session) Created() time.Time {
	return s.created
}

// Encrypt applies the rotor stack, then AES-CBC under a fresh IV.
func (s *Session) Encrypt(plaintext []byte) ([]byte, error) {
	out, err := s.layer.Encrypt(s.stack.Forward(plaintext))
	if err != nil {
		s.logger.Error().Err(err).Msg("encryption failed")

		return nil, fmt.Errorf("encrypting: %w", err)
	}

	s.logger.Info().Int("input_length", len(plaintext)).Int("output_length", len(out)).Msg("encryption completed")

	return out, nil
}

// Decrypt removes the AES layer, then reverses the rotor stack.
// The rotor stage only runs when the AES layer succeeded.
func (s *Session) Decrypt(ciphertext []byte) ([]byte, error) {
	inner, err := s.layer.Decrypt(ciphertext)
	if err != nil {
		s.logger.Warn().Err(err).Int("input_length", len(ciphertext)).Msg("decryption failed")

		return nil, fmt.Errorf("decrypting: %w", err)
	}

	s.stack.ReverseInPlace(inner)

	s.logger.Info().Int("output_length", len(inner)).Msg("decryption completed")

	return inner, nil
}

// EncryptStream is the streaming form of Encrypt. It returns the bytes written to w.
func (s *Session) EncryptStream(r io.Reader, w io.Writer) (int64, error) {
	n, err := s.layer.EncryptStream(s.stack.Reader(r), w)
	if err != nil {
		s.logger.Error().Err(err).Msg("encryption failed")

		return n, fmt.Errorf("encrypting: %w", err)
	}

	s.logger.Info().Int64("output_length", n).Msg("encryption completed")

	return n, nil
}

// DecryptStream is the streaming form of Decrypt. It returns the plaintext bytes written to w.
// On error, w may already hold partial output that must be discarded.
func (s *Session) DecryptStream(r io.Reader, w io.Writer) (int64, error) {
	n, err := s.layer.DecryptStream(r, s.stack.Writer(w))
	if err != nil {
		s.logger.Warn().Err(err).Msg("decryption failed")

		return n, fmt.Errorf("decrypting: %w", err)
	}

	s.logger.Info().Int64("output_length", n).Msg("decryption completed")

	return n, nil
}
