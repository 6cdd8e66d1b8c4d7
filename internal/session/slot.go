package session

import (
	"errors"
	"sync"
)

// ErrNoActiveSession is returned when encrypting or decrypting before any keys were set.
var ErrNoActiveSession = errors.New("no active session: set the keys first")

// Slot holds the current session of an interactive front end.
// The zero value is an empty slot.
type Slot struct {
	mu      sync.RWMutex
	current *Session
}

// Replace installs s as the current session and reports whether another session was discarded.
// The discarded session's AES key is gone for good.
func (sl *Slot) Replace(s *Session) bool {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	replaced := sl.current != nil
	sl.current = s

	return replaced
}

// Current returns the active session or ErrNoActiveSession.
func (sl *Slot) Current() (*Session, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()

	if sl.current == nil {
		return nil, ErrNoActiveSession
	}

	return sl.current, nil
}

// Ready reports whether a session is installed.
func (sl *Slot) Ready() bool {
	_, err := sl.Current()

	return err == nil
}

// Encrypt encrypts with the current session.
func (sl *Slot) Encrypt(plaintext []byte) ([]byte, error) {
	s, err := sl.Current()
	if err != nil {
		return nil, err
	}

	return s.Encrypt(plaintext)
}

// Decrypt decrypts with the current session.
func (sl *Slot) Decrypt(ciphertext []byte) ([]byte, error) {
	s, err := sl.Current()
	if err != nil {
		return nil, err
	}

	return s.Decrypt(ciphertext)
}
