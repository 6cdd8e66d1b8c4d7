// Package keyset parses the raw rotor key sets into the ordered list of rotor keys.
//
// Each of the seven sets is a whitespace-separated list of non-negative decimal integers.
// Sets with fewer than ten values are topped up with random values in [0, 100);
// longer sets are kept as they are.
package keyset

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	// SetCount is the number of key sets a session is built from.
	SetCount = 7
	// SetSize is the minimum number of values per set after padding.
	SetSize = 10
	// fillerBound is the exclusive upper bound of random padding values.
	fillerBound = 100
)

var (
	// ErrSetCount is returned when the number of raw sets is not SetCount.
	ErrSetCount = errors.New("wrong number of key sets")
	// ErrEmptySet is returned when a set contains no tokens.
	ErrEmptySet = errors.New("key set is empty")
	// ErrInvalidDigit is returned when a token is not made of decimal digits only.
	ErrInvalidDigit = errors.New("invalid value in key set")
)

// SetError reports which set (1-based) and token caused a parse failure.
type SetError struct {
	Set   int
	Token string
	Err   error
}

func (e *SetError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("set %d: %v: %q", e.Set, e.Err, e.Token)
	}

	return fmt.Sprintf("set %d: %v", e.Set, e.Err)
}

func (e *SetError) Unwrap() error {
	return e.Err
}

// KeySet holds the parsed sets in input order.
type KeySet struct {
	// Sets holds every set after padding.
	Sets [][]*big.Int
	// Supplied holds, per set, how many leading values came from the user.
	Supplied []int
}

// Normalize parses raw and returns the flat rotor key list.
func Normalize(raw []string, random io.Reader) ([]*big.Int, error) {
	ks, err := Parse(raw, random)
	if err != nil {
		return nil, err
	}

	return ks.Flat(), nil
}

// Parse validates and pads the raw sets. A nil random source uses crypto/rand.
func Parse(raw []string, random io.Reader) (*KeySet, error) {
	if len(raw) != SetCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSetCount, len(raw), SetCount)
	}

	if random == nil {
		random = rand.Reader
	}

	ks := &KeySet{
		Sets:     make([][]*big.Int, 0, SetCount),
		Supplied: make([]int, 0, SetCount),
	}

	for i, line := range raw {
		values, err := parseSet(line)
		if err != nil {
			var setErr *SetError
			if errors.As(err, &setErr) {
				setErr.Set = i + 1
			}

			return nil, err
		}

		supplied := len(values)

		for len(values) < SetSize {
			filler, err := rand.Int(random, big.NewInt(fillerBound))
			if err != nil {
				return nil, fmt.Errorf("set %d: generating filler value: %w", i+1, err)
			}

			values = append(values, filler)
		}

		ks.Sets = append(ks.Sets, values)
		ks.Supplied = append(ks.Supplied, supplied)
	}

	return ks, nil
}

// Flat concatenates the sets in order.
func (k *KeySet) Flat() []*big.Int {
	flat := make([]*big.Int, 0, k.Len())

	for _, set := range k.Sets {
		flat = append(flat, set...)
	}

	return flat
}

// Len returns the total number of values across all sets.
func (k *KeySet) Len() int {
	total := 0

	for _, set := range k.Sets {
		total += len(set)
	}

	return total
}

// Padded returns how many random filler values were added.
func (k *KeySet) Padded() int {
	return k.Len() - k.supplied()
}

func (k *KeySet) supplied() int {
	total := 0

	for _, n := range k.Supplied {
		total += n
	}

	return total
}

func parseSet(line string) ([]*big.Int, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, &SetError{Err: ErrEmptySet}
	}

	values := make([]*big.Int, 0, max(len(tokens), SetSize))

	for _, token := range tokens {
		if !isDigits(token) {
			return nil, &SetError{Token: token, Err: ErrInvalidDigit}
		}

		value, ok := new(big.Int).SetString(token, 10)
		if !ok {
			return nil, &SetError{Token: token, Err: ErrInvalidDigit}
		}

		values = append(values, value)
	}

	return values, nil
}

func isDigits(token string) bool {
	for i := range len(token) {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}

	return token != ""
}
