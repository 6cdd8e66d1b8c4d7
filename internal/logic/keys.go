package logic

import (
	"fmt"
	"io"
	"strings"

	"github.com/idelchi/gorotor/internal/config"
	"github.com/idelchi/gorotor/internal/keyset"
	"github.com/idelchi/gorotor/internal/rotor"
)

// Keys normalizes the configured key sets and prints the resulting rotor keys per set.
// Filler values are drawn from random (crypto/rand when nil) and differ on every call.
func Keys(cfg *config.Config, out io.Writer, random io.Reader) error {
	sets, err := cfg.KeySets()
	if err != nil {
		return err
	}

	ks, err := keyset.Parse(sets, random)
	if err != nil {
		return fmt.Errorf("parsing key sets: %w", err)
	}

	printKeySet(out, ks)

	return nil
}

func printKeySet(out io.Writer, ks *keyset.KeySet) {
	for i, set := range ks.Sets {
		values := make([]string, len(set))
		for j, v := range set {
			values[j] = v.String()
		}

		filler := len(set) - ks.Supplied[i]

		fmt.Fprintf(out, "Set %d (%d supplied, %d filler): %s\n", i+1, ks.Supplied[i], filler, strings.Join(values, " "))
	}

	fmt.Fprintf(out, "Rotors: %d, net shift: %d\n", ks.Len(), rotor.NewStack(ks.Flat()).Shift())
}

