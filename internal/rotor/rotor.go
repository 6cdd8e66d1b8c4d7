// Package rotor implements modular-substitution byte transforms and ordered stacks of them.
package rotor

import "math/big"

const alphabet = 256

// Rotor shifts every byte by a fixed key modulo 256.
// Keys of any magnitude or sign are accepted; only their residue matters for the transform.
type Rotor struct {
	key   *big.Int
	shift byte
}

// New creates a rotor for key. The key is copied.
func New(key *big.Int) Rotor {
	k := new(big.Int)
	if key != nil {
		k.Set(key)
	}

	// big.Int.Mod is Euclidean, so the residue is in [0, 256) for negative keys as well.
	residue := new(big.Int).Mod(k, big.NewInt(alphabet))

	return Rotor{key: k, shift: byte(residue.Uint64())}
}

// FromInt is a convenience wrapper around New for machine-sized keys.
func FromInt(key int64) Rotor {
	return New(big.NewInt(key))
}

// Key returns a copy of the key the rotor was built from.
func (r Rotor) Key() *big.Int {
	if r.key == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(r.key)
}

// Shift returns the key reduced modulo 256.
func (r Rotor) Shift() byte {
	return r.shift
}

// Forward computes (b + key) mod 256.
func (r Rotor) Forward(b byte) byte {
	return b + r.shift
}

// Inverse computes (b - key) mod 256.
func (r Rotor) Inverse(b byte) byte {
	return b - r.shift
}

// String returns the decimal key.
func (r Rotor) String() string {
	return r.Key().String()
}
