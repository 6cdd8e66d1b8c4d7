package rotor

import "math/big"

// Stack is an ordered, immutable sequence of rotors.
// Forward applies the rotors in construction order, Reverse applies their inverses last to first.
type Stack struct {
	rotors []Rotor
}

// NewStack builds one rotor per key, keeping the order of keys.
func NewStack(keys []*big.Int) *Stack {
	rotors := make([]Rotor, len(keys))

	for i, key := range keys {
		rotors[i] = New(key)
	}

	return &Stack{rotors: rotors}
}

// Len returns the number of rotors.
func (s *Stack) Len() int {
	return len(s.rotors)
}

// Rotors returns a copy of the rotor list.
func (s *Stack) Rotors() []Rotor {
	out := make([]Rotor, len(s.rotors))
	copy(out, s.rotors)

	return out
}

// Shift returns the net shift of the whole stack.
// A stack of additive rotors behaves like a single rotor with this key.
func (s *Stack) Shift() byte {
	var total byte

	for _, r := range s.rotors {
		total += r.shift
	}

	return total
}

// Forward returns a transformed copy of message.
func (s *Stack) Forward(message []byte) []byte {
	out := make([]byte, len(message))
	copy(out, message)

	s.ForwardInPlace(out)

	return out
}

// Reverse returns an inverse-transformed copy of message.
func (s *Stack) Reverse(message []byte) []byte {
	out := make([]byte, len(message))
	copy(out, message)

	s.ReverseInPlace(out)

	return out
}

// ForwardInPlace runs every byte of p through each rotor, first rotor first.
func (s *Stack) ForwardInPlace(p []byte) {
	for _, r := range s.rotors {
		for i := range p {
			p[i] = r.Forward(p[i])
		}
	}
}

// ReverseInPlace undoes ForwardInPlace, last rotor first.
func (s *Stack) ReverseInPlace(p []byte) {
	for idx := len(s.rotors) - 1; idx >= 0; idx-- {
		r := s.rotors[idx]

		for i := range p {
			p[i] = r.Inverse(p[i])
		}
	}
}
