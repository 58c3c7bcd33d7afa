/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sequence.go
Description: Sequence and alphabet primitives for the Akaylee L* learner. A sequence is an
immutable, finite string of symbols; the empty sequence is epsilon. Provides concatenation,
prefix/suffix decomposition, a shortlex total order, and an injective key for map storage.
*/

package sequence

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnknownSymbol is returned when a sequence uses a symbol outside the alphabet
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrAlphabetMismatch is returned when two components disagree on the input alphabet
	ErrAlphabetMismatch = errors.New("alphabet mismatch")
)

// Symbol is a single letter of an input or output alphabet
type Symbol string

// Epsilon is the printable name of the empty sequence
const Epsilon = "ε"

// keySeparator joins symbols inside a map key. Symbols may not contain it.
const keySeparator = "\x1f"

// Sequence is an ordered tuple of symbols
// Methods never mutate the receiver; every derived sequence is a fresh copy
type Sequence []Symbol

// Empty returns the zero-length sequence
func Empty() Sequence {
	return Sequence{}
}

// Of builds a sequence from the given symbols
func Of(symbols ...Symbol) Sequence {
	out := make(Sequence, len(symbols))
	copy(out, symbols)
	return out
}

// Parse splits a string into a sequence. With an empty separator every rune
// becomes one symbol, which is the natural encoding for single-letter alphabets.
func Parse(s string, sep string) Sequence {
	if s == "" || s == Epsilon {
		return Empty()
	}
	if sep == "" {
		out := make(Sequence, 0, utf8.RuneCountInString(s))
		for _, r := range s {
			out = append(out, Symbol(string(r)))
		}
		return out
	}
	parts := strings.Split(s, sep)
	out := make(Sequence, 0, len(parts))
	for _, p := range parts {
		out = append(out, Symbol(p))
	}
	return out
}

// Len returns the number of symbols in the sequence
func (s Sequence) Len() int {
	return len(s)
}

// IsEmpty reports whether s is epsilon
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// Append returns s followed by a
func (s Sequence) Append(a Symbol) Sequence {
	out := make(Sequence, len(s), len(s)+1)
	copy(out, s)
	return append(out, a)
}

// Concat returns s followed by o
func (s Sequence) Concat(o Sequence) Sequence {
	out := make(Sequence, 0, len(s)+len(o))
	out = append(out, s...)
	return append(out, o...)
}

// Prefix returns the first n symbols of s
func (s Sequence) Prefix(n int) Sequence {
	if n > len(s) {
		n = len(s)
	}
	return Of(s[:n]...)
}

// Suffix returns s without its first from symbols
func (s Sequence) Suffix(from int) Sequence {
	if from > len(s) {
		from = len(s)
	}
	return Of(s[from:]...)
}

// Prefixes returns every prefix of s from epsilon up to and including s itself
func (s Sequence) Prefixes() []Sequence {
	out := make([]Sequence, 0, len(s)+1)
	for i := 0; i <= len(s); i++ {
		out = append(out, s.Prefix(i))
	}
	return out
}

// Suffixes returns every non-empty suffix of s, shortest first
func (s Sequence) Suffixes() []Sequence {
	out := make([]Sequence, 0, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		out = append(out, s.Suffix(i))
	}
	return out
}

// HasPrefix reports whether p is a prefix of s
func (s Sequence) HasPrefix(p Sequence) bool {
	if len(p) > len(s) {
		return false
	}
	for i := range p {
		if s[i] != p[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both sequences hold the same symbols
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare orders sequences shortlex: shorter first, then symbol by symbol
func (s Sequence) Compare(o Sequence) int {
	if len(s) != len(o) {
		if len(s) < len(o) {
			return -1
		}
		return 1
	}
	for i := range s {
		if s[i] != o[i] {
			if s[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Key returns an injective string encoding suitable as a map key
func (s Sequence) Key() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = string(a)
	}
	return strings.Join(parts, keySeparator)
}

// FromKey inverts Key
func FromKey(key string) Sequence {
	if key == "" {
		return Empty()
	}
	parts := strings.Split(key, keySeparator)
	out := make(Sequence, len(parts))
	for i, p := range parts {
		out[i] = Symbol(p)
	}
	return out
}

// String renders the sequence for logs and reports
func (s Sequence) String() string {
	if len(s) == 0 {
		return Epsilon
	}
	single := true
	for _, a := range s {
		if utf8.RuneCountInString(string(a)) != 1 {
			single = false
			break
		}
	}
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = string(a)
	}
	if single {
		return strings.Join(parts, "")
	}
	return strings.Join(parts, " ")
}

// Format renders the sequence joined by sep, using the empty string for epsilon
func (s Sequence) Format(sep string) string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = string(a)
	}
	return strings.Join(parts, sep)
}

// Alphabet is a finite, ordered set of symbols
// Order matters: it fixes the tie-break used everywhere in the learner
type Alphabet []Symbol

// NewAlphabet builds an alphabet, dropping duplicates while keeping first-seen order
func NewAlphabet(symbols ...Symbol) (Alphabet, error) {
	seen := make(map[Symbol]bool, len(symbols))
	out := make(Alphabet, 0, len(symbols))
	for _, a := range symbols {
		if a == "" {
			return nil, fmt.Errorf("alphabet symbols must be non-empty")
		}
		if strings.Contains(string(a), keySeparator) {
			return nil, fmt.Errorf("symbol %q contains a reserved separator", a)
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("alphabet must contain at least one symbol")
	}
	return out, nil
}

// MustAlphabet is NewAlphabet for literals known to be valid
func MustAlphabet(symbols ...Symbol) Alphabet {
	a, err := NewAlphabet(symbols...)
	if err != nil {
		panic(err)
	}
	return a
}

// Contains reports whether a belongs to the alphabet
func (al Alphabet) Contains(a Symbol) bool {
	for _, b := range al {
		if a == b {
			return true
		}
	}
	return false
}

// Validate checks that every symbol of s belongs to the alphabet
func (al Alphabet) Validate(s Sequence) error {
	for i, a := range s {
		if !al.Contains(a) {
			return fmt.Errorf("%w: %q at position %d", ErrUnknownSymbol, a, i)
		}
	}
	return nil
}

// Equal reports whether two alphabets hold the same symbols in the same order
func (al Alphabet) Equal(o Alphabet) bool {
	return Sequence(al).Equal(Sequence(o))
}

// Singletons returns the one-symbol sequences in alphabet order
func (al Alphabet) Singletons() []Sequence {
	out := make([]Sequence, len(al))
	for i, a := range al {
		out[i] = Of(a)
	}
	return out
}
