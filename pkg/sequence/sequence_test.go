/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sequence_test.go
Description: Tests for sequence and alphabet primitives. Covers parsing, prefix and suffix
decomposition, shortlex ordering and key round-trips.
*/

package sequence_test

import (
	"testing"

	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse tests rune-wise and separator-based parsing
func TestParse(t *testing.T) {
	assert.Equal(t, sequence.Of("0", "1", "1"), sequence.Parse("011", ""))
	assert.Equal(t, sequence.Of("open", "close"), sequence.Parse("open,close", ","))
	assert.True(t, sequence.Parse("", "").IsEmpty())
	assert.True(t, sequence.Parse(sequence.Epsilon, ",").IsEmpty())
}

// TestAppendDoesNotAlias makes sure derived sequences never share backing arrays
func TestAppendDoesNotAlias(t *testing.T) {
	base := make(sequence.Sequence, 1, 8)
	base[0] = "0"

	a := base.Append("0")
	b := base.Append("1")

	assert.Equal(t, "00", a.String())
	assert.Equal(t, "01", b.String())
	assert.Equal(t, "0", base.String())
}

// TestPrefixesAndSuffixes tests decomposition of a counterexample
func TestPrefixesAndSuffixes(t *testing.T) {
	s := sequence.Parse("0110", "")

	prefixes := s.Prefixes()
	require.Len(t, prefixes, 5)
	assert.True(t, prefixes[0].IsEmpty())
	assert.Equal(t, "011", prefixes[3].String())
	assert.Equal(t, "0110", prefixes[4].String())

	suffixes := s.Suffixes()
	require.Len(t, suffixes, 4)
	assert.Equal(t, "0", suffixes[0].String())
	assert.Equal(t, "110", suffixes[2].String())

	assert.True(t, s.HasPrefix(sequence.Parse("01", "")))
	assert.False(t, s.HasPrefix(sequence.Parse("1", "")))
	assert.True(t, s.HasPrefix(sequence.Empty()))
}

// TestCompareShortlex tests the total order used for deterministic tie-breaks
func TestCompareShortlex(t *testing.T) {
	assert.Equal(t, -1, sequence.Parse("1", "").Compare(sequence.Parse("00", "")))
	assert.Equal(t, 1, sequence.Parse("10", "").Compare(sequence.Parse("01", "")))
	assert.Equal(t, 0, sequence.Parse("10", "").Compare(sequence.Parse("10", "")))
	assert.Equal(t, -1, sequence.Empty().Compare(sequence.Parse("0", "")))
}

// TestKeyRoundTrip tests that keys are injective across multi-letter symbols
func TestKeyRoundTrip(t *testing.T) {
	cases := []sequence.Sequence{
		sequence.Empty(),
		sequence.Of("ab"),
		sequence.Of("a", "b"),
		sequence.Of("login", "logout", "login"),
	}
	seen := make(map[string]bool)
	for _, s := range cases {
		key := s.Key()
		assert.False(t, seen[key], "duplicate key for %v", s)
		seen[key] = true
		assert.True(t, s.Equal(sequence.FromKey(key)))
	}
}

// TestStringRendering tests the printable form
func TestStringRendering(t *testing.T) {
	assert.Equal(t, sequence.Epsilon, sequence.Empty().String())
	assert.Equal(t, "0110", sequence.Parse("0110", "").String())
	assert.Equal(t, "open close", sequence.Of("open", "close").String())
	assert.Equal(t, "open,close", sequence.Of("open", "close").Format(","))
}

// TestAlphabet tests alphabet construction and validation
func TestAlphabet(t *testing.T) {
	al, err := sequence.NewAlphabet("0", "1", "0")
	require.NoError(t, err)
	assert.Equal(t, sequence.Alphabet{"0", "1"}, al)

	_, err = sequence.NewAlphabet()
	assert.Error(t, err)

	_, err = sequence.NewAlphabet("a", "")
	assert.Error(t, err)

	assert.NoError(t, al.Validate(sequence.Parse("0101", "")))
	assert.Error(t, al.Validate(sequence.Parse("012", "")))

	singles := al.Singletons()
	require.Len(t, singles, 2)
	assert.Equal(t, "1", singles[1].String())
}
