/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: automaton_test.go
Description: Tests for the generic automaton: runs, hole handling, product comparison and
DOT rendering.
*/

package automaton_test

import (
	"strings"
	"testing"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binary = sequence.MustAlphabet("0", "1")

// noDoubleOne accepts binary words without the substring "11"
func noDoubleOne(t *testing.T) *automaton.Automaton[bool] {
	a := automaton.New[bool](binary)
	q0 := a.AddState(sequence.Empty(), true)
	q1 := a.AddState(sequence.Of("1"), true)
	trap := a.AddState(sequence.Of("1", "1"), false)
	require.NoError(t, a.SetTransition(q0, "0", q0))
	require.NoError(t, a.SetTransition(q0, "1", q1))
	require.NoError(t, a.SetTransition(q1, "0", q0))
	require.NoError(t, a.SetTransition(q1, "1", trap))
	require.NoError(t, a.SetTransition(trap, "0", trap))
	require.NoError(t, a.SetTransition(trap, "1", trap))
	return a
}

// TestRun tests acceptance on a small DFA
func TestRun(t *testing.T) {
	a := noDoubleOne(t)
	require.NoError(t, a.Validate())
	assert.True(t, a.IsTotal())
	assert.Equal(t, 3, a.NumStates())

	assert.True(t, automaton.Accepts(a, sequence.Empty()))
	assert.True(t, automaton.Accepts(a, sequence.Parse("10101", "")))
	assert.False(t, automaton.Accepts(a, sequence.Parse("0110", "")))
}

// TestSetTransitionRejectsBadInput tests transition validation
func TestSetTransitionRejectsBadInput(t *testing.T) {
	a := automaton.New[bool](binary)
	q := a.AddState(sequence.Empty(), true)
	assert.Error(t, a.SetTransition(q, "2", q))
	assert.Error(t, a.SetTransition(q, "0", 7))
	assert.Error(t, a.SetTransition(4, "0", q))
}

// TestHoleState tests that the hole absorbs undefined behaviour
func TestHoleState(t *testing.T) {
	a := automaton.New[bool](binary)
	q := a.AddState(sequence.Empty(), true)
	hole := a.HoleState(false)
	require.NoError(t, a.SetTransition(q, "0", q))
	require.NoError(t, a.SetTransition(q, "1", hole))

	assert.Equal(t, 1, a.NumStates())
	assert.True(t, a.HasHole())
	assert.True(t, a.IsHole(hole))
	assert.True(t, a.IsTotal())
	assert.Equal(t, hole, a.HoleState(true), "hole is created once")

	out, known := a.Output(sequence.Parse("00", ""))
	assert.True(t, known)
	assert.True(t, out)

	_, known = a.Output(sequence.Parse("010", ""))
	assert.False(t, known)
}

// TestShortestDifference tests product comparison
func TestShortestDifference(t *testing.T) {
	target := noDoubleOne(t)

	acceptAll := automaton.New[bool](binary)
	q := acceptAll.AddState(sequence.Empty(), true)
	require.NoError(t, acceptAll.SetTransition(q, "0", q))
	require.NoError(t, acceptAll.SetTransition(q, "1", q))

	word, found := automaton.ShortestDifference(target, acceptAll)
	require.True(t, found)
	assert.Equal(t, "11", word.String())

	assert.True(t, automaton.Equivalent(target, noDoubleOne(t)))
}

// TestShortestDifferenceUndefinedTransition tests that running off a partial model is a difference
func TestShortestDifferenceUndefinedTransition(t *testing.T) {
	full := automaton.New[string](binary)
	s := full.AddState(sequence.Empty(), "x")
	require.NoError(t, full.SetTransition(s, "0", s))
	require.NoError(t, full.SetTransition(s, "1", s))

	partial := automaton.New[string](binary)
	p := partial.AddState(sequence.Empty(), "x")
	require.NoError(t, partial.SetTransition(p, "0", p))

	word, found := automaton.ShortestDifference(full, partial)
	require.True(t, found)
	assert.Equal(t, "1", word.String())
}

// TestShortestDifferenceHole tests that the hole never matches an ordinary state
func TestShortestDifferenceHole(t *testing.T) {
	target := noDoubleOne(t)

	incomplete := automaton.New[bool](binary)
	q0 := incomplete.AddState(sequence.Empty(), true)
	q1 := incomplete.AddState(sequence.Of("1"), true)
	hole := incomplete.HoleState(false)
	require.NoError(t, incomplete.SetTransition(q0, "0", q0))
	require.NoError(t, incomplete.SetTransition(q0, "1", q1))
	require.NoError(t, incomplete.SetTransition(q1, "0", q0))
	require.NoError(t, incomplete.SetTransition(q1, "1", hole))

	word, found := automaton.ShortestDifference(target, incomplete)
	require.True(t, found)
	assert.Equal(t, "11", word.String())
	assert.False(t, automaton.Equivalent(incomplete, target))

	assert.True(t, automaton.Equivalent(incomplete, incomplete))
}

// TestGenerateDOT tests DOT output shape
func TestGenerateDOT(t *testing.T) {
	dot := automaton.GenerateDOT(noDoubleOne(t), "nosub11")
	assert.True(t, strings.HasPrefix(dot, `digraph "nosub11" {`))
	assert.Contains(t, dot, "start -> \"s0\"")
	assert.Contains(t, dot, "shape=doublecircle")
	assert.Contains(t, dot, `"s2" -> "s2" [label="0,1"]`)
}
