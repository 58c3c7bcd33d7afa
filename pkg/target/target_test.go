/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: target_test.go
Description: Tests for loading YAML target definitions and exporting learned models.
*/

package target_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noSub11YAML = `
name: no-sub-11
kind: dfa
alphabet: ["0", "1"]
initial: start
states:
  - name: start
    accepting: true
  - name: one
    accepting: true
  - name: trap
transitions:
  start: {"0": start, "1": one}
  one:   {"0": start, "1": trap}
  trap:  {"0": trap, "1": trap}
`

const countAYAML = `
name: count-a
kind: moore
alphabet: [a, b]
states:
  - {name: zero, output: "0"}
  - {name: one, output: "1"}
  - {name: two, output: "2"}
transitions:
  zero: {a: one, b: zero}
  one:  {a: two, b: one}
  two:  {a: zero, b: two}
`

// TestParseDFA tests building an acceptor
func TestParseDFA(t *testing.T) {
	def, err := target.Parse(strings.NewReader(noSub11YAML))
	require.NoError(t, err)

	a, err := def.DFA()
	require.NoError(t, err)
	assert.Equal(t, 3, a.NumStates())
	assert.True(t, a.IsTotal())
	assert.True(t, automaton.Accepts(a, sequence.Parse("0101", "")))
	assert.False(t, automaton.Accepts(a, sequence.Parse("0110", "")))

	// Access sequences are shortlex minimal
	assert.Equal(t, "11", a.State(2).Access.String())

	_, err = def.Moore()
	assert.Error(t, err)
}

// TestParseMoore tests building an output machine with the first state as initial
func TestParseMoore(t *testing.T) {
	def, err := target.Parse(strings.NewReader(countAYAML))
	require.NoError(t, err)

	m, err := def.Moore()
	require.NoError(t, err)
	out, known := m.Output(sequence.Parse("aab", ""))
	assert.True(t, known)
	assert.Equal(t, "2", out)
}

// TestParseRejectsBadDefinitions tests validation errors
func TestParseRejectsBadDefinitions(t *testing.T) {
	cases := map[string]string{
		"missing transition": `
alphabet: ["0", "1"]
states: [{name: q}]
transitions: {q: {"0": q}}`,
		"unknown symbol": `
alphabet: ["0"]
states: [{name: q}]
transitions: {q: {"0": q, "2": q}}`,
		"undefined target": `
alphabet: ["0"]
states: [{name: q}]
transitions: {q: {"0": p}}`,
		"duplicate state": `
alphabet: ["0"]
states: [{name: q}, {name: q}]
transitions: {q: {"0": q}}`,
		"bad initial": `
alphabet: ["0"]
initial: p
states: [{name: q}]
transitions: {q: {"0": q}}`,
		"unknown kind": `
kind: mealy
alphabet: ["0"]
states: [{name: q}]
transitions: {q: {"0": q}}`,
		"unknown field": `
alphabet: ["0"]
states: [{name: q, colour: red}]
transitions: {q: {"0": q}}`,
		"repeated symbol": `
alphabet: ["0", "0"]
states: [{name: q}]
transitions: {q: {"0": q}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := target.Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

// TestExportRoundTrip tests that an exported model loads back as an equivalent target
func TestExportRoundTrip(t *testing.T) {
	def, err := target.Parse(strings.NewReader(noSub11YAML))
	require.NoError(t, err)
	original, err := def.DFA()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, target.FromAutomaton("learned", original).SaveFile(path))

	loaded, err := target.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, target.KindDFA, loaded.Kind)
	again, err := loaded.DFA()
	require.NoError(t, err)
	assert.True(t, automaton.Equivalent(original, again))
}

// TestExportHole tests naming of the hole state
func TestExportHole(t *testing.T) {
	m := automaton.New[string](sequence.MustAlphabet("a"))
	q := m.AddState(sequence.Empty(), "x")
	hole := m.HoleState("?")
	require.NoError(t, m.SetTransition(q, "a", hole))

	var buf bytes.Buffer
	require.NoError(t, target.FromAutomaton("partial", m).Write(&buf))
	assert.Contains(t, buf.String(), target.HoleStateName)
	assert.Contains(t, buf.String(), "kind: moore")
}
