/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table_test.go
Description: Tests for the observation table. Covers initialisation, closedness and
consistency witnesses, atomic column fills, counterexample growth, lazy hole filling and
YAML snapshots.
*/

package table_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binary = sequence.MustAlphabet("0", "1")

// countingOracle answers from a function and counts calls
type countingOracle[O comparable] struct {
	answer func(sequence.Sequence) O
	calls  int
	failOn string
}

func (o *countingOracle[O]) Query(_ context.Context, seq sequence.Sequence) (O, error) {
	if o.failOn != "" && seq.String() == o.failOn {
		var zero O
		return zero, errors.New("oracle unavailable")
	}
	o.calls++
	return o.answer(seq), nil
}

func noSub11() *countingOracle[bool] {
	return &countingOracle[bool]{answer: func(s sequence.Sequence) bool {
		return !strings.Contains(s.String(), "11")
	}}
}

func initialTable(t *testing.T, oracle *countingOracle[bool]) *table.ObservationTable[bool] {
	ctx := context.Background()
	tbl := table.New[bool](binary)
	require.NoError(t, tbl.AddToRed(ctx, oracle, sequence.Empty()))
	require.NoError(t, tbl.EnsureBlueFrontier(ctx, oracle))
	return tbl
}

func keys(seqs []sequence.Sequence) []string {
	out := make([]string, len(seqs))
	for i, s := range seqs {
		out[i] = s.String()
	}
	return out
}

// TestInitialTable tests the Init step layout
func TestInitialTable(t *testing.T) {
	oracle := noSub11()
	tbl := initialTable(t, oracle)

	assert.Equal(t, []string{"ε"}, keys(tbl.Red()))
	assert.Equal(t, []string{"0", "1"}, keys(tbl.Blue()))
	assert.Equal(t, 3, tbl.Size())
	assert.Equal(t, 3, oracle.calls)
	assert.NoError(t, tbl.CheckInvariants())
	assert.True(t, tbl.IsClosed())
	assert.True(t, tbl.IsConsistent())

	row, complete := tbl.Row(sequence.Of("1"))
	assert.True(t, complete)
	assert.Equal(t, []bool{true}, row)
}

// TestAddToRedIsIdempotent tests that repeated adds do not query again
func TestAddToRedIsIdempotent(t *testing.T) {
	oracle := noSub11()
	tbl := initialTable(t, oracle)
	calls := oracle.calls

	require.NoError(t, tbl.AddToRed(context.Background(), oracle, sequence.Empty()))
	require.NoError(t, tbl.AddToRed(context.Background(), oracle, sequence.Of("1")))
	assert.Equal(t, calls, oracle.calls, "promoting a blue row reuses its observations")
	assert.True(t, tbl.IsRed(sequence.Of("1")))
	assert.False(t, tbl.IsBlue(sequence.Of("1")))

	require.NoError(t, tbl.AddToBlue(context.Background(), oracle, sequence.Of("1")))
	assert.False(t, tbl.IsBlue(sequence.Of("1")), "red sequences never re-enter blue")
}

// TestAddToRedRejectsUnknownSymbol tests alphabet validation
func TestAddToRedRejectsUnknownSymbol(t *testing.T) {
	oracle := noSub11()
	tbl := table.New[bool](binary)
	err := tbl.AddToRed(context.Background(), oracle, sequence.Of("2"))
	assert.ErrorIs(t, err, sequence.ErrUnknownSymbol)
	assert.Zero(t, tbl.Size())
}

// TestClosednessViolation tests the witness order and promotion
func TestClosednessViolation(t *testing.T) {
	ctx := context.Background()
	oracle := noSub11()
	tbl := initialTable(t, oracle)

	added, err := tbl.AddExperiment(ctx, oracle, sequence.Of("1"))
	require.NoError(t, err)
	require.True(t, added)

	witness, violated := tbl.FindClosednessViolation()
	require.True(t, violated)
	assert.Equal(t, "1", witness.String())

	require.NoError(t, tbl.MoveToRed(witness))
	require.NoError(t, tbl.EnsureBlueFrontier(ctx, oracle))
	assert.Equal(t, []string{"0", "10", "11"}, keys(tbl.Blue()))

	witness, violated = tbl.FindClosednessViolation()
	require.True(t, violated)
	assert.Equal(t, "11", witness.String())

	require.NoError(t, tbl.MoveToRed(witness))
	require.NoError(t, tbl.EnsureBlueFrontier(ctx, oracle))
	assert.True(t, tbl.IsClosed())
	assert.NoError(t, tbl.CheckInvariants())
	assert.Equal(t, 3, tbl.DistinctRedRows())
}

// TestMoveToRedRequiresBlue tests that only blue sequences are promoted
func TestMoveToRedRequiresBlue(t *testing.T) {
	tbl := initialTable(t, noSub11())
	assert.Error(t, tbl.MoveToRed(sequence.Of("1", "1")))
}

// TestFindInconsistency tests the inconsistency witness and its repair
func TestFindInconsistency(t *testing.T) {
	ctx := context.Background()
	oracle := noSub11()
	tbl := initialTable(t, oracle)
	require.NoError(t, tbl.AddToRed(ctx, oracle, sequence.Of("1")))
	require.NoError(t, tbl.EnsureBlueFrontier(ctx, oracle))

	inc, found := tbl.FindInconsistency()
	require.True(t, found)
	assert.Equal(t, "ε", inc.First.String())
	assert.Equal(t, "1", inc.Second.String())
	assert.Equal(t, sequence.Symbol("1"), inc.Symbol)
	assert.True(t, inc.Suffix.IsEmpty())
	assert.Equal(t, "1", inc.Experiment().String())

	added, err := tbl.AddExperiment(ctx, oracle, inc.Experiment())
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, tbl.IsConsistent())
	assert.False(t, tbl.RowsEqual(sequence.Empty(), sequence.Of("1")))

	added, err = tbl.AddExperiment(ctx, oracle, inc.Experiment())
	require.NoError(t, err)
	assert.False(t, added, "duplicate experiments are ignored")
}

// TestAddExperimentIsAtomic tests that a failed column leaves the table unchanged
func TestAddExperimentIsAtomic(t *testing.T) {
	oracle := noSub11()
	tbl := initialTable(t, oracle)
	before := tbl.Snapshot()

	oracle.failOn = "11"
	added, err := tbl.AddExperiment(context.Background(), oracle, sequence.Of("1"))
	require.Error(t, err)
	assert.False(t, added)
	assert.Len(t, tbl.Experiments(), 1)
	assert.Equal(t, before, tbl.Snapshot())
	assert.NoError(t, tbl.CheckInvariants())
}

// TestAddCounterexamplePrefixes tests prefix incorporation of "0110" into a one-state table
func TestAddCounterexamplePrefixes(t *testing.T) {
	ctx := context.Background()
	oracle := noSub11()
	tbl := initialTable(t, oracle)
	before := tbl.Size()

	grown, err := tbl.AddCounterexample(ctx, oracle, sequence.Parse("0110", ""))
	require.NoError(t, err)

	for _, p := range []string{"", "0", "01", "011", "0110"} {
		assert.True(t, tbl.IsRed(sequence.Parse(p, "")), "prefix %q is red", p)
	}
	assert.Equal(t, []string{"1", "00", "010", "0111", "01100", "01101"}, keys(tbl.Blue()))
	assert.Equal(t, 8, grown)
	assert.Equal(t, before+grown, tbl.Size())
	assert.NoError(t, tbl.CheckInvariants())

	grown, err = tbl.AddCounterexample(ctx, oracle, sequence.Parse("0110", ""))
	require.NoError(t, err)
	assert.Zero(t, grown, "a known counterexample adds nothing")
}

// TestAddSuffixExperiments tests suffix incorporation
func TestAddSuffixExperiments(t *testing.T) {
	ctx := context.Background()
	oracle := noSub11()
	tbl := initialTable(t, oracle)

	added, err := tbl.AddSuffixExperiments(ctx, oracle, sequence.Parse("011", ""))
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, []string{"ε", "1", "11", "011"}, keys(tbl.Experiments()))
	assert.True(t, tbl.IsFilled())
	assert.Equal(t, 3, tbl.MaxExperimentLength())
}

// TestRestoreAndFill tests lazy filling of a partial table
func TestRestoreAndFill(t *testing.T) {
	snap := &table.Snapshot[bool]{
		Alphabet:    binary,
		Red:         []sequence.Sequence{sequence.Empty()},
		Blue:        []sequence.Sequence{sequence.Of("0"), sequence.Of("1")},
		Experiments: []sequence.Sequence{sequence.Empty(), sequence.Of("1")},
		Observations: []table.ObservationRecord[bool]{
			{Sequence: sequence.Empty(), Row: []bool{true, true}},
			{Sequence: sequence.Of("0"), Row: []bool{true}},
		},
	}
	tbl, err := table.Restore(snap)
	require.NoError(t, err)
	assert.False(t, tbl.IsFilled())
	assert.Error(t, tbl.CheckInvariants())

	oracle := noSub11()
	require.NoError(t, tbl.FillObservations(context.Background(), oracle))
	assert.Equal(t, 3, oracle.calls, "one cell for 0 and two for 1")
	assert.True(t, tbl.IsFilled())
	assert.NoError(t, tbl.CheckInvariants())

	row, _ := tbl.Row(sequence.Of("1"))
	assert.Equal(t, []bool{true, false}, row)
}

// TestRestoreRejectsBadSnapshots tests snapshot validation
func TestRestoreRejectsBadSnapshots(t *testing.T) {
	cases := map[string]*table.Snapshot[bool]{
		"red and blue overlap": {
			Alphabet: binary,
			Red:      []sequence.Sequence{sequence.Empty(), sequence.Of("0")},
			Blue:     []sequence.Sequence{sequence.Of("0")},
		},
		"unknown symbol": {
			Alphabet: binary,
			Red:      []sequence.Sequence{sequence.Empty(), sequence.Of("2")},
		},
		"first experiment not epsilon": {
			Alphabet:    binary,
			Experiments: []sequence.Sequence{sequence.Of("1")},
		},
		"row too wide": {
			Alphabet:     binary,
			Red:          []sequence.Sequence{sequence.Empty()},
			Observations: []table.ObservationRecord[bool]{{Sequence: sequence.Empty(), Row: []bool{true, false}}},
		},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := table.Restore(snap)
			assert.Error(t, err)
		})
	}
}

// TestYAMLSnapshot tests persistence through YAML
func TestYAMLSnapshot(t *testing.T) {
	ctx := context.Background()
	oracle := noSub11()
	tbl := initialTable(t, oracle)
	_, err := tbl.AddCounterexample(ctx, oracle, sequence.Parse("011", ""))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "experiments:")

	restored, err := table.ReadYAML[bool](&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.Snapshot(), restored.Snapshot())
	assert.NoError(t, restored.CheckInvariants())
}

// TestCloneIsIndependent tests that clones do not share state
func TestCloneIsIndependent(t *testing.T) {
	ctx := context.Background()
	oracle := noSub11()
	tbl := initialTable(t, oracle)
	clone := tbl.Clone()

	_, err := clone.AddExperiment(ctx, oracle, sequence.Of("1"))
	require.NoError(t, err)
	assert.Len(t, tbl.Experiments(), 1)
	assert.Len(t, clone.Experiments(), 2)
}
