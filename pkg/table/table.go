/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table.go
Description: Observation table for the Akaylee L* learner. Records membership query results
for the red (committed states) and blue (one-symbol frontier) sequences against an ordered
list of distinguishing experiments. Rows are computed and stored atomically so an aborted
query never leaves a half-written row behind.
*/

package table

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// ObservationTable holds the red/blue/exp/observations structure
// Not safe for concurrent use; a table is owned by exactly one learning loop at a time
type ObservationTable[O comparable] struct {
	alphabet     sequence.Alphabet
	red          *orderedSet
	blue         *orderedSet
	exp          []sequence.Sequence
	expIndex     map[string]bool
	observations map[string][]O
}

// Inconsistency records two equal red rows whose one-symbol extensions differ
type Inconsistency struct {
	First  sequence.Sequence // Earlier red sequence
	Second sequence.Sequence // Later red sequence with the same row
	Symbol sequence.Symbol   // Extension symbol under which the rows split
	Suffix sequence.Sequence // Experiment at which the extended rows first differ
}

// Experiment returns the new distinguishing suffix Symbol+Suffix
func (i Inconsistency) Experiment() sequence.Sequence {
	return sequence.Of(i.Symbol).Concat(i.Suffix)
}

// New creates an empty table whose only experiment is epsilon
func New[O comparable](alphabet sequence.Alphabet) *ObservationTable[O] {
	return &ObservationTable[O]{
		alphabet:     alphabet,
		red:          newOrderedSet(),
		blue:         newOrderedSet(),
		exp:          []sequence.Sequence{sequence.Empty()},
		expIndex:     map[string]bool{"": true},
		observations: make(map[string][]O),
	}
}

// Alphabet returns the input alphabet of the table
func (t *ObservationTable[O]) Alphabet() sequence.Alphabet {
	return t.alphabet
}

// Red returns the red sequences in insertion order
func (t *ObservationTable[O]) Red() []sequence.Sequence {
	return t.red.list()
}

// Blue returns the blue sequences in insertion order
func (t *ObservationTable[O]) Blue() []sequence.Sequence {
	return t.blue.list()
}

// Experiments returns the distinguishing suffixes in order
func (t *ObservationTable[O]) Experiments() []sequence.Sequence {
	out := make([]sequence.Sequence, len(t.exp))
	copy(out, t.exp)
	return out
}

// IsRed reports whether seq is a red sequence
func (t *ObservationTable[O]) IsRed(seq sequence.Sequence) bool {
	return t.red.has(seq)
}

// IsBlue reports whether seq is a blue sequence
func (t *ObservationTable[O]) IsBlue(seq sequence.Sequence) bool {
	return t.blue.has(seq)
}

// Size returns |red| + |blue|
func (t *ObservationTable[O]) Size() int {
	return t.red.len() + t.blue.len()
}

// Row returns a copy of the recorded row for seq. complete is true when the row
// has one entry per experiment.
func (t *ObservationTable[O]) Row(seq sequence.Sequence) (row []O, complete bool) {
	stored, ok := t.observations[seq.Key()]
	if !ok {
		return nil, false
	}
	row = make([]O, len(stored))
	copy(row, stored)
	return row, len(stored) == len(t.exp)
}

// HasObservation reports whether any row is recorded for seq
func (t *ObservationTable[O]) HasObservation(seq sequence.Sequence) bool {
	_, ok := t.observations[seq.Key()]
	return ok
}

// RowsEqual reports whether two complete rows are equal
func (t *ObservationTable[O]) RowsEqual(a, b sequence.Sequence) bool {
	ra, okA := t.completeRow(a)
	rb, okB := t.completeRow(b)
	if !okA || !okB {
		return false
	}
	return equalRows(ra, rb)
}

// MaxExperimentLength returns the length of the longest experiment
func (t *ObservationTable[O]) MaxExperimentLength() int {
	longest := 0
	for _, e := range t.exp {
		if e.Len() > longest {
			longest = e.Len()
		}
	}
	return longest
}

// MaxTrackedLength returns the length of the longest red or blue sequence
func (t *ObservationTable[O]) MaxTrackedLength() int {
	longest := 0
	for _, set := range []*orderedSet{t.red, t.blue} {
		for _, s := range set.items {
			if s.Len() > longest {
				longest = s.Len()
			}
		}
	}
	return longest
}

// AddToRed commits seq as a red sequence. A blue sequence is promoted without re-querying.
func (t *ObservationTable[O]) AddToRed(ctx context.Context, oracle interfaces.MembershipOracle[O], seq sequence.Sequence) error {
	if t.red.has(seq) {
		return nil
	}
	if t.blue.has(seq) {
		return t.MoveToRed(seq)
	}
	if err := t.alphabet.Validate(seq); err != nil {
		return err
	}
	if err := t.computeRow(ctx, oracle, seq); err != nil {
		return err
	}
	t.red.add(seq)
	return nil
}

// AddToBlue adds seq to the frontier unless it is already tracked
func (t *ObservationTable[O]) AddToBlue(ctx context.Context, oracle interfaces.MembershipOracle[O], seq sequence.Sequence) error {
	if t.red.has(seq) || t.blue.has(seq) {
		return nil
	}
	if err := t.alphabet.Validate(seq); err != nil {
		return err
	}
	if err := t.computeRow(ctx, oracle, seq); err != nil {
		return err
	}
	t.blue.add(seq)
	return nil
}

// MoveToRed reclassifies a blue sequence as red
func (t *ObservationTable[O]) MoveToRed(seq sequence.Sequence) error {
	if !t.blue.remove(seq) {
		return fmt.Errorf("sequence %s is not blue", seq)
	}
	t.red.add(seq)
	return nil
}

// EnsureBlueFrontier adds every missing one-symbol extension of a red sequence to blue
func (t *ObservationTable[O]) EnsureBlueFrontier(ctx context.Context, oracle interfaces.MembershipOracle[O]) error {
	for _, r := range t.red.list() {
		for _, a := range t.alphabet {
			if err := t.AddToBlue(ctx, oracle, r.Append(a)); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddExperiment appends e to the experiments and fills the new column for every complete
// row. The column is committed only after every cell has been answered. added is false
// when e is already an experiment.
func (t *ObservationTable[O]) AddExperiment(ctx context.Context, oracle interfaces.MembershipOracle[O], e sequence.Sequence) (added bool, err error) {
	if t.expIndex[e.Key()] {
		return false, nil
	}
	if err := t.alphabet.Validate(e); err != nil {
		return false, err
	}

	width := len(t.exp)
	column := make(map[string]O)
	for _, set := range []*orderedSet{t.red, t.blue} {
		for _, s := range set.items {
			key := s.Key()
			if len(t.observations[key]) != width {
				continue
			}
			out, err := oracle.Query(ctx, s.Concat(e))
			if err != nil {
				return false, err
			}
			column[key] = out
		}
	}

	t.exp = append(t.exp, sequence.Of(e...))
	t.expIndex[e.Key()] = true
	for key, out := range column {
		t.observations[key] = append(t.observations[key], out)
	}
	return true, nil
}

// FillObservations completes every row shorter than the experiment list
func (t *ObservationTable[O]) FillObservations(ctx context.Context, oracle interfaces.MembershipOracle[O]) error {
	for _, set := range []*orderedSet{t.red, t.blue} {
		for _, s := range set.items {
			if err := t.completeRowFor(ctx, oracle, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// FindClosednessViolation returns the first blue sequence whose row matches no red row
func (t *ObservationTable[O]) FindClosednessViolation() (sequence.Sequence, bool) {
	redRows := make(map[string]bool, t.red.len())
	for _, r := range t.red.items {
		if row, ok := t.completeRow(r); ok {
			redRows[rowKey(row)] = true
		}
	}
	for _, b := range t.blue.items {
		row, ok := t.completeRow(b)
		if !ok {
			continue
		}
		if !redRows[rowKey(row)] {
			return sequence.Of(b...), true
		}
	}
	return nil, false
}

// IsClosed reports whether every blue row matches some red row
func (t *ObservationTable[O]) IsClosed() bool {
	_, violated := t.FindClosednessViolation()
	return !violated
}

// FindInconsistency scans pairs of equal red rows in insertion order, then symbols in
// alphabet order, then experiments in order, and returns the first split found
func (t *ObservationTable[O]) FindInconsistency() (*Inconsistency, bool) {
	reds := t.red.items
	for i := 0; i < len(reds); i++ {
		rowI, ok := t.completeRow(reds[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(reds); j++ {
			rowJ, ok := t.completeRow(reds[j])
			if !ok || !equalRows(rowI, rowJ) {
				continue
			}
			for _, a := range t.alphabet {
				extI, okI := t.completeRow(reds[i].Append(a))
				extJ, okJ := t.completeRow(reds[j].Append(a))
				if !okI || !okJ {
					continue
				}
				for k := range extI {
					if extI[k] != extJ[k] {
						return &Inconsistency{
							First:  sequence.Of(reds[i]...),
							Second: sequence.Of(reds[j]...),
							Symbol: a,
							Suffix: sequence.Of(t.exp[k]...),
						}, true
					}
				}
			}
		}
	}
	return nil, false
}

// IsConsistent reports whether equal red rows stay equal under every extension
func (t *ObservationTable[O]) IsConsistent() bool {
	_, found := t.FindInconsistency()
	return !found
}

// DistinctRedRows returns the number of distinct complete red rows
func (t *ObservationTable[O]) DistinctRedRows() int {
	seen := make(map[string]bool)
	for _, r := range t.red.items {
		if row, ok := t.completeRow(r); ok {
			seen[rowKey(row)] = true
		}
	}
	return len(seen)
}

// IsFilled reports whether every tracked row is complete
func (t *ObservationTable[O]) IsFilled() bool {
	for _, set := range []*orderedSet{t.red, t.blue} {
		for _, s := range set.items {
			if _, ok := t.completeRow(s); !ok {
				return false
			}
		}
	}
	return true
}

// CheckInvariants validates the structural invariants of the table
func (t *ObservationTable[O]) CheckInvariants() error {
	var errs []error

	if !t.red.has(sequence.Empty()) {
		errs = append(errs, errors.New("red does not contain epsilon"))
	}
	if len(t.exp) == 0 || !t.exp[0].IsEmpty() {
		errs = append(errs, errors.New("first experiment is not epsilon"))
	}
	for _, b := range t.blue.items {
		if t.red.has(b) {
			errs = append(errs, fmt.Errorf("sequence %s is both red and blue", b))
		}
		if b.IsEmpty() || !t.red.has(b.Prefix(b.Len()-1)) {
			errs = append(errs, fmt.Errorf("blue sequence %s is not a one-symbol extension of a red sequence", b))
		}
	}
	for _, r := range t.red.items {
		for _, a := range t.alphabet {
			ext := r.Append(a)
			if !t.red.has(ext) && !t.blue.has(ext) {
				errs = append(errs, fmt.Errorf("extension %s of red sequence %s is untracked", ext, r))
			}
		}
	}
	for _, set := range []*orderedSet{t.red, t.blue} {
		for _, s := range set.items {
			if _, ok := t.completeRow(s); !ok {
				errs = append(errs, fmt.Errorf("row of %s is incomplete", s))
			}
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the table, suitable as a resumption seed
func (t *ObservationTable[O]) Clone() *ObservationTable[O] {
	c := &ObservationTable[O]{
		alphabet:     t.alphabet,
		red:          t.red.clone(),
		blue:         t.blue.clone(),
		exp:          t.Experiments(),
		expIndex:     make(map[string]bool, len(t.expIndex)),
		observations: make(map[string][]O, len(t.observations)),
	}
	for k, v := range t.expIndex {
		c.expIndex[k] = v
	}
	for k, row := range t.observations {
		cp := make([]O, len(row))
		copy(cp, row)
		c.observations[k] = cp
	}
	return c
}

// String renders the table for debug logs
func (t *ObservationTable[O]) String() string {
	var sb strings.Builder
	sb.WriteString("exp:")
	for _, e := range t.exp {
		sb.WriteString(" " + e.String())
	}
	sb.WriteString("\n")
	for _, part := range []struct {
		name string
		set  *orderedSet
	}{{"red", t.red}, {"blue", t.blue}} {
		for _, s := range part.set.items {
			sb.WriteString(fmt.Sprintf("%-4s %-12s %v\n", part.name, s.String(), t.observations[s.Key()]))
		}
	}
	return sb.String()
}

// computeRow queries a full row for seq and stores it only when every cell is answered
func (t *ObservationTable[O]) computeRow(ctx context.Context, oracle interfaces.MembershipOracle[O], seq sequence.Sequence) error {
	if row, ok := t.observations[seq.Key()]; ok && len(row) == len(t.exp) {
		return nil
	}
	return t.completeRowFor(ctx, oracle, seq)
}

func (t *ObservationTable[O]) completeRowFor(ctx context.Context, oracle interfaces.MembershipOracle[O], seq sequence.Sequence) error {
	key := seq.Key()
	existing := t.observations[key]
	if len(existing) >= len(t.exp) {
		return nil
	}
	row := make([]O, len(existing), len(t.exp))
	copy(row, existing)
	for k := len(existing); k < len(t.exp); k++ {
		out, err := oracle.Query(ctx, seq.Concat(t.exp[k]))
		if err != nil {
			return err
		}
		row = append(row, out)
	}
	t.observations[key] = row
	return nil
}

func (t *ObservationTable[O]) completeRow(seq sequence.Sequence) ([]O, bool) {
	row, ok := t.observations[seq.Key()]
	if !ok || len(row) != len(t.exp) {
		return nil, false
	}
	return row, true
}

func equalRows[O comparable](a, b []O) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rowKey encodes a row for hashing; %#v quotes strings so the encoding is injective
func rowKey[O comparable](row []O) string {
	var sb strings.Builder
	for _, v := range row {
		fmt.Fprintf(&sb, "%#v\x1f", v)
	}
	return sb.String()
}
