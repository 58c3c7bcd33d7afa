/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: translator.go
Description: Translators turn a closed and consistent observation table into a hypothesis
automaton. The total translators (DFA and Moore) fail on a lookup miss because the table was
not actually closed; the partial translator routes unknown transitions to an explicit hole
state instead. Translation never mutates the table.
*/

package translator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/table"
)

// ErrTableNotClosed is returned by total translators when a transition has no matching red row
var ErrTableNotClosed = errors.New("observation table is not closed")

// Translator converts an observation table into a hypothesis model
type Translator[O comparable] interface {
	// Name identifies the translator in configs and logs
	Name() string

	// Translate builds a hypothesis. outputs may be nil when the output alphabet is unknown.
	Translate(t *table.ObservationTable[O], alphabet sequence.Alphabet, outputs []O) (*automaton.Automaton[O], error)

	// RequiresTotalTable reports whether every row must be complete and closed
	RequiresTotalTable() bool
}

// Moore is the total translator for output-producing targets
type Moore[O comparable] struct{}

// NewMoore creates a total Moore translator
func NewMoore[O comparable]() *Moore[O] {
	return &Moore[O]{}
}

// Name returns "moore"
func (m *Moore[O]) Name() string { return "moore" }

// RequiresTotalTable returns true
func (m *Moore[O]) RequiresTotalTable() bool { return true }

// Translate builds a total Moore machine
func (m *Moore[O]) Translate(t *table.ObservationTable[O], alphabet sequence.Alphabet, outputs []O) (*automaton.Automaton[O], error) {
	return translateTotal(t, alphabet, outputs)
}

// DFA is the total translator for acceptance targets
type DFA struct{}

// NewDFA creates a total DFA translator
func NewDFA() *DFA {
	return &DFA{}
}

// Name returns "dfa"
func (d *DFA) Name() string { return "dfa" }

// RequiresTotalTable returns true
func (d *DFA) RequiresTotalTable() bool { return true }

// Translate builds a total DFA; accepting states are those whose epsilon column is true
func (d *DFA) Translate(t *table.ObservationTable[bool], alphabet sequence.Alphabet, outputs []bool) (*automaton.Automaton[bool], error) {
	return translateTotal(t, alphabet, outputs)
}

// stateIndex assigns one state per distinct red row, in red insertion order
type stateIndex struct {
	ids    map[string]int
	access []sequence.Sequence
}

func translateTotal[O comparable](t *table.ObservationTable[O], alphabet sequence.Alphabet, outputs []O) (*automaton.Automaton[O], error) {
	if err := checkAlphabet(t, alphabet); err != nil {
		return nil, err
	}
	if !t.IsRed(sequence.Empty()) {
		return nil, fmt.Errorf("%w: epsilon is not red", ErrTableNotClosed)
	}

	width := len(t.Experiments())
	a := automaton.New[O](alphabet)
	idx := &stateIndex{ids: make(map[string]int)}

	// Epsilon first so that the initial state is state 0
	reds := orderedReds(t)
	for _, r := range reds {
		row, complete := t.Row(r)
		if !complete {
			return nil, fmt.Errorf("%w: red row of %s has %d of %d entries", ErrTableNotClosed, r, len(row), width)
		}
		key := rowKey(row)
		if _, ok := idx.ids[key]; ok {
			continue
		}
		if err := checkOutput(row[0], outputs); err != nil {
			return nil, err
		}
		idx.ids[key] = a.AddState(r, row[0])
		idx.access = append(idx.access, r)
	}

	for from, access := range idx.access {
		for _, sym := range alphabet {
			ext := access.Append(sym)
			row, complete := t.Row(ext)
			if !complete {
				return nil, fmt.Errorf("%w: row of %s is missing", ErrTableNotClosed, ext)
			}
			to, ok := idx.ids[rowKey(row)]
			if !ok {
				return nil, fmt.Errorf("%w: row of %s matches no red row", ErrTableNotClosed, ext)
			}
			if err := a.SetTransition(from, sym, to); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

func orderedReds[O comparable](t *table.ObservationTable[O]) []sequence.Sequence {
	reds := t.Red()
	// Stable: keep insertion order, only lift epsilon to the front
	sort.SliceStable(reds, func(i, j int) bool {
		return reds[i].IsEmpty() && !reds[j].IsEmpty()
	})
	return reds
}

func checkAlphabet[O comparable](t *table.ObservationTable[O], alphabet sequence.Alphabet) error {
	if !t.Alphabet().Equal(alphabet) {
		return fmt.Errorf("%w: table uses %v, translator was given %v", sequence.ErrAlphabetMismatch, t.Alphabet(), alphabet)
	}
	return nil
}

func checkOutput[O comparable](out O, outputs []O) error {
	if len(outputs) == 0 {
		return nil
	}
	for _, o := range outputs {
		if o == out {
			return nil
		}
	}
	return fmt.Errorf("output %v is not in the output alphabet %v", out, outputs)
}

func rowKey[O comparable](row []O) string {
	var sb strings.Builder
	for _, v := range row {
		fmt.Fprintf(&sb, "%#v\x1f", v)
	}
	return sb.String()
}
