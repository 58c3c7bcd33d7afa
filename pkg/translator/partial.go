/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: partial.go
Description: Hole-tolerant translator for truncated or partially filled tables. Rows are
compared on the widest prefix every red row has filled; transitions whose target row is
missing, too short or unmatched go to an explicit hole state, or loop back to their source
under the self-loop policy.
*/

package translator

import (
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/table"
)

// HolePolicy decides where unknown transitions go
type HolePolicy string

const (
	HoleSink     HolePolicy = "sink"      // Unknown transitions enter the hole state
	HoleSelfLoop HolePolicy = "self-loop" // Unknown transitions stay in their source state
)

// ParseHolePolicy converts a config string to a HolePolicy
func ParseHolePolicy(s string) (HolePolicy, error) {
	switch HolePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case HoleSink, "":
		return HoleSink, nil
	case HoleSelfLoop:
		return HoleSelfLoop, nil
	}
	return "", fmt.Errorf("unknown hole policy %q", s)
}

// Partial is the hole-tolerant translator
type Partial[O comparable] struct {
	HoleOutput O          // Output of the hole state, and of states whose epsilon cell is unknown
	Policy     HolePolicy // Where unknown transitions go
}

// NewPartial creates a partial translator with the sink policy
func NewPartial[O comparable](holeOutput O) *Partial[O] {
	return &Partial[O]{HoleOutput: holeOutput, Policy: HoleSink}
}

// Name returns "partial"
func (p *Partial[O]) Name() string { return "partial" }

// RequiresTotalTable returns false
func (p *Partial[O]) RequiresTotalTable() bool { return false }

// Translate builds a possibly incomplete hypothesis
func (p *Partial[O]) Translate(t *table.ObservationTable[O], alphabet sequence.Alphabet, outputs []O) (*automaton.Automaton[O], error) {
	if err := checkAlphabet(t, alphabet); err != nil {
		return nil, err
	}
	if !t.IsRed(sequence.Empty()) {
		return nil, fmt.Errorf("epsilon is not red; nothing to translate")
	}

	reds := orderedReds(t)
	width := len(t.Experiments())
	for _, r := range reds {
		row, _ := t.Row(r)
		if len(row) < width {
			width = len(row)
		}
	}

	a := automaton.New[O](alphabet)
	idx := &stateIndex{ids: make(map[string]int)}
	for _, r := range reds {
		row, _ := t.Row(r)
		key := rowKey(row[:width])
		if _, ok := idx.ids[key]; ok {
			continue
		}
		out := p.HoleOutput
		if width > 0 {
			out = row[0]
		}
		if err := checkOutput(out, outputs); err != nil {
			return nil, err
		}
		idx.ids[key] = a.AddState(r, out)
		idx.access = append(idx.access, r)
	}

	for from, access := range idx.access {
		for _, sym := range alphabet {
			to, ok := p.lookup(t, idx, access.Append(sym), width)
			if !ok {
				to = p.unknown(a, from)
			}
			if err := a.SetTransition(from, sym, to); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

func (p *Partial[O]) lookup(t *table.ObservationTable[O], idx *stateIndex, ext sequence.Sequence, width int) (int, bool) {
	if !t.IsRed(ext) && !t.IsBlue(ext) {
		return automaton.NoState, false
	}
	row, _ := t.Row(ext)
	if len(row) < width {
		return automaton.NoState, false
	}
	to, ok := idx.ids[rowKey(row[:width])]
	return to, ok
}

func (p *Partial[O]) unknown(a *automaton.Automaton[O], from int) int {
	if p.Policy == HoleSelfLoop {
		return from
	}
	return a.HoleState(p.HoleOutput)
}
