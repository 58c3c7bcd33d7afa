/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: exact.go
Description: Exact teacher backed by a known target automaton. Equivalence queries return the
shortlex-smallest distinguishing word, so counterexamples are minimal and runs reproducible.
*/

package oracle

import (
	"context"
	"fmt"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// ExactTeacher answers from a target automaton
type ExactTeacher[O comparable] struct {
	target *automaton.Automaton[O]
	stats  interfaces.QueryStats
}

// NewExactTeacher creates an exact teacher. The target must be valid and total.
func NewExactTeacher[O comparable](target *automaton.Automaton[O]) (*ExactTeacher[O], error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}
	if !target.IsTotal() {
		return nil, fmt.Errorf("target automaton must be total")
	}
	return &ExactTeacher[O]{target: target}, nil
}

// Alphabet returns the target's input alphabet
func (t *ExactTeacher[O]) Alphabet() sequence.Alphabet {
	return t.target.Alphabet()
}

// OutputAlphabet returns the distinct outputs of the target's states in state order
func (t *ExactTeacher[O]) OutputAlphabet() []O {
	seen := make(map[O]bool)
	var outputs []O
	for _, st := range t.target.States() {
		if !seen[st.Output] {
			seen[st.Output] = true
			outputs = append(outputs, st.Output)
		}
	}
	return outputs
}

// MembershipQuery runs seq on the target
func (t *ExactTeacher[O]) MembershipQuery(ctx context.Context, seq sequence.Sequence) (O, error) {
	var zero O
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.stats.IncrementMembership()
	out, ok := t.target.Output(seq)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUndefined, seq)
	}
	return out, nil
}

// EquivalenceQuery compares the hypothesis with the target by product search
func (t *ExactTeacher[O]) EquivalenceQuery(ctx context.Context, hypothesis *automaton.Automaton[O]) (interfaces.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.Verdict{}, err
	}
	t.stats.IncrementEquivalence()
	if !hypothesis.Alphabet().Equal(t.target.Alphabet()) {
		return interfaces.Verdict{}, fmt.Errorf("%w: hypothesis alphabet %v", sequence.ErrAlphabetMismatch, hypothesis.Alphabet())
	}
	word, found := automaton.ShortestDifference(t.target, hypothesis)
	if !found {
		return interfaces.Accept(), nil
	}
	return interfaces.Reject(word), nil
}

// Stats returns the query counters
func (t *ExactTeacher[O]) Stats() interfaces.QueryStats {
	return t.stats.Snapshot()
}

// Target returns the target automaton
func (t *ExactTeacher[O]) Target() *automaton.Automaton[O] {
	return t.target
}
