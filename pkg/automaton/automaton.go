/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: automaton.go
Description: Generic Moore-style automaton used as the hypothesis and target model of the
Akaylee L* learner. A boolean output type gives a deterministic finite automaton. Supports an
optional explicit hole state that absorbs transitions a partial hypothesis could not define.
*/

package automaton

import (
	"fmt"

	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// NoState marks a missing state or transition
const NoState = -1

// State is a single automaton state
type State[O comparable] struct {
	ID     int               `json:"id"`     // Dense index, 0..n-1
	Access sequence.Sequence `json:"access"` // Shortest known word reaching the state
	Output O                 `json:"output"` // Moore output (acceptance for DFAs)
	Hole   bool              `json:"hole"`   // Explicit unknown-behaviour state
}

// Automaton is a deterministic Moore machine over a finite input alphabet
type Automaton[O comparable] struct {
	alphabet    sequence.Alphabet
	states      []*State[O]
	transitions []map[sequence.Symbol]int
	initial     int
	hole        int
}

// New creates an empty automaton over the given alphabet
func New[O comparable](alphabet sequence.Alphabet) *Automaton[O] {
	return &Automaton[O]{
		alphabet: alphabet,
		initial:  NoState,
		hole:     NoState,
	}
}

// AddState adds a regular state and returns its id. The first state added becomes initial.
func (a *Automaton[O]) AddState(access sequence.Sequence, output O) int {
	id := len(a.states)
	a.states = append(a.states, &State[O]{ID: id, Access: access, Output: output})
	a.transitions = append(a.transitions, make(map[sequence.Symbol]int, len(a.alphabet)))
	if a.initial == NoState {
		a.initial = id
	}
	return id
}

// HoleState returns the hole state, creating it on first use with the given output
func (a *Automaton[O]) HoleState(output O) int {
	if a.hole != NoState {
		return a.hole
	}
	id := len(a.states)
	a.states = append(a.states, &State[O]{ID: id, Output: output, Hole: true})
	a.transitions = append(a.transitions, make(map[sequence.Symbol]int, len(a.alphabet)))
	a.hole = id
	for _, sym := range a.alphabet {
		a.transitions[id][sym] = id
	}
	return id
}

// SetInitial overrides the initial state
func (a *Automaton[O]) SetInitial(id int) error {
	if id < 0 || id >= len(a.states) {
		return fmt.Errorf("initial state %d out of range", id)
	}
	a.initial = id
	return nil
}

// SetTransition defines the successor of from under sym
func (a *Automaton[O]) SetTransition(from int, sym sequence.Symbol, to int) error {
	if from < 0 || from >= len(a.states) {
		return fmt.Errorf("source state %d out of range", from)
	}
	if to < 0 || to >= len(a.states) {
		return fmt.Errorf("target state %d out of range", to)
	}
	if !a.alphabet.Contains(sym) {
		return fmt.Errorf("symbol %q is not in the alphabet", sym)
	}
	a.transitions[from][sym] = to
	return nil
}

// Transition returns the successor of from under sym
func (a *Automaton[O]) Transition(from int, sym sequence.Symbol) (int, bool) {
	if from < 0 || from >= len(a.states) {
		return NoState, false
	}
	to, ok := a.transitions[from][sym]
	return to, ok
}

// Alphabet returns the input alphabet
func (a *Automaton[O]) Alphabet() sequence.Alphabet {
	return a.alphabet
}

// Initial returns the initial state id
func (a *Automaton[O]) Initial() int {
	return a.initial
}

// State returns the state with the given id
func (a *Automaton[O]) State(id int) *State[O] {
	if id < 0 || id >= len(a.states) {
		return nil
	}
	return a.states[id]
}

// States returns all states including the hole, in id order
func (a *Automaton[O]) States() []*State[O] {
	return a.states
}

// NumStates returns the number of regular states; the hole is not counted
func (a *Automaton[O]) NumStates() int {
	if a.hole != NoState {
		return len(a.states) - 1
	}
	return len(a.states)
}

// HasHole reports whether the automaton carries a hole state
func (a *Automaton[O]) HasHole() bool {
	return a.hole != NoState
}

// IsHole reports whether id is the hole state
func (a *Automaton[O]) IsHole(id int) bool {
	return a.hole != NoState && id == a.hole
}

// Reach follows seq from the initial state. ok is false when a transition is undefined.
func (a *Automaton[O]) Reach(seq sequence.Sequence) (int, bool) {
	cur := a.initial
	if cur == NoState {
		return NoState, false
	}
	for _, sym := range seq {
		next, ok := a.transitions[cur][sym]
		if !ok {
			return NoState, false
		}
		cur = next
	}
	return cur, true
}

// Output returns the output after reading seq. known is false when the run hits an
// undefined transition or ends in the hole state.
func (a *Automaton[O]) Output(seq sequence.Sequence) (out O, known bool) {
	id, ok := a.Reach(seq)
	if !ok {
		return out, false
	}
	st := a.states[id]
	return st.Output, !st.Hole
}

// Accepts reports whether a boolean automaton accepts seq
func Accepts(a *Automaton[bool], seq sequence.Sequence) bool {
	out, _ := a.Output(seq)
	return out
}

// IsTotal reports whether every state has a transition for every symbol
func (a *Automaton[O]) IsTotal() bool {
	for id := range a.states {
		for _, sym := range a.alphabet {
			if _, ok := a.transitions[id][sym]; !ok {
				return false
			}
		}
	}
	return true
}

// Validate checks structural well-formedness
func (a *Automaton[O]) Validate() error {
	if len(a.states) == 0 {
		return fmt.Errorf("automaton has no states")
	}
	if a.initial == NoState {
		return fmt.Errorf("automaton has no initial state")
	}
	if len(a.alphabet) == 0 {
		return fmt.Errorf("automaton has an empty alphabet")
	}
	for id, row := range a.transitions {
		for sym, to := range row {
			if !a.alphabet.Contains(sym) {
				return fmt.Errorf("state %d has a transition on unknown symbol %q", id, sym)
			}
			if to < 0 || to >= len(a.states) {
				return fmt.Errorf("state %d transition on %q targets missing state %d", id, sym, to)
			}
		}
	}
	return nil
}
