/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: equivalence.go
Description: Exact comparison of two automata. A breadth-first walk over the product
automaton in alphabet order finds the shortlex-smallest word on which the outputs differ.
*/

package automaton

import (
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

type statePair struct {
	left, right int
}

type productNode struct {
	pair statePair
	word sequence.Sequence
}

// ShortestDifference returns the shortlex-smallest word on which left and right produce
// different outputs, walking left's alphabet. A word that runs into an undefined transition
// or the hole state on exactly one side counts as a difference. found is false when the
// automata agree.
func ShortestDifference[O comparable](left, right *Automaton[O]) (word sequence.Sequence, found bool) {
	start := statePair{left.Initial(), right.Initial()}
	if differs(left, right, start) {
		return sequence.Empty(), true
	}

	visited := map[statePair]bool{start: true}
	queue := []productNode{{pair: start, word: sequence.Empty()}}

	for head := 0; head < len(queue); head++ {
		node := queue[head]
		for _, sym := range left.Alphabet() {
			next := statePair{step(left, node.pair.left, sym), step(right, node.pair.right, sym)}
			if visited[next] {
				continue
			}
			w := node.word.Append(sym)
			if differs(left, right, next) {
				return w, true
			}
			if next.left == NoState && next.right == NoState {
				continue
			}
			visited[next] = true
			queue = append(queue, productNode{pair: next, word: w})
		}
	}
	return nil, false
}

// Equivalent reports whether two automata produce the same output on every word
func Equivalent[O comparable](left, right *Automaton[O]) bool {
	_, found := ShortestDifference(left, right)
	return !found
}

func step[O comparable](a *Automaton[O], from int, sym sequence.Symbol) int {
	if from == NoState {
		return NoState
	}
	to, ok := a.Transition(from, sym)
	if !ok {
		return NoState
	}
	return to
}

func differs[O comparable](left, right *Automaton[O], p statePair) bool {
	if p.left == NoState || p.right == NoState {
		return p.left != p.right
	}
	l, r := left.State(p.left), right.State(p.right)
	if l.Hole || r.Hole {
		return l.Hole != r.Hole
	}
	return l.Output != r.Output
}
