/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: ordered.go
Description: Insertion-ordered sequence set backing the red and blue parts of the
observation table. Iteration order is the order of insertion so that witnesses for
closedness and consistency violations are reproducible across runs.
*/

package table

import (
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

type orderedSet struct {
	items []sequence.Sequence
	index map[string]int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]int)}
}

func (s *orderedSet) has(seq sequence.Sequence) bool {
	_, ok := s.index[seq.Key()]
	return ok
}

func (s *orderedSet) add(seq sequence.Sequence) bool {
	key := seq.Key()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, sequence.Of(seq...))
	return true
}

// remove keeps the relative order of the remaining items
func (s *orderedSet) remove(seq sequence.Sequence) bool {
	key := seq.Key()
	pos, ok := s.index[key]
	if !ok {
		return false
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, key)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].Key()] = i
	}
	return true
}

func (s *orderedSet) len() int {
	return len(s.items)
}

func (s *orderedSet) list() []sequence.Sequence {
	out := make([]sequence.Sequence, len(s.items))
	copy(out, s.items)
	return out
}

func (s *orderedSet) clone() *orderedSet {
	c := newOrderedSet()
	for _, seq := range s.items {
		c.add(seq)
	}
	return c
}
