/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: snapshot.go
Description: YAML snapshots of observation tables. A snapshot captures red, blue, the
experiments and every recorded row so a learning run can be resumed in a later process
without repeating membership queries.
*/

package table

import (
	"fmt"
	"io"
	"os"

	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"gopkg.in/yaml.v3"
)

// Snapshot is the serialisable form of an observation table
type Snapshot[O comparable] struct {
	Alphabet     sequence.Alphabet      `yaml:"alphabet"`
	Red          []sequence.Sequence    `yaml:"red"`
	Blue         []sequence.Sequence    `yaml:"blue"`
	Experiments  []sequence.Sequence    `yaml:"experiments"`
	Observations []ObservationRecord[O] `yaml:"observations"`
}

// ObservationRecord is one stored row
type ObservationRecord[O comparable] struct {
	Sequence sequence.Sequence `yaml:"sequence,flow"`
	Row      []O               `yaml:"row,flow"`
}

// Snapshot captures the table. Rows are listed red first then blue, in insertion order.
func (t *ObservationTable[O]) Snapshot() *Snapshot[O] {
	snap := &Snapshot[O]{
		Alphabet:    append(sequence.Alphabet(nil), t.alphabet...),
		Red:         t.Red(),
		Blue:        t.Blue(),
		Experiments: t.Experiments(),
	}
	for _, set := range []*orderedSet{t.red, t.blue} {
		for _, s := range set.items {
			row, ok := t.observations[s.Key()]
			if !ok {
				continue
			}
			cp := make([]O, len(row))
			copy(cp, row)
			snap.Observations = append(snap.Observations, ObservationRecord[O]{Sequence: sequence.Of(s...), Row: cp})
		}
	}
	return snap
}

// Restore rebuilds a table from a snapshot. Incomplete rows and a missing blue frontier are
// accepted; the learner fills them before its first closedness check.
func Restore[O comparable](snap *Snapshot[O]) (*ObservationTable[O], error) {
	alphabet, err := sequence.NewAlphabet(snap.Alphabet...)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot alphabet: %w", err)
	}
	t := New[O](alphabet)

	if len(snap.Experiments) > 0 {
		if !snap.Experiments[0].IsEmpty() {
			return nil, fmt.Errorf("first experiment must be epsilon, got %s", snap.Experiments[0])
		}
		for _, e := range snap.Experiments[1:] {
			if err := alphabet.Validate(e); err != nil {
				return nil, fmt.Errorf("experiment %s: %w", e, err)
			}
			if t.expIndex[e.Key()] {
				return nil, fmt.Errorf("duplicate experiment %s", e)
			}
			t.exp = append(t.exp, sequence.Of(e...))
			t.expIndex[e.Key()] = true
		}
	}

	for _, r := range snap.Red {
		if err := alphabet.Validate(r); err != nil {
			return nil, fmt.Errorf("red sequence %s: %w", r, err)
		}
		t.red.add(r)
	}
	for _, b := range snap.Blue {
		if err := alphabet.Validate(b); err != nil {
			return nil, fmt.Errorf("blue sequence %s: %w", b, err)
		}
		if t.red.has(b) {
			return nil, fmt.Errorf("sequence %s is both red and blue", b)
		}
		t.blue.add(b)
	}
	if !t.red.has(sequence.Empty()) && t.red.len() > 0 {
		return nil, fmt.Errorf("red sequences do not include epsilon")
	}

	for _, rec := range snap.Observations {
		if !t.red.has(rec.Sequence) && !t.blue.has(rec.Sequence) {
			return nil, fmt.Errorf("observation for untracked sequence %s", rec.Sequence)
		}
		if len(rec.Row) > len(t.exp) {
			return nil, fmt.Errorf("row of %s has %d entries for %d experiments", rec.Sequence, len(rec.Row), len(t.exp))
		}
		row := make([]O, len(rec.Row))
		copy(row, rec.Row)
		t.observations[rec.Sequence.Key()] = row
	}
	return t, nil
}

// WriteYAML encodes the table snapshot to w
func (t *ObservationTable[O]) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode table snapshot: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a snapshot from r and restores the table
func ReadYAML[O comparable](r io.Reader) (*ObservationTable[O], error) {
	var snap Snapshot[O]
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode table snapshot: %w", err)
	}
	return Restore(&snap)
}

// SaveFile writes the snapshot to path
func (t *ObservationTable[O]) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()
	return t.WriteYAML(f)
}

// LoadFile restores a table from a snapshot file
func LoadFile[O comparable](path string) (*ObservationTable[O], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()
	return ReadYAML[O](f)
}
