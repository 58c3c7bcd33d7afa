/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: export.go
Description: Converts learned automata back into target definitions so a model can be saved,
inspected and later used as the target of another run.
*/

package target

import (
	"fmt"
	"io"
	"os"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"gopkg.in/yaml.v3"
)

// HoleStateName names the hole state of a partial model
const HoleStateName = "hole"

// FromAutomaton describes a. Boolean automata become dfa definitions; any other output type
// becomes a moore definition with outputs printed by fmt.
func FromAutomaton[O comparable](name string, a *automaton.Automaton[O]) *Definition {
	def := &Definition{
		Name:        name,
		Kind:        KindMoore,
		Transitions: make(map[string]map[string]string),
	}
	for _, sym := range a.Alphabet() {
		def.Alphabet = append(def.Alphabet, string(sym))
	}

	stateName := func(id int) string {
		if a.IsHole(id) {
			return HoleStateName
		}
		return fmt.Sprintf("q%d", id)
	}

	for _, st := range a.States() {
		spec := StateSpec{Name: stateName(st.ID)}
		switch out := any(st.Output).(type) {
		case bool:
			def.Kind = KindDFA
			spec.Accepting = out
		default:
			spec.Output = fmt.Sprint(out)
		}
		def.States = append(def.States, spec)

		row := make(map[string]string, len(def.Alphabet))
		for _, sym := range a.Alphabet() {
			if to, ok := a.Transition(st.ID, sym); ok {
				row[string(sym)] = stateName(to)
			}
		}
		def.Transitions[spec.Name] = row
	}
	if a.Initial() != automaton.NoState {
		def.Initial = stateName(a.Initial())
	}
	return def
}

// Write encodes the definition as YAML
func (d *Definition) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode target: %w", err)
	}
	return enc.Close()
}

// SaveFile writes the definition to path
func (d *Definition) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
