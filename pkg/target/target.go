/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: target.go
Description: YAML target definitions. A definition names an input alphabet, a list of states
with their acceptance flag (DFA) or output (Moore), an initial state and a transition table,
and is turned into an automaton that an exact teacher can answer queries from.
*/

package target

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"gopkg.in/yaml.v3"
)

// Kind selects how state values are read
type Kind string

const (
	KindDFA   Kind = "dfa"
	KindMoore Kind = "moore"
)

// StateSpec is one state of a definition
type StateSpec struct {
	Name      string `yaml:"name"`
	Accepting bool   `yaml:"accepting,omitempty"`
	Output    string `yaml:"output,omitempty"`
}

// Definition is a complete target as written in YAML
type Definition struct {
	Name        string                       `yaml:"name"`
	Kind        Kind                         `yaml:"kind"`
	Alphabet    []string                     `yaml:"alphabet"`
	Initial     string                       `yaml:"initial"`
	States      []StateSpec                  `yaml:"states"`
	Transitions map[string]map[string]string `yaml:"transitions"`
}

// Parse decodes and validates a definition
func Parse(r io.Reader) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to decode target: %w", err)
	}
	if def.Kind == "" {
		def.Kind = KindDFA
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile reads a definition from path
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read target %s: %w", path, err)
	}
	def, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate checks that the definition describes a total automaton
func (d *Definition) Validate() error {
	if d.Kind != KindDFA && d.Kind != KindMoore {
		return fmt.Errorf("unknown target kind %q", d.Kind)
	}
	alphabet, err := d.alphabet()
	if err != nil {
		return err
	}
	if len(d.States) == 0 {
		return fmt.Errorf("target has no states")
	}

	names := make(map[string]bool, len(d.States))
	for _, st := range d.States {
		if st.Name == "" {
			return fmt.Errorf("state without a name")
		}
		if names[st.Name] {
			return fmt.Errorf("duplicate state %q", st.Name)
		}
		if d.Kind == KindDFA && st.Output != "" {
			return fmt.Errorf("state %q: dfa states take accepting, not output", st.Name)
		}
		names[st.Name] = true
	}
	if d.Initial != "" && !names[d.Initial] {
		return fmt.Errorf("initial state %q is not defined", d.Initial)
	}

	for from, row := range d.Transitions {
		if !names[from] {
			return fmt.Errorf("transitions from undefined state %q", from)
		}
		for sym, to := range row {
			if !alphabet.Contains(sequence.Symbol(sym)) {
				return fmt.Errorf("state %q: %w: %q", from, sequence.ErrUnknownSymbol, sym)
			}
			if !names[to] {
				return fmt.Errorf("state %q on %q goes to undefined state %q", from, sym, to)
			}
		}
	}
	for _, st := range d.States {
		for _, a := range alphabet {
			if _, ok := d.Transitions[st.Name][string(a)]; !ok {
				return fmt.Errorf("state %q has no transition on %q", st.Name, a)
			}
		}
	}
	return nil
}

func (d *Definition) alphabet() (sequence.Alphabet, error) {
	symbols := make([]sequence.Symbol, len(d.Alphabet))
	for i, s := range d.Alphabet {
		symbols[i] = sequence.Symbol(s)
	}
	alphabet, err := sequence.NewAlphabet(symbols...)
	if err != nil {
		return nil, fmt.Errorf("invalid alphabet: %w", err)
	}
	if len(alphabet) != len(symbols) {
		return nil, fmt.Errorf("alphabet lists a symbol twice")
	}
	return alphabet, nil
}

// DFA builds the acceptor of a dfa definition
func (d *Definition) DFA() (*automaton.Automaton[bool], error) {
	if d.Kind != KindDFA {
		return nil, fmt.Errorf("target %q is a %s, not a dfa", d.Name, d.Kind)
	}
	return build(d, func(st StateSpec) bool { return st.Accepting })
}

// Moore builds the output machine of a moore definition
func (d *Definition) Moore() (*automaton.Automaton[string], error) {
	if d.Kind != KindMoore {
		return nil, fmt.Errorf("target %q is a %s, not a moore machine", d.Name, d.Kind)
	}
	return build(d, func(st StateSpec) string { return st.Output })
}

func build[O comparable](d *Definition, output func(StateSpec) O) (*automaton.Automaton[O], error) {
	alphabet, err := d.alphabet()
	if err != nil {
		return nil, err
	}
	access := d.accessSequences(alphabet)

	a := automaton.New[O](alphabet)
	ids := make(map[string]int, len(d.States))
	for _, st := range d.States {
		ids[st.Name] = a.AddState(access[st.Name], output(st))
	}
	if err := a.SetInitial(ids[d.initial()]); err != nil {
		return nil, err
	}
	for _, st := range d.States {
		for _, sym := range alphabet {
			if err := a.SetTransition(ids[st.Name], sym, ids[d.Transitions[st.Name][string(sym)]]); err != nil {
				return nil, err
			}
		}
	}
	return a, a.Validate()
}

func (d *Definition) initial() string {
	if d.Initial != "" {
		return d.Initial
	}
	return d.States[0].Name
}

// accessSequences finds shortlex-minimal access words by breadth-first search.
// Unreachable states keep the empty sequence.
func (d *Definition) accessSequences(alphabet sequence.Alphabet) map[string]sequence.Sequence {
	start := d.initial()
	access := map[string]sequence.Sequence{start: sequence.Empty()}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, sym := range alphabet {
			next := d.Transitions[current][string(sym)]
			if _, seen := access[next]; seen {
				continue
			}
			access[next] = access[current].Append(sym)
			queue = append(queue, next)
		}
	}
	for _, st := range d.States {
		if _, ok := access[st.Name]; !ok {
			access[st.Name] = sequence.Empty()
		}
	}
	return access
}
