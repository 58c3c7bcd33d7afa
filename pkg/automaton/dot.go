/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dot.go
Description: Graphviz DOT rendering of learned automata. Accepting states of boolean
automata are drawn as double circles, Moore outputs are shown in the node label and the hole
state is drawn dashed.
*/

package automaton

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// GenerateDOT renders the automaton as a Graphviz digraph
func GenerateDOT[O comparable](a *Automaton[O], name string) string {
	var sb strings.Builder

	if name == "" {
		name = "Hypothesis"
	}
	sb.WriteString(fmt.Sprintf("digraph %q {\n", name))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n\n")

	if a.Initial() != NoState {
		sb.WriteString("  start [shape=point];\n")
		sb.WriteString(fmt.Sprintf("  start -> \"s%d\";\n\n", a.Initial()))
	}

	for _, st := range a.States() {
		sb.WriteString(fmt.Sprintf("  \"s%d\" [%s];\n", st.ID, nodeAttributes(st)))
	}
	sb.WriteString("\n")

	// Parallel edges are merged into one labelled edge
	for _, st := range a.States() {
		targets := make(map[int][]string)
		for _, sym := range a.Alphabet() {
			if to, ok := a.Transition(st.ID, sym); ok {
				targets[to] = append(targets[to], string(sym))
			}
		}
		ids := make([]int, 0, len(targets))
		for to := range targets {
			ids = append(ids, to)
		}
		sort.Ints(ids)
		for _, to := range ids {
			sb.WriteString(fmt.Sprintf("  \"s%d\" -> \"s%d\" [label=%q];\n", st.ID, to, strings.Join(targets[to], ",")))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// WriteDOT writes the DOT rendering to w
func WriteDOT[O comparable](w io.Writer, a *Automaton[O], name string) error {
	_, err := io.WriteString(w, GenerateDOT(a, name))
	return err
}

func nodeAttributes[O comparable](st *State[O]) string {
	if st.Hole {
		return `label="?", style=dashed`
	}
	access := st.Access.String()
	switch out := any(st.Output).(type) {
	case bool:
		if out {
			return fmt.Sprintf("label=%q, shape=doublecircle", fmt.Sprintf("s%d\n%s", st.ID, access))
		}
		return fmt.Sprintf("label=%q", fmt.Sprintf("s%d\n%s", st.ID, access))
	default:
		return fmt.Sprintf("label=%q", fmt.Sprintf("s%d/%v\n%s", st.ID, out, access))
	}
}
