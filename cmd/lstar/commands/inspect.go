/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inspect.go
Description: Inspect command for saved observation tables. Prints the table with its
closedness, consistency and invariant status, and optionally the translated hypothesis.
*/

package commands

import (
	"fmt"
	"io"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/table"
	"github.com/kleascm/akaylee-lstar/pkg/translator"
	"github.com/spf13/cobra"
)

// RunInspect prints a saved observation table
func RunInspect(cmd *cobra.Command, args []string) error {
	outputs, _ := cmd.Flags().GetString("outputs")
	name, _ := cmd.Flags().GetString("translator")
	holeOutput, _ := cmd.Flags().GetString("hole-output")
	holePolicy, _ := cmd.Flags().GetString("hole-policy")

	policy, err := translator.ParseHolePolicy(holePolicy)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch outputs {
	case "bool":
		t, err := table.LoadFile[bool](args[0])
		if err != nil {
			return err
		}
		var tr translator.Translator[bool]
		if name != "" {
			hole := holeOutput == "true"
			if tr, err = translator.ForAcceptance(name, hole, policy); err != nil {
				return err
			}
		}
		return inspectTable(w, args[0], t, tr)
	case "string":
		t, err := table.LoadFile[string](args[0])
		if err != nil {
			return err
		}
		var tr translator.Translator[string]
		if name != "" {
			if tr, err = translator.ForOutputs(name, holeOutput, policy); err != nil {
				return err
			}
		}
		return inspectTable(w, args[0], t, tr)
	}
	return fmt.Errorf("unsupported outputs %q (bool, string)", outputs)
}

// inspectTable writes the report for t; tr may be nil to skip translation
func inspectTable[O comparable](w io.Writer, path string, t *table.ObservationTable[O], tr translator.Translator[O]) error {
	fmt.Fprintf(w, "📋 Observation table %s\n", path)
	fmt.Fprintln(w, "==========================")
	fmt.Fprintf(w, "Alphabet:     %v\n", t.Alphabet())
	fmt.Fprintf(w, "Red:          %d\n", len(t.Red()))
	fmt.Fprintf(w, "Blue:         %d\n", len(t.Blue()))
	fmt.Fprintf(w, "Experiments:  %d\n", len(t.Experiments()))
	fmt.Fprintf(w, "Distinct red: %d\n", t.DistinctRedRows())
	fmt.Fprintln(w)
	fmt.Fprint(w, t.String())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Filled:     %s\n", mark(t.IsFilled()))
	if t.IsFilled() {
		fmt.Fprintf(w, "Closed:     %s\n", mark(t.IsClosed()))
		fmt.Fprintf(w, "Consistent: %s\n", mark(t.IsConsistent()))
	}
	if err := t.CheckInvariants(); err != nil {
		fmt.Fprintf(w, "Invariants: ❌ %v\n", err)
	} else {
		fmt.Fprintf(w, "Invariants: %s\n", mark(true))
	}

	if tr == nil {
		return nil
	}
	hypothesis, err := tr.Translate(t, t.Alphabet(), nil)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Hypothesis (%s): %d states\n", tr.Name(), hypothesis.NumStates())
	return automaton.WriteDOT(w, hypothesis, "hypothesis")
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
