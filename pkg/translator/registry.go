/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: registry.go
Description: Name-based translator selection for configs and the CLI.
*/

package translator

import (
	"fmt"
	"strings"
)

// Info describes a selectable translator
type Info struct {
	Name        string `json:"name"`
	Total       bool   `json:"total"`
	Description string `json:"description"`
}

// Available lists the translators in display order
func Available() []Info {
	return []Info{
		{Name: "dfa", Total: true, Description: "total deterministic automaton over boolean membership answers"},
		{Name: "moore", Total: true, Description: "total Moore machine; the epsilon column gives each state's output"},
		{Name: "partial", Total: false, Description: "hole-tolerant model; unknown transitions go to a hole state or self-loop"},
	}
}

// ForAcceptance returns a translator for boolean targets
func ForAcceptance(name string, holeOutput bool, policy HolePolicy) (Translator[bool], error) {
	switch strings.ToLower(name) {
	case "dfa", "":
		return NewDFA(), nil
	case "moore":
		return NewMoore[bool](), nil
	case "partial":
		return &Partial[bool]{HoleOutput: holeOutput, Policy: policy}, nil
	}
	return nil, fmt.Errorf("unknown translator %q", name)
}

// ForOutputs returns a translator for output-producing targets. The dfa translator is only
// meaningful for boolean outputs and is rejected here.
func ForOutputs[O comparable](name string, holeOutput O, policy HolePolicy) (Translator[O], error) {
	switch strings.ToLower(name) {
	case "moore", "":
		return NewMoore[O](), nil
	case "partial":
		return &Partial[O]{HoleOutput: holeOutput, Policy: policy}, nil
	case "dfa":
		return nil, fmt.Errorf("translator %q needs boolean outputs", name)
	}
	return nil, fmt.Errorf("unknown translator %q", name)
}
