/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: result.go
Description: Result of a learning run: the model, its size and the run diagnostics.
*/

package learner

import (
	"time"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/table"
)

// Result is returned by Learn for converged and bounded runs alike
type Result[O comparable] struct {
	Model      *automaton.Automaton[O] // Nil only if a bound hit before any model could be built
	StateCount int                     // Regular states of Model; the hole is not counted
	Info       Info[O]
}

// Info carries run diagnostics
type Info[O comparable] struct {
	RunID                  string                     `json:"run_id"`
	Translator             string                     `json:"translator"`
	Variant                Variant                    `json:"variant"`
	EquivalenceQueries     int64                      `json:"equivalence_queries"`
	MembershipQueries      int64                      `json:"membership_queries"`
	CacheHits              int64                      `json:"cache_hits"`
	ObservationTable       *table.ObservationTable[O] `json:"-"`
	Duration               time.Duration              `json:"duration"`
	ExceededMaxStates      bool                       `json:"exceeded_max_states"`
	ExceededMaxQueryLength bool                       `json:"exceeded_max_query_length"`
	ExceededTime           bool                       `json:"exceeded_time"`
	StopReason             StopReason                 `json:"stop_reason"`
	Rounds                 int                        `json:"rounds"`
	Inconsistencies        int                        `json:"inconsistencies"`
	Counterexamples        []sequence.Sequence        `json:"counterexamples"`
}

// Bounded reports whether the run stopped on a resource bound
func (r *Result[O]) Bounded() bool {
	return r.Info.StopReason != StopNone
}

func (i *Info[O]) flag(reason StopReason) {
	i.StopReason = reason
	switch reason {
	case StopStatesExceeded:
		i.ExceededMaxStates = true
	case StopQueryLengthExceeded:
		i.ExceededMaxQueryLength = true
	case StopTimedOut:
		i.ExceededTime = true
	}
}
