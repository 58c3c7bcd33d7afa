/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Learner reporter that writes run events through the Logger helpers, so a run's
hypotheses, counterexamples and final statistics land in the per-run log file.
*/

package logging

import (
	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/learner"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/table"
)

// RunReporter logs learner events for one run
type RunReporter[O comparable] struct {
	logger *Logger
	runID  string
}

// NewRunReporter creates a reporter; runID tags every line and may be set later
func NewRunReporter[O comparable](logger *Logger, runID string) *RunReporter[O] {
	return &RunReporter[O]{logger: logger, runID: runID}
}

// OnHypothesis logs the hypothesis size and the table dimensions
func (r *RunReporter[O]) OnHypothesis(round int, hypothesis *automaton.Automaton[O], t *table.ObservationTable[O]) {
	r.logger.LogHypothesis(r.runID, round, hypothesis.NumStates(), map[string]interface{}{
		"red":  len(t.Red()),
		"blue": len(t.Blue()),
		"exp":  len(t.Experiments()),
		"hole": hypothesis.HasHole(),
	})
}

// OnCounterexample logs the counterexample
func (r *RunReporter[O]) OnCounterexample(round int, counterexample sequence.Sequence) {
	r.logger.LogCounterexample(r.runID, round, counterexample.String(), map[string]interface{}{
		"length": counterexample.Len(),
	})
}

// OnInconsistency logs the rows split by a new experiment
func (r *RunReporter[O]) OnInconsistency(round int, inc table.Inconsistency) {
	r.logger.LogInconsistency(r.runID, inc.First.String(), inc.Second.String(), inc.Experiment().String(), map[string]interface{}{
		"round":  round,
		"symbol": inc.Symbol,
	})
}

// OnStop logs the stop reason and the query counters
func (r *RunReporter[O]) OnStop(result *learner.Result[O]) {
	if r.runID == "" {
		r.runID = result.Info.RunID
	}
	r.logger.LogQueryStats(result.Info.MembershipQueries, result.Info.EquivalenceQueries, result.Info.CacheHits, map[string]interface{}{
		"run_id": r.runID,
	})
	r.logger.LogStop(r.runID, result.Info.StopReason.String(), result.Bounded(), map[string]interface{}{
		"states":          result.StateCount,
		"rounds":          result.Info.Rounds,
		"inconsistencies": result.Info.Inconsistencies,
		"duration":        result.Info.Duration,
	})
}
