/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface and implementations for learner telemetry. Supports logging
and Prometheus export of hypothesis, counterexample and run events.
*/

package learner

import (
	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// Reporter defines the telemetry hooks of a learning run.
// Hooks run synchronously on the learning goroutine and must not mutate their arguments.
type Reporter[O comparable] interface {
	// OnHypothesis is called after each hypothesis within bounds is built
	OnHypothesis(round int, hypothesis *automaton.Automaton[O], t *table.ObservationTable[O])
	// OnCounterexample is called when the teacher rejects a hypothesis
	OnCounterexample(round int, counterexample sequence.Sequence)
	// OnInconsistency is called before the repairing experiment is added
	OnInconsistency(round int, inc table.Inconsistency)
	// OnStop is called once with the final result
	OnStop(result *Result[O])
}

// LoggerReporter logs learner events
type LoggerReporter[O comparable] struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter
func NewLoggerReporter[O comparable](logger *logrus.Logger) *LoggerReporter[O] {
	return &LoggerReporter[O]{logger: logger}
}

// OnHypothesis logs the hypothesis size
func (r *LoggerReporter[O]) OnHypothesis(round int, hypothesis *automaton.Automaton[O], t *table.ObservationTable[O]) {
	r.logger.WithFields(logrus.Fields{
		"round":  round,
		"states": hypothesis.NumStates(),
		"table":  t.Size(),
	}).Info("Hypothesis")
}

// OnCounterexample logs the counterexample
func (r *LoggerReporter[O]) OnCounterexample(round int, counterexample sequence.Sequence) {
	r.logger.WithFields(logrus.Fields{"round": round, "counterexample": counterexample.String()}).Info("Counterexample")
}

// OnInconsistency logs the rows split by a new experiment
func (r *LoggerReporter[O]) OnInconsistency(round int, inc table.Inconsistency) {
	r.logger.WithFields(logrus.Fields{
		"round":      round,
		"first":      inc.First.String(),
		"second":     inc.Second.String(),
		"experiment": inc.Experiment().String(),
	}).Debug("Inconsistency")
}

// OnStop logs the outcome
func (r *LoggerReporter[O]) OnStop(result *Result[O]) {
	entry := r.logger.WithFields(logrus.Fields{
		"run_id":      result.Info.RunID,
		"states":      result.StateCount,
		"stop_reason": result.Info.StopReason,
	})
	if result.Bounded() {
		entry.Warn("Learning bounded")
		return
	}
	entry.Info("Learning converged")
}

// PrometheusReporter exports learner metrics to a Prometheus registry
type PrometheusReporter[O comparable] struct {
	hypotheses           prometheus.Counter
	hypothesisStates     prometheus.Gauge
	tableSize            prometheus.Gauge
	experiments          prometheus.Gauge
	counterexamples      prometheus.Counter
	counterexampleLength prometheus.Histogram
	inconsistencies      prometheus.Counter
	runs                 *prometheus.CounterVec
	membershipQueries    prometheus.Counter
	equivalenceQueries   prometheus.Counter
	runDuration          prometheus.Histogram
}

// NewPrometheusReporter registers the learner metrics with reg
func NewPrometheusReporter[O comparable](reg prometheus.Registerer) *PrometheusReporter[O] {
	factory := promauto.With(reg)
	return &PrometheusReporter[O]{
		hypotheses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "hypotheses_total",
			Help:      "Hypotheses built within bounds",
		}),
		hypothesisStates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "hypothesis_states",
			Help:      "States of the latest hypothesis",
		}),
		tableSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "table_sequences",
			Help:      "Red plus blue sequences in the observation table",
		}),
		experiments: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "table_experiments",
			Help:      "Distinguishing experiments in the observation table",
		}),
		counterexamples: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "counterexamples_total",
			Help:      "Counterexamples returned by the teacher",
		}),
		counterexampleLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "counterexample_length",
			Help:      "Length of counterexamples returned by the teacher",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		inconsistencies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "inconsistencies_total",
			Help:      "Inconsistencies repaired with a new experiment",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "runs_total",
			Help:      "Finished learning runs by stop reason",
		}, []string{"reason"}),
		membershipQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "membership_queries_total",
			Help:      "Membership queries answered by the target",
		}),
		equivalenceQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "equivalence_queries_total",
			Help:      "Equivalence queries issued",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "akaylee",
			Subsystem: "lstar",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of learning runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// OnHypothesis records the hypothesis and table size
func (r *PrometheusReporter[O]) OnHypothesis(round int, hypothesis *automaton.Automaton[O], t *table.ObservationTable[O]) {
	r.hypotheses.Inc()
	r.hypothesisStates.Set(float64(hypothesis.NumStates()))
	r.tableSize.Set(float64(t.Size()))
	r.experiments.Set(float64(len(t.Experiments())))
}

// OnCounterexample records the counterexample length
func (r *PrometheusReporter[O]) OnCounterexample(round int, counterexample sequence.Sequence) {
	r.counterexamples.Inc()
	r.counterexampleLength.Observe(float64(counterexample.Len()))
}

// OnInconsistency counts repaired inconsistencies
func (r *PrometheusReporter[O]) OnInconsistency(round int, inc table.Inconsistency) {
	r.inconsistencies.Inc()
}

// OnStop records the run totals
func (r *PrometheusReporter[O]) OnStop(result *Result[O]) {
	r.runs.WithLabelValues(result.Info.StopReason.String()).Inc()
	r.membershipQueries.Add(float64(result.Info.MembershipQueries))
	r.equivalenceQueries.Add(float64(result.Info.EquivalenceQueries))
	r.runDuration.Observe(result.Info.Duration.Seconds())
	r.hypothesisStates.Set(float64(result.StateCount))
}
