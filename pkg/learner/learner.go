/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: learner.go
Description: L* learning loop. Closes and makes consistent the observation table, translates
it into a hypothesis, asks the teacher for equivalence and refines the table from the
counterexample until the teacher agrees or a resource bound stops the run. Bounds are soft:
a bounded run still returns a usable, flagged result.
*/

package learner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/table"
	"github.com/kleascm/akaylee-lstar/pkg/translator"
	"github.com/sirupsen/logrus"
)

// Variant selects how counterexamples grow the table
type Variant string

const (
	VariantClassic Variant = "classic" // Counterexample prefixes become red sequences
	VariantCol     Variant = "col"     // Counterexample suffixes become experiments
)

// ParseVariant converts a config string to a Variant
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantClassic, "":
		return VariantClassic, nil
	case VariantCol:
		return VariantCol, nil
	}
	return "", fmt.Errorf("unknown learner variant %q", s)
}

// Config holds the learning bounds and strategy. Zero bounds mean unbounded.
type Config struct {
	MaxStates              int           // Largest hypothesis accepted
	MaxQueryLength         int           // Longest membership query issued
	MaxTime                time.Duration // Wall-clock budget of a run
	Variant                Variant       // Counterexample incorporation strategy
	ShortenCounterexamples bool          // Binary search for the distinguishing suffix first
}

// Validate checks the config
func (c Config) Validate() error {
	if c.MaxStates < 0 {
		return fmt.Errorf("max states must not be negative")
	}
	if c.MaxQueryLength < 0 {
		return fmt.Errorf("max query length must not be negative")
	}
	if c.MaxTime < 0 {
		return fmt.Errorf("max time must not be negative")
	}
	if _, err := ParseVariant(string(c.Variant)); err != nil {
		return err
	}
	return nil
}

// Learner runs L* against a teacher
type Learner[O comparable] struct {
	config     Config
	teacher    interfaces.Teacher[O]
	translator translator.Translator[O]
	logger     *logrus.Logger
	reporters  []Reporter[O]
	seed       *table.ObservationTable[O]
	runID      string
}

// New creates a learner
func New[O comparable](teacher interfaces.Teacher[O], tr translator.Translator[O], config Config) (*Learner[O], error) {
	if teacher == nil {
		return nil, fmt.Errorf("teacher not set")
	}
	if tr == nil {
		return nil, fmt.Errorf("translator not set")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid learner config: %w", err)
	}
	config.Variant, _ = ParseVariant(string(config.Variant))
	return &Learner[O]{
		config:     config,
		teacher:    teacher,
		translator: tr,
		logger:     logrus.New(),
	}, nil
}

// SetLogger replaces the default logger
func (l *Learner[O]) SetLogger(logger *logrus.Logger) {
	l.logger = logger
}

// AddReporter registers a telemetry hook
func (l *Learner[O]) AddReporter(reporter Reporter[O]) {
	l.reporters = append(l.reporters, reporter)
}

// Resume seeds the next run with a copy of a previously built table. Missing rows are
// filled lazily before the first closedness check.
func (l *Learner[O]) Resume(t *table.ObservationTable[O]) error {
	if !t.Alphabet().Equal(l.teacher.Alphabet()) {
		return fmt.Errorf("%w: table uses %v, teacher uses %v", sequence.ErrAlphabetMismatch, t.Alphabet(), l.teacher.Alphabet())
	}
	l.seed = t.Clone()
	return nil
}

// SetRunID fixes the id of the next run; by default every run gets a fresh UUID
func (l *Learner[O]) SetRunID(id string) {
	l.runID = id
}

// Config returns the learner configuration
func (l *Learner[O]) Config() Config {
	return l.config
}

// run is the state of a single Learn call
type run[O comparable] struct {
	*Learner[O]
	table   *table.ObservationTable[O]
	guard   *guard[O]
	outputs []O
	info    Info[O]

	lastWithin *automaton.Automaton[O] // Last hypothesis within MaxStates
	lastBuilt  *automaton.Automaton[O] // Last hypothesis built, oversized or not
}

// Learn runs the loop until the teacher accepts a hypothesis or a bound is hit.
// Bound hits return a flagged Result and a nil error; contract violations return an error.
func (l *Learner[O]) Learn(ctx context.Context) (*Result[O], error) {
	start := time.Now()
	if l.config.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.MaxTime)
		defer cancel()
	}

	runID := l.runID
	if runID == "" {
		runID = uuid.New().String()
	}
	l.runID = ""

	r := &run[O]{
		Learner: l,
		guard:   &guard[O]{teacher: l.teacher, maxQueryLength: l.config.MaxQueryLength},
		info: Info[O]{
			RunID:      runID,
			Translator: l.translator.Name(),
			Variant:    l.config.Variant,
		},
	}
	if oa, ok := l.teacher.(interfaces.OutputAlphabeter[O]); ok {
		r.outputs = oa.OutputAlphabet()
	}
	if l.seed != nil {
		r.table = l.seed.Clone()
	} else {
		r.table = table.New[O](l.teacher.Alphabet())
	}
	statsBefore := l.teacher.Stats()

	l.logger.WithFields(logrus.Fields{
		"run_id":     r.info.RunID,
		"translator": r.info.Translator,
		"variant":    r.info.Variant,
		"resumed":    l.seed != nil,
	}).Info("Learning run started")

	model, err := r.loop(ctx)
	if err != nil {
		bound, ok := asBound(err)
		if !ok {
			l.logger.WithFields(logrus.Fields{"run_id": r.info.RunID, "error": err}).Error("Learning run failed")
			return nil, err
		}
		r.info.flag(bound.Reason)
		model = r.salvage(bound.Reason)
		l.logger.WithFields(logrus.Fields{"run_id": r.info.RunID, "reason": bound.Reason}).Warnf("Learning stopped early: %v", bound)
	}

	stats := l.teacher.Stats()
	r.info.MembershipQueries = stats.MembershipQueries - statsBefore.MembershipQueries
	r.info.EquivalenceQueries = stats.EquivalenceQueries - statsBefore.EquivalenceQueries
	r.info.CacheHits = stats.CacheHits - statsBefore.CacheHits
	r.info.ObservationTable = r.table
	r.info.Duration = time.Since(start)

	result := &Result[O]{Model: model, Info: r.info}
	if model != nil {
		result.StateCount = model.NumStates()
	}

	l.logger.WithFields(logrus.Fields{
		"run_id":              r.info.RunID,
		"states":              result.StateCount,
		"rounds":              r.info.Rounds,
		"membership_queries":  r.info.MembershipQueries,
		"equivalence_queries": r.info.EquivalenceQueries,
		"stop_reason":         r.info.StopReason,
		"duration":            r.info.Duration,
	}).Info("Learning run finished")

	for _, rep := range l.reporters {
		rep.OnStop(result)
	}
	return result, nil
}

// loop is Init followed by rounds of Closing, MakingConsistent, Hypothesizing,
// AwaitingEquivalence and Refining
func (r *run[O]) loop(ctx context.Context) (*automaton.Automaton[O], error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	for {
		r.info.Rounds++
		if err := r.stabilize(ctx); err != nil {
			return nil, err
		}
		hypothesis, err := r.hypothesize()
		if err != nil {
			return nil, err
		}

		if err := checkpoint(ctx); err != nil {
			return nil, err
		}
		verdict, err := r.teacher.EquivalenceQuery(ctx, hypothesis)
		if err != nil {
			return nil, fmt.Errorf("equivalence query failed: %w", err)
		}
		if err := verdict.Validate(); err != nil {
			return nil, err
		}
		if verdict.Equivalent {
			r.logger.WithFields(logrus.Fields{
				"run_id": r.info.RunID,
				"round":  r.info.Rounds,
				"states": hypothesis.NumStates(),
			}).Info("Hypothesis accepted")
			return hypothesis, nil
		}

		ce := sequence.Of(verdict.Counterexample...)
		if err := r.table.Alphabet().Validate(ce); err != nil {
			return nil, fmt.Errorf("%w: counterexample %s: %v", interfaces.ErrTeacherContract, ce, err)
		}
		r.info.Counterexamples = append(r.info.Counterexamples, ce)
		r.logger.WithFields(logrus.Fields{
			"run_id":         r.info.RunID,
			"round":          r.info.Rounds,
			"counterexample": ce.String(),
			"length":         ce.Len(),
		}).Debug("Counterexample validated")
		for _, rep := range r.reporters {
			rep.OnCounterexample(r.info.Rounds, ce)
		}

		if err := r.refine(ctx, hypothesis, ce); err != nil {
			return nil, err
		}
	}
}

// init puts epsilon in red and fills the blue frontier. A resumed table gets its holes
// filled first.
func (r *run[O]) init(ctx context.Context) error {
	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := r.table.FillObservations(ctx, r.guard); err != nil {
		return err
	}
	if err := r.table.AddToRed(ctx, r.guard, sequence.Empty()); err != nil {
		return err
	}
	return r.table.EnsureBlueFrontier(ctx, r.guard)
}

// stabilize alternates closing and consistency repair until both hold
func (r *run[O]) stabilize(ctx context.Context) error {
	for {
		if err := r.close(ctx); err != nil {
			return err
		}
		inc, found := r.table.FindInconsistency()
		if !found {
			return nil
		}
		r.info.Inconsistencies++
		e := inc.Experiment()
		r.logger.WithFields(logrus.Fields{
			"run_id":     r.info.RunID,
			"first":      inc.First.String(),
			"second":     inc.Second.String(),
			"symbol":     inc.Symbol,
			"experiment": e.String(),
		}).Debug("Inconsistency found")
		for _, rep := range r.reporters {
			rep.OnInconsistency(r.info.Rounds, *inc)
		}

		if err := r.addExperiment(ctx, e); err != nil {
			return err
		}
	}
}

// close promotes closedness violations until every blue row matches a red row
func (r *run[O]) close(ctx context.Context) error {
	for {
		if err := checkpoint(ctx); err != nil {
			return err
		}
		if err := r.checkStates(r.table.DistinctRedRows()); err != nil {
			return err
		}
		violation, found := r.table.FindClosednessViolation()
		if !found {
			return nil
		}
		r.logger.WithFields(logrus.Fields{
			"run_id":   r.info.RunID,
			"sequence": violation.String(),
		}).Debug("Closedness violation promoted")

		if err := r.table.MoveToRed(violation); err != nil {
			return err
		}
		for _, a := range r.table.Alphabet() {
			if err := r.table.AddToBlue(ctx, r.guard, violation.Append(a)); err != nil {
				return err
			}
		}
	}
}

// hypothesize translates the stable table and applies the state bound
func (r *run[O]) hypothesize() (*automaton.Automaton[O], error) {
	hypothesis, err := r.translator.Translate(r.table, r.table.Alphabet(), r.outputs)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	r.lastBuilt = hypothesis
	if err := r.checkStates(hypothesis.NumStates()); err != nil {
		return nil, err
	}
	r.lastWithin = hypothesis

	r.logger.WithFields(logrus.Fields{
		"run_id": r.info.RunID,
		"round":  r.info.Rounds,
		"states": hypothesis.NumStates(),
		"red":    len(r.table.Red()),
		"blue":   len(r.table.Blue()),
		"exp":    len(r.table.Experiments()),
	}).Debug("Hypothesis translated")
	for _, rep := range r.reporters {
		rep.OnHypothesis(r.info.Rounds, hypothesis, r.table)
	}
	return hypothesis, nil
}

// addExperiment appends e after checking that its longest query fits the length bound
func (r *run[O]) addExperiment(ctx context.Context, e sequence.Sequence) error {
	if err := r.guard.admit(r.table.MaxTrackedLength() + e.Len()); err != nil {
		return err
	}
	_, err := r.table.AddExperiment(ctx, r.guard, e)
	return err
}

func (r *run[O]) checkStates(states int) error {
	if r.config.MaxStates > 0 && states > r.config.MaxStates {
		return &BoundError{Reason: StopStatesExceeded, Limit: r.config.MaxStates, Value: states}
	}
	return nil
}

// salvage picks the model returned by a bounded run
func (r *run[O]) salvage(reason StopReason) *automaton.Automaton[O] {
	if reason == StopStatesExceeded {
		if r.lastWithin != nil {
			return r.lastWithin
		}
		if r.lastBuilt != nil {
			return r.lastBuilt
		}
	}
	// Hole-tolerant translators can always describe the table as it stands
	if !r.translator.RequiresTotalTable() {
		model, err := r.translator.Translate(r.table, r.table.Alphabet(), r.outputs)
		if err == nil {
			return model
		}
		r.logger.WithFields(logrus.Fields{"run_id": r.info.RunID, "error": err}).Warn("Final partial translation failed")
	}
	if r.lastWithin != nil {
		return r.lastWithin
	}
	if model, err := r.translator.Translate(r.table, r.table.Alphabet(), r.outputs); err == nil {
		return model
	}
	return nil
}
