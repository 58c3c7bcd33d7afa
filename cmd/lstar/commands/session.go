/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: session.go
Description: Learning session setup. Builds the teacher, translator and learner for the
configured target, runs the learner and writes the table snapshot, report and metrics
history of the run.
*/

package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/config"
	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/learner"
	"github.com/kleascm/akaylee-lstar/pkg/logging"
	"github.com/kleascm/akaylee-lstar/pkg/oracle"
	"github.com/kleascm/akaylee-lstar/pkg/reporting"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/storage"
	"github.com/kleascm/akaylee-lstar/pkg/table"
	"github.com/kleascm/akaylee-lstar/pkg/target"
	"github.com/kleascm/akaylee-lstar/pkg/translator"
	"github.com/kleascm/akaylee-lstar/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsKind names the metrics history directory of learning runs
const MetricsKind = "learn"

// Session is one configured learning run
type Session struct {
	config   *config.LearnConfig
	logger   *logging.Logger
	registry prometheus.Registerer // Nil disables Prometheus metrics
	db       *storage.DB           // Nil without a cache directory
	runID    string
}

// Outcome describes what a finished run produced
type Outcome struct {
	RunID       string
	Report      *reporting.RunReport
	ReportDir   string
	MetricsFile string
	TableFile   string // Empty unless the table was saved
}

// NewSession opens the query cache and assigns the run id
func NewSession(cfg *config.LearnConfig, logger *logging.Logger, registry prometheus.Registerer) (*Session, error) {
	s := &Session{
		config:   cfg,
		logger:   logger,
		registry: registry,
		runID:    uuid.New().String(),
	}
	if cfg.CacheDir != "" {
		storeConfig := storage.DefaultConfig(cfg.CacheDir)
		storeConfig.Logger = logger.GetLogger()
		db, err := storage.Open(storeConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open query cache: %w", err)
		}
		s.db = db
	}
	return s, nil
}

// RunID returns the id the run is logged and reported under
func (s *Session) RunID() string {
	return s.runID
}

// Close releases the query cache
func (s *Session) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Learn runs the learner against the configured target
func (s *Session) Learn(ctx context.Context) (*Outcome, error) {
	if s.config.BooleanTarget() {
		return learnAcceptance(ctx, s)
	}
	return learnOutputs(ctx, s)
}

func learnAcceptance(ctx context.Context, s *Session) (*Outcome, error) {
	var (
		model      *automaton.Automaton[bool]
		membership interfaces.MembershipOracle[bool]
		alphabet   sequence.Alphabet
		err        error
	)
	if s.config.IsProcess() {
		process, err := oracle.NewAcceptanceProcess(s.config.ProcessConfig())
		if err != nil {
			return nil, err
		}
		process.SetLogger(s.logger.GetLogger())
		membership = process
		if alphabet, err = s.config.InputAlphabet(); err != nil {
			return nil, err
		}
	} else {
		def, err := target.LoadFile(s.config.Target)
		if err != nil {
			return nil, err
		}
		if model, err = def.DFA(); err != nil {
			return nil, err
		}
		alphabet = model.Alphabet()
	}

	holeOutput, err := s.config.BoolHoleOutput()
	if err != nil {
		return nil, err
	}
	policy, err := translator.ParseHolePolicy(s.config.HolePolicy)
	if err != nil {
		return nil, err
	}
	tr, err := translator.ForAcceptance(s.config.Translator, holeOutput, policy)
	if err != nil {
		return nil, err
	}
	teacher, err := newTeacher(s, alphabet, model, membership)
	if err != nil {
		return nil, err
	}
	return runLearner(ctx, s, teacher, tr)
}

func learnOutputs(ctx context.Context, s *Session) (*Outcome, error) {
	var (
		model      *automaton.Automaton[string]
		membership interfaces.MembershipOracle[string]
		alphabet   sequence.Alphabet
		err        error
	)
	if s.config.IsProcess() {
		process, err := oracle.NewOutputProcess(s.config.ProcessConfig())
		if err != nil {
			return nil, err
		}
		process.SetLogger(s.logger.GetLogger())
		membership = process
		if alphabet, err = s.config.InputAlphabet(); err != nil {
			return nil, err
		}
	} else {
		def, err := target.LoadFile(s.config.Target)
		if err != nil {
			return nil, err
		}
		if model, err = def.Moore(); err != nil {
			return nil, err
		}
		alphabet = model.Alphabet()
	}

	policy, err := translator.ParseHolePolicy(s.config.HolePolicy)
	if err != nil {
		return nil, err
	}
	tr, err := translator.ForOutputs(s.config.Translator, s.config.HoleOutput, policy)
	if err != nil {
		return nil, err
	}
	teacher, err := newTeacher(s, alphabet, model, membership)
	if err != nil {
		return nil, err
	}
	return runLearner(ctx, s, teacher, tr)
}

// newTeacher answers from model when one is loaded and from membership otherwise.
// Membership answers are cached, on disk when a cache directory is configured.
func newTeacher[O comparable](s *Session, alphabet sequence.Alphabet, model *automaton.Automaton[O], membership interfaces.MembershipOracle[O]) (interfaces.Teacher[O], error) {
	if model != nil {
		if s.config.Equivalence == config.EquivalenceExact {
			exact, err := oracle.NewExactTeacher(model)
			if err != nil {
				return nil, err
			}
			return exact, nil
		}
		membership = modelOracle(model)
	}

	var store *storage.QueryStore[O]
	if s.db != nil {
		store = storage.NewQueryStore[O](s.db, s.config.CacheNamespace())
	}
	cache := oracle.NewCachingOracle(membership, store)
	cache.SetLogger(s.logger.GetLogger())

	sampling, err := oracle.NewSamplingTeacher[O](alphabet, cache, s.config.SamplingConfig())
	if err != nil {
		return nil, err
	}
	return sampling, nil
}

// modelOracle answers membership queries by running model
func modelOracle[O comparable](model *automaton.Automaton[O]) oracle.FuncOracle[O] {
	return func(_ context.Context, seq sequence.Sequence) (O, error) {
		out, known := model.Output(seq)
		if !known {
			return out, fmt.Errorf("model has no output for %s", seq)
		}
		return out, nil
	}
}

func runLearner[O comparable](ctx context.Context, s *Session, teacher interfaces.Teacher[O], tr translator.Translator[O]) (*Outcome, error) {
	learnerConfig, err := s.config.LearnerConfig()
	if err != nil {
		return nil, err
	}
	l, err := learner.New(teacher, tr, learnerConfig)
	if err != nil {
		return nil, err
	}
	l.SetLogger(s.logger.GetLogger())
	l.SetRunID(s.runID)
	l.AddReporter(logging.NewRunReporter[O](s.logger, s.runID))
	if s.registry != nil {
		l.AddReporter(learner.NewPrometheusReporter[O](s.registry))
	}

	if s.config.ResumeTable != "" {
		t, err := table.LoadFile[O](s.config.ResumeTable)
		if err != nil {
			return nil, err
		}
		if err := l.Resume(t); err != nil {
			return nil, err
		}
		s.logger.Info("Resuming from saved table", map[string]interface{}{
			"path": s.config.ResumeTable,
			"red":  len(t.Red()),
			"exp":  len(t.Experiments()),
		})
	}

	result, err := l.Learn(ctx)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		RunID:  s.runID,
		Report: reporting.NewRunReport(filepath.Base(s.config.Target), result),
	}
	if s.config.SaveTable != "" && result.Info.ObservationTable != nil {
		if err := result.Info.ObservationTable.SaveFile(s.config.SaveTable); err != nil {
			return nil, err
		}
		outcome.TableFile = s.config.SaveTable
	}

	outcome.ReportDir, err = reporting.NewReportGenerator(s.config.OutputDir, s.logger.GetLogger()).Generate(outcome.Report)
	if err != nil {
		return nil, err
	}
	outcome.MetricsFile, err = utils.WriteMetricsResult(filepath.Join(s.config.OutputDir, "metrics"), MetricsKind, s.runID, outcome.Report)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
