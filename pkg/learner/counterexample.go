/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: counterexample.go
Description: Counterexample incorporation. The classic variant commits the counterexample's
prefixes as red sequences; the col variant adds its suffixes as experiments. Optionally the
counterexample is first shortened by a binary search over its prefix positions, which costs
a few membership queries and keeps the table small. Every incorporation must grow the table.
*/

package learner

import (
	"context"
	"fmt"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/sirupsen/logrus"
)

// Decomposition splits a counterexample w at position Index: the hypothesis state reached by
// w[:Index] followed by w[Index:] still disagrees with the hypothesis, while one symbol later
// it no longer does. Suffix is the distinguishing experiment w[Index+1:].
type Decomposition struct {
	Index  int
	Hybrid sequence.Sequence // access(w[:Index]) + w[Index:], a counterexample no longer than needed
	Suffix sequence.Sequence
}

// refine grows the table from a counterexample and fails if nothing was added
func (r *run[O]) refine(ctx context.Context, hypothesis *automaton.Automaton[O], ce sequence.Sequence) error {
	before := r.progressMeasure()

	if r.config.ShortenCounterexamples {
		d, err := Decompose(ctx, r.guard, hypothesis, ce)
		if err != nil {
			return err
		}
		r.logger.WithFields(logrus.Fields{
			"run_id": r.info.RunID,
			"index":  d.Index,
			"hybrid": d.Hybrid.String(),
			"suffix": d.Suffix.String(),
		}).Debug("Counterexample decomposed")

		switch r.config.Variant {
		case VariantCol:
			if err := r.addExperiment(ctx, d.Suffix); err != nil {
				return err
			}
		default:
			if err := r.addPrefixes(ctx, d.Hybrid); err != nil {
				return err
			}
		}
	}

	// Without shortening, or if the shortened form added nothing, use the whole counterexample
	if r.progressMeasure() == before {
		var err error
		switch r.config.Variant {
		case VariantCol:
			err = r.addSuffixes(ctx, ce)
		default:
			err = r.addPrefixes(ctx, ce)
		}
		if err != nil {
			return err
		}
	}

	if r.progressMeasure() == before {
		return fmt.Errorf("%w: %s", ErrNoProgress, ce)
	}
	return nil
}

// progressMeasure is |red| + |blue| + |exp|; it only grows
func (r *run[O]) progressMeasure() int {
	return r.table.Size() + len(r.table.Experiments())
}

func (r *run[O]) addPrefixes(ctx context.Context, ce sequence.Sequence) error {
	if err := r.guard.admit(ce.Len() + 1 + r.table.MaxExperimentLength()); err != nil {
		return err
	}
	_, err := r.table.AddCounterexample(ctx, r.guard, ce)
	return err
}

func (r *run[O]) addSuffixes(ctx context.Context, ce sequence.Sequence) error {
	for _, suffix := range ce.Suffixes() {
		if err := r.addExperiment(ctx, suffix); err != nil {
			return err
		}
	}
	return nil
}

// Decompose finds the Rivest-Schapire split of a counterexample with O(log |ce|) membership
// queries. It fails with ErrTeacherContract if the target and hypothesis agree on ce.
func Decompose[O comparable](ctx context.Context, oracle interfaces.MembershipOracle[O], hypothesis *automaton.Automaton[O], ce sequence.Sequence) (*Decomposition, error) {
	target, err := oracle.Query(ctx, ce)
	if err != nil {
		return nil, err
	}
	predicted, known := hypothesis.Output(ce)
	if known && predicted == target {
		return nil, fmt.Errorf("%w: target and hypothesis agree on counterexample %s", interfaces.ErrTeacherContract, ce)
	}

	hybrid := func(i int) (sequence.Sequence, error) {
		state, ok := hypothesis.Reach(ce.Prefix(i))
		if !ok || hypothesis.IsHole(state) {
			return nil, fmt.Errorf("hypothesis has no access sequence for %s", ce.Prefix(i))
		}
		return hypothesis.State(state).Access.Concat(ce.Suffix(i)), nil
	}

	// alpha(lo) equals target(ce) and alpha(hi) differs from it; alpha(0) is target(ce)
	// and alpha(len) is the hypothesis output, so the invariant holds initially
	lo, hi := 0, ce.Len()
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		word, err := hybrid(mid)
		if err != nil {
			return nil, err
		}
		out, err := oracle.Query(ctx, word)
		if err != nil {
			return nil, err
		}
		if out == target {
			lo = mid
		} else {
			hi = mid
		}
	}

	word, err := hybrid(lo)
	if err != nil {
		return nil, err
	}
	return &Decomposition{
		Index:  lo,
		Hybrid: word,
		Suffix: ce.Suffix(lo + 1),
	}, nil
}
