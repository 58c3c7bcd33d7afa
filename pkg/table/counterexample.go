/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: counterexample.go
Description: Table growth from counterexamples. Prefix incorporation commits every prefix of
the counterexample as a red sequence; suffix incorporation adds the counterexample's suffixes
as experiments instead.
*/

package table

import (
	"context"

	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// AddCounterexample adds every prefix of ce, shortest first and ce included, to red and every
// one-symbol extension that is not itself a prefix of ce to blue. It returns the number of
// sequences that were not tracked before.
func (t *ObservationTable[O]) AddCounterexample(ctx context.Context, oracle interfaces.MembershipOracle[O], ce sequence.Sequence) (int, error) {
	before := t.Size()
	if err := t.alphabet.Validate(ce); err != nil {
		return 0, err
	}
	for _, p := range ce.Prefixes() {
		if err := t.AddToRed(ctx, oracle, p); err != nil {
			return t.Size() - before, err
		}
		for _, a := range t.alphabet {
			ext := p.Append(a)
			if ce.HasPrefix(ext) {
				continue
			}
			if err := t.AddToBlue(ctx, oracle, ext); err != nil {
				return t.Size() - before, err
			}
		}
	}
	return t.Size() - before, nil
}

// AddSuffixExperiments adds every non-empty suffix of ce that is not yet an experiment,
// shortest first. It returns the number of experiments added.
func (t *ObservationTable[O]) AddSuffixExperiments(ctx context.Context, oracle interfaces.MembershipOracle[O], ce sequence.Sequence) (int, error) {
	if err := t.alphabet.Validate(ce); err != nil {
		return 0, err
	}
	added := 0
	for _, suffix := range ce.Suffixes() {
		ok, err := t.AddExperiment(ctx, oracle, suffix)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}
