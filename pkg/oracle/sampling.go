/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sampling.go
Description: Sampling teacher for black-box targets. Membership queries go straight to the
wrapped oracle; equivalence is approximated by testing random words against the hypothesis.
The number of samples per round follows the PAC bound unless a fixed count is configured.
*/

package oracle

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// SamplingConfig tunes random equivalence testing
type SamplingConfig struct {
	Seed      int64   // RNG seed; equal seeds give equal runs
	Samples   int     // Fixed samples per equivalence query; 0 uses the PAC bound
	Epsilon   float64 // PAC accuracy
	Delta     float64 // PAC confidence
	MaxLength int     // Longest random word
}

// DefaultSamplingConfig returns the defaults used by the CLI
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Seed:      1,
		Epsilon:   0.01,
		Delta:     0.01,
		MaxLength: 16,
	}
}

// Validate checks the sampling parameters
func (c SamplingConfig) Validate() error {
	if c.Samples < 0 {
		return fmt.Errorf("samples must not be negative")
	}
	if c.Samples == 0 {
		if c.Epsilon <= 0 || c.Epsilon >= 1 {
			return fmt.Errorf("epsilon must be in (0, 1), got %v", c.Epsilon)
		}
		if c.Delta <= 0 || c.Delta >= 1 {
			return fmt.Errorf("delta must be in (0, 1), got %v", c.Delta)
		}
	}
	if c.MaxLength < 0 {
		return fmt.Errorf("max sample length must not be negative")
	}
	return nil
}

// PACSamples returns the sample count for the given 1-based equivalence round:
// ceil((1/epsilon) * (ln(1/delta) + round*ln 2))
func PACSamples(epsilon, delta float64, round int) int {
	return int(math.Ceil((1 / epsilon) * (math.Log(1/delta) + float64(round)*math.Ln2)))
}

// SamplingTeacher approximates equivalence queries by random testing
type SamplingTeacher[O comparable] struct {
	alphabet sequence.Alphabet
	oracle   interfaces.MembershipOracle[O]
	config   SamplingConfig
	rng      *rand.Rand
	mu       sync.Mutex
	rounds   int
	stats    interfaces.QueryStats
}

// NewSamplingTeacher creates a sampling teacher over oracle
func NewSamplingTeacher[O comparable](alphabet sequence.Alphabet, oracle interfaces.MembershipOracle[O], config SamplingConfig) (*SamplingTeacher[O], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling config: %w", err)
	}
	return &SamplingTeacher[O]{
		alphabet: alphabet,
		oracle:   oracle,
		config:   config,
		rng:      rand.New(rand.NewSource(config.Seed)),
	}, nil
}

// Alphabet returns the input alphabet
func (t *SamplingTeacher[O]) Alphabet() sequence.Alphabet {
	return t.alphabet
}

// MembershipQuery forwards to the wrapped oracle
func (t *SamplingTeacher[O]) MembershipQuery(ctx context.Context, seq sequence.Sequence) (O, error) {
	t.stats.IncrementMembership()
	return t.oracle.Query(ctx, seq)
}

// EquivalenceQuery tests random words and returns the first disagreement
func (t *SamplingTeacher[O]) EquivalenceQuery(ctx context.Context, hypothesis *automaton.Automaton[O]) (interfaces.Verdict, error) {
	t.stats.IncrementEquivalence()

	t.mu.Lock()
	t.rounds++
	samples := t.config.Samples
	if samples == 0 {
		samples = PACSamples(t.config.Epsilon, t.config.Delta, t.rounds)
	}
	words := make([]sequence.Sequence, samples)
	for i := range words {
		words[i] = t.randomWord()
	}
	t.mu.Unlock()

	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return interfaces.Verdict{}, err
		}
		want, err := t.MembershipQuery(ctx, w)
		if err != nil {
			return interfaces.Verdict{}, fmt.Errorf("sample %s: %w", w, err)
		}
		got, known := hypothesis.Output(w)
		if !known || got != want {
			return interfaces.Reject(w), nil
		}
	}
	return interfaces.Accept(), nil
}

// Stats returns the query counters, including cache hits of a caching oracle
func (t *SamplingTeacher[O]) Stats() interfaces.QueryStats {
	stats := t.stats.Snapshot()
	if c, ok := t.oracle.(interface{ Hits() int64 }); ok {
		stats.CacheHits = c.Hits()
	}
	return stats
}

func (t *SamplingTeacher[O]) randomWord() sequence.Sequence {
	n := t.rng.Intn(t.config.MaxLength + 1)
	w := make(sequence.Sequence, n)
	for i := range w {
		w[i] = t.alphabet[t.rng.Intn(len(t.alphabet))]
	}
	return w
}
