/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for the Akaylee L* learner. Defines the teacher and membership
oracle contracts consumed by the learning loop, the equivalence verdict, and the atomic query
counters used for diagnostics. Lives in its own package to break import cycles between the
learner and the oracle implementations.
*/

package interfaces

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// ErrTeacherContract is returned when a teacher answers outside its contract
var ErrTeacherContract = errors.New("teacher contract violation")

// MembershipOracle answers membership queries for a black-box target
// Results must be idempotent; cost need not be
type MembershipOracle[O comparable] interface {
	Query(ctx context.Context, seq sequence.Sequence) (O, error)
}

// Teacher answers membership and equivalence queries about the target
type Teacher[O comparable] interface {
	// Alphabet returns the input alphabet of the target
	Alphabet() sequence.Alphabet

	// MembershipQuery returns the target's output after reading seq
	MembershipQuery(ctx context.Context, seq sequence.Sequence) (O, error)

	// EquivalenceQuery checks a hypothesis against the target
	EquivalenceQuery(ctx context.Context, hypothesis *automaton.Automaton[O]) (Verdict, error)

	// Stats returns a snapshot of the query counters
	Stats() QueryStats
}

// OutputAlphabeter is implemented by teachers of output-producing targets
type OutputAlphabeter[O comparable] interface {
	OutputAlphabet() []O
}

// Verdict is the answer to an equivalence query
type Verdict struct {
	Equivalent     bool
	Counterexample sequence.Sequence
	// HasCounterexample distinguishes the empty counterexample from none at all
	HasCounterexample bool
}

// Accept builds a verdict confirming equivalence
func Accept() Verdict {
	return Verdict{Equivalent: true}
}

// Reject builds a verdict carrying a counterexample
func Reject(counterexample sequence.Sequence) Verdict {
	return Verdict{Counterexample: counterexample, HasCounterexample: true}
}

// Validate checks the verdict against the equivalence-query contract
func (v Verdict) Validate() error {
	switch {
	case v.Equivalent && v.HasCounterexample:
		return fmt.Errorf("%w: equivalent verdict carries counterexample %s", ErrTeacherContract, v.Counterexample)
	case !v.Equivalent && !v.HasCounterexample:
		return fmt.Errorf("%w: non-equivalent verdict without a counterexample", ErrTeacherContract)
	}
	return nil
}

// QueryStats tracks query counts
// Uses atomic operations so oracles may be shared with reporting goroutines
type QueryStats struct {
	MembershipQueries  int64 `json:"membership_queries" yaml:"membership_queries"`   // Queries answered by the target
	EquivalenceQueries int64 `json:"equivalence_queries" yaml:"equivalence_queries"` // Hypotheses checked
	CacheHits          int64 `json:"cache_hits" yaml:"cache_hits"`                   // Membership queries served from a cache
}

// IncrementMembership atomically increments the membership query counter
func (s *QueryStats) IncrementMembership() {
	atomic.AddInt64(&s.MembershipQueries, 1)
}

// IncrementEquivalence atomically increments the equivalence query counter
func (s *QueryStats) IncrementEquivalence() {
	atomic.AddInt64(&s.EquivalenceQueries, 1)
}

// IncrementCacheHits atomically increments the cache hit counter
func (s *QueryStats) IncrementCacheHits() {
	atomic.AddInt64(&s.CacheHits, 1)
}

// Snapshot returns a consistent copy of the counters
func (s *QueryStats) Snapshot() QueryStats {
	return QueryStats{
		MembershipQueries:  atomic.LoadInt64(&s.MembershipQueries),
		EquivalenceQueries: atomic.LoadInt64(&s.EquivalenceQueries),
		CacheHits:          atomic.LoadInt64(&s.CacheHits),
	}
}
