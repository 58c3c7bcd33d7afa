/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: guard.go
Description: Membership query guard. Every membership query of a run goes through here so the
time and query-length bounds are checked before the teacher is asked.
*/

package learner

import (
	"context"

	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

type guard[O comparable] struct {
	teacher        interfaces.Teacher[O]
	maxQueryLength int
}

// Query implements interfaces.MembershipOracle
func (g *guard[O]) Query(ctx context.Context, seq sequence.Sequence) (O, error) {
	var zero O
	if err := checkpoint(ctx); err != nil {
		return zero, err
	}
	if err := g.admit(seq.Len()); err != nil {
		return zero, err
	}
	return g.teacher.MembershipQuery(ctx, seq)
}

// admit checks a query length against the bound without asking anything
func (g *guard[O]) admit(length int) error {
	if g.maxQueryLength > 0 && length > g.maxQueryLength {
		return &BoundError{Reason: StopQueryLengthExceeded, Limit: g.maxQueryLength, Value: length}
	}
	return nil
}
