/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stop.go
Description: Soft stop conditions of a bounded learning run. A BoundError travels up the call
stack like any other error and is converted into a flagged result at the Learn boundary.
*/

package learner

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoProgress is returned when counterexample incorporation fails to grow the table
var ErrNoProgress = errors.New("counterexample did not grow the observation table")

// StopReason tells why a run ended before the teacher accepted a hypothesis
type StopReason int

const (
	StopNone                StopReason = iota // Teacher accepted the hypothesis
	StopStatesExceeded                        // Hypothesis grew beyond MaxStates
	StopQueryLengthExceeded                   // A query would have exceeded MaxQueryLength
	StopTimedOut                              // MaxTime elapsed or the context deadline passed
)

// String returns the reason as used in logs and reports
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "converged"
	case StopStatesExceeded:
		return "states_exceeded"
	case StopQueryLengthExceeded:
		return "query_length_exceeded"
	case StopTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("stop_reason(%d)", int(r))
	}
}

// MarshalText lets reports encode the reason by name
func (r StopReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// BoundError signals that a resource bound was hit
type BoundError struct {
	Reason StopReason
	Limit  int // Bound that was hit; zero for time
	Value  int // Observed value that crossed it
}

func (e *BoundError) Error() string {
	switch e.Reason {
	case StopStatesExceeded:
		return fmt.Sprintf("hypothesis has %d states, bound is %d", e.Value, e.Limit)
	case StopQueryLengthExceeded:
		return fmt.Sprintf("query of length %d exceeds bound %d", e.Value, e.Limit)
	default:
		return "learning time bound exceeded"
	}
}

// asBound maps err onto a BoundError when it denotes a soft stop.
// Deadline expiry, whether from MaxTime or the caller's context, counts as a time stop.
func asBound(err error) (*BoundError, bool) {
	var be *BoundError
	if errors.As(err, &be) {
		return be, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &BoundError{Reason: StopTimedOut}, true
	}
	return nil, false
}

// checkpoint is the cooperative cancellation point of the loop
func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &BoundError{Reason: StopTimedOut}
		}
		return err
	}
	return nil
}
