/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: oracle.go
Description: Membership oracle adapters shared by the teacher implementations.
*/

package oracle

import (
	"context"
	"errors"

	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// ErrUndefined is returned when a target model has no behaviour for a query
var ErrUndefined = errors.New("target behaviour undefined")

// FuncOracle adapts a plain function into a membership oracle
type FuncOracle[O comparable] func(ctx context.Context, seq sequence.Sequence) (O, error)

// Query calls the function
func (f FuncOracle[O]) Query(ctx context.Context, seq sequence.Sequence) (O, error) {
	return f(ctx, seq)
}

// Predicate builds a boolean oracle from a pure membership test
func Predicate(accepts func(sequence.Sequence) bool) FuncOracle[bool] {
	return func(ctx context.Context, seq sequence.Sequence) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return accepts(seq), nil
	}
}
