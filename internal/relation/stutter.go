package relation

import (
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
)

// StutterFree witnesses that no two adjacent elements are equal.
type StutterFree[T any] interface {
	isStutterFree()
	Seq() []T
}

type StutterNil[T any] struct{}

func (StutterNil[T]) isStutterFree() {}
func (StutterNil[T]) Seq() []T { return nil }

type StutterOne[T any] struct {
	X T
}

func (StutterOne[T]) isStutterFree() {}
func (s StutterOne[T]) Seq() []T { return []T{s.X} }

// StutterCons: S[0] differs from S[1] and Next covers S[1:].
type StutterCons[T any] struct {
	S    []T
	Next StutterFree[T]
}

func (StutterCons[T]) isStutterFree() {}
func (s StutterCons[T]) Seq() []T { return s.S }

// Stutter returns the position of the first element equal to its
// successor.
func Stutter[T any](o eq.Oracle[T], s []T) (int, bool) {
	for i := 0; i+1 < len(s); i++ {
		if eq.Same(o, s[i], s[i+1]) {
			return i, true
		}
	}
	return 0, false
}

// IsStutterFree decides the relation with one pass over adjacent pairs.
func IsStutterFree[T any](o eq.Oracle[T], s []T) (StutterFree[T], bool) {
	if _, found := Stutter(o, s); found {
		return nil, false
	}
	if len(s) == 0 {
		return StutterNil[T]{}, true
	}
	var ev StutterFree[T] = StutterOne[T]{X: s[len(s)-1]}
	for i := len(s) - 2; i >= 0; i-- {
		ev = StutterCons[T]{S: s[i:], Next: ev}
	}
	return ev, true
}

// CheckStutterFree validates ev against s.
func CheckStutterFree[T any](o eq.Oracle[T], s []T, ev StutterFree[T]) error {
	for i := 0; ; i++ {
		switch n := ev.(type) {
		case StutterNil[T]:
			if len(s) != 0 {
				return fmt.Errorf("%w: empty evidence for %d elements", ErrMalformed, len(s))
			}
			return nil
		case StutterOne[T]:
			if len(s)-i != 1 || !eq.Same(o, n.X, s[i]) {
				return fmt.Errorf("%w: singleton evidence at position %d", ErrMalformed, i)
			}
			return nil
		case StutterCons[T]:
			if len(n.S) != len(s)-i || len(n.S) < 2 || !eq.Same(o, n.S[0], s[i]) {
				return fmt.Errorf("%w: cons evidence at position %d", ErrMalformed, i)
			}
			if eq.Same(o, s[i], s[i+1]) {
				return fmt.Errorf("%w: %v repeats at positions %d and %d", ErrMalformed, s[i], i, i+1)
			}
			ev = n.Next
		default:
			return fmt.Errorf("%w: unexpected stutter node %T", ErrMalformed, ev)
		}
	}
}
