package relation

import (
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/member"
)

// NoRepeats witnesses that no element occurs twice anywhere in Seq().
type NoRepeats[T any] interface {
	isNoRepeats()
	Seq() []T
}

type NoRepeatsNil[T any] struct{}

func (NoRepeatsNil[T]) isNoRepeats() {}
func (NoRepeatsNil[T]) Seq() []T { return nil }

// NoRepeatsCons: S[0] has no membership in S[1:] and Next covers S[1:].
type NoRepeatsCons[T any] struct {
	S    []T
	Next NoRepeats[T]
}

func (NoRepeatsCons[T]) isNoRepeats() {}
func (n NoRepeatsCons[T]) Seq() []T { return n.S }

// HasNoRepeats decides the relation. Every head is searched for in its
// tail, so the worst case is quadratic in len(s).
func HasNoRepeats[T any](o eq.Oracle[T], s []T) (NoRepeats[T], bool) {
	nr, _ := Classify(o, s)
	return nr, nr != nil
}

// CheckNoRepeats validates ev against s.
func CheckNoRepeats[T any](o eq.Oracle[T], s []T, ev NoRepeats[T]) error {
	for i := 0; ; i++ {
		switch n := ev.(type) {
		case NoRepeatsNil[T]:
			if i != len(s) {
				return fmt.Errorf("%w: evidence ends at position %d of %d", ErrMalformed, i, len(s))
			}
			return nil
		case NoRepeatsCons[T]:
			if len(n.S) != len(s)-i || i >= len(s) || !eq.Same(o, n.S[0], s[i]) {
				return fmt.Errorf("%w: node at position %d does not match", ErrMalformed, i)
			}
			if w, found := member.Find(o, s[i], s[i+1:]); found {
				return fmt.Errorf("%w: %v occurs again at position %d", ErrMalformed, s[i], i+1+w.Index())
			}
			ev = n.Next
		default:
			return fmt.Errorf("%w: unexpected no-repeats node %T", ErrMalformed, ev)
		}
	}
}
