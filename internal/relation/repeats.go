package relation

import (
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/member"
)

// Repeats witnesses that some element occurs at least twice.
type Repeats[T any] interface {
	isRepeats()
	Seq() []T
}

// RepeatsHere: S[0] occurs again in S[1:], as shown by Witness.
type RepeatsHere[T any] struct {
	S       []T
	Witness member.Evidence[T]
}

func (RepeatsHere[T]) isRepeats() {}
func (r RepeatsHere[T]) Seq() []T { return r.S }

// RepeatsLater: the repeat lies in S[1:].
type RepeatsLater[T any] struct {
	S    []T
	Next Repeats[T]
}

func (RepeatsLater[T]) isRepeats() {}
func (r RepeatsLater[T]) Seq() []T { return r.S }

// RepeatsAt builds the evidence for a repeat whose first occurrence is at
// position i of s; w is the membership of s[i] in s[i+1:].
func RepeatsAt[T any](s []T, i int, w member.Evidence[T]) (Repeats[T], error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: repeat position %d out of range", ErrMalformed, i)
	}
	if w == nil || len(w.Seq()) != len(s)-i-1 {
		return nil, fmt.Errorf("%w: witness is not about the tail at %d", ErrMalformed, i)
	}
	var ev Repeats[T] = RepeatsHere[T]{S: s[i:], Witness: w}
	for j := i - 1; j >= 0; j-- {
		ev = RepeatsLater[T]{S: s[j:], Next: ev}
	}
	return ev, nil
}

// Positions returns the element that repeats and the positions of its two
// occurrences named by ev.
func Positions[T any](ev Repeats[T]) (x T, first, second int, err error) {
	for depth := 0; ; depth++ {
		switch n := ev.(type) {
		case RepeatsHere[T]:
			if len(n.S) == 0 || n.Witness == nil {
				return x, 0, 0, fmt.Errorf("%w: empty repeat node", ErrMalformed)
			}
			return n.S[0], depth, depth + 1 + n.Witness.Index(), nil
		case RepeatsLater[T]:
			ev = n.Next
		default:
			return x, 0, 0, fmt.Errorf("%w: unexpected repeats node %T", ErrMalformed, ev)
		}
	}
}

// FindRepeats returns evidence for the first element, nearest the head,
// that occurs again later in s.
func FindRepeats[T any](o eq.Oracle[T], s []T) (Repeats[T], bool) {
	_, r := Classify(o, s)
	return r, r != nil
}

// Classify returns exactly one of NoRepeats or Repeats evidence for s.
func Classify[T any](o eq.Oracle[T], s []T) (NoRepeats[T], Repeats[T]) {
	for i := range s {
		if w, found := member.Find(o, s[i], s[i+1:]); found {
			r, _ := RepeatsAt(s, i, w)
			return nil, r
		}
	}
	var ev NoRepeats[T] = NoRepeatsNil[T]{}
	for i := len(s) - 1; i >= 0; i-- {
		ev = NoRepeatsCons[T]{S: s[i:], Next: ev}
	}
	return ev, nil
}

// CheckRepeats validates that ev shows a repeat in s.
func CheckRepeats[T any](o eq.Oracle[T], s []T, ev Repeats[T]) error {
	for i := 0; ; i++ {
		if ev == nil || len(ev.Seq()) != len(s)-i || i >= len(s) {
			return fmt.Errorf("%w: repeat node at position %d does not match", ErrMalformed, i)
		}
		if !eq.Same(o, ev.Seq()[0], s[i]) {
			return fmt.Errorf("%w: repeat node at position %d does not match", ErrMalformed, i)
		}
		switch n := ev.(type) {
		case RepeatsHere[T]:
			if err := member.Verify(o, s[i], s[i+1:], n.Witness); err != nil {
				return fmt.Errorf("%w: witness at position %d: %v", ErrMalformed, i, err)
			}
			return nil
		case RepeatsLater[T]:
			ev = n.Next
		default:
			return fmt.Errorf("%w: unexpected repeats node %T", ErrMalformed, ev)
		}
	}
}
