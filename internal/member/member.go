// Package member implements the membership relation: evidence that an
// element occurs at a specific position of a sequence.
//
// Evidence is a chain of Later nodes ending in a Here node. The number of
// Later nodes is the position of the element. All functions build and
// consume chains with loops, so arbitrarily long sequences are safe.
package member

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/seq"
)

var (
	ErrNotMember       = errors.New("element is not a member")
	ErrInvalidEvidence = errors.New("invalid membership evidence")
	ErrOutOfRange      = errors.New("position out of range")
	ErrRemoved         = errors.New("evidence points at the removed position")
)

// Evidence witnesses that Elem() occurs in Seq() at Index().
type Evidence[T any] interface {
	isEvidence()
	Elem() T
	Seq() []T
	Index() int
}

// Here states that the element is the head of S.
type Here[T any] struct {
	S []T
}

func (Here[T]) isEvidence() {}
func (e Here[T]) Elem() T {
	if len(e.S) == 0 {
		var zero T
		return zero
	}
	return e.S[0]
}
func (e Here[T]) Seq() []T { return e.S }
func (Here[T]) Index() int { return 0 }

// Later states that the element occurs in the tail of S; Sub is the
// evidence over S[1:].
type Later[T any] struct {
	S   []T
	Sub Evidence[T]
}

func (Later[T]) isEvidence() {}
func (e Later[T]) Seq() []T { return e.S }

func (e Later[T]) Elem() T {
	_, here, _ := unwind[T](e)
	if len(here.S) == 0 {
		var zero T
		return zero
	}
	return here.S[0]
}

func (e Later[T]) Index() int {
	n := 0
	var cur Evidence[T] = e
	for {
		l, ok := cur.(Later[T])
		if !ok {
			return n
		}
		n++
		cur = l.Sub
	}
}

// unwind walks the Later chain and returns the skipped heads and the
// terminating Here node.
func unwind[T any](ev Evidence[T]) ([]T, Here[T], error) {
	var prefix []T
	for {
		switch n := ev.(type) {
		case Here[T]:
			if len(n.S) == 0 {
				return nil, Here[T]{}, fmt.Errorf("%w: here over empty sequence", ErrInvalidEvidence)
			}
			return prefix, n, nil
		case Later[T]:
			if len(n.S) == 0 {
				return nil, Here[T]{}, fmt.Errorf("%w: later over empty sequence", ErrInvalidEvidence)
			}
			prefix = append(prefix, n.S[0])
			ev = n.Sub
		default:
			return nil, Here[T]{}, fmt.Errorf("%w: unexpected node %T", ErrInvalidEvidence, ev)
		}
	}
}

// wellFormed reports whether ev is a non-nil chain ending in a Here over
// a non-empty sequence.
func wellFormed[T any](ev Evidence[T]) error {
	if ev == nil {
		return fmt.Errorf("%w: nil", ErrInvalidEvidence)
	}
	_, _, err := unwind(ev)
	return err
}

// At builds the evidence for the element at position i of s.
func At[T any](s []T, i int) (Evidence[T], error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, len(s))
	}
	var ev Evidence[T] = Here[T]{S: s[i:]}
	for j := i - 1; j >= 0; j-- {
		ev = Later[T]{S: s[j:], Sub: ev}
	}
	return ev, nil
}

// Find returns evidence for the first occurrence of x in s.
// It reports false when x does not occur.
func Find[T any](o eq.Oracle[T], x T, s []T) (Evidence[T], bool) {
	for i := range s {
		if eq.Same(o, x, s[i]) {
			ev, _ := At(s, i)
			return ev, true
		}
	}
	return nil, false
}

// Verify checks that ev is genuine evidence for x in s.
func Verify[T any](o eq.Oracle[T], x T, s []T, ev Evidence[T]) error {
	if ev == nil {
		return fmt.Errorf("%w: nil", ErrInvalidEvidence)
	}
	same := func(a, b T) bool { return eq.Same(o, a, b) }
	cur := ev
	for i := 0; ; i++ {
		if i >= len(s) {
			return fmt.Errorf("%w: chain longer than sequence", ErrInvalidEvidence)
		}
		switch n := cur.(type) {
		case Here[T]:
			if !seq.Equal(same, n.S, s[i:]) {
				return fmt.Errorf("%w: sequence mismatch at position %d", ErrInvalidEvidence, i)
			}
			if !same(x, n.S[0]) {
				return fmt.Errorf("%w: position %d holds %v, not %v", ErrInvalidEvidence, i, n.S[0], x)
			}
			return nil
		case Later[T]:
			if len(n.S) != len(s)-i || !same(n.S[0], s[i]) {
				return fmt.Errorf("%w: sequence mismatch at position %d", ErrInvalidEvidence, i)
			}
			cur = n.Sub
		default:
			return fmt.Errorf("%w: unexpected node %T", ErrInvalidEvidence, cur)
		}
	}
}

// SplitAt recovers prefix and suffix such that
// ev.Seq() = prefix ++ [ev.Elem()] ++ suffix.
func SplitAt[T any](ev Evidence[T]) (prefix, suffix []T, err error) {
	prefix, here, err := unwind(ev)
	if err != nil {
		return nil, nil, err
	}
	return prefix, slices.Clone(here.S[1:]), nil
}

// Remove returns the sequence with the evidenced occurrence deleted.
func Remove[T any](ev Evidence[T]) ([]T, error) {
	prefix, suffix, err := SplitAt(ev)
	if err != nil {
		return nil, err
	}
	return seq.Append(prefix, suffix), nil
}

// Reindex maps position i of a sequence to its position after the element
// at removed has been deleted.
func Reindex(i, removed int) (int, error) {
	switch {
	case i == removed:
		return 0, fmt.Errorf("%w: %d", ErrRemoved, i)
	case i < removed:
		return i, nil
	default:
		return i - 1, nil
	}
}

// Without transports ev across the removal of the occurrence named by at.
// Both must be evidence over the same sequence.
func Without[T any](ev, at Evidence[T]) (Evidence[T], error) {
	if err := wellFormed(ev); err != nil {
		return nil, err
	}
	if err := wellFormed(at); err != nil {
		return nil, err
	}
	if len(ev.Seq()) != len(at.Seq()) {
		return nil, fmt.Errorf("%w: evidence over different sequences", ErrInvalidEvidence)
	}
	i, err := Reindex(ev.Index(), at.Index())
	if err != nil {
		return nil, err
	}
	rest, err := Remove(at)
	if err != nil {
		return nil, err
	}
	return At(rest, i)
}

// InAppendLeft lifts evidence for x in l1 to evidence for x in l1 ++ l2.
func InAppendLeft[T any](ev Evidence[T], l2 []T) (Evidence[T], error) {
	if err := wellFormed(ev); err != nil {
		return nil, err
	}
	return At(seq.Append(ev.Seq(), l2), ev.Index())
}

// InAppendRight lifts evidence for x in l2 to evidence for x in l1 ++ l2.
func InAppendRight[T any](l1 []T, ev Evidence[T]) (Evidence[T], error) {
	if err := wellFormed(ev); err != nil {
		return nil, err
	}
	return At(seq.Append(l1, ev.Seq()), len(l1)+ev.Index())
}
