// Package filter characterizes a boolean filter through ordered-merge
// decompositions and proves its output is the longest sub-list meeting
// the predicate.
package filter

import (
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/relation"
	"github.com/gnolang/seqcheck/internal/seq"
)

// Func is the external filter: it keeps exactly the elements of l that
// pass test, in order.
type Func[T any] func(test func(T) bool, l []T) []T

// Checker verifies filter claims against a filter collaborator.
type Checker[T any] struct {
	oracle eq.Oracle[T]
	filter Func[T]
}

// New creates a Checker backed by seq.Filter.
func New[T any](o eq.Oracle[T]) *Checker[T] {
	return NewWithFilter(o, seq.Filter[T])
}

// NewWithFilter creates a Checker backed by the given filter.
func NewWithFilter[T any](o eq.Oracle[T], f Func[T]) *Checker[T] {
	return &Checker[T]{oracle: o, filter: f}
}

func (c *Checker[T]) same(a, b T) bool {
	return eq.Same(c.oracle, a, b)
}

// VerifyDecomposition checks that ev merges l1 and l2 into l, that every
// element drawn from l1 passes test and every element drawn from l2
// fails it, and that the filter therefore yields exactly l1.
func (c *Checker[T]) VerifyDecomposition(test func(T) bool, l1, l2, l []T, ev relation.Merge[T]) error {
	if err := relation.CheckMerge(c.oracle, l1, l2, l, ev); err != nil {
		return malformed[T](err)
	}

	// Elements are read from l1, l2 and l by position; CheckMerge has
	// tied every node to those positions.
	derived := make([]T, 0, len(l1))
	i, j := 0, 0
	for {
		k := i + j
		switch n := ev.(type) {
		case relation.MergeTakeLeft[T]:
			x := l[k]
			if !test(x) {
				return &Violation[T]{Kind: KeptFails, Index: k, Elem: x}
			}
			derived = append(derived, x)
			i++
			ev = n.Next
		case relation.MergeTakeRight[T]:
			x := l[k]
			if test(x) {
				return &Violation[T]{Kind: DroppedPasses, Index: k, Elem: x}
			}
			j++
			ev = n.Next
		case relation.MergeRightDone[T]:
			for d, x := range l1[i:] {
				if !test(x) {
					return &Violation[T]{Kind: KeptFails, Index: k + d, Elem: x}
				}
			}
			derived = append(derived, l1[i:]...)
			return c.crossCheck(test, l, derived)
		case relation.MergeLeftDone[T]:
			for d, x := range l2[j:] {
				if test(x) {
					return &Violation[T]{Kind: DroppedPasses, Index: k + d, Elem: x}
				}
			}
			return c.crossCheck(test, l, derived)
		default:
			return malformed[T](fmt.Errorf("%w: unexpected merge node %T", relation.ErrMalformed, ev))
		}
	}
}

// crossCheck compares the re-derived kept list with the filter output.
func (c *Checker[T]) crossCheck(test func(T) bool, l, derived []T) error {
	out := c.filter(test, l)
	for i := 0; i < len(out) || i < len(derived); i++ {
		if i >= len(out) || i >= len(derived) || !c.same(out[i], derived[i]) {
			v := &Violation[T]{
				Kind:   FilterMismatch,
				Index:  -1,
				Detail: fmt.Sprintf("filter returned %d elements, evidence keeps %d; first difference at %d", len(out), len(derived), i),
			}
			return v
		}
	}
	return nil
}

// VerifyLongest checks that candidate is a sub-list of l whose elements
// all pass test, and that it is no longer than the filter output.
func (c *Checker[T]) VerifyLongest(test func(T) bool, l []T, candidate relation.Subseq[T]) error {
	_, _, err := c.Bound(test, l, candidate)
	return err
}

// Bound walks candidate over l and returns its length together with the
// length of the filter output, which bounds it. The bound grows by one at
// every head of l that passes test, whether the candidate keeps it or
// skips it; kept never exceeds bound at any step.
func (c *Checker[T]) Bound(test func(T) bool, l []T, candidate relation.Subseq[T]) (kept, bound int, err error) {
	if candidate == nil {
		return 0, 0, malformed[T](fmt.Errorf("%w: nil candidate", relation.ErrMalformed))
	}
	if err := relation.CheckSubseq(c.oracle, candidate.Sub(), l, candidate); err != nil {
		return 0, 0, malformed[T](err)
	}

	ev := candidate
	for k := 0; ; k++ {
		switch n := ev.(type) {
		case relation.SubseqMatch[T]:
			x := l[k]
			if !test(x) {
				return 0, 0, &Violation[T]{Kind: CandidateFails, Index: k, Elem: x}
			}
			kept++
			bound++
			ev = n.Next
		case relation.SubseqSkip[T]:
			if test(l[k]) {
				bound++
			}
			ev = n.Next
		case relation.SubseqEmpty[T]:
			bound += seq.Count(test, l[k:])
			if want := len(c.filter(test, l)); bound != want {
				return 0, 0, &Violation[T]{
					Kind:   FilterMismatch,
					Index:  -1,
					Detail: fmt.Sprintf("filter returned %d elements, %d pass the predicate", want, bound),
				}
			}
			return kept, bound, nil
		default:
			return 0, 0, malformed[T](fmt.Errorf("%w: unexpected subsequence node %T", relation.ErrMalformed, ev))
		}
		if kept > bound {
			return 0, 0, &Violation[T]{Kind: ExceedsBound, Index: k, Elem: l[k]}
		}
	}
}

// Split returns the canonical decomposition of l into the elements that
// pass test and those that fail it, with the merge evidence relating them.
func (c *Checker[T]) Split(test func(T) bool, l []T) (kept, dropped []T, ev relation.Merge[T], err error) {
	sides := make([]relation.Side, len(l))
	for i, x := range l {
		if test(x) {
			kept = append(kept, x)
			sides[i] = relation.FromLeft
		} else {
			dropped = append(dropped, x)
			sides[i] = relation.FromRight
		}
	}
	ev, err = relation.Interleave(c.oracle, kept, dropped, l, sides)
	if err != nil {
		return nil, nil, nil, err
	}
	return kept, dropped, ev, nil
}
