package relation

import (
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/seq"
)

// Subseq witnesses that Sub() is an order-preserving sub-list of Super().
type Subseq[T any] interface {
	isSubseq()
	Sub() []T
	Super() []T
}

// SubseqEmpty: the empty list is a subsequence of L.
type SubseqEmpty[T any] struct {
	L []T
}

func (SubseqEmpty[T]) isSubseq() {}
func (SubseqEmpty[T]) Sub() []T { return nil }
func (s SubseqEmpty[T]) Super() []T { return s.L }

// SubseqMatch: M[0] is L[0] and Next relates M[1:] to L[1:].
type SubseqMatch[T any] struct {
	M, L []T
	Next Subseq[T]
}

func (SubseqMatch[T]) isSubseq() {}
func (s SubseqMatch[T]) Sub() []T { return s.M }
func (s SubseqMatch[T]) Super() []T { return s.L }

// SubseqSkip: L[0] is dropped and Next relates M to L[1:].
type SubseqSkip[T any] struct {
	M, L []T
	Next Subseq[T]
}

func (SubseqSkip[T]) isSubseq() {}
func (s SubseqSkip[T]) Sub() []T { return s.M }
func (s SubseqSkip[T]) Super() []T { return s.L }

// IsSubsequence decides whether m is a subsequence of l. Matching is
// greedy, which is complete for this relation, so the cost is linear in
// len(l).
func IsSubsequence[T any](o eq.Oracle[T], m, l []T) (Subseq[T], bool) {
	steps := make([]bool, 0, len(l))
	i := 0
	for j := 0; j < len(l) && i < len(m); j++ {
		match := eq.Same(o, m[i], l[j])
		steps = append(steps, match)
		if match {
			i++
		}
	}
	if i < len(m) {
		return nil, false
	}
	return buildSubseq(m, l, steps), true
}

// Reflexive returns the evidence that l is a subsequence of itself.
func Reflexive[T any](l []T) Subseq[T] {
	steps := make([]bool, len(l))
	for i := range steps {
		steps[i] = true
	}
	return buildSubseq(l, l, steps)
}

// buildSubseq assembles evidence from per-element choices over l; true
// keeps the element. The number of kept elements must equal len(m).
func buildSubseq[T any](m, l []T, steps []bool) Subseq[T] {
	i, j := len(m), len(steps)
	var ev Subseq[T] = SubseqEmpty[T]{L: l[j:]}
	for k := len(steps) - 1; k >= 0; k-- {
		j--
		if steps[k] {
			i--
			ev = SubseqMatch[T]{M: m[i:], L: l[j:], Next: ev}
		} else {
			ev = SubseqSkip[T]{M: m[i:], L: l[j:], Next: ev}
		}
	}
	return ev
}

// subseqSteps flattens evidence into its per-element choices.
func subseqSteps[T any](ev Subseq[T]) ([]bool, error) {
	var steps []bool
	for {
		switch n := ev.(type) {
		case SubseqEmpty[T]:
			return steps, nil
		case SubseqMatch[T]:
			steps = append(steps, true)
			ev = n.Next
		case SubseqSkip[T]:
			steps = append(steps, false)
			ev = n.Next
		default:
			return nil, fmt.Errorf("%w: unexpected subsequence node %T", ErrMalformed, ev)
		}
	}
}

// SubseqOfEmpty discharges evidence whose super-sequence is empty: the
// only such evidence is SubseqEmpty, so the sub-sequence is empty too.
func SubseqOfEmpty[T any](ev Subseq[T]) error {
	if len(ev.Super()) != 0 {
		return fmt.Errorf("%w: super-sequence has %d elements", ErrMalformed, len(ev.Super()))
	}
	switch ev.(type) {
	case SubseqEmpty[T]:
		return nil
	default:
		return fmt.Errorf("%w: %T over an empty super-sequence", ErrMalformed, ev)
	}
}

// CheckSubseq validates that ev shows m to be a subsequence of l.
func CheckSubseq[T any](o eq.Oracle[T], m, l []T, ev Subseq[T]) error {
	if ev == nil {
		return fmt.Errorf("%w: nil subsequence evidence", ErrMalformed)
	}
	same := func(a, b T) bool { return eq.Same(o, a, b) }
	if !seq.Equal(same, ev.Sub(), m) || !seq.Equal(same, ev.Super(), l) {
		return fmt.Errorf("%w: evidence is about different sequences", ErrMalformed)
	}

	i, j := 0, 0
	for {
		if !seq.Equal(same, ev.Sub(), m[i:]) || !seq.Equal(same, ev.Super(), l[j:]) {
			return fmt.Errorf("%w: node at position %d is not about the suffixes there", ErrMalformed, j)
		}
		switch n := ev.(type) {
		case SubseqEmpty[T]:
			if i != len(m) {
				return fmt.Errorf("%w: %d elements left unmatched", ErrMalformed, len(m)-i)
			}
			return nil
		case SubseqMatch[T]:
			if i >= len(m) || j >= len(l) || !same(m[i], l[j]) {
				return fmt.Errorf("%w: position %d matched to a different element", ErrMalformed, j)
			}
			i++
			j++
			ev = n.Next
		case SubseqSkip[T]:
			if j >= len(l) {
				return fmt.Errorf("%w: skip past the end", ErrMalformed)
			}
			j++
			ev = n.Next
		default:
			return fmt.Errorf("%w: unexpected subsequence node %T", ErrMalformed, ev)
		}
		if ev == nil {
			return fmt.Errorf("%w: node at position %d has no successor", ErrMalformed, j)
		}
	}
}

// Trans composes a ⊑ b and b ⊑ c into a ⊑ c.
func Trans[T any](ab, bc Subseq[T]) (Subseq[T], error) {
	if len(ab.Super()) != len(bc.Sub()) {
		return nil, fmt.Errorf("%w: middle sequences differ in length", ErrMalformed)
	}
	abSteps, err := subseqSteps(ab)
	if err != nil {
		return nil, err
	}
	bcSteps, err := subseqSteps(bc)
	if err != nil {
		return nil, err
	}

	steps := make([]bool, 0, len(bcSteps))
	k, kept := 0, 0 // next element of b, elements of a placed
	for _, inB := range bcSteps {
		if !inB {
			steps = append(steps, false)
			continue
		}
		inA := k < len(abSteps) && abSteps[k]
		if inA {
			kept++
		}
		steps = append(steps, inA)
		k++
	}
	if k != len(bc.Sub()) || kept != len(ab.Sub()) {
		return nil, fmt.Errorf("%w: evidence does not cover its sequences", ErrMalformed)
	}
	return buildSubseq(ab.Sub(), bc.Super(), steps), nil
}

// AppendRight extends m ⊑ l to m ⊑ l ++ tail.
func AppendRight[T any](ev Subseq[T], tail []T) (Subseq[T], error) {
	steps, err := subseqSteps(ev)
	if err != nil {
		return nil, err
	}
	if len(steps) > len(ev.Super()) || seq.Count(func(b bool) bool { return b }, steps) != len(ev.Sub()) {
		return nil, fmt.Errorf("%w: evidence does not cover its sequences", ErrMalformed)
	}
	return buildSubseq(ev.Sub(), seq.Append(ev.Super(), tail), steps), nil
}
