package relation

import (
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/member"
	"github.com/gnolang/seqcheck/internal/seq"
)

// Overlap refutes disjointness: one element with membership evidence in
// both sequences.
type Overlap[T any] struct {
	Left  member.Evidence[T]
	Right member.Evidence[T]
}

// FindOverlap returns the first element of l1 that also occurs in l2.
func FindOverlap[T any](o eq.Oracle[T], l1, l2 []T) (Overlap[T], bool) {
	for i := range l1 {
		if right, found := member.Find(o, l1[i], l2); found {
			left, _ := member.At(l1, i)
			return Overlap[T]{Left: left, Right: right}, true
		}
	}
	return Overlap[T]{}, false
}

// AreDisjoint reports whether no element of l1 occurs in l2.
func AreDisjoint[T any](o eq.Oracle[T], l1, l2 []T) bool {
	_, found := FindOverlap(o, l1, l2)
	return !found
}

// RepeatsFromOverlap turns an overlap between l1 and l2 into a repeat in
// l1 ++ l2.
func RepeatsFromOverlap[T any](l1, l2 []T, ov Overlap[T]) (Repeats[T], error) {
	if ov.Left == nil || ov.Right == nil {
		return nil, fmt.Errorf("%w: incomplete overlap", ErrMalformed)
	}
	if len(ov.Left.Seq()) != len(l1) || len(ov.Right.Seq()) != len(l2) {
		return nil, fmt.Errorf("%w: overlap is about different sequences", ErrMalformed)
	}
	i := ov.Left.Index()
	cat := seq.Append(l1, l2)
	w, err := member.At(cat[i+1:], len(l1)-i-1+ov.Right.Index())
	if err != nil {
		return nil, err
	}
	return RepeatsAt(cat, i, w)
}

// DisjointFromNoRepeats derives disjointness of l1 and l2 from evidence
// that l1 ++ l2 has no repeats. A nil result means l1 and l2 are
// disjoint. Any overlap would yield a repeat in l1 ++ l2, which the
// evidence rules out; finding one reports ErrContradiction.
func DisjointFromNoRepeats[T any](o eq.Oracle[T], l1, l2 []T, ev NoRepeats[T]) error {
	cat := seq.Append(l1, l2)
	if err := CheckNoRepeats(o, cat, ev); err != nil {
		return err
	}
	ov, found := FindOverlap(o, l1, l2)
	if !found {
		return nil
	}
	r, err := RepeatsFromOverlap(l1, l2, ov)
	if err != nil {
		return err
	}
	x, first, second, _ := Positions(r)
	return fmt.Errorf("%w: %v at positions %d and %d of a repeat-free sequence", ErrContradiction, x, first, second)
}
