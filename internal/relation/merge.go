package relation

import (
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/seq"
)

// Side names the input a merged element was taken from.
type Side int

const (
	FromLeft Side = iota
	FromRight
)

func (s Side) String() string {
	switch s {
	case FromLeft:
		return "left"
	case FromRight:
		return "right"
	default:
		return "?"
	}
}

// Merge witnesses that Merged() is an order-preserving interleaving of
// Left() and Right().
type Merge[T any] interface {
	isMerge()
	Left() []T
	Right() []T
	Merged() []T
}

// MergeLeftDone: the left input is exhausted and the rest is L2.
type MergeLeftDone[T any] struct {
	L2 []T
}

func (MergeLeftDone[T]) isMerge() {}
func (MergeLeftDone[T]) Left() []T { return nil }
func (m MergeLeftDone[T]) Right() []T { return m.L2 }
func (m MergeLeftDone[T]) Merged() []T { return m.L2 }

// MergeRightDone: the right input is exhausted and the rest is L1.
type MergeRightDone[T any] struct {
	L1 []T
}

func (MergeRightDone[T]) isMerge() {}
func (m MergeRightDone[T]) Left() []T { return m.L1 }
func (MergeRightDone[T]) Right() []T { return nil }
func (m MergeRightDone[T]) Merged() []T { return m.L1 }

// MergeTakeLeft: L[0] is L1[0]; Next merges L1[1:] and L2 into L[1:].
type MergeTakeLeft[T any] struct {
	L1, L2, L []T
	Next      Merge[T]
}

func (MergeTakeLeft[T]) isMerge() {}
func (m MergeTakeLeft[T]) Left() []T { return m.L1 }
func (m MergeTakeLeft[T]) Right() []T { return m.L2 }
func (m MergeTakeLeft[T]) Merged() []T { return m.L }

// MergeTakeRight: L[0] is L2[0]; Next merges L1 and L2[1:] into L[1:].
type MergeTakeRight[T any] struct {
	L1, L2, L []T
	Next      Merge[T]
}

func (MergeTakeRight[T]) isMerge() {}
func (m MergeTakeRight[T]) Left() []T { return m.L1 }
func (m MergeTakeRight[T]) Right() []T { return m.L2 }
func (m MergeTakeRight[T]) Merged() []T { return m.L }

// MergeLen returns the lengths of the merged sequence and of both inputs.
// For any evidence merged == left + right.
func MergeLen[T any](ev Merge[T]) (merged, left, right int) {
	return len(ev.Merged()), len(ev.Left()), len(ev.Right())
}

// IsMerge decides whether l is an ordered interleaving of l1 and l2 and
// returns one decomposition when it is. Where several decompositions
// exist the one taking from the left first is returned; callers that need
// a specific decomposition use Interleave.
//
// The decision fills a (len(l1)+1) x (len(l2)+1) table, so it is bounded
// by the product of the input lengths and never backtracks.
func IsMerge[T any](o eq.Oracle[T], l1, l2, l []T) (Merge[T], bool) {
	n1, n2 := len(l1), len(l2)
	if len(l) != n1+n2 {
		return nil, false
	}
	same := func(a, b T) bool { return eq.Same(o, a, b) }

	// ok[i][j]: l[i+j:] is a merge of l1[i:] and l2[j:]
	ok := make([][]bool, n1+1)
	for i := range ok {
		ok[i] = make([]bool, n2+1)
	}
	ok[n1][n2] = true
	for j := n2 - 1; j >= 0; j-- {
		ok[n1][j] = ok[n1][j+1] && same(l2[j], l[n1+j])
	}
	for i := n1 - 1; i >= 0; i-- {
		ok[i][n2] = ok[i+1][n2] && same(l1[i], l[i+n2])
	}
	for i := n1 - 1; i >= 0; i-- {
		for j := n2 - 1; j >= 0; j-- {
			k := i + j
			ok[i][j] = (same(l1[i], l[k]) && ok[i+1][j]) || (same(l2[j], l[k]) && ok[i][j+1])
		}
	}
	if !ok[0][0] {
		return nil, false
	}

	var sides []Side
	i, j := 0, 0
	for i < n1 && j < n2 {
		if same(l1[i], l[i+j]) && ok[i+1][j] {
			sides = append(sides, FromLeft)
			i++
		} else {
			sides = append(sides, FromRight)
			j++
		}
	}
	return buildMerge(l1, l2, l, sides), true
}

// Interleave checks the decomposition described by sides and returns its
// evidence. sides lists, for each element of l in order, the input it
// came from; it may stop as soon as either input is exhausted.
func Interleave[T any](o eq.Oracle[T], l1, l2, l []T, sides []Side) (Merge[T], error) {
	n1, n2 := len(l1), len(l2)
	if len(l) != n1+n2 {
		return nil, fmt.Errorf("%w: merged length %d, inputs %d+%d", ErrMalformed, len(l), n1, n2)
	}
	same := func(a, b T) bool { return eq.Same(o, a, b) }

	i, j := 0, 0
	for k, side := range sides {
		switch side {
		case FromLeft:
			if i >= n1 {
				return nil, fmt.Errorf("%w: step %d takes from exhausted left input", ErrMalformed, k)
			}
			if !same(l1[i], l[k]) {
				return nil, fmt.Errorf("%w: step %d: merged element %v is not left element %v", ErrMalformed, k, l[k], l1[i])
			}
			i++
		case FromRight:
			if j >= n2 {
				return nil, fmt.Errorf("%w: step %d takes from exhausted right input", ErrMalformed, k)
			}
			if !same(l2[j], l[k]) {
				return nil, fmt.Errorf("%w: step %d: merged element %v is not right element %v", ErrMalformed, k, l[k], l2[j])
			}
			j++
		default:
			return nil, fmt.Errorf("%w: step %d has unknown side %d", ErrMalformed, k, side)
		}
	}

	switch {
	case i == n1:
		if !seq.Equal(same, l2[j:], l[i+j:]) {
			return nil, fmt.Errorf("%w: remainder after step %d is not the right input", ErrMalformed, len(sides))
		}
	case j == n2:
		if !seq.Equal(same, l1[i:], l[i+j:]) {
			return nil, fmt.Errorf("%w: remainder after step %d is not the left input", ErrMalformed, len(sides))
		}
	default:
		return nil, fmt.Errorf("%w: decomposition stops at step %d with both inputs pending", ErrMalformed, len(sides))
	}
	return buildMerge(l1, l2, l, sides), nil
}

func buildMerge[T any](l1, l2, l []T, sides []Side) Merge[T] {
	i, j := 0, 0
	for _, side := range sides {
		if side == FromLeft {
			i++
		} else {
			j++
		}
	}

	var ev Merge[T]
	if i == len(l1) {
		ev = MergeLeftDone[T]{L2: l2[j:]}
	} else {
		ev = MergeRightDone[T]{L1: l1[i:]}
	}
	for k := len(sides) - 1; k >= 0; k-- {
		if sides[k] == FromLeft {
			i--
			ev = MergeTakeLeft[T]{L1: l1[i:], L2: l2[j:], L: l[i+j:], Next: ev}
		} else {
			j--
			ev = MergeTakeRight[T]{L1: l1[i:], L2: l2[j:], L: l[i+j:], Next: ev}
		}
	}
	return ev
}

// Sides flattens evidence into the list of choices it records, followed
// by the base case reached.
func Sides[T any](ev Merge[T]) ([]Side, error) {
	var sides []Side
	for {
		switch n := ev.(type) {
		case MergeLeftDone[T], MergeRightDone[T]:
			return sides, nil
		case MergeTakeLeft[T]:
			sides = append(sides, FromLeft)
			ev = n.Next
		case MergeTakeRight[T]:
			sides = append(sides, FromRight)
			ev = n.Next
		default:
			return nil, fmt.Errorf("%w: unexpected merge node %T", ErrMalformed, ev)
		}
	}
}

// CheckMerge validates that ev decomposes l into l1 and l2.
func CheckMerge[T any](o eq.Oracle[T], l1, l2, l []T, ev Merge[T]) error {
	if ev == nil {
		return fmt.Errorf("%w: nil merge evidence", ErrMalformed)
	}
	same := func(a, b T) bool { return eq.Same(o, a, b) }
	if !seq.Equal(same, ev.Left(), l1) || !seq.Equal(same, ev.Right(), l2) || !seq.Equal(same, ev.Merged(), l) {
		return fmt.Errorf("%w: evidence is about different sequences", ErrMalformed)
	}
	sides, err := Sides(ev)
	if err != nil {
		return err
	}
	if err := checkMergeNodes(same, l1, l2, l, ev); err != nil {
		return err
	}
	_, err = Interleave(o, l1, l2, l, sides)
	return err
}

// checkMergeNodes verifies that every node of ev carries exactly the
// suffixes l1[i:], l2[j:] and l[i+j:] its position implies.
func checkMergeNodes[T any](same func(a, b T) bool, l1, l2, l []T, ev Merge[T]) error {
	if len(l) != len(l1)+len(l2) {
		return fmt.Errorf("%w: merged length %d, inputs %d+%d", ErrMalformed, len(l), len(l1), len(l2))
	}
	i, j := 0, 0
	for depth := 0; ; depth++ {
		if !seq.Equal(same, ev.Left(), l1[i:]) || !seq.Equal(same, ev.Right(), l2[j:]) || !seq.Equal(same, ev.Merged(), l[i+j:]) {
			return fmt.Errorf("%w: node %d is not about the suffixes at its position", ErrMalformed, depth)
		}
		switch n := ev.(type) {
		case MergeLeftDone[T]:
			if i != len(l1) {
				return fmt.Errorf("%w: node %d ends the left input early", ErrMalformed, depth)
			}
			return nil
		case MergeRightDone[T]:
			if j != len(l2) {
				return fmt.Errorf("%w: node %d ends the right input early", ErrMalformed, depth)
			}
			return nil
		case MergeTakeLeft[T]:
			if len(n.L1) == 0 || len(n.L) == 0 || !same(n.L1[0], n.L[0]) {
				return fmt.Errorf("%w: node %d takes a mismatched left head", ErrMalformed, depth)
			}
			i++
			ev = n.Next
		case MergeTakeRight[T]:
			if len(n.L2) == 0 || len(n.L) == 0 || !same(n.L2[0], n.L[0]) {
				return fmt.Errorf("%w: node %d takes a mismatched right head", ErrMalformed, depth)
			}
			j++
			ev = n.Next
		default:
			return fmt.Errorf("%w: unexpected merge node %T", ErrMalformed, ev)
		}
		if ev == nil {
			return fmt.Errorf("%w: node %d has no successor", ErrMalformed, depth)
		}
	}
}
