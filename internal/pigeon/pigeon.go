// Package pigeon extracts a repeated item from more items than labels.
//
// The extraction is constructive: it never assumes a repeat exists, it
// builds the relation.Repeats evidence. The only decision it needs is
// membership, which member.Find settles through the equality oracle.
package pigeon

import (
	"errors"
	"fmt"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/member"
	"github.com/gnolang/seqcheck/internal/relation"
	"github.com/gnolang/seqcheck/internal/seq"
)

var (
	// ErrPrecondition is returned when there are not more items than
	// labels or an item has no genuine membership evidence in labels.
	ErrPrecondition = errors.New("pigeonhole precondition violated")
	// ErrUnreachable is returned when the search reaches a state its
	// preconditions exclude; it indicates an inconsistent oracle.
	ErrUnreachable = errors.New("pigeonhole reached an unreachable state")
)

// Assignment returns evidence that item i, x, is a member of the labels.
type Assignment[T any] func(i int, x T) (member.Evidence[T], error)

// Inclusion assigns every item to its first occurrence in labels.
func Inclusion[T any](o eq.Oracle[T], labels []T) Assignment[T] {
	return func(i int, x T) (member.Evidence[T], error) {
		ev, found := member.Find(o, x, labels)
		if !found {
			return nil, fmt.Errorf("%w: item %d (%v)", member.ErrNotMember, i, x)
		}
		return ev, nil
	}
}

// FindRepeat returns evidence that some item occurs twice in items, given
// that every item is a member of labels and labels is shorter than items.
//
// Each round looks at the head x of the remaining items. If x occurs in
// the rest, that is the repeat. Otherwise x's label occurrence is split
// out of labels, every remaining item's evidence is moved to the shorter
// label list, and the next round starts. Items and labels both shrink by
// one per round, so labels stays strictly shorter than items.
func FindRepeat[T any](o eq.Oracle[T], items, labels []T, assign Assignment[T]) (relation.Repeats[T], error) {
	if len(labels) >= len(items) {
		return nil, fmt.Errorf("%w: %d labels for %d items", ErrPrecondition, len(labels), len(items))
	}

	// pos[i] is the position of item i's label in the current label list.
	pos := make([]int, len(items))
	for i, x := range items {
		ev, err := assign(i, x)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
		}
		if err := member.Verify(o, x, labels, ev); err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrPrecondition, i, err)
		}
		pos[i] = ev.Index()
	}

	cur := labels
	for k := 0; k < len(items); k++ {
		x := items[k]
		if w, found := member.Find(o, x, items[k+1:]); found {
			return relation.RepeatsAt(items, k, w)
		}

		at, err := member.At(cur, pos[k])
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrUnreachable, k, err)
		}
		prefix, suffix, err := member.SplitAt(at)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrUnreachable, k, err)
		}
		for i := k + 1; i < len(items); i++ {
			p, err := member.Reindex(pos[i], pos[k])
			if err != nil {
				return nil, fmt.Errorf("%w: item %d shares the label of item %d: %w", ErrUnreachable, i, k, err)
			}
			pos[i] = p
		}
		cur = seq.Append(prefix, suffix)
	}
	return nil, fmt.Errorf("%w: items exhausted with %d labels left", ErrUnreachable, len(cur))
}

// Collision names two items that received the same label.
type Collision[T, L any] struct {
	Label      L
	First      int
	Second     int
	FirstItem  T
	SecondItem T
	Evidence   relation.Repeats[L]
}

// FindCollision maps every item to its label and finds two items with
// the same label. Evidence is the repeat within the sequence of labels
// assigned to items, positionally aligned with items.
func FindCollision[T, L any](o eq.Oracle[L], items []T, labels []L, label func(T) L) (Collision[T, L], error) {
	images := make([]L, len(items))
	for i, x := range items {
		images[i] = label(x)
	}
	r, err := FindRepeat(o, images, labels, Inclusion(o, labels))
	if err != nil {
		return Collision[T, L]{}, err
	}
	l, first, second, err := relation.Positions(r)
	if err != nil {
		return Collision[T, L]{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return Collision[T, L]{
		Label:      l,
		First:      first,
		Second:     second,
		FirstItem:  items[first],
		SecondItem: items[second],
		Evidence:   r,
	}, nil
}
