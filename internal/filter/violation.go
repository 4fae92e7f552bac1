package filter

import "fmt"

// ViolationKind classifies why a filter claim failed.
type ViolationKind int

const (
	_ ViolationKind = iota
	// KeptFails: an element taken from the kept side fails the predicate.
	KeptFails
	// DroppedPasses: an element taken from the dropped side passes it.
	DroppedPasses
	// CandidateFails: a candidate sub-list keeps an element failing it.
	CandidateFails
	// ExceedsBound: a candidate is longer than the filter output.
	ExceedsBound
	// FilterMismatch: the filter collaborator disagrees with the evidence.
	FilterMismatch
	// MalformedEvidence: the evidence does not describe the inputs.
	MalformedEvidence
)

func (k ViolationKind) String() string {
	switch k {
	case KeptFails:
		return "kept element fails predicate"
	case DroppedPasses:
		return "dropped element passes predicate"
	case CandidateFails:
		return "candidate element fails predicate"
	case ExceedsBound:
		return "candidate longer than filter output"
	case FilterMismatch:
		return "filter output disagrees with evidence"
	case MalformedEvidence:
		return "malformed evidence"
	default:
		return "unknown"
	}
}

// Violation is the typed failure of a filter verification. Index is the
// position in the verified sequence, or -1 when no single position is at
// fault.
type Violation[T any] struct {
	Kind   ViolationKind
	Index  int
	Elem   T
	Detail string
	Err    error
}

func (v *Violation[T]) Error() string {
	if v.Index < 0 {
		return fmt.Sprintf("%s: %s", v.Kind, v.Detail)
	}
	msg := fmt.Sprintf("%s: %v at position %d", v.Kind, v.Elem, v.Index)
	if v.Detail != "" {
		msg += " (" + v.Detail + ")"
	}
	return msg
}

func (v *Violation[T]) Unwrap() error { return v.Err }

func malformed[T any](err error) *Violation[T] {
	return &Violation[T]{Kind: MalformedEvidence, Index: -1, Detail: err.Error(), Err: err}
}
