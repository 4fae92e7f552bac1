// Package relation implements the structural list relations built on
// membership: ordered merge, subsequence, stutter-free, no-repeats,
// disjointness and repeats.
//
// Every relation is a sealed sum type with one struct per constructor.
// Deciders return (evidence, true) when the relation holds and
// (nil, false) when it does not; absence is an answer, not an error.
// Check* functions re-validate evidence handed in by callers.
//
// Evidence nodes keep the slices they describe and share the backing
// arrays of the inputs. Callers must not mutate inputs while evidence is
// alive. Construction always proceeds from the tail with a loop, so the
// depth of an evidence tree never turns into call-stack depth.
package relation

import "errors"

var (
	// ErrMalformed reports evidence whose shape does not match the
	// sequences it claims to describe.
	ErrMalformed = errors.New("malformed evidence")
	// ErrContradiction reports that two pieces of evidence refute each
	// other, which can only happen with an inconsistent oracle.
	ErrContradiction = errors.New("contradictory evidence")
)
