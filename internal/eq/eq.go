// Package eq decides equality between elements and reports the outcome as
// a tagged verdict instead of a bare boolean.
package eq

import "fmt"

// Verdict is the outcome of comparing two elements.
// Exactly one of Equal or NotEqual is produced for every pair.
type Verdict[T any] interface {
	isVerdict()
	Pair() (T, T)
	String() string
}

// Equal witnesses that A and B are the same value.
type Equal[T any] struct {
	A, B T
}

func (Equal[T]) isVerdict() {}

func (v Equal[T]) Pair() (T, T) { return v.A, v.B }

func (v Equal[T]) String() string {
	return fmt.Sprintf("%v = %v", v.A, v.B)
}

// NotEqual witnesses that A and B differ.
type NotEqual[T any] struct {
	A, B T
}

func (NotEqual[T]) isVerdict() {}

func (v NotEqual[T]) Pair() (T, T) { return v.A, v.B }

func (v NotEqual[T]) String() string {
	return fmt.Sprintf("%v != %v", v.A, v.B)
}

// Oracle is a total decision procedure for element equality.
// Decide must terminate for every pair and must not have side effects.
type Oracle[T any] interface {
	Decide(a, b T) Verdict[T]
}

// Func adapts a total equality predicate to an Oracle.
type Func[T any] func(a, b T) bool

// Decide implements Oracle.
func (f Func[T]) Decide(a, b T) Verdict[T] {
	if f(a, b) {
		return Equal[T]{A: a, B: b}
	}
	return NotEqual[T]{A: a, B: b}
}

// Comparable returns the oracle that uses the built-in == operator.
func Comparable[T comparable]() Oracle[T] {
	return Func[T](func(a, b T) bool { return a == b })
}

// Same reports whether o classifies a and b as Equal.
func Same[T any](o Oracle[T], a, b T) bool {
	switch o.Decide(a, b).(type) {
	case Equal[T]:
		return true
	case NotEqual[T]:
		return false
	default:
		panic("eq: oracle returned an unknown verdict")
	}
}

// Symmetric reports whether o gives the same verdict tag for (a, b) and
// (b, a).
func Symmetric[T any](o Oracle[T], a, b T) bool {
	return Same(o, a, b) == Same(o, b, a)
}
