// Package seq holds the boolean list utilities the relation engine treats
// as external collaborators.
package seq

// Filter returns the elements of l that satisfy test, in order.
func Filter[T any](test func(T) bool, l []T) []T {
	out := make([]T, 0, len(l))
	for _, x := range l {
		if test(x) {
			out = append(out, x)
		}
	}
	return out
}

// Append returns a fresh slice holding l1 followed by l2.
func Append[T any](l1, l2 []T) []T {
	out := make([]T, 0, len(l1)+len(l2))
	out = append(out, l1...)
	return append(out, l2...)
}

// All reports whether every element of l satisfies test.
func All[T any](test func(T) bool, l []T) bool {
	for _, x := range l {
		if !test(x) {
			return false
		}
	}
	return true
}

// Count returns how many elements of l satisfy test.
func Count[T any](test func(T) bool, l []T) int {
	n := 0
	for _, x := range l {
		if test(x) {
			n++
		}
	}
	return n
}

// Equal reports whether a and b have the same length and pairwise equal
// elements under eq.
func Equal[T any](eq func(a, b T) bool, a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}
