package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isEven(n int) bool { return n%2 == 0 }

func TestFilter(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []int{2, 4}, Filter(isEven, []int{1, 2, 3, 4, 5}))
	assert.Empty(t, Filter(isEven, []int{1, 3}))
	assert.Empty(t, Filter(isEven, nil))
}

func TestAppendDoesNotAlias(t *testing.T) {
	t.Parallel()
	l1 := make([]int, 2, 8)
	l1[0], l1[1] = 1, 2
	out := Append(l1, []int{3})
	out[0] = 9

	assert.Equal(t, []int{9, 2, 3}, out)
	assert.Equal(t, 1, l1[0])
}

func TestAllAndCount(t *testing.T) {
	t.Parallel()
	assert.True(t, All(isEven, []int{2, 4}))
	assert.True(t, All(isEven, nil))
	assert.False(t, All(isEven, []int{2, 3}))
	assert.Equal(t, 2, Count(isEven, []int{1, 2, 3, 4}))
}

func TestEqual(t *testing.T) {
	t.Parallel()
	same := func(a, b int) bool { return a == b }
	assert.True(t, Equal(same, []int{1, 2}, []int{1, 2}))
	assert.False(t, Equal(same, []int{1, 2}, []int{1}))
	assert.False(t, Equal(same, []int{1, 2}, []int{2, 1}))
}
