package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/seqcheck/internal/eq"
)

var ints = eq.Comparable[int]()

func TestFind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		x     int
		s     []int
		found bool
		index int
	}{
		{"head", 1, []int{1, 2, 3}, true, 0},
		{"middle", 2, []int{1, 2, 3}, true, 1},
		{"nearest the head", 2, []int{1, 2, 2}, true, 1},
		{"absent", 4, []int{1, 2, 3}, false, 0},
		{"empty", 1, nil, false, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev, ok := Find(ints, tt.x, tt.s)
			require.Equal(t, tt.found, ok)
			if !ok {
				assert.Nil(t, ev)
				return
			}
			assert.Equal(t, tt.index, ev.Index())
			assert.Equal(t, tt.x, ev.Elem())
			assert.Equal(t, tt.s, ev.Seq())
			assert.NoError(t, Verify(ints, tt.x, tt.s, ev))
		})
	}
}

func TestConstructorChainEncodesPosition(t *testing.T) {
	t.Parallel()
	s := []int{7, 8, 9}
	ev, err := At(s, 2)
	require.NoError(t, err)

	l1, ok := ev.(Later[int])
	require.True(t, ok)
	l2, ok := l1.Sub.(Later[int])
	require.True(t, ok)
	h, ok := l2.Sub.(Here[int])
	require.True(t, ok)
	assert.Equal(t, []int{9}, h.S)

	_, err = At(s, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSplitAt(t *testing.T) {
	t.Parallel()
	s := []int{4, 5, 6, 7}
	ev, ok := Find(ints, 6, s)
	require.True(t, ok)

	prefix, suffix, err := SplitAt(ev)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, prefix)
	assert.Equal(t, []int{7}, suffix)

	rest, err := Remove(ev)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 7}, rest)
	assert.Equal(t, []int{4, 5, 6, 7}, s)
}

func TestSplitAtHead(t *testing.T) {
	t.Parallel()
	ev, err := At([]int{1}, 0)
	require.NoError(t, err)

	prefix, suffix, err := SplitAt(ev)
	require.NoError(t, err)
	assert.Empty(t, prefix)
	assert.Empty(t, suffix)
}

func TestVerifyRejectsForgedEvidence(t *testing.T) {
	t.Parallel()
	s := []int{1, 2, 3}

	assert.ErrorIs(t, Verify[int](ints, 2, s, Here[int]{S: s}), ErrInvalidEvidence)
	assert.ErrorIs(t, Verify[int](ints, 2, s, Here[int]{S: []int{2, 3}}), ErrInvalidEvidence)
	assert.ErrorIs(t, Verify[int](ints, 1, s, nil), ErrInvalidEvidence)

	forged := Later[int]{S: s, Sub: Later[int]{S: s[1:], Sub: Later[int]{S: s[2:], Sub: Here[int]{S: []int{4}}}}}
	assert.ErrorIs(t, Verify[int](ints, 4, s, forged), ErrInvalidEvidence)
}

func TestReindex(t *testing.T) {
	t.Parallel()
	i, err := Reindex(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = Reindex(4, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	_, err = Reindex(3, 3)
	assert.ErrorIs(t, err, ErrRemoved)
}

func TestWithout(t *testing.T) {
	t.Parallel()
	s := []int{10, 20, 30, 40}
	at, err := At(s, 1)
	require.NoError(t, err)

	for _, x := range []int{10, 30, 40} {
		ev, ok := Find(ints, x, s)
		require.True(t, ok)

		moved, err := Without(ev, at)
		require.NoError(t, err)
		assert.Equal(t, x, moved.Elem())
		assert.NoError(t, Verify(ints, x, []int{10, 30, 40}, moved))
	}

	_, err = Without(at, at)
	assert.ErrorIs(t, err, ErrRemoved)
}

func TestInAppend(t *testing.T) {
	t.Parallel()
	l1, l2 := []int{1, 2}, []int{3, 4}

	left, _ := Find(ints, 2, l1)
	ev, err := InAppendLeft(left, l2)
	require.NoError(t, err)
	assert.Equal(t, 1, ev.Index())
	assert.NoError(t, Verify(ints, 2, []int{1, 2, 3, 4}, ev))

	right, _ := Find(ints, 4, l2)
	ev, err = InAppendRight(l1, right)
	require.NoError(t, err)
	assert.Equal(t, 3, ev.Index())
	assert.NoError(t, Verify(ints, 4, []int{1, 2, 3, 4}, ev))
}

func TestMalformedEvidence(t *testing.T) {
	t.Parallel()
	empty := Here[int]{}
	dangling := Later[int]{S: []int{1, 2}}

	assert.Equal(t, 0, empty.Elem())
	assert.Equal(t, 0, dangling.Elem())

	good, err := At([]int{1, 2}, 1)
	require.NoError(t, err)

	for _, bad := range []Evidence[int]{nil, empty, dangling} {
		_, err := Without(good, bad)
		assert.ErrorIs(t, err, ErrInvalidEvidence)
		_, err = Without(bad, good)
		assert.ErrorIs(t, err, ErrInvalidEvidence)
		_, err = InAppendLeft(bad, []int{3})
		assert.ErrorIs(t, err, ErrInvalidEvidence)
		_, err = InAppendRight([]int{0}, bad)
		assert.ErrorIs(t, err, ErrInvalidEvidence)
	}
}

func TestFindLongSequence(t *testing.T) {
	t.Parallel()
	s := make([]int, 200000)
	s[len(s)-1] = 1

	ev, ok := Find(ints, 1, s)
	require.True(t, ok)
	assert.Equal(t, len(s)-1, ev.Index())
	assert.Equal(t, 1, ev.Elem())
}
