package pigeon

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/member"
	"github.com/gnolang/seqcheck/internal/relation"
)

var (
	ints = eq.Comparable[int]()
	strs = eq.Comparable[string]()
)

func TestFindRepeatScenario(t *testing.T) {
	t.Parallel()
	labelOf := map[int]string{1: "a", 2: "b"}

	c, err := FindCollision(strs, []int{1, 2, 1}, []string{"a", "b"}, func(x int) string { return labelOf[x] })
	require.NoError(t, err)
	assert.Equal(t, "a", c.Label)
	assert.Equal(t, 0, c.First)
	assert.Equal(t, 2, c.Second)
	assert.Equal(t, 1, c.FirstItem)
	assert.Equal(t, 1, c.SecondItem)
	assert.NoError(t, relation.CheckRepeats(strs, []string{"a", "b", "a"}, c.Evidence))
}

func TestFindRepeatInclusion(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 1}
	labels := []int{1, 2}

	r, err := FindRepeat(ints, items, labels, Inclusion(ints, labels))
	require.NoError(t, err)
	require.NoError(t, relation.CheckRepeats(ints, items, r))

	x, first, second, err := relation.Positions(r)
	require.NoError(t, err)
	assert.Equal(t, 1, x)
	assert.Equal(t, 0, first)
	assert.Equal(t, 2, second)
}

func TestFindRepeatAfterRemovals(t *testing.T) {
	t.Parallel()
	// 3, 1 and 4 are unique; the repeat is found only after their labels
	// have been removed.
	items := []int{3, 1, 4, 2, 5, 2}
	labels := []int{5, 4, 3, 2, 1}

	r, err := FindRepeat(ints, items, labels, Inclusion(ints, labels))
	require.NoError(t, err)
	require.NoError(t, relation.CheckRepeats(ints, items, r))

	x, first, second, err := relation.Positions(r)
	require.NoError(t, err)
	assert.Equal(t, 2, x)
	assert.Equal(t, 3, first)
	assert.Equal(t, 5, second)
}

func TestFindRepeatUsesCallerEvidence(t *testing.T) {
	t.Parallel()
	items := []int{7, 8, 7}
	labels := []int{8, 7}
	calls := 0
	assign := func(i int, x int) (member.Evidence[int], error) {
		calls++
		return Inclusion(ints, labels)(i, x)
	}

	r, err := FindRepeat(ints, items, labels, assign)
	require.NoError(t, err)
	assert.Equal(t, len(items), calls)
	assert.NoError(t, relation.CheckRepeats(ints, items, r))
}

func TestFindRepeatPreconditions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		items  []int
		labels []int
		assign Assignment[int]
	}{
		{
			name:   "empty items",
			items:  nil,
			labels: nil,
		},
		{
			name:   "as many labels as items",
			items:  []int{1, 2},
			labels: []int{1, 2},
		},
		{
			name:   "item without a label",
			items:  []int{1, 3},
			labels: []int{1},
		},
		{
			name:   "forged evidence",
			items:  []int{1, 1},
			labels: []int{2},
			assign: func(int, int) (member.Evidence[int], error) {
				return member.Here[int]{S: []int{2}}, nil
			},
		},
		{
			name:   "assignment error",
			items:  []int{1, 1},
			labels: []int{1},
			assign: func(i int, _ int) (member.Evidence[int], error) {
				return nil, fmt.Errorf("no label for %d", i)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assign := tt.assign
			if assign == nil {
				assign = Inclusion(ints, tt.labels)
			}
			_, err := FindRepeat(ints, tt.items, tt.labels, assign)
			assert.ErrorIs(t, err, ErrPrecondition)
		})
	}
}

func TestFindRepeatInconsistentOracle(t *testing.T) {
	t.Parallel()
	// Not transitive: 1~2 and 2~3 but not 1~3.
	near := eq.Func[int](func(a, b int) bool { return a-b <= 1 && b-a <= 1 })
	items := []int{1, 3}
	labels := []int{2}

	_, err := FindRepeat[int](near, items, labels, Inclusion[int](near, labels))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestFindCollisionNonTotalLabelling(t *testing.T) {
	t.Parallel()
	_, err := FindCollision(strs, []int{1, 2, 3}, []string{"a", "b"}, func(x int) string {
		return fmt.Sprint(x)
	})
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.ErrorIs(t, err, member.ErrNotMember)
}

func TestFindRepeatLongInput(t *testing.T) {
	t.Parallel()
	n := 2000
	items := make([]int, n+1)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		items[i] = i
		labels[i] = n - 1 - i
	}
	items[n] = n / 2

	r, err := FindRepeat(ints, items, labels, Inclusion(ints, labels))
	require.NoError(t, err)
	x, first, second, err := relation.Positions(r)
	require.NoError(t, err)
	assert.Equal(t, n/2, x)
	assert.Equal(t, n/2, first)
	assert.Equal(t, n, second)
}
