package indexheap_test

import (
	"sort"
	"testing"

	"lintang/indexheap/domain"
	"lintang/indexheap/pkg/indexheap"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func drainQueue[T any](t *testing.T, q *indexheap.IndirectPriorityQueue[T]) []int32 {
	t.Helper()
	out := make([]int32, 0, q.Size())
	for !q.IsEmpty() {
		idx, err := q.Dequeue()
		assert.NoError(t, err)
		out = append(out, idx)
	}
	return out
}

func TestIndirectPriorityQueueScenario(t *testing.T) {
	// the reference scenario: values [5 3 8 1 9] dequeue as indices 3 1 0 2 4
	t.Run("success enqueue all then dequeue in value order", func(t *testing.T) {
		ref := []int{5, 3, 8, 1, 9}
		q := indexheap.New(ref)
		for i := int32(0); i < 5; i++ {
			assert.NoError(t, q.Enqueue(i))
		}
		assert.Equal(t, []int32{3, 1, 0, 2, 4}, drainQueue(t, q))
	})

	t.Run("success changed after mutating the top value", func(t *testing.T) {
		ref := []int{5, 3, 8, 1, 9}
		q := indexheap.New(ref)
		for i := int32(0); i < 5; i++ {
			assert.NoError(t, q.Enqueue(i))
		}

		first, err := q.First()
		assert.NoError(t, err)
		assert.Equal(t, int32(3), first)

		ref[3] = 20
		assert.NoError(t, q.Changed())
		assert.Equal(t, []int32{1, 0, 2, 4, 3}, drainQueue(t, q))
	})
}

func TestEnqueueDequeue(t *testing.T) {
	t.Run("success sorted dequeue order over random values", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		const n = 500
		ref := make([]float64, n)
		for i := range ref {
			ref[i] = rng.Float64()
		}
		q := indexheap.NewWithCapacity(ref, 0) // forces growth from zero capacity
		for i := 0; i < n; i++ {
			assert.NoError(t, q.Enqueue(int32(rng.Intn(n))))
		}
		assert.Equal(t, n, q.Size())

		prev := -1.0
		for !q.IsEmpty() {
			idx, err := q.Dequeue()
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, ref[idx], prev)
			prev = ref[idx]
		}
	})

	t.Run("success size conservation", func(t *testing.T) {
		ref := []int{4, 2, 6, 1}
		q := indexheap.New(ref)
		for i := 0; i < 4; i++ {
			assert.NoError(t, q.Enqueue(int32(i)))
		}
		_, err := q.Dequeue()
		assert.NoError(t, err)
		assert.Equal(t, 3, q.Size())
		assert.NoError(t, q.Enqueue(0))
		assert.Equal(t, 4, q.Size())
	})

	t.Run("success duplicate indices are tolerated", func(t *testing.T) {
		ref := []int{9, 1}
		q := indexheap.New(ref)
		for i := 0; i < 3; i++ {
			assert.NoError(t, q.Enqueue(1))
		}
		assert.NoError(t, q.Enqueue(0))
		assert.Equal(t, []int32{1, 1, 1, 0}, drainQueue(t, q))
	})

	t.Run("fail enqueue out of range leaves the queue untouched", func(t *testing.T) {
		ref := []int{1, 2}
		q := indexheap.New(ref)
		assert.ErrorIs(t, q.Enqueue(-1), domain.ErrIndexOutOfRange)
		assert.ErrorIs(t, q.Enqueue(2), domain.ErrIndexOutOfRange)
		assert.Equal(t, 0, q.Size())
		assert.NoError(t, q.Enqueue(1))
		assert.Equal(t, 1, q.Size())
	})

	t.Run("fail dequeue and first on an empty queue", func(t *testing.T) {
		q := indexheap.New([]int{1})
		_, err := q.Dequeue()
		assert.ErrorIs(t, err, domain.ErrEmptyQueue)
		_, err = q.First()
		assert.ErrorIs(t, err, domain.ErrEmptyQueue)
		assert.ErrorIs(t, q.Changed(), domain.ErrEmptyQueue)
		// still usable after the failed calls
		assert.NoError(t, q.Enqueue(0))
		idx, err := q.First()
		assert.NoError(t, err)
		assert.Equal(t, int32(0), idx)
	})
}

func TestWrapEquivalence(t *testing.T) {
	t.Run("success wrap dequeues like element-wise enqueue", func(t *testing.T) {
		rng := rand.New(rand.NewSource(99))
		const n = 128
		ref := make([]float64, n)
		for i := range ref {
			ref[i] = rng.Float64()
		}
		idx := make([]int32, n)
		for i := range idx {
			idx[i] = int32(rng.Intn(n))
		}

		wrapped := indexheap.Wrap(ref, append([]int32(nil), idx...), n)
		elementwise := indexheap.NewWithCapacity(ref, n)
		for _, ix := range idx {
			assert.NoError(t, elementwise.Enqueue(ix))
		}

		assert.Equal(t, drainQueue(t, elementwise), drainQueue(t, wrapped))
	})

	t.Run("success wrap with partial prefix of the index array", func(t *testing.T) {
		ref := []int{3, 1, 2}
		q := indexheap.Wrap(ref, []int32{0, 1, 2, 0, 0}, 3)
		assert.Equal(t, 3, q.Size())
		assert.Equal(t, []int32{1, 2, 0}, drainQueue(t, q))
	})
}

func TestAllChanged(t *testing.T) {
	t.Run("success rebuild after arbitrary mutations", func(t *testing.T) {
		ref := []int{5, 3, 8, 1, 9}
		q := indexheap.New(ref)
		for i := int32(0); i < 5; i++ {
			assert.NoError(t, q.Enqueue(i))
		}

		// invert the priorities of everything, not just the top
		ref[0], ref[1], ref[2], ref[3], ref[4] = 9, 1, 5, 8, 3
		q.AllChanged()
		assert.Equal(t, []int32{1, 4, 2, 3, 0}, drainQueue(t, q))
	})

	t.Run("success idempotent without intervening mutation", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		const n = 64
		ref := make([]float64, n)
		for i := range ref {
			ref[i] = rng.Float64()
		}
		q := indexheap.New(ref)
		for i := 0; i < n; i++ {
			assert.NoError(t, q.Enqueue(int32(rng.Intn(n))))
		}

		q.AllChanged()
		q.AllChanged()
		prev := -1.0
		for !q.IsEmpty() {
			idx, err := q.Dequeue()
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, ref[idx], prev)
			prev = ref[idx]
		}
	})

	t.Run("success on an empty queue", func(t *testing.T) {
		q := indexheap.New([]int{})
		q.AllChanged()
		assert.Equal(t, 0, q.Size())
	})
}

func TestQueueFront(t *testing.T) {
	t.Run("success reports every heap slot tied with the minimum", func(t *testing.T) {
		ref := []int{2, 7, 2, 2, 5}
		q := indexheap.New(ref)
		for i := int32(0); i < 5; i++ {
			assert.NoError(t, q.Enqueue(i))
		}

		out := make([]int32, q.Size())
		n := q.Front(out)
		assert.Equal(t, 3, n)
		assert.ElementsMatch(t, []int32{0, 2, 3}, out[:n])
	})

	t.Run("success duplicate index counted once per slot", func(t *testing.T) {
		ref := []int{1, 4}
		q := indexheap.New(ref)
		assert.NoError(t, q.Enqueue(0))
		assert.NoError(t, q.Enqueue(0))
		assert.NoError(t, q.Enqueue(1))

		out := make([]int32, q.Size())
		n := q.Front(out)
		assert.Equal(t, 2, n)
		assert.Equal(t, []int32{0, 0}, out[:n])
	})

	t.Run("success empty queue reports zero", func(t *testing.T) {
		q := indexheap.New([]int{1})
		assert.Equal(t, 0, q.Front(make([]int32, 1)))
	})
}

func TestComparatorOrder(t *testing.T) {
	t.Run("success reverse comparator dequeues the largest first", func(t *testing.T) {
		ref := []string{"pear", "apple", "fig"}
		reverse := func(a, b string) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		}
		q := indexheap.NewFunc(ref, len(ref), reverse)
		for i := int32(0); i < 3; i++ {
			assert.NoError(t, q.Enqueue(i))
		}
		got := drainQueue(t, q)
		values := []string{ref[got[0]], ref[got[1]], ref[got[2]]}
		assert.True(t, sort.SliceIsSorted(values, func(i, j int) bool { return values[i] > values[j] }))
		assert.Equal(t, "pear", values[0])
	})
}

func TestClearAndTrim(t *testing.T) {
	t.Run("success clear keeps capacity, trim reclaims it", func(t *testing.T) {
		ref := make([]int, 100)
		q := indexheap.NewWithCapacity(ref, 0)
		for i := 0; i < 60; i++ {
			assert.NoError(t, q.Enqueue(int32(i)))
		}
		capBefore := q.Capacity()
		assert.GreaterOrEqual(t, capBefore, 60)

		for i := 0; i < 50; i++ {
			_, err := q.Dequeue()
			assert.NoError(t, err)
		}
		q.Trim()
		assert.Equal(t, 10, q.Capacity())
		assert.Equal(t, 10, q.Size())

		q.Clear()
		assert.Equal(t, 0, q.Size())
		assert.Equal(t, 10, q.Capacity())

		// still usable after both
		assert.NoError(t, q.Enqueue(5))
		idx, err := q.First()
		assert.NoError(t, err)
		assert.Equal(t, int32(5), idx)
	})
}
