// Package merge combines sorted runs into one sorted stream with a
// semi-indirect priority queue: the reference array holds the current head of
// every run, the heap holds run numbers, and advancing a run is a head
// mutation followed by Changed on the queue.
package merge

import (
	"lintang/indexheap/pkg/indexheap"

	"golang.org/x/exp/constraints"
)

// Puller yields the next element of a stream, reporting false when the
// stream is exhausted. Elements must come out in the stream's sort order.
type Puller[T any] func() (T, bool)

// SlicePuller adapts a sorted slice into a Puller.
func SlicePuller[T any](s []T) Puller[T] {
	pos := 0
	return func() (T, bool) {
		if pos == len(s) {
			var zero T
			return zero, false
		}
		v := s[pos]
		pos++
		return v, true
	}
}

// Streams merges the pull streams, each already sorted under cmp, calling
// emit for every element in global sort order. Stops on the first emit
// error. O(total·log k) for k streams.
func Streams[T any](pull []Puller[T], cmp indexheap.Comparator[T], emit func(T) error) error {
	heads := make([]T, len(pull))
	heap := make([]int32, 0, len(pull))
	for i, p := range pull {
		if v, ok := p(); ok {
			heads[i] = v
			heap = append(heap, int32(i))
		}
	}

	q := indexheap.WrapFunc(heads, heap, len(heap), cmp)
	for !q.IsEmpty() {
		i, _ := q.First()
		if err := emit(heads[i]); err != nil {
			return err
		}
		if v, ok := pull[i](); ok {
			heads[i] = v
			q.Changed()
		} else {
			q.Dequeue()
		}
	}
	return nil
}

// Sorted merges sorted slices under the natural order of T.
func Sorted[T constraints.Ordered](runs [][]T) []T {
	return SortedFunc(runs, indexheap.NaturalOrder[T]())
}

// SortedFunc merges sorted slices under cmp.
func SortedFunc[T any](runs [][]T, cmp indexheap.Comparator[T]) []T {
	total := 0
	for _, run := range runs {
		total += len(run)
	}
	out := make([]T, 0, total)
	pull := make([]Puller[T], len(runs))
	for i, run := range runs {
		pull[i] = SlicePuller(run)
	}
	// emit never fails here
	Streams(pull, cmp, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out
}

// SortedUnique merges sorted slices, emitting each distinct key once.
func SortedUnique[T constraints.Ordered](runs [][]T) []T {
	return SortedUniqueFunc(runs, indexheap.NaturalOrder[T]())
}

// SortedUniqueFunc merges sorted slices under cmp, collapsing keys that
// compare equal, across runs and within a run, into a single output element.
// Each round asks the queue for the whole front, dequeues those runs,
// advances each of them past the key and re-enqueues the survivors.
func SortedUniqueFunc[T any](runs [][]T, cmp indexheap.Comparator[T]) []T {
	heads := make([]T, len(runs))
	pos := make([]int, len(runs))
	heap := make([]int32, 0, len(runs))
	for i, run := range runs {
		if len(run) > 0 {
			heads[i] = run[0]
			pos[i] = 1
			heap = append(heap, int32(i))
		}
	}

	q := indexheap.WrapFunc(heads, heap, len(heap), cmp)
	out := make([]T, 0)
	front := make([]int32, len(runs))
	for !q.IsEmpty() {
		tied := q.Front(front)
		key := heads[front[0]]
		out = append(out, key)

		// the tied runs are exactly the smallest entries, so popping the
		// root that many times removes them all
		for k := 0; k < tied; k++ {
			q.Dequeue()
		}
		for k := 0; k < tied; k++ {
			i := front[k]
			run := runs[i]
			for pos[i] < len(run) && cmp(run[pos[i]], key) == 0 {
				pos[i]++
			}
			if pos[i] < len(run) {
				heads[i] = run[pos[i]]
				pos[i]++
				q.Enqueue(i)
			}
		}
	}
	return out
}
