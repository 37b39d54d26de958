package indexheap

import (
	"lintang/indexheap/domain"
	"lintang/indexheap/pkg/util"

	"golang.org/x/exp/constraints"
)

// IndirectPriorityQueue is a min-priority queue over indices into a borrowed
// reference array. The queue never mutates or resizes the reference array; it
// only reads through the enqueued indices. The caller may mutate the value a
// heap element points at, but must then notify the queue with Changed (top
// element only, and only while that index occurs once in the heap) or
// AllChanged (anything, any time).
//
// The same index may be enqueued more than once. The queue is not safe for
// concurrent use.
type IndirectPriorityQueue[T any] struct {
	ref  []T
	heap []int32
	size int
	cmp  Comparator[T]
}

// New creates an empty queue over ref using the natural order of T, with
// initial capacity len(ref).
func New[T constraints.Ordered](ref []T) *IndirectPriorityQueue[T] {
	return NewFunc(ref, len(ref), NaturalOrder[T]())
}

// NewWithCapacity is New with an explicit initial capacity.
func NewWithCapacity[T constraints.Ordered](ref []T, capacity int) *IndirectPriorityQueue[T] {
	return NewFunc(ref, capacity, NaturalOrder[T]())
}

// NewFunc creates an empty queue over ref ordered by cmp. cmp must not be
// nil; use New for the natural order.
func NewFunc[T any](ref []T, capacity int, cmp Comparator[T]) *IndirectPriorityQueue[T] {
	if cmp == nil {
		panic("indexheap: nil comparator")
	}
	if capacity < 0 {
		capacity = 0
	}
	return &IndirectPriorityQueue[T]{
		ref:  ref,
		heap: make([]int32, capacity),
		cmp:  cmp,
	}
}

// Wrap takes ownership of heap as the queue's heap array and heapifies its
// first size entries in place, in O(size). Every entry of heap[0:size] must
// already be a valid index into ref; this is not checked.
func Wrap[T constraints.Ordered](ref []T, heap []int32, size int) *IndirectPriorityQueue[T] {
	return WrapFunc(ref, heap, size, NaturalOrder[T]())
}

// WrapFunc is Wrap with a caller-supplied comparator.
func WrapFunc[T any](ref []T, heap []int32, size int, cmp Comparator[T]) *IndirectPriorityQueue[T] {
	if cmp == nil {
		panic("indexheap: nil comparator")
	}
	if size > len(heap) {
		panic("indexheap: wrapped size exceeds the index array length")
	}
	q := &IndirectPriorityQueue[T]{
		ref:  ref,
		heap: heap,
		size: size,
		cmp:  cmp,
	}
	MakeHeap(q.ref, q.heap, q.size, q.cmp)
	return q
}

// Enqueue pushes an index onto the queue. Fails with
// domain.ErrIndexOutOfRange, before any mutation, when the index does not
// address a reference-array slot. Amortized O(log size).
func (q *IndirectPriorityQueue[T]) Enqueue(index int32) error {
	if index < 0 || int(index) >= len(q.ref) {
		return domain.WrapErrorf(nil, domain.ErrIndexOutOfRange,
			"index %d out of range [0, %d)", index, len(q.ref))
	}
	if q.size == len(q.heap) {
		q.heap = util.Grow(q.heap, q.size+1)
	}
	q.heap[q.size] = index
	q.size++
	UpHeap(q.ref, q.heap, q.size-1, q.cmp)
	return nil
}

// Dequeue pops and returns the index of a smallest value. Fails with
// domain.ErrEmptyQueue on an empty queue. O(log size).
func (q *IndirectPriorityQueue[T]) Dequeue() (int32, error) {
	if q.size == 0 {
		return -1, domain.WrapErrorf(nil, domain.ErrEmptyQueue, "dequeue on an empty queue")
	}
	result := q.heap[0]
	q.size--
	q.heap[0] = q.heap[q.size]
	if q.size != 0 {
		DownHeap(q.ref, q.heap, q.size, 0, q.cmp)
	}
	return result, nil
}

// First returns the index of a smallest value without removing it. Fails
// with domain.ErrEmptyQueue on an empty queue.
func (q *IndirectPriorityQueue[T]) First() (int32, error) {
	if q.size == 0 {
		return -1, domain.WrapErrorf(nil, domain.ErrEmptyQueue, "first on an empty queue")
	}
	return q.heap[0], nil
}

// Changed restores heap order after the caller mutated the value at the
// current top index (heap position 0). The top index must occur exactly once
// in the heap; with duplicates present the resulting order is unspecified.
// Fails with domain.ErrEmptyQueue on an empty queue.
func (q *IndirectPriorityQueue[T]) Changed() error {
	if q.size == 0 {
		return domain.WrapErrorf(nil, domain.ErrEmptyQueue, "changed on an empty queue")
	}
	DownHeap(q.ref, q.heap, q.size, 0, q.cmp)
	return nil
}

// AllChanged rebuilds heap order from scratch in O(size). Safe after any set
// of reference-array mutations, duplicates included.
func (q *IndirectPriorityQueue[T]) AllChanged() {
	MakeHeap(q.ref, q.heap, q.size, q.cmp)
}

// Front writes into out the indices of every heap element tied with the
// current minimum and returns how many were written. out must have length >=
// Size(). Returns 0 on an empty queue. An index enqueued more than once is
// reported once per heap slot.
func (q *IndirectPriorityQueue[T]) Front(out []int32) int {
	return Front(q.ref, q.heap, q.size, out, q.cmp)
}

// Size returns the number of indices currently in the queue.
func (q *IndirectPriorityQueue[T]) Size() int {
	return q.size
}

// IsEmpty reports whether the queue holds no indices.
func (q *IndirectPriorityQueue[T]) IsEmpty() bool {
	return q.size == 0
}

// Capacity returns the heap array's current physical capacity.
func (q *IndirectPriorityQueue[T]) Capacity() int {
	return len(q.heap)
}

// Clear drops every enqueued index without releasing the heap array.
func (q *IndirectPriorityQueue[T]) Clear() {
	q.size = 0
}

// Trim shrinks the heap array's capacity to exactly Size(). Never called
// automatically.
func (q *IndirectPriorityQueue[T]) Trim() {
	q.heap = util.Trim(q.heap, q.size)
}

// Comparator returns the ordering the queue was built with.
func (q *IndirectPriorityQueue[T]) Comparator() Comparator[T] {
	return q.cmp
}
