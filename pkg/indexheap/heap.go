// Package indexheap implements a semi-indirect binary min-heap: the heap
// array stores indices into a caller-owned reference array of values, so
// priorities are compared through the indices and can be mutated in place by
// the caller without the heap ever copying or owning the values.
package indexheap

import (
	"golang.org/x/exp/constraints"
)

// Comparator compares two reference-array values. Negative means a sorts
// before b, zero means the two are tied.
type Comparator[T any] func(a, b T) int

// NaturalOrder returns the comparator for the element type's own ordering.
func NaturalOrder[T constraints.Ordered]() Comparator[T] {
	return func(a, b T) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// UpHeap sifts the element at position i toward the root until its parent is
// no greater than it. The element moves through a hole instead of pairwise
// swaps. Returns the final position. Used after appending at position size-1.
func UpHeap[T any](ref []T, heap []int32, i int, cmp Comparator[T]) int {
	e := heap[i]
	for i != 0 {
		parent := (i - 1) / 2
		t := heap[parent]
		if cmp(ref[t], ref[e]) <= 0 {
			break
		}
		heap[i] = t
		i = parent
	}
	heap[i] = e
	return i
}

// DownHeap sifts the element at position i toward the leaves, following the
// smaller child, until no child is smaller. Returns the final position. Used
// after replacing the root or after the root's priority changed.
func DownHeap[T any](ref []T, heap []int32, size, i int, cmp Comparator[T]) int {
	e := heap[i]
	for {
		child := 2*i + 1
		if child >= size {
			break
		}
		t := heap[child]
		if right := child + 1; right < size && cmp(ref[heap[right]], ref[t]) < 0 {
			child = right
			t = heap[child]
		}
		if cmp(ref[e], ref[t]) <= 0 {
			break
		}
		heap[i] = t
		i = child
	}
	heap[i] = e
	return i
}

// MakeHeap builds heap order over heap[0:size] in place by sifting down every
// internal node, from the last one up to the root. O(size).
func MakeHeap[T any](ref []T, heap []int32, size int, cmp Comparator[T]) {
	for i := size/2 - 1; i >= 0; i-- {
		DownHeap(ref, heap, size, i, cmp)
	}
}

// Front collects into out the indices of every heap element tied with the
// root, walking the tree level by level and pruning a subtree as soon as an
// element compares strictly greater than the root. In a valid heap this
// visits every minimum without scanning the whole array. Returns the count
// written; out must have length >= size.
func Front[T any](ref []T, heap []int32, size int, out []int32, cmp Comparator[T]) int {
	if size == 0 {
		return 0
	}
	top := ref[heap[0]]
	count := 0
	queue := make([]int, 1, 8)
	queue[0] = 0
	for qi := 0; qi < len(queue); qi++ {
		p := queue[qi]
		if cmp(ref[heap[p]], top) != 0 {
			continue
		}
		out[count] = heap[p]
		count++
		if left := 2*p + 1; left < size {
			queue = append(queue, left)
		}
		if right := 2*p + 2; right < size {
			queue = append(queue, right)
		}
	}
	return count
}
