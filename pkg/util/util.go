package util

// Grow returns a buffer of length >= minCapacity with the contents of buf
// preserved at their original positions. Capacity at least doubles on each
// growth so repeated single-element appends stay amortized O(1). buf is
// returned untouched when it is already big enough.
func Grow[T any](buf []T, minCapacity int) []T {
	if len(buf) >= minCapacity {
		return buf
	}
	newCapacity := 2 * len(buf)
	if newCapacity < minCapacity {
		newCapacity = minCapacity
	}
	grown := make([]T, newCapacity)
	copy(grown, buf)
	return grown
}

// Trim returns a buffer of exactly size length holding the first size
// elements of buf. Never shrinks below size; a buffer already at size is
// returned as is.
func Trim[T any](buf []T, size int) []T {
	if len(buf) == size {
		return buf
	}
	trimmed := make([]T, size)
	copy(trimmed, buf[:size])
	return trimmed
}

func ReverseG[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}
