package sequence

import (
	"sort"
)

// Seq mirrors iter.Seq from the Go 1.23 standard library so the package
// builds on older toolchains; the two types are interchangeable.
type Seq[T any] func(yield func(T) bool)

// Iterator is a generic, immutable, chainable iterator for any type T.
type Iterator[T any] struct {
	seq Seq[T]
}

// From creates a new Iterator from a slice of T.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, v := range data {
				yield(v)
			}
		},
	}
}

// Seq returns the underlying sequence function for the iterator.
func (i *Iterator[T]) Seq() Seq[T] {
	return i.seq
}

// Collect exhausts the iterator and returns a slice of all elements.
func (i *Iterator[T]) Collect() []T {
	var out []T
	i.seq(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Filter returns a new Iterator containing only elements that satisfy the predicate.
func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			i.seq(func(v T) bool {
				if pred(v) {
					return yield(v)
				}
				return true
			})
		},
	}
}

// Count returns the number of elements in the iterator.
func (i *Iterator[T]) Count() int {
	count := 0
	i.seq(func(_ T) bool {
		count++
		return true
	})
	return count
}

// Sort returns a new Iterator with elements sorted according to the provided
// less function.
func (i *Iterator[T]) Sort(less func(a, b T) bool) *Iterator[T] {
	data := i.Collect()
	sort.SliceStable(data, func(a, b int) bool {
		return less(data[a], data[b])
	})
	return From(data)
}

// GroupBy groups elements by a key function, returning a map from key to slice of T.
func GroupBy[T any, K comparable](it *Iterator[T], keyFn func(T) K) map[K][]T {
	groups := make(map[K][]T)
	it.seq(func(v T) bool {
		k := keyFn(v)
		groups[k] = append(groups[k], v)
		return true
	})
	return groups
}

// DistinctKeys returns the distinct keys produced by keyFn, in first-seen order.
func DistinctKeys[T any, K comparable](it *Iterator[T], keyFn func(T) K) []K {
	seen := make(map[K]struct{})
	var keys []K
	it.seq(func(v T) bool {
		k := keyFn(v)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		return true
	})
	return keys
}
