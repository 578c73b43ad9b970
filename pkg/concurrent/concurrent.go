// Package concurrent provides small fan-out helpers over errgroup.
package concurrent

import (
	"golang.org/x/sync/errgroup"
)

// ForEach runs action once per element, each on its own goroutine, and waits
// for all of them. The first error encountered is returned.
func ForEach[T any](items []T, action func(T) error) error {
	var eg errgroup.Group
	for _, v := range items {
		v := v
		eg.Go(func() error {
			return action(v)
		})
	}
	return eg.Wait()
}

// Range runs action(i) for every i in [0, n) with at most workers goroutines;
// workers <= 0 means unbounded. All goroutines run to completion; the first
// error is returned.
func Range(n, workers int, action func(int) error) error {
	var eg errgroup.Group
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			return action(i)
		})
	}
	return eg.Wait()
}
