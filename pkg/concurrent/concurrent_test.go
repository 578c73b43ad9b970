package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEachVisitsAll(t *testing.T) {
	var sum atomic.Int64
	err := ForEach([]int{1, 2, 3, 4, 5}, func(v int) error {
		sum.Add(int64(v))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach error: %v", err)
	}
	if sum.Load() != 15 {
		t.Fatalf("sum = %d, want 15", sum.Load())
	}
}

func TestForEachReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach([]int{1, 2, 3}, func(v int) error {
		if v == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestRangeCoversAllIndices(t *testing.T) {
	n := 100
	seen := make([]atomic.Bool, n)
	err := Range(n, 8, func(i int) error {
		seen[i].Store(true)
		return nil
	})
	if err != nil {
		t.Fatalf("Range error: %v", err)
	}
	for i := range seen {
		if !seen[i].Load() {
			t.Fatalf("index %d not visited", i)
		}
	}
}
