// Package parallel splits row-wise work over the available CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count below which Rows stays sequential.
// A nationwide price table with one row per county crosses it.
const DefaultThreshold = 1000

// Rows calls fn over contiguous [start, end) ranges covering [0, n).
// Ranges never overlap, so fn may write to row-indexed output without
// locking. With n <= threshold fn runs once on the caller's goroutine.
func Rows(n, threshold int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n <= threshold {
		fn(0, n)
		return
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
