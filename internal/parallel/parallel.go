// Package parallel provides a bounded data-parallel map used by the
// substring locator to score candidate strings concurrently.
//
// Workers write to disjoint result slots, so no synchronization beyond the
// final join is needed; any reduction over the results runs on the caller
// after Map returns. A worker count of 1 is strictly sequential and must
// produce the same results as any higher count.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Map applies fn to every item and returns the results in input order,
// blocking until all workers finish. A workers value of 0 or less uses
// the available CPU count; 1 runs sequentially on the calling goroutine.
func Map[T, R any](workers int, items []T, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]R, len(items))
	if workers == 1 {
		for i, item := range items {
			results[i] = fn(item)
		}
		return results
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(items) {
					return
				}
				results[i] = fn(items[i])
			}
		}()
	}
	wg.Wait()
	return results
}
