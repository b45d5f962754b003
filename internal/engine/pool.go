package engine

import (
	"runtime"
	"sync"
)

// workerCount resolves a configured worker count; 0 or less means one
// worker per available CPU.
func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// parallel calls fn(i) for every i in [0, n) on at most workers goroutines
// and returns once all calls finished. fn must only write to index i of any
// shared output.
func parallel(n, workers int, fn func(i int)) {
	workers = workerCount(workers)
	if n <= 1 || workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fn(idx)
		}(i)
	}

	wg.Wait()
}
