package diffusion

import (
	"os"
	"runtime"
	"strconv"
	"sync"
)

// WorkersEnv overrides the default number of goroutines used by a Pool.
const WorkersEnv = "GO_NUM_GOROUTINE"

// DefaultWorkers returns the value of GO_NUM_GOROUTINE when it holds a
// positive integer and runtime.NumCPU otherwise.
func DefaultWorkers() int {
	if nw := os.Getenv(WorkersEnv); nw != "" {
		if n, err := strconv.Atoi(nw); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// Pool splits a loop range into contiguous chunks and runs each chunk on
// its own goroutine. For returns only after every chunk has finished, so
// consecutive calls are separated by a full barrier. A nil Pool runs
// everything on the calling goroutine.
type Pool struct {
	workers int
}

// NewPool returns a pool of n workers; n <= 0 selects DefaultWorkers.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = DefaultWorkers()
	}
	return &Pool{workers: n}
}

// Serial returns a single worker pool.
func Serial() *Pool { return &Pool{workers: 1} }

func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// For calls task on disjoint sub-ranges covering [start, end).
func (p *Pool) For(start, end int, task func(s, e int)) {
	total := end - start
	if total <= 0 {
		return
	}

	n := p.Workers()
	// too little work to be worth the goroutines
	if n == 1 || total < n {
		task(start, end)
		return
	}

	chunkSize := (total + n - 1) / n
	var wg sync.WaitGroup
	for s := start; s < end; s += chunkSize {
		e := min(s+chunkSize, end)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			task(s, e)
		}(s, e)
	}
	wg.Wait()
}
