package convergence

import (
	"context"
	"sync"
)

// parallelFor splits [0, n) into contiguous chunks and runs fn on each one
// concurrently. It returns early with ctx.Err() if the context is done
// before all chunks complete.
func parallelFor(ctx context.Context, n, workers, minChunk int, fn func(start, end int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return ctx.Err()
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
	return ctx.Err()
}
