package site

import (
	"context"
	"sync"
)

type orderedResult[R any] struct {
	Value R
	Err   error
}

// runOrdered applies fn to every item with at most concurrency calls in
// flight. Results keep input order. Items not yet started when ctx is
// cancelled get ctx.Err().
func runOrdered[T any, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, int, T) (R, error)) []orderedResult[R] {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	results := make([]orderedResult[R], len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := range concurrency {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = orderedResult[R]{Err: err}
					continue
				}
				v, err := fn(ctx, worker, items[i])
				results[i] = orderedResult[R]{Value: v, Err: err}
			}
		}(w)
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
