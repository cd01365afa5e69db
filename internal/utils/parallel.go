package utils

import (
	"context"
	"sync"
)

// ParallelForEach runs fn for every item using at most workers goroutines.
// The returned slice holds one error per item, in input order. onDone, when
// non-nil, is called once per finished item and must be safe for concurrent use.
func ParallelForEach[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) error, onDone func()) []error {
	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	taskChan := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskChan {
				errs[idx] = fn(ctx, items[idx])
				if onDone != nil {
					onDone()
				}
			}
		}()
	}

	cancelFrom := func(i int) {
		for j := i; j < len(items); j++ {
			errs[j] = ctx.Err()
		}
	}

submit:
	for i := range items {
		if ctx.Err() != nil {
			cancelFrom(i)
			break
		}
		select {
		case <-ctx.Done():
			cancelFrom(i)
			break submit
		case taskChan <- i:
		}
	}

	close(taskChan)
	wg.Wait()

	return errs
}

// CollectErrors collects all non-nil errors from a slice
func CollectErrors(errs []error) []error {
	var result []error
	for _, err := range errs {
		if err != nil {
			result = append(result, err)
		}
	}
	return result
}
