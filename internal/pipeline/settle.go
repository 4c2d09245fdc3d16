package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Outcome is the settled result of one fan-out branch: either Value or Err.
type Outcome[T any] struct {
	Value T
	Err   error
}

// settleAll runs fn for every index in [0, n) with at most parallel branches in
// flight, and waits for all of them. A failing branch never cancels its
// siblings. Each branch writes only its own slot, so the result order matches
// the input order regardless of completion order. A positive timeout bounds
// each branch individually.
func settleAll[T any](ctx context.Context, n, parallel int, timeout time.Duration, fn func(ctx context.Context, i int) (T, error)) []Outcome[T] {
	out := make([]Outcome[T], n)
	if n == 0 {
		return out
	}
	if parallel <= 0 || parallel > n {
		parallel = n
	}
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			out[i].Err = ctx.Err()
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					out[i].Err = fmt.Errorf("branch %d panicked: %v", i, r)
				}
			}()
			bctx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				bctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			v, err := fn(bctx, i)
			out[i] = Outcome[T]{Value: v, Err: err}
		}(i)
	}
	wg.Wait()
	return out
}
