// Package pool provides the bounded-concurrency worker pool the seed
// coordinator uses to fan a single write out across a view's indexes.
// It plays the role the collaborator-supplied thread-pool handle plays in
// the original engine, reshaped into the idiomatic Go equivalent: a
// semaphore-bounded errgroup instead of a dedicated runtime.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// MaxSize is the hard ceiling on pool size. Requesting a larger pool
// silently clamps to this value, mirroring the capped worker count of the
// original engine's thread pool.
const MaxSize = 1000

// Pool bounds how many goroutines may run concurrently for a single logical
// unit of work (one seed write's fan-out across its view's indexes).
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// New creates a Pool that allows at most size goroutines to run at once.
// size is clamped to the range [1, MaxSize].
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	if size > MaxSize {
		size = MaxSize
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

// Size reports the pool's configured concurrency limit.
func (p *Pool) Size() int { return int(p.size) }

// Run executes each of fns concurrently, bounded by the pool's size, and
// waits for all of them to finish. It returns the first non-nil error
// encountered, after every launched function has returned, matching
// errgroup.Group's fail-together-wait-together semantics.
func (p *Pool) Run(ctx context.Context, fns ...func(ctx context.Context) error) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, fn := range fns {
		fn := fn
		if err := p.sem.Acquire(groupCtx, 1); err != nil {
			if waitErr := group.Wait(); waitErr != nil {
				return waitErr
			}
			return err
		}
		group.Go(func() error {
			defer p.sem.Release(1)
			return fn(groupCtx)
		})
	}

	return group.Wait()
}
