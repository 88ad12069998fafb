package pfhub

import (
	"context"
	"errors"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrRuntimeClosed is returned by parallel work submitted after Close.
var ErrRuntimeClosed = errors.New("pfhub: runtime closed")

// Runtime is the parallel execution environment simulations run their
// transforms on. Open it once before any configuration work and Close it on
// every exit path:
//
//	rt := pfhub.Open(workers)
//	defer rt.Close()
//
// Runtime is not safe for concurrent ParallelFor calls from multiple goroutines.
type Runtime struct {
	workers int
	closed  bool
}

// Open acquires a runtime with the given number of workers.
// workers <= 0 selects GOMAXPROCS.
func Open(workers int) *Runtime {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logrus.Debugf("pfhub runtime opened with %d workers", workers)
	return &Runtime{workers: workers}
}

// Workers returns the number of workers.
func (r *Runtime) Workers() int {
	return r.workers
}

// Close releases the runtime. Idempotent.
func (r *Runtime) Close() error {
	if !r.closed {
		r.closed = true
		logrus.Debugf("pfhub runtime closed")
	}
	return nil
}

// ParallelFor splits [0, n) into at most Workers() contiguous chunks and calls
// fn(chunk, lo, hi) for each on its own goroutine. chunk is in [0, Workers())
// and lets fn index per-worker scratch space. The first error cancels ctx for
// the remaining chunks and is returned.
func (r *Runtime) ParallelFor(ctx context.Context, n int, fn func(ctx context.Context, chunk, lo, hi int) error) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	chunks := min(r.workers, n)
	if chunks <= 1 {
		return fn(ctx, 0, 0, n)
	}
	g, gctx := errgroup.WithContext(ctx)
	size := (n + chunks - 1) / chunks
	for c := 0; c < chunks; c++ {
		lo, hi := c*size, min((c+1)*size, n)
		if lo >= hi {
			break
		}
		c := c
		g.Go(func() error {
			return fn(gctx, c, lo, hi)
		})
	}
	return g.Wait()
}
