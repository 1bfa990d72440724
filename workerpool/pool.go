package workerpool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("worker pool closed")

// Pool limits concurrent execution of submitted functions.
type Pool struct {
	sem    *semaphore.Weighted
	size   int64
	logger *slog.Logger
	done   chan struct{}
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used for results that arrive after their
// caller stopped waiting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a Pool running at most size functions at once. A size below
// one defaults to GOMAXPROCS.
func New(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		size:   int64(size),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the maximum number of concurrent functions.
func (p *Pool) Size() int {
	return int(p.size)
}

// Close stops the pool from accepting work. Functions already running are
// not affected. Close must be called at most once.
func (p *Pool) Close() {
	close(p.done)
}

type result[T any] struct {
	value T
	err   error
}

// Run waits for a free slot, runs fn on its own goroutine and returns its
// result. If ctx ends first, Run returns ctx.Err() immediately; fn keeps
// running, its result is discarded and the slot is released when it
// returns.
func Run[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	var zero T

	select {
	case <-p.done:
		return zero, ErrClosed
	default:
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	out := make(chan result[T], 1)
	go func() {
		defer p.sem.Release(1)
		value, err := fn()
		out <- result[T]{value: value, err: err}
	}()

	select {
	case r := <-out:
		return r.value, r.err
	case <-ctx.Done():
		go func() {
			r := <-out
			p.logger.Debug("discarded result of abandoned call", "error", r.err)
		}()
		return zero, ctx.Err()
	}
}
