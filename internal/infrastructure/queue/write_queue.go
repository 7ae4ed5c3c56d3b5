package queue

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/charactercatalog/catalog-api/internal/api/metrics"
)

const defaultBuffer = 64

// ErrQueueClosed is returned for jobs submitted after the worker stopped.
var ErrQueueClosed = errors.New("write queue closed")

type job struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// WriteQueue runs mutation jobs one at a time on a single worker goroutine, so
// every load-modify-save cycle sees the result of the previous one.
type WriteQueue struct {
	jobs    chan job
	stopped chan struct{}
	cancel  context.CancelFunc
	log     zerolog.Logger
}

// NewWriteQueue creates a queue holding up to buffer pending jobs.
// If buffer <= 0, defaultBuffer is used.
func NewWriteQueue(buffer int, log zerolog.Logger) *WriteQueue {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &WriteQueue{
		jobs:    make(chan job, buffer),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches the worker. It stops when ctx is cancelled or Stop is
// called; jobs still waiting in the buffer are failed with ErrQueueClosed.
func (q *WriteQueue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)
	go q.run(ctx)
}

// Stop shuts the worker down and waits for it. A job already running
// finishes first. Stop on a queue that was never started is a no-op.
func (q *WriteQueue) Stop() {
	if q.cancel == nil {
		return
	}
	q.cancel()
	<-q.stopped
}

// Do enqueues fn and blocks until the worker has run it, returning fn's
// error. A caller whose ctx ends while waiting gets ctx.Err(); the job itself
// still runs if it was already accepted.
func (q *WriteQueue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case <-q.stopped:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	case q.jobs <- j:
		metrics.WriteQueueDepth.Set(float64(len(q.jobs)))
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-q.stopped:
		// The worker answers every job it ran before stopping.
		select {
		case err := <-j.done:
			return err
		default:
			return ErrQueueClosed
		}
	}
}

func (q *WriteQueue) run(ctx context.Context) {
	defer q.drain()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-q.jobs:
			metrics.WriteQueueDepth.Set(float64(len(q.jobs)))
			// A fresh context: the request may go away while its write is
			// half done, but the save must still complete.
			err := j.fn(context.WithoutCancel(j.ctx))
			if err != nil {
				q.log.Debug().Err(err).Msg("write job failed")
			}
			j.done <- err
		}
	}
}

func (q *WriteQueue) drain() {
	close(q.stopped)
	for {
		select {
		case j := <-q.jobs:
			j.done <- ErrQueueClosed
		default:
			metrics.WriteQueueDepth.Set(0)
			q.log.Info().Msg("write queue stopped")
			return
		}
	}
}
