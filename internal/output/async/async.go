package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/overcut/podium/internal/model"
	"github.com/overcut/podium/internal/output"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write return immediately (dropping the batch) when
// the buffer is full, instead of blocking. Use for sinks where lossiness is
// acceptable (e.g., a non-critical webhook).
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async decouples prediction production from delivery via a buffered
// channel. Replay mode writes into the channel as fast as inference runs; a
// background goroutine drains it to the wrapped output so a slow sink never
// stalls the engine. Errors from the inner output are passed to errFunc
// rather than propagated to the caller.
type Async struct {
	inner      output.Output
	ch         chan model.PredictionBatch
	done       chan struct{}
	errFunc    func(error)
	bufSize    int
	dropOnFull bool
	closeOnce  sync.Once
}

// New wraps an output.Output in an async channel-based writer.
// The background drain goroutine starts immediately.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.PredictionBatch, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write sends the batch into the channel. By default, blocks if the channel
// is full (backpressure). With WithDropOnFull, returns nil immediately and
// the batch is lost.
func (a *Async) Write(_ context.Context, batch model.PredictionBatch) error {
	if a.dropOnFull {
		select {
		case a.ch <- batch:
		default:
			slog.Warn("async output buffer full, dropping batch",
				"season", batch.Season, "round", batch.Round)
		}
		return nil
	}
	a.ch <- batch
	return nil
}

// Close closes the channel, waits for the drain goroutine to finish
// (with a timeout), then closes the inner output.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("async output drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

// drain reads batches from the channel and writes them to the inner output.
func (a *Async) drain() {
	defer close(a.done)
	for batch := range a.ch {
		if err := a.inner.Write(context.Background(), batch); err != nil {
			a.errFunc(err)
		}
	}
}
