// Package worker runs the bout log recorders: workers that drain the bout
// queue and append each result to the history at most once.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount  = 2
	poolShutdownTimeout = 30 * time.Second
)

// Event abstracts what recorders read off the queue.
type Event = model.BoutResult

// Queue defines how recorders receive bout results.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Appender is the destination bout log.
type Appender interface {
	Append(ctx context.Context, r model.BoutResult)
}

// Deduper guards against recording the same bout twice.
type Deduper interface {
	SeenAndRecord(ctx context.Context, id string) bool
}

// Recorder processes bout results from the queue into the bout log.
type Recorder struct {
	queue   Queue
	deduper Deduper
	log     Appender
	name    string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewRecorder creates a new recorder with configuration options.
func NewRecorder(queue Queue, deduper Deduper, log Appender, opts ...Option) *Recorder {
	r := &Recorder{
		queue:    queue,
		deduper:  deduper,
		log:      log,
		name:     "recorder", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named(r.name)
	}
	return r
}

// Run starts the recorder loop until ctx is canceled or the queue closes.
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)

	eventChan := r.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				// Channel closed, recorder should stop
				return
			}
			r.record(ctx, event)
		}
	}
}

// Shutdown gracefully stops the recorder.
func (r *Recorder) Shutdown(ctx context.Context) error {
	close(r.shutdown)

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// record appends a single bout result, dropping duplicates.
func (r *Recorder) record(ctx context.Context, event Event) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if event.BoutID == "" {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "missing_bout_id")
		r.logger.Error(ctx, "bout result without id, dropping")
		return
	}

	if r.deduper.SeenAndRecord(ctx, event.BoutID) {
		metrics.RecordBoutDuplicate()
		r.logger.Debug(ctx, "duplicate bout, skipping", logger.String("boutID", event.BoutID))
		return
	}

	r.log.Append(ctx, event)
	metrics.RecordBoutRecorded()
}

// Pool manages multiple recorders.
type Pool struct {
	recorders []*Recorder

	logger logger.Logger
}

// NewPool creates a new recorder pool.
func NewPool(workerCount int, queue Queue, deduper Deduper, log Appender) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		recorders: make([]*Recorder, workerCount),
		logger:    logger.Get().Named("recorder-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.recorders[i] = NewRecorder(
			queue,
			deduper,
			log,
			WithName("recorder-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	return pool
}

// Start starts all recorders in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, r := range p.recorders {
		go r.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire pool, closing the queue first
// so in-flight bouts are drained before the recorders exit.
func (p *Pool) Shutdown(ctx context.Context, queue interface{ Close() error }) error {
	if queue != nil {
		if err := queue.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, r := range p.recorders {
		select {
		case <-r.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "recorder shutdown timed out", logger.Int("recorder_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}
