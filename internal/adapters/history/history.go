// Package history keeps the append-only bout log. The log is a bounded
// in-memory buffer external to the engine core; losing an entry never
// affects the boxer records themselves.
package history

import (
	"context"
	"sync"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/pkg/metrics"
)

// Default history configuration constants.
const (
	defaultMaxSize = 1000
)

// Log is a mutex-guarded, bounded append-only bout log. When full, the
// oldest entry is dropped.
type Log struct {
	mu      sync.RWMutex
	bouts   []model.BoutResult
	maxSize int
}

// Option applies a configuration option to the Log.
type Option func(*Log)

// WithMaxSize bounds the number of retained bouts.
func WithMaxSize(size int) Option {
	return func(l *Log) {
		if size > 0 {
			l.maxSize = size
		}
	}
}

// New constructs an empty Log with configuration options.
func New(opts ...Option) *Log {
	l := &Log{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.bouts = make([]model.BoutResult, 0, l.maxSize)
	return l
}

// Append adds a bout to the log, evicting the oldest entry when full.
func (l *Log) Append(ctx context.Context, r model.BoutResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.bouts) >= l.maxSize {
		l.bouts = l.bouts[1:]
	}
	l.bouts = append(l.bouts, r)
	metrics.UpdateHistorySize(len(l.bouts))
}

// Recent returns up to n bouts, newest first.
func (l *Log) Recent(ctx context.Context, n int) []model.BoutResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n < 1 || n > len(l.bouts) {
		n = len(l.bouts)
	}
	out := make([]model.BoutResult, 0, n)
	for i := len(l.bouts) - 1; i >= len(l.bouts)-n; i-- {
		out = append(out, l.bouts[i])
	}
	return out
}

// Count returns the number of retained bouts.
func (l *Log) Count(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bouts)
}
