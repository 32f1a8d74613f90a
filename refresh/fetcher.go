// Package refresh runs a fetch-and-consume loop at an adaptive interval.
// The quota reporter and orphan sweeper are driven from here: when an
// observation stops changing, polls back off exponentially; any change
// snaps the interval back to the minimum.
package refresh

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMinInterval = 4 * time.Second
	DefaultMaxInterval = 1024 * time.Second
)

// Equalable lets the fetcher decide whether a fresh observation differs
// from the cached one without resorting to reflection.
type Equalable[T any] interface {
	Equal(other T) bool
}

type Fetcher[T Equalable[T]] struct {
	fetchFunc       func(context.Context) (T, error)
	cache           T
	minInterval     time.Duration
	maxInterval     time.Duration
	currentInterval time.Duration
	ticker          TickProvider
	consumeFunc     func(T) error
	logger          *zap.Logger
}

// NewFetcher creates a new Fetcher. Zero intervals take the defaults.
func NewFetcher[T Equalable[T]](fetchFunc func(context.Context) (T, error), minInterval, maxInterval time.Duration, consumeFunc func(T) error, logger *zap.Logger) *Fetcher[T] {
	if minInterval == 0 {
		minInterval = DefaultMinInterval
	}
	if maxInterval == 0 {
		maxInterval = DefaultMaxInterval
	}
	maxInterval = max(minInterval, maxInterval)

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher[T]{
		fetchFunc:       fetchFunc,
		minInterval:     minInterval,
		maxInterval:     maxInterval,
		currentInterval: minInterval,
		consumeFunc:     consumeFunc,
		logger:          logger,
	}
}

// SetTicker replaces the tick source. Tests install a mock here before
// calling Start.
func (f *Fetcher[T]) SetTicker(ticker TickProvider) {
	f.ticker = ticker
}

// GetCurrentInterval returns the current polling interval.
func (f *Fetcher[T]) GetCurrentInterval() time.Duration {
	return f.currentInterval
}

// Start launches the fetch loop. It returns immediately; the loop exits
// when the context is canceled.
func (f *Fetcher[T]) Start(ctx context.Context) {
	go func() {
		// do an initial fetch
		res, err := f.fetchFunc(ctx)
		if err != nil {
			f.logger.Error("initial fetch failed", zap.Error(err))
		} else {
			f.cache = res
			f.consume(res)
		}

		if f.ticker == nil {
			f.ticker = NewTimedTickProvider(f.currentInterval)
		}
		defer f.ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				f.logger.Info("fetcher stopped")
				return
			case <-f.ticker.C():
				result, err := f.fetchFunc(ctx)
				switch {
				case err != nil:
					f.logger.Error("fetch failed", zap.Error(err))
				case result.Equal(f.cache):
					f.backOff()
				default:
					f.cache = result
					f.currentInterval = f.minInterval
					f.consume(result)
				}
				f.ticker.Reset(f.currentInterval)
			}
		}
	}()
}

func (f *Fetcher[T]) consume(result T) {
	if f.consumeFunc == nil {
		return
	}
	if err := f.consumeFunc(result); err != nil {
		f.logger.Error("consume failed", zap.Error(err))
	}
}

func (f *Fetcher[T]) backOff() {
	f.currentInterval = min(f.currentInterval*2, f.maxInterval) // nolint:gomnd // doubling logic
}
