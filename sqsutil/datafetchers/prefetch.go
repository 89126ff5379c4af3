package datafetchers

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Fetcher is an interface that provides a method to get a value.
type Fetcher[T any] interface {
	Get() (T, time.Time, error)
	GetRefetchInterval() time.Duration
}

var (
	ErrNoValueRetrieved = errors.New("no cached value has ever been retrieved")
	ErrFetcherClosed    = errors.New("fetcher has been closed")
)

// IntervalFetcher is a struct that prefetches a value at a given interval
// and provides a method to get the latest value.
// NOTE: It may return stale data if the update function takes longer than the interval.
type IntervalFetcher[T any] struct {
	updateFn func() (T, error)
	interval time.Duration

	firstFetchOnce sync.Once
	firstFetchChan chan struct{}
	done           chan struct{}
	closeOnce      sync.Once

	hasClosed         bool
	lastRetrievedTime time.Time
	cache             T
	mutex             sync.RWMutex
}

var _ Fetcher[struct{}] = &IntervalFetcher[struct{}]{}

// NewIntervalFetcher starts fetching in the background, immediately and then every interval.
// Panics if interval is not positive.
func NewIntervalFetcher[T any](updateFn func() (T, error), interval time.Duration) *IntervalFetcher[T] {
	if interval <= 0 {
		panic("interval must be greater than 0")
	}
	fetcher := &IntervalFetcher[T]{
		updateFn:       updateFn,
		interval:       interval,
		firstFetchChan: make(chan struct{}),
		done:           make(chan struct{}),
	}

	go fetcher.run()

	return fetcher
}

func (p *IntervalFetcher[T]) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.prefetch()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.prefetch()
		}
	}
}

func (p *IntervalFetcher[T]) prefetch() {
	newValue, err := p.updateFn()
	if err != nil {
		// Keep the previous value. Its retrieval time signals staleness to the client.
		return
	}

	p.mutex.Lock()
	p.lastRetrievedTime = time.Now()
	p.cache = newValue
	p.mutex.Unlock()

	p.firstFetchOnce.Do(func() { close(p.firstFetchChan) })
}

// Get returns the latest value and the time it was last retrieved.
// If no value has ever been retrieved or the fetcher is closed, it returns an error.
func (p *IntervalFetcher[T]) Get() (T, time.Time, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	if p.hasClosed {
		var zero T
		return zero, time.Time{}, ErrFetcherClosed
	}
	if p.lastRetrievedTime.IsZero() {
		return p.cache, time.Time{}, ErrNoValueRetrieved
	}

	return p.cache, p.lastRetrievedTime, nil
}

// WaitUntilFirstResult blocks until the first successful fetch or until ctx is done.
func (p *IntervalFetcher[T]) WaitUntilFirstResult(ctx context.Context) error {
	select {
	case <-p.firstFetchChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops fetching. Get errors afterwards.
func (p *IntervalFetcher[T]) Close() {
	p.closeOnce.Do(func() {
		p.mutex.Lock()
		p.hasClosed = true
		p.mutex.Unlock()

		close(p.done)
	})
}

func (p *IntervalFetcher[T]) GetRefetchInterval() time.Duration {
	return p.interval
}
