package refresh

import "time"

// TickProvider defines a wrapper for time.Ticker
type TickProvider interface {
	Stop()
	Reset(d time.Duration)
	C() <-chan time.Time
}

// TimedTickProvider wraps a time.Ticker to implement TickProvider
type TimedTickProvider struct {
	ticker *time.Ticker
}

var _ TickProvider = &TimedTickProvider{}

// NewTimedTickProvider creates a new TimedTickProvider
func NewTimedTickProvider(d time.Duration) *TimedTickProvider {
	return &TimedTickProvider{ticker: time.NewTicker(d)}
}

// Stop stops the ticker
func (tw *TimedTickProvider) Stop() {
	tw.ticker.Stop()
}

// Reset resets the ticker with a new duration
func (tw *TimedTickProvider) Reset(d time.Duration) {
	tw.ticker.Reset(d)
}

// C returns the ticker's channel
func (tw *TimedTickProvider) C() <-chan time.Time {
	return tw.ticker.C
}

// MockTickProvider is a TickProvider driven manually from tests.
type MockTickProvider struct {
	ch chan time.Time
}

var _ TickProvider = &MockTickProvider{}

func NewMockTickProvider() *MockTickProvider {
	return &MockTickProvider{ch: make(chan time.Time)}
}

// Tick fires one tick, blocking until the consumer reads it.
func (m *MockTickProvider) Tick() {
	m.ch <- time.Now()
}

func (m *MockTickProvider) Stop() {}

func (m *MockTickProvider) Reset(time.Duration) {}

func (m *MockTickProvider) C() <-chan time.Time {
	return m.ch
}
