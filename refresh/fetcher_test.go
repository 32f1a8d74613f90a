package refresh_test

import (
	"context"
	"sync"
	"testing"

	"github.com/necaris/k8s-eip-operator/refresh"
)

// observation is a trivially Equalable fetch result.
type observation struct {
	Value int
}

func (o observation) Equal(other observation) bool {
	return o.Value == other.Value
}

// countingSource tracks fetches and hands out a configurable observation.
type countingSource struct {
	mu         sync.Mutex
	fetchCount int
	next       observation
}

func (s *countingSource) FetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCount
}

func (s *countingSource) Set(o observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = o
}

func (s *countingSource) Fetch(_ context.Context) (observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCount++
	return s.next, nil
}

// countingConsumer tracks consumed observations.
type countingConsumer struct {
	mu           sync.Mutex
	consumeCount int
	last         observation
}

func (c *countingConsumer) ConsumeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consumeCount
}

func (c *countingConsumer) Consume(o observation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumeCount++
	c.last = o
	return nil
}

func TestRefresh(t *testing.T) {
	source := &countingSource{}
	consumer := &countingConsumer{}
	source.Set(observation{Value: 1})

	fetcher := refresh.NewFetcher[observation](source.Fetch, 0, 0, consumer.Consume, nil)
	ticker := refresh.NewMockTickProvider()
	fetcher.SetTicker(ticker)
	ctx, cancel := testContext(t)
	defer cancel()
	fetcher.Start(ctx)

	source.Set(observation{Value: 2})
	ticker.Tick() // trigger a refresh
	ticker.Tick() // this tick is read only after the previous refresh is done
	ticker.Tick() // this call blocks until the previous tick is consumed

	// at least the initial fetch and one tick-driven fetch must be done
	if source.FetchCount() < 2 {
		t.Error("not enough fetches")
	}

	// the value changed between the initial fetch and the first tick, so
	// at least two consumes must have happened
	if consumer.ConsumeCount() < 2 {
		t.Error("not enough consumes")
	}
}

func TestInterval(t *testing.T) {
	source := &countingSource{}
	consumer := &countingConsumer{}
	fetcher := refresh.NewFetcher[observation](source.Fetch, 0, 0, consumer.Consume, nil)

	if fetcher.GetCurrentInterval() != refresh.DefaultMinInterval {
		t.Error("default min interval not used")
	}
}

// testContext creates a context from the provided testing.T that will be
// canceled if the test suite is terminated.
func testContext(t *testing.T) (context.Context, context.CancelFunc) {
	if deadline, ok := t.Deadline(); ok {
		return context.WithDeadline(context.Background(), deadline)
	}
	return context.WithCancel(context.Background())
}
