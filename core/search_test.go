package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type blockingIndex struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (idx *blockingIndex) Refresh(ctx context.Context) error {
	idx.mu.Lock()
	idx.calls++
	var call = idx.calls
	idx.mu.Unlock()
	if call == 1 {
		close(idx.started)
		<-idx.release
	}
	return nil
}

func TestSearchTriggerCoalesces(t *testing.T) {

	var idx = &blockingIndex{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	var trigger = NewSearchTrigger(idx, time.Second)

	trigger.Signal()

	select {
	case <-idx.started:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh has not started")
	}

	for i := 0; i < 5; i++ {
		trigger.Signal() // never blocks
	}

	close(idx.release)
	trigger.Close()

	if idx.calls != 2 {
		t.Fatalf("got %d refreshes, want 2", idx.calls)
	}

	trigger.Signal() // no-op after Close
}

type failingIndex struct {
	done chan struct{}
}

func (idx failingIndex) Refresh(ctx context.Context) error {
	defer close(idx.done)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	return errors.New("index unavailable")
}

func TestSearchTriggerFailureIsLogged(t *testing.T) {
	var idx = failingIndex{done: make(chan struct{})}
	var trigger = NewSearchTrigger(idx, time.Second)
	trigger.Signal()
	<-idx.done
	trigger.Close()
}

func TestSearchTriggerNil(t *testing.T) {
	var trigger *SearchTrigger
	trigger.Signal()
}
