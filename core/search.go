package core

import (
	"context"
	"log"
	"sync"
	"time"
)

type SearchHit struct {
	EntryID  int       `json:"id"`
	Type     EntryType `json:"type"`
	Language string    `json:"language"`
	Title    string    `json:"title"`
	Snippet  string    `json:"snippet"`
}

// SearchIndex is a denormalized index which is rebuilt from the entries.
type SearchIndex interface {
	Refresh(ctx context.Context) error
}

type SearchDB interface {
	SearchIndex
	Search(ctx context.Context, language, query string, limit int) ([]SearchHit, error)
}

// SearchTrigger refreshes a search index in the background. Signals which arrive during a refresh are coalesced into one further refresh.
type SearchTrigger struct {
	index   SearchIndex
	timeout time.Duration
	pending chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
}

func NewSearchTrigger(index SearchIndex, timeout time.Duration) *SearchTrigger {
	var s = &SearchTrigger{
		index:   index,
		timeout: timeout,
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *SearchTrigger) run() {
	defer close(s.done)
	for range s.pending {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.index.Refresh(ctx); err != nil {
			log.Printf("error refreshing search index: %v", err) // the entry write has succeeded anyway
		}
		cancel()
	}
}

// Signal requests a refresh. It never blocks. It is a no-op on a nil or closed trigger.
func (s *SearchTrigger) Signal() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.pending <- struct{}{}:
	default: // a refresh is pending already
	}
}

// Close waits for a pending refresh and stops the trigger.
func (s *SearchTrigger) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.pending)
	}
	s.mu.Unlock()
	<-s.done
}
