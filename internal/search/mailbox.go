package search

import (
	"context"
	"sync"
)

// mailbox is a one-element conflating channel for keywords. Put replaces
// any keyword the consumer has not picked up yet, so a burst of rapid
// keyword changes collapses to the most recent one.
type mailbox struct {
	mu     sync.Mutex
	ch     chan string
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{ch: make(chan string, 1)}
}

// Put enqueues keyword for the consumer, overwriting any undelivered
// keyword. It never blocks.
func (m *mailbox) Put(keyword string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	for {
		select {
		case m.ch <- keyword:
			return
		default:
			// Slot taken: discard the stale keyword and retry.
			select {
			case <-m.ch:
			default:
			}
		}
	}
}

// Get blocks until a keyword is available, the mailbox is closed, or ctx
// is done. The second return value is false when no more keywords will be
// delivered.
func (m *mailbox) Get(ctx context.Context) (string, bool) {
	select {
	case keyword, ok := <-m.ch:
		return keyword, ok
	case <-ctx.Done():
		return "", false
	}
}

// Close releases the consumer. Puts after Close are ignored.
func (m *mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.ch)
	}
}
