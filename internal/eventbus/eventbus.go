package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"picgrip/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventStateChanged          = domain.EventStateChanged
	EventSearchRequested       = domain.EventSearchRequested
	EventLoadNextPageRequested = domain.EventLoadNextPageRequested
	EventResetRequested        = domain.EventResetRequested
)

// Re-export domain event types
type StateChangedEvent = domain.StateChangedEvent
type SearchRequestedEvent = domain.SearchRequestedEvent
type LoadNextPageRequestedEvent = domain.LoadNextPageRequestedEvent
type ResetRequestedEvent = domain.ResetRequestedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

// bus is the concrete implementation of EventBus
type bus struct {
	logger    *zap.Logger
	mu        sync.RWMutex
	handlers  map[EventType][]*subscription
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	closeOnce sync.Once
	quit      chan struct{}
}

type subscription struct {
	handler EventHandler
}

// New creates a new event bus
func New(logger *zap.Logger) EventBus {
	b := &bus{
		logger:    logger,
		handlers:  make(map[EventType][]*subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	select {
	case b.eventChan <- event:
	case <-b.quit:
		// Bus closed, drop the event
	default:
		b.logger.Warn("event bus channel full, dropping event",
			zap.String("event", string(event.Type())))
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	sub := &subscription{handler: handler}

	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s == sub {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Events published afterwards are dropped.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers. Handlers run on the
// dispatcher goroutine so each subscriber observes events in publish
// order; state consumers rely on that.
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)
		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	subsCopy := make([]*subscription, len(subs))
	copy(subsCopy, subs)
	b.mu.RUnlock()

	for _, sub := range subsCopy {
		b.call(sub.handler, event)
	}
}

func (b *bus) call(handler EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				zap.String("event", string(event.Type())),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	handler(event)
}
