package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventStateChanged          EventType = "StateChanged"
	EventSearchRequested       EventType = "SearchRequested"
	EventLoadNextPageRequested EventType = "LoadNextPageRequested"
	EventResetRequested        EventType = "ResetRequested"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// StateChangedEvent is emitted whenever the search controller publishes a
// new current state.
type StateChangedEvent struct {
	State SearchState
}

func (e StateChangedEvent) Type() EventType { return EventStateChanged }

// SearchRequestedEvent is emitted to request a search for a keyword.
// Rapid requests are conflated; only the most recent undelivered keyword
// is kept.
type SearchRequestedEvent struct {
	Keyword string
}

func (e SearchRequestedEvent) Type() EventType { return EventSearchRequested }

// LoadNextPageRequestedEvent is emitted to request the next result page.
// It is ignored unless the current state can continue pagination.
type LoadNextPageRequestedEvent struct{}

func (e LoadNextPageRequestedEvent) Type() EventType { return EventLoadNextPageRequested }

// ResetRequestedEvent is emitted to abandon the current search and return
// to the idle state.
type ResetRequestedEvent struct{}

func (e ResetRequestedEvent) Type() EventType { return EventResetRequested }
