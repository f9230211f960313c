package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picgrip/internal/config"
	"picgrip/internal/domain"
	"picgrip/internal/eventbus"
)

// fakeBus records published events without dispatching them.
type fakeBus struct {
	published []eventbus.DomainEvent
}

func (b *fakeBus) Publish(event eventbus.DomainEvent) {
	b.published = append(b.published, event)
}

func (b *fakeBus) Subscribe(eventType eventbus.EventType, handler eventbus.EventHandler) func() {
	return func() {}
}

func (b *fakeBus) Close() {}

func (b *fakeBus) lastEvent() eventbus.DomainEvent {
	if len(b.published) == 0 {
		return nil
	}
	return b.published[len(b.published)-1]
}

func newTestModel() (*Model, *fakeBus) {
	bus := &fakeBus{}
	m := NewModel(config.DefaultConfig(), bus, domain.Idling{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, bus
}

func typeRune(m *Model, r rune) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestTypingPublishesSearchRequests(t *testing.T) {
	t.Parallel()

	m, bus := newTestModel()
	typeRune(m, 'c')
	typeRune(m, 'a')
	typeRune(m, 't')

	require.Len(t, bus.published, 3)
	last, ok := bus.lastEvent().(eventbus.SearchRequestedEvent)
	require.True(t, ok)
	assert.Equal(t, "cat", last.Keyword)
}

func TestClearingInputPublishesReset(t *testing.T) {
	t.Parallel()

	m, bus := newTestModel()
	typeRune(m, 'c')
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	_, ok := bus.lastEvent().(eventbus.ResetRequestedEvent)
	assert.True(t, ok)
}

func TestEscResetsSearch(t *testing.T) {
	t.Parallel()

	m, bus := newTestModel()
	typeRune(m, 'c')
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	_, ok := bus.lastEvent().(eventbus.ResetRequestedEvent)
	assert.True(t, ok)
	assert.Equal(t, "", m.input.Value())
}

func TestWalkingPastEndRequestsNextPage(t *testing.T) {
	t.Parallel()

	m, bus := newTestModel()
	m.applyState(domain.PhotosFetched{
		Keyword:    "cat",
		Photos:     []domain.Photo{{ID: 1}, {ID: 2}},
		Page:       1,
		TotalPages: 3,
	})

	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // to the last row
	require.Empty(t, bus.published)

	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // past the end
	_, ok := bus.lastEvent().(eventbus.LoadNextPageRequestedEvent)
	assert.True(t, ok)
}

func TestNextPageKeyIgnoredOnLastPage(t *testing.T) {
	t.Parallel()

	m, bus := newTestModel()
	m.applyState(domain.PhotosFetched{
		Keyword:    "cat",
		Photos:     []domain.Photo{{ID: 1}},
		Page:       3,
		TotalPages: 3,
	})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Empty(t, bus.published)
}

func TestNextPageKeyRetriesFailedPage(t *testing.T) {
	t.Parallel()

	m, bus := newTestModel()
	m.applyState(domain.LoadPageFailed{
		Keyword:    "cat",
		Photos:     []domain.Photo{{ID: 1}},
		FailedPage: 2,
		TotalPages: 3,
	})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	_, ok := bus.lastEvent().(eventbus.LoadNextPageRequestedEvent)
	assert.True(t, ok)
}

func TestTabCyclesSuggestionsIntoSearch(t *testing.T) {
	t.Parallel()

	m, bus := newTestModel()
	m.applyState(domain.KeywordsLoaded{Keywords: []domain.Keyword{
		{Word: "sunset"}, {Word: "coffee"},
	}})

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	first, ok := bus.lastEvent().(eventbus.SearchRequestedEvent)
	require.True(t, ok)
	assert.Equal(t, "sunset", first.Keyword)
	assert.Equal(t, "sunset", m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	second := bus.lastEvent().(eventbus.SearchRequestedEvent)
	assert.Equal(t, "coffee", second.Keyword)
}

func TestStateChangeEventUpdatesView(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel()
	m.Update(EventMsg{Event: eventbus.StateChangedEvent{
		State: domain.Searching{Keyword: "cat"},
	}})

	assert.Contains(t, m.View(), "searching")

	m.Update(EventMsg{Event: eventbus.StateChangedEvent{
		State: domain.NotFound{Keyword: "cat"},
	}})
	assert.Contains(t, m.View(), "no photos found")
}

func TestPhotosAreRendered(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel()
	m.applyState(domain.PhotosFetched{
		Keyword: "cat",
		Photos: []domain.Photo{
			{ID: 1, Tags: "cat, cute", User: "alice", Likes: 12},
			{ID: 2, Tags: "kitten", User: "bob", Likes: 4},
		},
		Page:       1,
		TotalPages: 3,
	})

	view := m.View()
	assert.Contains(t, view, "cat, cute")
	assert.Contains(t, view, "kitten")
	assert.Contains(t, view, "page 1/3")
	assert.True(t, strings.Contains(view, "alice") && strings.Contains(view, "bob"))
}

func TestCursorClampsWhenResultsShrink(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel()
	m.applyState(domain.PhotosFetched{
		Keyword:    "cat",
		Photos:     []domain.Photo{{ID: 1}, {ID: 2}, {ID: 3}},
		Page:       1,
		TotalPages: 1,
	})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	m.applyState(domain.PhotosFetched{
		Keyword:    "cat",
		Photos:     []domain.Photo{{ID: 1}},
		Page:       1,
		TotalPages: 1,
	})
	assert.Equal(t, 0, m.cursor)
}
