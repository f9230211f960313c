package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"picgrip/internal/config"
	"picgrip/internal/domain"
	"picgrip/internal/eventbus"
	"picgrip/internal/ui/views"
)

// keyMap defines the key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	Suggest  key.Binding
	Reset    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		NextPage: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next page")),
		Suggest:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "suggestion")),
		Reset:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPage, k.Suggest, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config

	state         domain.SearchState
	suggestions   []domain.Keyword
	suggestionIdx int
	cursor        int

	input    textinput.Model
	spin     spinner.Model
	help     help.Model
	keys     keyMap
	renderer *views.Renderer

	width  int
	height int
}

// NewModel creates a new UI model
func NewModel(cfg *config.Config, bus eventbus.EventBus, initial domain.SearchState) *Model {
	input := textinput.New()
	input.Placeholder = "search photos"
	input.Prompt = "🔍 "
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		bus:           bus,
		config:        cfg,
		state:         initial,
		suggestionIdx: -1,
		input:         input,
		spin:          spin,
		help:          help.New(),
		keys:          defaultKeyMap(),
		renderer:      views.NewRenderer(),
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 8
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case EventMsg:
		if event, ok := msg.Event.(eventbus.StateChangedEvent); ok {
			m.applyState(event.State)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reset):
		m.input.SetValue("")
		m.suggestionIdx = -1
		m.cursor = 0
		m.bus.Publish(eventbus.ResetRequestedEvent{})
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		photos := m.visiblePhotos()
		if m.cursor < len(photos)-1 {
			m.cursor++
		} else if m.canLoadMore() {
			// Walking past the end pulls in the next page.
			m.bus.Publish(eventbus.LoadNextPageRequestedEvent{})
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.canLoadMore() {
			m.bus.Publish(eventbus.LoadNextPageRequestedEvent{})
		}
		return m, nil

	case key.Matches(msg, m.keys.Suggest):
		if len(m.suggestions) > 0 {
			m.suggestionIdx = (m.suggestionIdx + 1) % len(m.suggestions)
			word := m.suggestions[m.suggestionIdx].Word
			m.input.SetValue(word)
			m.input.CursorEnd()
			m.bus.Publish(eventbus.SearchRequestedEvent{Keyword: word})
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()

	if after != before {
		m.suggestionIdx = -1
		m.cursor = 0
		if strings.TrimSpace(after) == "" {
			m.bus.Publish(eventbus.ResetRequestedEvent{})
		} else {
			m.bus.Publish(eventbus.SearchRequestedEvent{Keyword: after})
		}
	}

	return m, cmd
}

// applyState installs a freshly published state
func (m *Model) applyState(state domain.SearchState) {
	m.state = state

	if loaded, ok := state.(domain.KeywordsLoaded); ok {
		m.suggestions = loaded.Keywords
	}

	if max := len(m.visiblePhotos()) - 1; m.cursor > max {
		if max < 0 {
			max = 0
		}
		m.cursor = max
	}
}

// visiblePhotos returns the photos the current state displays
func (m *Model) visiblePhotos() []domain.Photo {
	switch s := m.state.(type) {
	case domain.PhotosFetched:
		return s.Photos
	case domain.LoadingNextPage:
		return s.Photos
	case domain.LoadPageFailed:
		return s.Photos
	default:
		return nil
	}
}

// canLoadMore reports whether a next-page request would do anything
func (m *Model) canLoadMore() bool {
	switch s := m.state.(type) {
	case domain.PhotosFetched:
		return s.Page < s.TotalPages
	case domain.LoadPageFailed:
		return s.FailedPage <= s.TotalPages
	default:
		return false
	}
}

// View renders the UI
func (m *Model) View() string {
	return m.renderer.Render(views.ViewState{
		Width:           m.width,
		Height:          m.height,
		State:           m.state,
		Suggestions:     m.suggestions,
		SuggestionIndex: m.suggestionIdx,
		Cursor:          m.cursor,
		InputView:       m.input.View(),
		SpinnerView:     m.spin.View(),
		HelpView:        m.help.View(m.keys),
		ShowDetails:     m.config.UISettings.ShowPhotoDetails,
	})
}
