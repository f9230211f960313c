package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	SearchBox    lipgloss.Style
	Dim          lipgloss.Style
	Keyword      lipgloss.Style
	Suggestion   lipgloss.Style
	SuggestionHi lipgloss.Style
	Tags         lipgloss.Style
	User         lipgloss.Style
	Details      lipgloss.Style
	Cursor       lipgloss.Style
	SelectedBg   lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		SearchBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			PaddingLeft(1).
			PaddingRight(1),
		Dim:          lipgloss.NewStyle().Faint(true),
		Keyword:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Suggestion:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		SuggestionHi: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Reverse(true),
		Tags:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		User:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Details:      lipgloss.NewStyle().Faint(true),
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		SelectedBg:   lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}
