package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"picgrip/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width           int
	Height          int
	State           domain.SearchState
	Suggestions     []domain.Keyword
	SuggestionIndex int
	Cursor          int
	InputView       string
	SpinnerView     string
	HelpView        string
	ShowDetails     bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.styles.Title.Render("picgrip"))
	content.WriteString("\n")
	content.WriteString(r.styles.SearchBox.Render(state.InputView))
	content.WriteString("\n")

	body := r.renderBody(state)
	content.WriteString(body)

	if state.HelpView != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	return content.String()
}

func (r *Renderer) renderBody(state ViewState) string {
	switch s := state.State.(type) {
	case domain.Idling:
		return r.renderIdle(state, state.Suggestions)
	case domain.KeywordsLoaded:
		return r.renderIdle(state, s.Keywords)
	case domain.Searching:
		return r.styles.Status.Render(fmt.Sprintf("%s searching %s…",
			state.SpinnerView, r.styles.Keyword.Render(quoted(s.Keyword))))
	case domain.NotFound:
		return r.styles.Status.Render(fmt.Sprintf("no photos found for %s",
			r.styles.Keyword.Render(quoted(s.Keyword))))
	case domain.SearchFailed:
		return r.styles.StatusError.Render(fmt.Sprintf("search failed for %s · keep typing to retry",
			quoted(s.Keyword)))
	case domain.PhotosFetched:
		footer := fmt.Sprintf("page %d/%d · %d photos", s.Page, s.TotalPages, len(s.Photos))
		if s.Page < s.TotalPages {
			footer += " · ctrl+n next page"
		}
		return r.renderPhotos(state, s.Photos, r.styles.Status.Render(footer))
	case domain.LoadingNextPage:
		footer := fmt.Sprintf("%s loading next page…", state.SpinnerView)
		return r.renderPhotos(state, s.Photos, r.styles.Status.Render(footer))
	case domain.LoadPageFailed:
		footer := fmt.Sprintf("failed to load page %d · ctrl+n to retry", s.FailedPage)
		return r.renderPhotos(state, s.Photos, r.styles.StatusError.Render(footer))
	default:
		return ""
	}
}

func (r *Renderer) renderIdle(state ViewState, suggestions []domain.Keyword) string {
	lines := []string{r.styles.Dim.Render("type to search photos")}

	if len(suggestions) > 0 {
		parts := make([]string, 0, len(suggestions))
		for i, kw := range suggestions {
			style := r.styles.Suggestion
			if i == state.SuggestionIndex || kw.Selected {
				style = r.styles.SuggestionHi
			}
			parts = append(parts, style.Render(kw.Word))
		}
		lines = append(lines, "")
		lines = append(lines, r.styles.Dim.Render("suggestions (tab to cycle):"))
		lines = append(lines, strings.Join(parts, "  "))
	}

	return r.styles.Status.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (r *Renderer) renderPhotos(state ViewState, photos []domain.Photo, footer string) string {
	rows := r.visibleRows(state, len(photos))
	lines := make([]string, 0, rows+2)

	start := r.windowStart(state.Cursor, rows, len(photos))
	for i := start; i < len(photos) && i < start+rows; i++ {
		lines = append(lines, r.renderRow(state, photos[i], i == state.Cursor))
	}

	lines = append(lines, footer)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) renderRow(state ViewState, photo domain.Photo, selected bool) string {
	marker := "  "
	if selected {
		marker = r.styles.Cursor.Render("❯ ")
	}

	tags := photo.Tags
	if tags == "" {
		tags = "(untitled)"
	}
	line := marker + r.styles.Tags.Render(truncate(tags, 40)) +
		"  " + r.styles.User.Render("by "+photo.User)

	if state.ShowDetails {
		line += "  " + r.styles.Details.Render(
			fmt.Sprintf("♥ %d  ⇣ %d", photo.Likes, photo.Downloads))
	}

	if selected {
		return r.styles.SelectedBg.Render(line)
	}
	return line
}

// visibleRows computes how many photo rows fit between the header and the
// footer/help lines.
func (r *Renderer) visibleRows(state ViewState, total int) int {
	rows := state.Height - 8
	if rows < 5 {
		rows = 5
	}
	if rows > total {
		rows = total
	}
	return rows
}

// windowStart keeps the cursor inside the visible window.
func (r *Renderer) windowStart(cursor, rows, total int) int {
	if total <= rows {
		return 0
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

func quoted(s string) string {
	return "\"" + s + "\""
}
