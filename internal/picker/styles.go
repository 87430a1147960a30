package picker

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the picker.
type Styles struct {
	App          lipgloss.Style
	Prompt       lipgloss.Style
	Count        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	URL          lipgloss.Style
	Empty        lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
}

// DefaultStyles returns the default style configuration: grayscale with a
// single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	danger := lipgloss.AdaptiveColor{Light: "#8A4A4A", Dark: "#AF7070"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Count: lipgloss.NewStyle().
			Foreground(subtle),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		URL: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(3),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),

		Status: lipgloss.NewStyle().
			Foreground(accent),

		Error: lipgloss.NewStyle().
			Foreground(danger),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle).
			Bold(true),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
