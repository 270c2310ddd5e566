// Package theme holds the lobby's colours and the text styles built on
// them.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette names the colours of a board: light and dark squares plus the
// signal colours for outcomes.
type Palette struct {
	LightSquare lipgloss.TerminalColor
	DarkSquare  lipgloss.TerminalColor
	Ink         lipgloss.TerminalColor
	Strong      lipgloss.TerminalColor
	Rule        lipgloss.TerminalColor
	Danger      lipgloss.TerminalColor
	Success     lipgloss.TerminalColor
}

var Board = Palette{
	LightSquare: lipgloss.Color("#EEEED2"),
	DarkSquare:  lipgloss.Color("#769656"),
	Ink:         lipgloss.AdaptiveColor{Dark: "#B8AFA3", Light: "#5C554C"},
	Strong:      lipgloss.AdaptiveColor{Dark: "#F4EFE6", Light: "#1E1B17"},
	Rule:        lipgloss.AdaptiveColor{Dark: "#3F3A33", Light: "#D6CFC4"},
	Danger:      lipgloss.Color("#D9534F"),
	Success:     lipgloss.Color("#5CB85C"),
}

type Theme struct {
	renderer *lipgloss.Renderer
	palette  Palette
}

// New builds a theme for renderer. A nil selection keeps the palette's
// light square as the selection colour.
func New(renderer *lipgloss.Renderer, p Palette, selection *string) Theme {
	if selection != nil {
		p.LightSquare = lipgloss.Color(*selection)
	}
	return Theme{renderer: renderer, palette: p}
}

func BasicTheme(renderer *lipgloss.Renderer, selection *string) Theme {
	return New(renderer, Board, selection)
}

func (t Theme) Border() lipgloss.TerminalColor {
	return t.palette.Rule
}

func (t Theme) Base() lipgloss.Style {
	return t.renderer.NewStyle().Foreground(t.palette.Ink)
}

func (t Theme) TextBody() lipgloss.Style {
	return t.Base()
}

func (t Theme) TextAccent() lipgloss.Style {
	return t.Base().Foreground(t.palette.Strong)
}

func (t Theme) TextBrand() lipgloss.Style {
	return t.Base().Foreground(t.palette.DarkSquare)
}

func (t Theme) TextSuccess() lipgloss.Style {
	return t.Base().Foreground(t.palette.Success)
}

func (t Theme) PanelError() lipgloss.Style {
	return t.Base().Background(t.palette.Danger).Foreground(t.palette.Strong)
}

// Selected marks the row under the cursor.
func (t Theme) Selected() lipgloss.Style {
	return t.Base().Background(t.palette.DarkSquare).Foreground(t.palette.LightSquare).Bold(true)
}
