package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// HeaderView shows the brand, the room count and, in a game, the room
// that was joined.
func (m model) HeaderView() string {
	cells := []string{m.theme.TextBrand().Bold(true).Render("♞ chessrooms")}

	if m.size != small {
		cells = append(cells, m.theme.TextBody().Render(roomCount(len(m.state.rooms.rooms))))
	}
	if m.page == gamePage {
		cells = append(cells, m.theme.TextAccent().Render("in game"))
	}

	bar := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(m.renderer.NewStyle().Foreground(m.theme.Border())).
		BorderColumn(true).
		Row(cells...).
		Width(m.widthContent).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return m.theme.Base().Padding(0, 1).AlignHorizontal(lipgloss.Center)
		}).
		Render()

	return lipgloss.PlaceHorizontal(m.widthContainer, lipgloss.Center, bar)
}

func roomCount(n int) string {
	if n == 1 {
		return "1 room"
	}
	return fmt.Sprintf("%d rooms", n)
}
