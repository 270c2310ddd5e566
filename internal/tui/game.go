package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// gameState holds the location the lobby navigated to. The board itself
// lives behind that location.
type gameState struct {
	location string
}

func (m model) initGame(location string) model {
	m = m.SwitchPage(gamePage)
	m.state.game = gameState{location: location}
	m.state.footer.commands = []footerCommand{
		{key: "esc", value: "back to lobby"},
		{key: "q", value: "quit"},
	}
	return m
}

func (m model) GameUpdate(msg tea.Msg) (model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Back):
		m = m.initRooms()
		m.busy = true
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m model) GameView() string {
	return m.theme.Base().
		Width(m.widthContent).
		AlignHorizontal(lipgloss.Center).
		Render(lipgloss.JoinVertical(
			lipgloss.Center,
			m.theme.TextBrand().Bold(true).Render("Joined"),
			"",
			m.theme.TextBody().Render("Open the game at"),
			m.theme.TextAccent().Render(m.state.game.location),
		))
}
