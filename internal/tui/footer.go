package tui

import "github.com/charmbracelet/lipgloss"

type footerCommand struct {
	key   string
	value string
}

type footerState struct {
	commands []footerCommand
}

const dismissHint = "esc"

func (m model) FooterView() string {
	footer := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		m.noticeView(),
		m.commandsView(),
	)

	return lipgloss.Place(
		m.widthContainer,
		lipgloss.Height(footer),
		lipgloss.Center,
		lipgloss.Center,
		footer,
	)
}

// noticeView is the last error, wrapped to the content width, or a hint
// when there is none.
func (m model) noticeView() string {
	if m.error == nil {
		return m.theme.Base().Faint(true).Render("the list reloads after every change")
	}

	hintWidth := lipgloss.Width(dismissHint) + 2
	msgWidth := max(m.widthContent-hintWidth, 10)

	msg := m.theme.PanelError().Padding(0, 1).Width(msgWidth).Render(m.error.message)
	hint := m.theme.PanelError().Bold(true).Padding(0, 1).Height(lipgloss.Height(msg)).Render(dismissHint)
	return lipgloss.JoinHorizontal(lipgloss.Top, msg, hint)
}

func (m model) commandsView() string {
	bold := m.theme.TextAccent().Bold(true).Render
	base := m.theme.Base().Render

	commands := m.state.footer.commands
	if m.size == small && len(commands) > 3 {
		commands = commands[:3]
	}

	cells := make([]string, 0, len(commands))
	for _, cmd := range commands {
		cells = append(cells, bold(" "+cmd.key+" ")+base(cmd.value+"  "))
	}

	return m.theme.Base().
		Width(m.widthContent).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.Border()).
		PaddingBottom(1).
		Align(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, cells...))
}
