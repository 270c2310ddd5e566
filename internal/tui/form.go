package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hilthontt/chessrooms/internal/lobby"
)

type formState struct {
	prompt  lobby.Prompt
	input   textinput.Model
	reply   chan<- promptReply
	pending bool
}

// answer hands the value to the waiting operation. Only the first answer
// for a prompt counts.
func (s *formState) answer(value string, ok bool) {
	if s.reply == nil {
		return
	}
	s.reply <- promptReply{value: value, ok: ok}
	s.reply = nil
	s.pending = true
}

func (s *formState) cancel() {
	s.answer("", false)
}

func (s *formState) focus() tea.Cmd {
	return textinput.Blink
}

func (m model) initForm(msg promptMsg) model {
	m = m.SwitchPage(formPage)

	ti := textinput.New()
	ti.Placeholder = msg.prompt.Label + "..."
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 40
	ti.PromptStyle = m.theme.TextBrand()
	ti.TextStyle = m.theme.TextAccent()
	ti.PlaceholderStyle = m.theme.TextBody()
	if msg.prompt.Secret() {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	m.state.form = formState{
		prompt: msg.prompt,
		input:  ti,
		reply:  msg.reply,
	}

	m.state.footer.commands = []footerCommand{
		{key: "enter", value: "submit"},
		{key: "esc", value: "cancel"},
	}
	return m
}

func (m model) FormUpdate(msg tea.Msg) (model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Back):
			m.state.form.cancel()
			return m, nil
		case key.Matches(keyMsg, keys.Submit):
			m.state.form.answer(m.state.form.input.Value(), true)
			return m, nil
		}
	}

	if m.state.form.pending {
		return m, nil
	}

	var cmd tea.Cmd
	m.state.form.input, cmd = m.state.form.input.Update(msg)
	return m, cmd
}

func (m model) FormView() string {
	s := m.state.form

	var sections []string
	sections = append(sections,
		m.theme.TextBrand().Bold(true).Render(formTitle(s.prompt)),
		"",
		m.theme.TextAccent().Render(s.prompt.Label+":"),
		s.input.View(),
	)

	if s.pending {
		sections = append(sections, "", m.theme.TextBody().Faint(true).Render("Working..."))
	}

	sections = append(sections, "", "",
		m.theme.TextBody().Faint(true).Render("Press Enter to submit • Esc to cancel"))

	return m.theme.Base().
		Width(m.widthContent).
		AlignHorizontal(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func formTitle(p lobby.Prompt) string {
	switch p.Op {
	case lobby.OpCreate:
		return "New room"
	case lobby.OpRename, lobby.OpLegacyRename:
		return fmt.Sprintf("Rename room #%d", p.RoomID)
	case lobby.OpEnd:
		return fmt.Sprintf("End room #%d", p.RoomID)
	case lobby.OpDelete:
		return fmt.Sprintf("Delete room #%d", p.RoomID)
	}
	return string(p.Op)
}
