package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/roomsdk"
)

type roomsState struct {
	rooms  []roomsdk.Room
	cursor int
}

// set replaces the rows and keeps the cursor on the same room when it is
// still listed.
func (s roomsState) set(rooms []roomsdk.Room) roomsState {
	selected := s.selected()
	s.rooms = rooms
	for i, r := range rooms {
		if selected != 0 && r.ID == selected {
			s.cursor = i
			return s
		}
	}
	s.cursor = max(min(s.cursor, len(rooms)-1), 0)
	return s
}

// selected is the id under the cursor, or 0 with no rooms.
func (s roomsState) selected() int64 {
	if s.cursor < 0 || s.cursor >= len(s.rooms) {
		return 0
	}
	return s.rooms[s.cursor].ID
}

func (m model) initRooms() model {
	m = m.SwitchPage(roomsPage)
	m.state.footer.commands = []footerCommand{
		{key: "enter", value: "join"},
		{key: "n", value: "new"},
		{key: "r", value: "rename"},
		{key: "e", value: "end"},
		{key: "d", value: "delete"},
		{key: "g", value: "refresh"},
		{key: "q", value: "quit"},
	}
	return m
}

func (m model) RoomsUpdate(msg tea.Msg) (model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.state.rooms.cursor > 0 {
			m.state.rooms.cursor--
		}
		return m, nil
	case key.Matches(keyMsg, keys.Down):
		if m.state.rooms.cursor < len(m.state.rooms.rooms)-1 {
			m.state.rooms.cursor++
		}
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	id := m.state.rooms.selected()
	switch {
	case key.Matches(keyMsg, keys.Join):
		return m.start(func(ctx context.Context, c *lobby.Client) lobby.Outcome { return c.EnterRoom(ctx, id) })
	case key.Matches(keyMsg, keys.NewRoom):
		return m.start(func(ctx context.Context, c *lobby.Client) lobby.Outcome { return c.CreateRoom(ctx) })
	case key.Matches(keyMsg, keys.Rename):
		return m.start(func(ctx context.Context, c *lobby.Client) lobby.Outcome { return c.UpdateRoomName(ctx, id) })
	case key.Matches(keyMsg, keys.LegacyRename):
		return m.start(func(ctx context.Context, c *lobby.Client) lobby.Outcome { return c.RenameRoomLegacy(ctx, id) })
	case key.Matches(keyMsg, keys.End):
		return m.start(func(ctx context.Context, c *lobby.Client) lobby.Outcome { return c.EndRoom(ctx, id) })
	case key.Matches(keyMsg, keys.Delete):
		return m.start(func(ctx context.Context, c *lobby.Client) lobby.Outcome { return c.DeleteRoom(ctx, id) })
	case key.Matches(keyMsg, keys.Refresh):
		m.busy = true
		m.error = nil
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m model) RoomsView() string {
	s := m.state.rooms

	var sections []string
	sections = append(sections, m.theme.TextBrand().Bold(true).Render("Rooms"), "")

	if len(s.rooms) == 0 {
		sections = append(sections, m.theme.TextBody().Render("No rooms yet. Press n to create one."))
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(m.renderer.NewStyle().Foreground(m.theme.Border())).
			Headers("ID", "NAME").
			Width(m.widthContent).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return m.theme.TextAccent().Bold(true).Padding(0, 1)
				case row == s.cursor:
					return m.theme.Selected().Padding(0, 1)
				default:
					return m.theme.TextBody().Padding(0, 1)
				}
			})
		for _, r := range s.rooms {
			t.Row(strconv.FormatInt(r.ID, 10), r.Name)
		}
		sections = append(sections, t.Render())
	}

	switch {
	case m.busy:
		sections = append(sections, "", m.theme.TextBody().Faint(true).Render("Working..."))
	case m.status != "":
		sections = append(sections, "", m.theme.TextSuccess().Render(m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// statusText describes a successful outcome. Failures are already shown
// through the notifier.
func statusText(out lobby.Outcome) string {
	if out.State != lobby.Reloaded || out.Err != nil {
		return ""
	}
	switch out.Op {
	case lobby.OpCreate:
		return fmt.Sprintf("Room #%d created", out.RoomID)
	case lobby.OpRename, lobby.OpLegacyRename:
		return fmt.Sprintf("Room #%d renamed", out.RoomID)
	case lobby.OpEnd:
		return fmt.Sprintf("Room #%d ended", out.RoomID)
	case lobby.OpDelete:
		return fmt.Sprintf("Room #%d deleted", out.RoomID)
	}
	return ""
}
