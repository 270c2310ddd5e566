// Package tui is the terminal lobby: a room table with actions that run
// the lobby operations and a form that answers their prompts.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/internal/tui/theme"
)

type page = int
type size = int

const (
	roomsPage page = iota
	formPage
	gamePage
)

const (
	undersized size = iota
	small
	medium
	large
)

type state struct {
	rooms  roomsState
	form   formState
	game   gameState
	footer footerState
}

type visibleError struct {
	message string
}

type model struct {
	renderer        *lipgloss.Renderer
	page            page
	state           state
	context         context.Context
	lobby           *lobby.Client
	busy            bool
	status          string
	error           *visibleError
	viewportWidth   int
	viewportHeight  int
	widthContainer  int
	heightContainer int
	widthContent    int
	heightContent   int
	size            size
	theme           theme.Theme
}

// NewModel builds the lobby program model. client must report through a
// Bridge attached to the program running this model.
func NewModel(ctx context.Context, renderer *lipgloss.Renderer, client *lobby.Client) tea.Model {
	return newModel(ctx, renderer, client)
}

func newModel(ctx context.Context, renderer *lipgloss.Renderer, client *lobby.Client) model {
	m := model{
		context:  ctx,
		page:     roomsPage,
		renderer: renderer,
		lobby:    client,
		busy:     true,
		theme:    theme.BasicTheme(renderer, nil),
	}
	return m.initRooms()
}

func (m model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg)
		return m, nil
	case roomsMsg:
		m.state.rooms = m.state.rooms.set(msg)
		return m, nil
	case noticeMsg:
		m.error = &visibleError{message: string(msg)}
		return m, nil
	case refreshedMsg:
		m.busy = false
		return m, nil
	case outcomeMsg:
		m.busy = false
		m.status = statusText(lobby.Outcome(msg))
		if m.page == formPage {
			m = m.initRooms()
		}
		return m, nil
	case navigateMsg:
		m = m.initGame(string(msg))
		return m, nil
	case promptMsg:
		m.state.form.cancel()
		m = m.initForm(msg)
		return m, m.state.form.focus()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.state.form.cancel()
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Back) && m.error != nil {
			m.error = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.page {
	case roomsPage:
		m, cmd = m.RoomsUpdate(msg)
	case formPage:
		m, cmd = m.FormUpdate(msg)
	case gamePage:
		m, cmd = m.GameUpdate(msg)
	}
	return m, cmd
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.viewportWidth = msg.Width
	m.viewportHeight = msg.Height

	switch {
	case m.viewportWidth < 20 || m.viewportHeight < 10:
		m.size = undersized
		m.widthContainer = m.viewportWidth
		m.heightContainer = m.viewportHeight
	case m.viewportWidth < 50:
		m.size = small
		m.widthContainer = m.viewportWidth
		m.heightContainer = m.viewportHeight
	case m.viewportWidth < 80:
		m.size = medium
		m.widthContainer = 50
		m.heightContainer = min(msg.Height, 30)
	default:
		m.size = large
		m.widthContainer = 80
		m.heightContainer = min(msg.Height, 30)
	}

	m.widthContent = m.widthContainer - 2
	m.heightContent = m.heightContainer
	return m
}

func (m model) View() string {
	if m.size == undersized {
		return m.ResizeView()
	}

	header := m.HeaderView()
	footer := m.FooterView()

	height := m.heightContainer
	height -= lipgloss.Height(header)
	height -= lipgloss.Height(footer)

	body := m.theme.Base().Width(m.widthContainer).Height(max(height, 0)).Render(m.getContent())

	sb := strings.Builder{}
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(footer)

	return m.renderer.Place(
		m.viewportWidth,
		m.viewportHeight,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.Base().
			MaxWidth(m.widthContainer).
			MaxHeight(m.heightContainer).
			Render(sb.String()),
	)
}

func (m model) ResizeView() string {
	return m.renderer.Place(
		m.viewportWidth,
		m.viewportHeight,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.TextBody().Render("terminal too small"),
	)
}

func (m model) SwitchPage(page page) model {
	m.page = page
	return m
}

func (m model) getContent() string {
	switch m.page {
	case formPage:
		return m.FormView()
	case gamePage:
		return m.GameView()
	default:
		return m.RoomsView()
	}
}

// start runs op off the event loop. Its prompts, notices and renders come
// back through the bridge; its outcome arrives as an outcomeMsg.
func (m model) start(op func(context.Context, *lobby.Client) lobby.Outcome) (model, tea.Cmd) {
	m.busy = true
	m.status = ""
	m.error = nil
	ctx, client := m.context, m.lobby
	return m, func() tea.Msg {
		return outcomeMsg(op(ctx, client))
	}
}

func (m model) refreshCmd() tea.Cmd {
	ctx, client := m.context, m.lobby
	return func() tea.Msg {
		return refreshedMsg{err: client.Refresh(ctx)}
	}
}
