package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/roomsdk"
)

type roomsMsg []roomsdk.Room

type noticeMsg string

type navigateMsg string

type promptReply struct {
	value string
	ok    bool
}

type promptMsg struct {
	prompt lobby.Prompt
	reply  chan<- promptReply
}

type outcomeMsg lobby.Outcome

type refreshedMsg struct {
	err error
}

// Bridge lets lobby operations running outside the event loop talk to the
// program. It implements the lobby's Prompter, Notifier, Renderer and
// Navigator.
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

var (
	_ lobby.Prompter  = (*Bridge)(nil)
	_ lobby.Notifier  = (*Bridge)(nil)
	_ lobby.Renderer  = (*Bridge)(nil)
	_ lobby.Navigator = (*Bridge)(nil)
)

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) dispatch(msg tea.Msg) bool {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send == nil {
		return false
	}
	send(msg)
	return true
}

// Prompt shows the form for p and waits for the answer. A detached bridge
// or a done context counts as cancel.
func (b *Bridge) Prompt(ctx context.Context, p lobby.Prompt) (string, bool) {
	reply := make(chan promptReply, 1)
	if !b.dispatch(promptMsg{prompt: p, reply: reply}) {
		return "", false
	}
	select {
	case r := <-reply:
		return r.value, r.ok
	case <-ctx.Done():
		return "", false
	}
}

func (b *Bridge) Notify(_ context.Context, message string) {
	b.dispatch(noticeMsg(message))
}

func (b *Bridge) Render(_ context.Context, rooms []roomsdk.Room) {
	b.dispatch(roomsMsg(append([]roomsdk.Room(nil), rooms...)))
}

func (b *Bridge) Navigate(_ context.Context, location string) {
	b.dispatch(navigateMsg(location))
}
