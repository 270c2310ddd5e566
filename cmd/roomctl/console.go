package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/roomsdk"
)

// console prints rooms and locations to stdout and notices to stderr.
type console struct {
	mu       sync.Mutex
	stdout   io.Writer
	stderr   io.Writer
	renderer *lipgloss.Renderer
}

var (
	_ lobby.Notifier  = (*console)(nil)
	_ lobby.Renderer  = (*console)(nil)
	_ lobby.Navigator = (*console)(nil)
)

func newConsole(stdout, stderr io.Writer) *console {
	return &console{
		stdout:   stdout,
		stderr:   stderr,
		renderer: lipgloss.NewRenderer(stdout),
	}
}

func (c *console) Notify(_ context.Context, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.stderr, "error:", message)
}

func (c *console) Render(_ context.Context, rooms []roomsdk.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(rooms) == 0 {
		fmt.Fprintln(c.stdout, "no rooms")
		return
	}

	header := c.renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := c.renderer.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, r := range rooms {
		t.Row(strconv.FormatInt(r.ID, 10), r.Name)
	}
	fmt.Fprintln(c.stdout, t.Render())
}

func (c *console) Navigate(_ context.Context, location string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.stdout, location)
}
