// Package prompt provides lobby.Prompter implementations for terminals,
// pipes and scripted input.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hilthontt/chessrooms/internal/lobby"
	"golang.org/x/term"
)

// Line reads one answer per line. End of input counts as cancel. Password
// prompts do not echo when the input is a terminal.
type Line struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer

	fd           int
	isTerminal   bool
	readPassword func(fd int) ([]byte, error)
}

func NewLine(in io.Reader, out io.Writer) *Line {
	l := &Line{
		in:           bufio.NewReader(in),
		out:          out,
		readPassword: term.ReadPassword,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		l.fd = int(f.Fd())
		l.isTerminal = true
	}
	return l
}

// Prompt does not interrupt a read in progress when ctx is cancelled; it
// only refuses to start one.
func (l *Line) Prompt(ctx context.Context, p lobby.Prompt) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ctx.Err() != nil {
		return "", false
	}

	fmt.Fprintf(l.out, "%s: ", label(p))

	if p.Secret() && l.isTerminal {
		b, err := l.readPassword(l.fd)
		fmt.Fprintln(l.out)
		if err != nil {
			return "", false
		}
		return string(b), true
	}

	line, err := l.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(l.out)
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func label(p lobby.Prompt) string {
	if p.RoomID > 0 {
		return fmt.Sprintf("%s (room %d)", p.Label, p.RoomID)
	}
	return p.Label
}
