// Command roomctl drives the chess room lobby from a shell. Values not
// given as flags are asked for on the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hilthontt/chessrooms/internal/app"
	"github.com/hilthontt/chessrooms/internal/config"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/internal/lobby/prompt"
	"github.com/hilthontt/chessrooms/internal/lobbytest"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitBlocked = 2
)

const usage = `usage: roomctl [-config path] [-base-url url] [-demo] <command> [flags]

commands:
  list
  create        [-name name] [-password password]
  enter         -id id
  rename        -id id [-name name] [-password password]
  end           -id id [-password password]
  delete        -id id [-password password]
  rename-legacy -id id [-name name]
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

type command struct {
	name     string
	needsID  bool
	fields   []string
	run      func(ctx context.Context, c *lobby.Client, id int64) lobby.Outcome
	readOnly bool
}

var commands = []command{
	{name: "list", readOnly: true},
	{name: "create", fields: []string{"name", "password"}, run: func(ctx context.Context, c *lobby.Client, _ int64) lobby.Outcome {
		return c.CreateRoom(ctx)
	}},
	{name: "enter", needsID: true, run: func(ctx context.Context, c *lobby.Client, id int64) lobby.Outcome {
		return c.EnterRoom(ctx, id)
	}},
	{name: "rename", needsID: true, fields: []string{"name", "password"}, run: func(ctx context.Context, c *lobby.Client, id int64) lobby.Outcome {
		return c.UpdateRoomName(ctx, id)
	}},
	{name: "end", needsID: true, fields: []string{"password"}, run: func(ctx context.Context, c *lobby.Client, id int64) lobby.Outcome {
		return c.EndRoom(ctx, id)
	}},
	{name: "delete", needsID: true, fields: []string{"password"}, run: func(ctx context.Context, c *lobby.Client, id int64) lobby.Outcome {
		return c.DeleteRoom(ctx, id)
	}},
	{name: "rename-legacy", needsID: true, fields: []string{"name"}, run: func(ctx context.Context, c *lobby.Client, id int64) lobby.Outcome {
		return c.RenameRoomLegacy(ctx, id)
	}},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("roomctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", "", "path to config file")
	baseURL := global.String("base-url", "", "room server base URL")
	demo := global.Bool("demo", false, fmt.Sprintf("use an in-process room server with sample rooms (password %q)", lobbytest.DemoPassword))
	if err := global.Parse(args); err != nil {
		return exitBlocked
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return exitBlocked
	}
	cmd, ok := lookup(rest[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", rest[0], usage)
		return exitBlocked
	}

	sub := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	sub.SetOutput(stderr)
	id := new(int64)
	if cmd.needsID {
		sub.Int64Var(id, "id", 0, "room id")
	}
	answers := newFlagPrompter(prompt.NewLine(stdin, stderr))
	for _, f := range cmd.fields {
		sub.Func(f, "room "+f, answers.setter(f))
	}
	if err := sub.Parse(rest[1:]); err != nil {
		return exitBlocked
	}

	cfg, err := config.Load(config.DetermineConfigPath(*configPath))
	if err != nil {
		fmt.Fprintln(stderr, "roomctl:", err)
		return exitFailed
	}
	if *demo {
		srv := lobbytest.NewDemoServer()
		defer srv.Close()
		cfg.Server.BaseURL = srv.URL
	} else if *baseURL != "" {
		cfg.Server.BaseURL = *baseURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(stderr, "roomctl:", err)
			return exitBlocked
		}
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "roomctl:", err)
		return exitFailed
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Close(shutdownCtx)
	}()

	out := newConsole(stdout, stderr)
	client, err := application.Lobby(
		lobby.WithPrompter(answers),
		lobby.WithNotifier(out),
		lobby.WithRenderer(out),
		lobby.WithNavigator(out),
	)
	if err != nil {
		fmt.Fprintln(stderr, "roomctl:", err)
		return exitFailed
	}

	if cmd.readOnly {
		if err := client.Refresh(ctx); err != nil {
			return exitFailed
		}
		return exitOK
	}

	return exitCode(cmd.run(ctx, client, *id))
}

func exitCode(out lobby.Outcome) int {
	switch out.State {
	case lobby.Reloaded, lobby.Navigated:
		return exitOK
	case lobby.Blocked:
		return exitBlocked
	}
	return exitFailed
}
