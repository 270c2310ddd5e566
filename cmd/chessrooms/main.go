package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hilthontt/chessrooms/internal/app"
	"github.com/hilthontt/chessrooms/internal/config"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/internal/lobbytest"
	"github.com/hilthontt/chessrooms/internal/tui"
)

func main() {
	var (
		configPath string
		demo       bool
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&demo, "demo", false, fmt.Sprintf("use an in-process room server with sample rooms (password %q)", lobbytest.DemoPassword))
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, configPath, demo); err != nil {
		fmt.Fprintln(os.Stderr, "chessrooms:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, demo bool) error {
	cfg, err := config.Load(config.DetermineConfigPath(configPath))
	if err != nil {
		return err
	}

	if demo {
		srv := lobbytest.NewDemoServer()
		defer srv.Close()
		cfg.Server.BaseURL = srv.URL
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Close(shutdownCtx)
	}()

	bridge := tui.NewBridge()
	client, err := application.Lobby(
		lobby.WithPrompter(bridge),
		lobby.WithNotifier(bridge),
		lobby.WithRenderer(bridge),
		lobby.WithNavigator(bridge),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		tui.NewModel(ctx, lipgloss.DefaultRenderer(), client),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	bridge.Attach(p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
