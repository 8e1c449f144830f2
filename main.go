package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jiradash/internal/api"
	"jiradash/internal/auth"
	"jiradash/internal/config"
	"jiradash/internal/session"
	"jiradash/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	store, err := session.New(cfg.Session.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := api.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, store, logger)
	ctrl := auth.NewController(store, client, logger)

	app := tui.NewApp(ctrl, client)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// The gateway's unauthorized hook: clear auth state, then force the
	// login view no matter which screen is up.
	client.OnUnauthorized = func() {
		ctrl.HandleUnauthorized()
		p.Send(tui.SessionExpiredMsg{})
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) (*slog.Logger, *os.File, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}
