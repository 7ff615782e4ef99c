package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/okmusi/internal/auth"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/desertthunder/okmusi/internal/tasks"
	"github.com/desertthunder/okmusi/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/okmusi-tui.log"

// useFileLogger sends the runner's logs to path at the current level.
// The returned func restores the previous logger and closes the file.
func (r *Runner) useFileLogger(path string) (func(), error) {
	fileLogger, closer, err := shared.NewFileLogger(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())

	previous := r.logger
	r.SetLogger(fileLogger)
	return func() {
		r.SetLogger(previous)
		if err := closer.Close(); err != nil {
			previous.Warn("failed to close log file", "path", path, "error", err)
		}
	}, nil
}

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	restore, err := r.useFileLogger(tuiLogPath)
	if err != nil {
		return err
	}
	defer restore()
	fileLogger := r.logger

	store, closeStore, err := r.sessions(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	model := ui.NewModel(ctx, ui.Options{
		Store:   store,
		Auth:    auth.NewService(r.config.Latency.AuthDelay()),
		Search:  tasks.NewSearchEngine(r.catalog, r.config.Latency.SearchDelay()),
		Catalog: r.catalog,
		Logger:  fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
