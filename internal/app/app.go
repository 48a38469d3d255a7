package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"filesorter/internal/config"
	"filesorter/internal/services"
	"filesorter/internal/state"
	"filesorter/internal/ui"
)

type Options struct {
	Config     config.Config
	ConfigPath string
	Sorter     services.Sorter
	Logger     *slog.Logger
	Status     string
}

// Run opens the terminal UI and saves the session preferences on exit.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	initialState := state.NewState(opts.Config)
	model := ui.NewModel(initialState, opts.Sorter).WithStatus(opts.Status)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	if provider, ok := finalModel.(ui.ConfigProvider); ok {
		if err := config.Save(opts.ConfigPath, provider.ApplyTo(opts.Config)); err != nil {
			logger.Warn("save config", "error", err)
		}
	}
	return nil
}
