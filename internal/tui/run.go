package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/huangsam/chartscope/core"
)

// Run shows chart full screen until the user quits or ctx is done.
func Run(ctx context.Context, chart *core.ChartModel, opts Options) error {
	m := NewModel(chart, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chart viewer failed: %w", err)
	}
	return nil
}
