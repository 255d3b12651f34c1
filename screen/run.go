// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by Run when stdout is not attached to a
// terminal.
var ErrNotTerminal = errors.New("stdout is not a terminal")

// Run drives a screen to completion in its own bubbletea program and
// returns the terminal result. The program uses the alternate screen
// buffer and shuts down when the context is cancelled.
func Run(ctx context.Context, m Model) (Result, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return Result{}, ErrNotTerminal
	}

	p := tea.NewProgram(
		runModel{screen: m},
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	out, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("failed to run screen: %w", err)
	}
	final, ok := out.(runModel)
	if !ok {
		return Result{}, fmt.Errorf("unexpected final model %T", out)
	}
	return final.result, nil
}

// runModel adapts a screen Model to tea.Model and quits on its
// terminal messages.
type runModel struct {
	screen Model
	result Result
}

func (r runModel) Init() tea.Cmd {
	return r.screen.Init()
}

func (r runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SubmitMsg:
		r.result = msg.Result
		return r, tea.Quit
	case CancelMsg:
		r.result = msg.Result
		return r, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			r.result = Result{Confirmed: false, Values: map[string]any{}}
			return r, tea.Quit
		}
	}

	var cmd tea.Cmd
	r.screen, cmd = r.screen.Update(msg)
	return r, cmd
}

func (r runModel) View() string {
	return r.screen.View()
}
