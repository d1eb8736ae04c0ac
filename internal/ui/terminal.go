package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/osteele/devlaunch/internal/dialog"
)

// Terminal shows prompts in the terminal. It implements dialog.UI.
type Terminal struct {
	Theme  Theme
	Input  io.Reader
	Output io.Writer

	run func(ctx context.Context, m Model) (Model, error)
}

var _ dialog.UI = (*Terminal)(nil)

// NewTerminal returns a Terminal reading stdin and drawing on stderr, so
// stdout stays free for command output.
func NewTerminal(theme Theme) *Terminal {
	t := &Terminal{Theme: theme, Input: os.Stdin, Output: os.Stderr}
	t.run = t.runProgram
	return t
}

// Available reports whether stdin and stderr are interactive terminals.
func Available() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Pick implements dialog.Picker.
func (t *Terminal) Pick(ctx context.Context, req dialog.PickRequest) (string, error) {
	if len(req.Options) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}
	m, err := t.run(ctx, NewPickModel(t.Theme, req))
	if err != nil {
		return "", err
	}
	if m.Canceled {
		return "", dialog.ErrCanceled
	}
	return m.Choice(), nil
}

// Confirm implements dialog.Confirmer.
func (t *Terminal) Confirm(ctx context.Context, req dialog.ConfirmRequest) (bool, error) {
	m, err := t.run(ctx, NewConfirmModel(t.Theme, req))
	if err != nil {
		return false, err
	}
	if m.Canceled {
		return false, dialog.ErrCanceled
	}
	return m.Confirmed(), nil
}

// Alert implements dialog.Notifier.
func (t *Terminal) Alert(ctx context.Context, title, message string) error {
	_, err := t.run(ctx, NewAlertModel(t.Theme, title, message))
	return err
}

func (t *Terminal) runProgram(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.Input),
		tea.WithOutput(t.Output),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return m, ctx.Err()
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return m, dialog.ErrCanceled
		}
		return m, fmt.Errorf("terminal prompt failed: %w", err)
	}
	result, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("terminal prompt returned %T", final)
	}
	return result, nil
}
