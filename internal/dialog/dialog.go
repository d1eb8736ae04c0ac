// Package dialog defines the interactive prompts the launcher needs and a
// native macOS implementation of them.
package dialog

import (
	"context"
	"errors"
)

// ErrCanceled is returned when the user dismisses a prompt.
var ErrCanceled = errors.New("canceled by user")

// PickRequest describes a single-choice list.
type PickRequest struct {
	Title   string
	Prompt  string
	Options []string
	Default string // preselected option; ignored if not in Options
}

// DefaultIndex returns the position of Default in Options, or 0.
func (r PickRequest) DefaultIndex() int {
	for i, opt := range r.Options {
		if opt == r.Default {
			return i
		}
	}
	return 0
}

// ConfirmRequest describes a yes/no question.
type ConfirmRequest struct {
	Title      string
	Prompt     string
	DefaultYes bool
}

// Picker asks the user to choose one option.
type Picker interface {
	Pick(ctx context.Context, req PickRequest) (string, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
}

// Notifier shows a message that needs no answer.
type Notifier interface {
	Alert(ctx context.Context, title, message string) error
}

// UI is the full set of prompts.
type UI interface {
	Picker
	Confirmer
	Notifier
}
