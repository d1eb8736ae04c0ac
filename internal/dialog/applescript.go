package dialog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/osteele/devlaunch/internal/project"
)

// Markers returned by the pick script. A prefix on the chosen item keeps an
// option literally named "CANCEL" distinguishable from dismissal.
const (
	pickedPrefix   = "PICKED:"
	canceledMarker = "CANCELED"
)

// userCanceledCode is the AppleScript error number for a dismissed dialog.
const userCanceledCode = "(-128)"

// AppleScript shows native macOS dialogs through osascript.
type AppleScript struct {
	run func(ctx context.Context, script string) (string, error)
}

// NewAppleScript returns an AppleScript UI that runs osascript.
func NewAppleScript() *AppleScript {
	return &AppleScript{run: runOSAScript}
}

// AppleScriptAvailable reports whether native dialogs can be shown.
func AppleScriptAvailable() bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	_, err := exec.LookPath("osascript")
	return err == nil
}

// Pick shows a "choose from list" dialog.
func (a *AppleScript) Pick(ctx context.Context, req PickRequest) (string, error) {
	if len(req.Options) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}
	out, err := a.run(ctx, pickScript(req))
	if err != nil {
		return "", err
	}
	choice, ok := strings.CutPrefix(out, pickedPrefix)
	if !ok {
		return "", ErrCanceled
	}
	return choice, nil
}

// Confirm shows a Yes/No dialog.
func (a *AppleScript) Confirm(ctx context.Context, req ConfirmRequest) (bool, error) {
	out, err := a.run(ctx, confirmScript(req))
	if err != nil {
		return false, err
	}
	return out == "Yes", nil
}

// Alert shows an error alert.
func (a *AppleScript) Alert(ctx context.Context, title, message string) error {
	_, err := a.run(ctx, alertScript(title, message))
	if errors.Is(err, ErrCanceled) {
		return nil
	}
	return err
}

func pickScript(req PickRequest) string {
	def := req.Options[req.DefaultIndex()]
	var b strings.Builder
	fmt.Fprintf(&b, "set optionList to %s\n", project.QuoteList(req.Options))
	fmt.Fprintf(&b, "set choice to choose from list optionList with title %s with prompt %s default items {%s}\n",
		project.Quote(req.Title), project.Quote(req.Prompt), project.Quote(def))
	b.WriteString("if choice is false then\n")
	fmt.Fprintf(&b, "\treturn %s\n", project.Quote(canceledMarker))
	b.WriteString("end if\n")
	fmt.Fprintf(&b, "return %s & (item 1 of choice)\n", project.Quote(pickedPrefix))
	return b.String()
}

func confirmScript(req ConfirmRequest) string {
	def := "No"
	if req.DefaultYes {
		def = "Yes"
	}
	return fmt.Sprintf("display dialog %s with title %s buttons {\"No\", \"Yes\"} default button %s with icon note\n"+
		"return button returned of result\n",
		project.Quote(req.Prompt), project.Quote(req.Title), project.Quote(def))
}

func alertScript(title, message string) string {
	return fmt.Sprintf("display alert %s message %s as critical buttons {\"OK\"} default button \"OK\"\n",
		project.Quote(title), project.Quote(message))
}

func runOSAScript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-")
	cmd.Stdin = strings.NewReader(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), userCanceledCode) {
			return "", ErrCanceled
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("osascript failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimRight(stdout.String(), "\r\n"), nil
}
