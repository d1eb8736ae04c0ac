// Package launcher opens applications on a project directory.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout bounds how long the platform launch command may take.
const DefaultTimeout = 10 * time.Second

// Error reports a failed launch.
type Error struct {
	App    string
	Output string // combined output of the launch command
	Hint   string // suggested fix, empty when none applies
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("failed to open %s", e.App)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " (hint: " + e.Hint + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// hintFor inspects launch output for well-known failures and returns a
// suggestion for the user.
func hintFor(output string, err error) string {
	lower := strings.ToLower(output)
	if err != nil {
		lower += " " + strings.ToLower(err.Error())
	}

	switch {
	case strings.Contains(lower, "unable to find application named"):
		return "the name must match the .app bundle exactly, including case"
	case strings.Contains(lower, "executable file not found"):
		return "the app is not on PATH"
	case strings.Contains(lower, "does not exist"):
		return "the project directory may have been moved or deleted"
	case strings.Contains(lower, "not permitted") ||
		strings.Contains(lower, "permission denied"):
		return "check the app's permissions in System Settings > Privacy & Security"
	case strings.Contains(lower, "lsopenurlswithrole") ||
		strings.Contains(lower, "-10810") ||
		strings.Contains(lower, "-600"):
		return "the app failed to start; try opening it once from Finder"
	case strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "signal: killed"):
		return "the launch timed out; the app may be waiting on a dialog"
	}
	return ""
}

// Command is a fully built launch invocation.
type Command struct {
	Name     string
	Args     []string
	Dir      string // working directory, empty for the current one
	Detached bool   // start without waiting for exit
}

// String renders the command for display.
func (c Command) String() string {
	parts := []string{quoteArg(c.Name)}
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\$`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// CommandFor builds the invocation that opens app on dir with extra args.
// On macOS it goes through open(1) so the app is resolved by bundle name;
// elsewhere app is run directly with dir as its last argument.
func CommandFor(goos, app, dir string, args []string) Command {
	if goos == "darwin" {
		argv := []string{"-a", app, dir}
		if len(args) > 0 {
			argv = append(argv, "--args")
			argv = append(argv, args...)
		}
		return Command{Name: "open", Args: argv}
	}
	argv := append(append([]string{}, args...), dir)
	return Command{Name: app, Args: argv, Dir: dir, Detached: true}
}

// Client launches applications.
type Client struct {
	timeout time.Duration
	goos    string
	run     func(ctx context.Context, cmd Command) ([]byte, error)
}

// NewClient creates a Client for the current platform.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{timeout: timeout, goos: runtime.GOOS, run: runCommand}
}

// Command returns the invocation Launch would run.
func (c *Client) Command(app, dir string, args []string) Command {
	return CommandFor(c.goos, app, dir, args)
}

// Launch opens app on dir, passing args to the app.
func (c *Client) Launch(ctx context.Context, app, dir string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	output, err := c.run(ctx, c.Command(app, dir, args))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", err, ctx.Err())
		}
		return &Error{App: app, Output: string(output), Hint: hintFor(string(output), err), Err: err}
	}
	return nil
}

func runCommand(ctx context.Context, c Command) ([]byte, error) {
	if c.Detached {
		// Not tied to ctx: the app outlives this process.
		cmd := exec.Command(c.Name, c.Args...)
		cmd.Dir = c.Dir
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return nil, cmd.Process.Release()
	}
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	return cmd.CombinedOutput()
}
