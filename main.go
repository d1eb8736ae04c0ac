package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osteele/devlaunch/internal/app"
	"github.com/osteele/devlaunch/internal/config"
	"github.com/osteele/devlaunch/internal/dialog"
	"github.com/osteele/devlaunch/internal/logging"
	"github.com/osteele/devlaunch/internal/ui"
)

var version = "dev"

// options holds the command-line flags.
type options struct {
	test         bool
	verbose      bool
	noLog        bool
	configPath   string
	createConfig bool
	force        bool
	schema       bool
	tui          bool
	forget       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "devlaunch [path...]",
		Short: "Open a project directory in a terminal and, optionally, an editor",
		Long: `devlaunch asks which terminal (and editor) to open a project in,
remembers the answer per project, and launches the chosen apps.

With no path, the current directory is used.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.test, "test", false, "check config, apps and history without launching anything")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	flags.BoolVar(&opts.noLog, "no-log", false, "do not write the log file for this run")
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	flags.BoolVar(&opts.createConfig, "create-config", false, "write a documented example config and exit")
	flags.BoolVar(&opts.force, "force", false, "with --create-config, overwrite an existing file")
	flags.BoolVar(&opts.schema, "schema", false, "print the config JSON Schema and exit")
	flags.BoolVar(&opts.tui, "tui", false, "use terminal prompts instead of native dialogs")
	flags.BoolVar(&opts.forget, "forget", false, "forget the remembered choice for each path and exit")
	cmd.MarkFlagsMutuallyExclusive("test", "create-config", "schema", "forget")
	return cmd
}

func run(ctx context.Context, opts options, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if opts.schema {
		data, err := config.SchemaJSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	if opts.createConfig {
		path, err := config.WriteExample(opts.configPath, opts.force)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote example config to %s\n", path)
		return nil
	}

	logOpts := logging.Options{Verbose: opts.verbose, NoFile: opts.noLog}
	logger := logging.New(logOpts)

	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		if !opts.test && !opts.forget {
			alertConfigError(ctx, opts, logger, err)
		}
		return err
	}

	closer, err := logging.Configure(logger, cfg.Logging, logOpts)
	if err != nil {
		logger.WithError(err).Warn("file logging disabled")
	}
	defer closer.Close()
	for _, w := range cfg.Warnings() {
		logger.WithField("config", cfg.Source()).Warn(w)
	}

	switch {
	case opts.test:
		return check(os.Stdout, app.NewApp(cfg, nil, logger), args, ui.DetectTheme())
	case opts.forget:
		return app.NewApp(cfg, nil, logger).Forget(args)
	}

	prompts, err := chooseUI(opts.tui)
	if err != nil {
		return err
	}
	return launchAll(ctx, app.NewApp(cfg, prompts, logger), args)
}

var errCheckFailed = errors.New("check failed")

// check prints the dry-run report for paths and fails if any would abort.
func check(w io.Writer, a *app.App, paths []string, theme ui.Theme) error {
	report := a.Check(paths)
	if _, err := fmt.Fprint(w, report.Render(theme)); err != nil {
		return err
	}
	if !report.OK() {
		return errCheckFailed
	}
	return nil
}

// launchAll runs every path in order. A canceled or failed path does not
// stop the rest; the error counts the failures.
func launchAll(ctx context.Context, a *app.App, paths []string) error {
	if len(paths) == 0 {
		paths = []string{""}
	}
	failed := 0
	for _, p := range paths {
		if res := a.Run(ctx, p); res.Failed() {
			failed++
		}
	}
	switch {
	case failed == 0:
		return nil
	case len(paths) == 1:
		return errors.New("launch failed")
	default:
		return fmt.Errorf("%d of %d launches failed", failed, len(paths))
	}
}

// chooseUI picks native dialogs when available, then terminal prompts.
func chooseUI(tui bool) (dialog.UI, error) {
	if !tui && dialog.AppleScriptAvailable() {
		return dialog.NewAppleScript(), nil
	}
	if ui.Available() {
		return ui.NewTerminal(ui.DetectTheme()), nil
	}
	if tui {
		return nil, errors.New("--tui needs an interactive terminal")
	}
	return nil, errors.New("cannot show prompts: native dialogs need macOS with osascript, and terminal prompts need an interactive terminal")
}

// alertConfigError shows a config failure to the user, who may have started
// devlaunch from a launcher with no visible terminal.
func alertConfigError(ctx context.Context, opts options, logger logrus.FieldLogger, err error) {
	prompts, uerr := chooseUI(opts.tui)
	if uerr != nil {
		return
	}
	if aerr := prompts.Alert(ctx, app.Title, err.Error()); aerr != nil {
		logger.WithError(aerr).Warn("could not show alert")
	}
}
