// Package app runs one launch: validate the project path, pick a terminal
// and maybe an editor, open them, and remember the choice.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/osteele/devlaunch/internal/apps"
	"github.com/osteele/devlaunch/internal/config"
	"github.com/osteele/devlaunch/internal/dialog"
	"github.com/osteele/devlaunch/internal/history"
	"github.com/osteele/devlaunch/internal/launcher"
	"github.com/osteele/devlaunch/internal/project"
)

// Title is shown on every prompt and alert.
const Title = "devlaunch"

// NoEditor is the picker option for opening only the terminal.
const NoEditor = config.NoEditorLabel

// comboSep joins a terminal and an editor in the combined picker.
const comboSep = config.PairSeparator

// ErrNoTerminalsAvailable means none of the configured terminals is installed.
var ErrNoTerminalsAvailable = errors.New("no configured terminal is installed")

// Launcher starts applications.
type Launcher interface {
	Command(app, dir string, args []string) launcher.Command
	Launch(ctx context.Context, app, dir string, args []string) error
}

// AppFinder reports which applications are installed.
type AppFinder interface {
	FilterInstalled(candidates []string) []string
	Suggest(name string) []string
}

// History remembers choices per project.
type History interface {
	LastChoice(path string) (history.Entry, bool)
	Record(path, terminal, editor string) error
	Forget(path string) (bool, error)
}

// App holds the collaborators for launch runs. Config is fixed for the life
// of the App.
type App struct {
	Config   *config.Config
	UI       dialog.UI
	Launcher Launcher
	Apps     AppFinder
	History  History
	Paths    *project.Sanitizer
	Logger   logrus.FieldLogger
}

// NewApp creates an App with the standard collaborators for cfg.
func NewApp(cfg *config.Config, ui dialog.UI, logger logrus.FieldLogger) *App {
	return &App{
		Config:   cfg,
		UI:       ui,
		Launcher: launcher.NewClient(launcher.DefaultTimeout),
		Apps:     apps.NewFinder(),
		History:  history.New(config.HistoryPath(), cfg.Behavior.RememberChoices, logger),
		Paths:    project.NewSanitizer(),
		Logger:   logger,
	}
}

// Result describes how a run ended.
type Result struct {
	Raw      string
	Path     *project.Path
	State    State
	Terminal string
	Editor   string
	Canceled bool
	Err      error // why the run aborted; nil on success or cancel

	EditorErr  error // editor launch failure; the run still succeeds
	HistoryErr error // history write failure; the run still succeeds
}

// Failed reports whether the run aborted with an error.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// choice is a terminal plus an optional editor.
type choice struct {
	terminal string
	editor   string
}

// Run processes one project path. raw may be empty for the current directory.
func (a *App) Run(ctx context.Context, raw string) *Result {
	res := &Result{Raw: raw, State: StateStart}
	log := a.Logger.WithField("path", raw)

	path, err := a.Paths.Sanitize(raw)
	if err != nil {
		return a.abort(ctx, res, log, err)
	}
	res.Path = path
	log = a.Logger.WithField("path", path.Resolved)
	for _, w := range path.Warnings {
		log.Warn(w.Message)
	}
	a.enter(res, log, StatePathValidated)

	log.WithField("config", sourceName(a.Config)).Debug("using configuration")
	a.enter(res, log, StateConfigLoaded)

	terminals := a.installed(log, a.Config.Terminals)
	if len(terminals) == 0 {
		return a.abort(ctx, res, log, a.noTerminals())
	}
	var editors []string
	if a.Config.EditorStepEnabled() {
		editors = a.installed(log, a.Config.Editors)
		if len(editors) == 0 {
			log.Info("no configured editor is installed; skipping editor step")
		}
	}
	a.enter(res, log, StateAppsFiltered)

	last, remembered := a.History.LastChoice(path.Resolved)
	if remembered {
		log.WithFields(logrus.Fields{"terminal": last.Terminal, "editor": last.Editor}).Debug("found previous choice")
	}

	var picked choice
	if a.Config.Behavior.CombinedDialog && len(editors) > 0 {
		picked, err = a.pickCombined(ctx, path, terminals, editors, last, remembered)
		if err != nil {
			return a.abort(ctx, res, log, err)
		}
		res.Terminal, res.Editor = picked.terminal, picked.editor
		a.enter(res, log, StateTerminalChosen)
		a.enter(res, log, StateEditorChosen)
	} else {
		picked.terminal, err = a.pickTerminal(ctx, path, terminals, last, remembered)
		if err != nil {
			return a.abort(ctx, res, log, err)
		}
		res.Terminal = picked.terminal
		a.enter(res, log, StateTerminalChosen)

		if len(editors) > 0 {
			picked.editor, err = a.pickEditor(ctx, path, editors, last, remembered)
			if err != nil {
				return a.abort(ctx, res, log, err)
			}
			res.Editor = picked.editor
			a.enter(res, log, StateEditorChosen)
		}
	}

	if err := a.launch(ctx, log, picked.terminal, path.Resolved); err != nil {
		return a.abort(ctx, res, log, err)
	}
	if picked.editor != "" {
		if err := a.launch(ctx, log, picked.editor, path.Resolved); err != nil {
			res.EditorErr = err
			log.WithError(err).WithField("app", picked.editor).Error("editor launch failed")
			a.alert(ctx, log, fmt.Sprintf("Opened %s, but %v", picked.terminal, err))
		}
	}
	a.enter(res, log, StateLaunched)

	if err := a.History.Record(path.Resolved, picked.terminal, picked.editor); err != nil {
		res.HistoryErr = err
		log.WithError(err).Warn("could not save history")
	} else {
		a.enter(res, log, StateHistoryRecorded)
	}
	a.enter(res, log, StateDone)
	return res
}

// Forget removes the remembered choice for each path. Paths that no longer
// exist are still forgotten.
func (a *App) Forget(paths []string) error {
	if len(paths) == 0 {
		paths = []string{""}
	}
	var errs []error
	for _, raw := range paths {
		key := raw
		path, err := a.Paths.Sanitize(raw)
		switch {
		case err == nil:
			key = path.Resolved
		case project.IsKind(err, project.UnsafeCharacters), raw == "":
			errs = append(errs, err)
			continue
		}
		log := a.Logger.WithField("path", key)
		found, err := a.History.Forget(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("cannot forget %s: %w", key, err))
			continue
		}
		if found {
			log.Info("forgot previous choice")
		} else {
			log.Info("no previous choice to forget")
		}
	}
	return errors.Join(errs...)
}

func (a *App) enter(res *Result, log logrus.FieldLogger, s State) {
	res.State = s
	log.WithField("state", s).Debug("state changed")
}

// abort ends the run. Cancellation is a normal exit; any other error is
// logged and shown to the user.
func (a *App) abort(ctx context.Context, res *Result, log logrus.FieldLogger, err error) *Result {
	res.State = StateAborted
	if errors.Is(err, dialog.ErrCanceled) {
		res.Canceled = true
		log.Info("canceled")
		return res
	}
	res.Err = err
	log.WithError(err).Error("launch aborted")
	a.alert(ctx, log, capitalize(err.Error()))
	return res
}

func (a *App) alert(ctx context.Context, log logrus.FieldLogger, message string) {
	if a.UI == nil {
		return
	}
	if err := a.UI.Alert(ctx, Title, message); err != nil {
		log.WithError(err).Warn("could not show alert")
	}
}

// installed filters names to installed apps and logs suggestions for the rest.
func (a *App) installed(log logrus.FieldLogger, names []string) []string {
	found := a.Apps.FilterInstalled(names)
	for _, name := range names {
		if contains(found, name) {
			continue
		}
		entry := log.WithField("app", name)
		if s := a.Apps.Suggest(name); len(s) > 0 {
			entry.Infof("not installed; did you mean %s?", strings.Join(s, ", "))
		} else {
			entry.Debug("not installed")
		}
	}
	return found
}

func (a *App) noTerminals() error {
	msg := fmt.Sprintf("%v (configured: %s)", ErrNoTerminalsAvailable, strings.Join(a.Config.Terminals, ", "))
	var hints []string
	for _, name := range a.Config.Terminals {
		if s := a.Apps.Suggest(name); len(s) > 0 {
			hints = append(hints, fmt.Sprintf("%s → %s", name, strings.Join(s, " or ")))
		}
	}
	if len(hints) > 0 {
		msg += "; names are case-sensitive, did you mean: " + strings.Join(hints, "; ")
	}
	return &noTerminalsError{msg: msg}
}

type noTerminalsError struct{ msg string }

func (e *noTerminalsError) Error() string        { return e.msg }
func (e *noTerminalsError) Is(target error) bool { return target == ErrNoTerminalsAvailable }

func (a *App) pickTerminal(ctx context.Context, path *project.Path, terminals []string, last history.Entry, remembered bool) (string, error) {
	req := dialog.PickRequest{
		Title:   Title,
		Prompt:  fmt.Sprintf("Open %s in which terminal?", path.Name()),
		Options: terminals,
	}
	if remembered {
		req.Default = last.Terminal
	}
	return a.UI.Pick(ctx, req)
}

// pickEditor returns the chosen editor, or "" for none. A single editor is
// offered as a yes/no question.
func (a *App) pickEditor(ctx context.Context, path *project.Path, editors []string, last history.Entry, remembered bool) (string, error) {
	if len(editors) == 1 {
		ok, err := a.UI.Confirm(ctx, dialog.ConfirmRequest{
			Title:      Title,
			Prompt:     fmt.Sprintf("Open '%s' in %s too?", path.Name(), editors[0]),
			DefaultYes: !remembered || last.HasEditor(),
		})
		if err != nil || !ok {
			return "", err
		}
		return editors[0], nil
	}

	req := dialog.PickRequest{
		Title:   Title,
		Prompt:  fmt.Sprintf("Also open %s in an editor?", path.Name()),
		Options: append(append([]string{}, editors...), NoEditor),
		Default: editors[0],
	}
	if remembered {
		req.Default = NoEditor
		if last.HasEditor() {
			req.Default = last.Editor
		}
	}
	picked, err := a.UI.Pick(ctx, req)
	if err != nil || picked == NoEditor {
		return "", err
	}
	return picked, nil
}

func (a *App) pickCombined(ctx context.Context, path *project.Path, terminals, editors []string, last history.Entry, remembered bool) (choice, error) {
	labels, choices := combinedOptions(terminals, editors)
	req := dialog.PickRequest{
		Title:   Title,
		Prompt:  fmt.Sprintf("Open %s with:", path.Name()),
		Options: labels,
		Default: choice{terminals[0], editors[0]}.label(),
	}
	if remembered {
		if prev := (choice{last.Terminal, last.Editor}).label(); contains(labels, prev) {
			req.Default = prev
		}
	}
	picked, err := a.UI.Pick(ctx, req)
	if err != nil {
		return choice{}, err
	}
	c, ok := choices[picked]
	if !ok {
		return choice{}, fmt.Errorf("unexpected choice %q", picked)
	}
	return c, nil
}

// combinedOptions lists every terminal alone and then with each editor.
func combinedOptions(terminals, editors []string) ([]string, map[string]choice) {
	labels := make([]string, 0, len(terminals)*(len(editors)+1))
	choices := make(map[string]choice, cap(labels))
	for _, t := range terminals {
		for _, c := range append([]choice{{terminal: t}}, pairs(t, editors)...) {
			label := c.label()
			if _, dup := choices[label]; dup {
				continue
			}
			labels = append(labels, label)
			choices[label] = c
		}
	}
	return labels, choices
}

func pairs(terminal string, editors []string) []choice {
	out := make([]choice, len(editors))
	for i, e := range editors {
		out[i] = choice{terminal, e}
	}
	return out
}

func (c choice) label() string {
	if c.editor == "" {
		return c.terminal
	}
	return c.terminal + comboSep + c.editor
}

func (a *App) launch(ctx context.Context, log logrus.FieldLogger, name, dir string) error {
	args := a.Config.ArgsFor(name)
	entry := log.WithField("app", name)
	entry.WithField("command", a.Launcher.Command(name, dir, args).String()).Debug("launching")
	if err := a.Launcher.Launch(ctx, name, dir, args); err != nil {
		return err
	}
	entry.Info("launched")
	return nil
}

func sourceName(cfg *config.Config) string {
	if src := cfg.Source(); src != "" {
		return src
	}
	return "built-in defaults"
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
