package app

import (
	"fmt"
	"strings"

	"github.com/osteele/devlaunch/internal/history"
	"github.com/osteele/devlaunch/internal/launcher"
	"github.com/osteele/devlaunch/internal/project"
	"github.com/osteele/devlaunch/internal/ui"
)

// AppStatus is the availability of one configured application.
type AppStatus struct {
	Name        string
	Installed   bool
	Suggestions []string
	Args        []string
}

// PathReport is what a run would do for one project path.
type PathReport struct {
	Raw        string
	Path       *project.Path
	Err        error
	Previous   *history.Entry
	Terminal   string
	Editor     string
	EditorAsks bool // the editor would be offered, not opened unconditionally
	Commands   []launcher.Command
}

// Report is a dry run of the launch for a set of paths.
type Report struct {
	ConfigSource string
	Warnings     []string
	Terminals    []AppStatus
	Editors      []AppStatus
	EditorStep   bool
	Remember     bool
	Paths        []PathReport
}

// OK reports whether every path could be launched.
func (r *Report) OK() bool {
	if !anyInstalled(r.Terminals) {
		return false
	}
	for _, p := range r.Paths {
		if p.Err != nil {
			return false
		}
	}
	return true
}

// Check resolves everything a run would need for paths without prompting or
// launching anything.
func (a *App) Check(paths []string) *Report {
	if len(paths) == 0 {
		paths = []string{""}
	}
	r := &Report{
		ConfigSource: sourceName(a.Config),
		Warnings:     a.Config.Warnings(),
		Terminals:    a.statuses(a.Config.Terminals),
		EditorStep:   a.Config.EditorStepEnabled(),
		Remember:     a.Config.Behavior.RememberChoices,
	}
	if r.EditorStep {
		r.Editors = a.statuses(a.Config.Editors)
	}
	terminals := installedNames(r.Terminals)
	editors := installedNames(r.Editors)

	for _, raw := range paths {
		pr := PathReport{Raw: raw}
		path, err := a.Paths.Sanitize(raw)
		if err != nil {
			pr.Err = err
			r.Paths = append(r.Paths, pr)
			continue
		}
		pr.Path = path
		if len(terminals) == 0 {
			pr.Err = a.noTerminals()
			r.Paths = append(r.Paths, pr)
			continue
		}

		last, remembered := a.History.LastChoice(path.Resolved)
		if remembered {
			pr.Previous = &last
		}
		pr.Terminal = terminals[0]
		if remembered && contains(terminals, last.Terminal) {
			pr.Terminal = last.Terminal
		}
		if len(editors) > 0 {
			pr.EditorAsks = true
			switch {
			case !remembered:
				pr.Editor = editors[0]
			case last.HasEditor() && contains(editors, last.Editor):
				pr.Editor = last.Editor
			}
		}

		for _, name := range []string{pr.Terminal, pr.Editor} {
			if name != "" {
				pr.Commands = append(pr.Commands, a.Launcher.Command(name, path.Resolved, a.Config.ArgsFor(name)))
			}
		}
		r.Paths = append(r.Paths, pr)
	}
	return r
}

func (a *App) statuses(names []string) []AppStatus {
	installed := a.Apps.FilterInstalled(names)
	out := make([]AppStatus, 0, len(names))
	for _, name := range names {
		s := AppStatus{Name: name, Installed: contains(installed, name), Args: a.Config.ArgsFor(name)}
		if !s.Installed {
			s.Suggestions = a.Apps.Suggest(name)
		}
		out = append(out, s)
	}
	return out
}

func installedNames(statuses []AppStatus) []string {
	var names []string
	for _, s := range statuses {
		if s.Installed {
			names = append(names, s.Name)
		}
	}
	return names
}

func anyInstalled(statuses []AppStatus) bool {
	return len(installedNames(statuses)) > 0
}

// Render formats the report for the terminal.
func (r *Report) Render(theme ui.Theme) string {
	var sb strings.Builder
	heading := func(s string) {
		sb.WriteString(theme.Heading.Render(s) + "\n")
	}

	heading("Configuration")
	fmt.Fprintf(&sb, "  source: %s\n", r.ConfigSource)
	for _, w := range r.Warnings {
		sb.WriteString("  " + theme.Warning.Render("warning: "+w) + "\n")
	}
	fmt.Fprintf(&sb, "  remember choices: %s\n", yesNo(r.Remember))
	sb.WriteString("\n")

	heading("Terminals")
	renderStatuses(&sb, theme, r.Terminals)
	if !anyInstalled(r.Terminals) {
		sb.WriteString("  " + theme.Error.Render(ErrNoTerminalsAvailable.Error()) + "\n")
	}
	sb.WriteString("\n")

	heading("Editors")
	if !r.EditorStep {
		sb.WriteString("  " + theme.Muted.Render("editor step disabled") + "\n")
	} else {
		renderStatuses(&sb, theme, r.Editors)
		if !anyInstalled(r.Editors) {
			sb.WriteString("  " + theme.Muted.Render("no editor installed; editor step will be skipped") + "\n")
		}
	}

	for _, p := range r.Paths {
		sb.WriteString("\n")
		renderPath(&sb, theme, p)
	}
	return sb.String()
}

func renderStatuses(sb *strings.Builder, theme ui.Theme, statuses []AppStatus) {
	for _, s := range statuses {
		line := theme.OK.Render("✓") + " " + s.Name
		if !s.Installed {
			line = theme.Error.Render("✗") + " " + s.Name + theme.Muted.Render(" (not installed)")
			if len(s.Suggestions) > 0 {
				line += theme.Warning.Render(" did you mean " + strings.Join(s.Suggestions, ", ") + "?")
			}
		}
		if len(s.Args) > 0 {
			line += theme.Muted.Render(" args: " + strings.Join(s.Args, " "))
		}
		sb.WriteString("  " + line + "\n")
	}
}

func renderPath(sb *strings.Builder, theme ui.Theme, p PathReport) {
	name := p.Raw
	if p.Path != nil {
		name = p.Path.Resolved
	} else if name == "" {
		name = "(current directory)"
	}
	sb.WriteString(theme.Heading.Render("Project "+name) + "\n")
	if p.Path != nil {
		for _, w := range p.Path.Warnings {
			sb.WriteString("  " + theme.Warning.Render("warning: "+w.Message) + "\n")
		}
	}
	if p.Err != nil {
		sb.WriteString("  " + theme.Error.Render("error: "+p.Err.Error()) + "\n")
		return
	}

	if p.Previous != nil {
		prev := p.Previous.Terminal
		if p.Previous.HasEditor() {
			prev += comboSep + p.Previous.Editor
		}
		fmt.Fprintf(sb, "  previous choice: %s %s\n", prev,
			theme.Muted.Render("("+p.Previous.LastUsed.Format("2006-01-02 15:04")+")"))
	} else {
		sb.WriteString("  " + theme.Muted.Render("no previous choice") + "\n")
	}
	fmt.Fprintf(sb, "  terminal: %s\n", p.Terminal)
	switch {
	case p.Editor != "":
		fmt.Fprintf(sb, "  editor: %s %s\n", p.Editor, theme.Muted.Render("(will ask)"))
	case p.EditorAsks:
		fmt.Fprintf(sb, "  editor: %s %s\n", NoEditor, theme.Muted.Render("(will ask)"))
	}
	for _, c := range p.Commands {
		sb.WriteString("  $ " + c.String() + "\n")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
