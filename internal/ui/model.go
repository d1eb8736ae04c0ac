package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/osteele/devlaunch/internal/dialog"
)

// Mode selects which prompt the model shows.
type Mode int

const (
	ModePick Mode = iota
	ModeConfirm
	ModeAlert
)

// Button labels for confirm and alert prompts.
const (
	ButtonNo  = "No"
	ButtonYes = "Yes"
	ButtonOK  = "OK"
)

// Model is the Bubble Tea model for a single prompt.
type Model struct {
	// UI state
	Theme Theme
	Width int
	Mode  Mode

	// Prompt content
	Title   string
	Prompt  string
	Options []string // list rows for ModePick, buttons otherwise
	Default int

	Selection *SelectionManager

	// Outcome
	Done     bool
	Canceled bool
}

// KeyMap defines the key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding
	Enter  key.Binding
	Yes    key.Binding
	No     key.Binding
	Number key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "choose"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "no"),
		),
		Number: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "pick"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

var keys = DefaultKeyMap()

// NewPickModel creates a list prompt.
func NewPickModel(theme Theme, req dialog.PickRequest) Model {
	def := req.DefaultIndex()
	return Model{
		Theme:     theme,
		Mode:      ModePick,
		Title:     req.Title,
		Prompt:    req.Prompt,
		Options:   req.Options,
		Default:   def,
		Selection: NewSelectionManager(len(req.Options), def),
	}
}

// NewConfirmModel creates a Yes/No prompt.
func NewConfirmModel(theme Theme, req dialog.ConfirmRequest) Model {
	def := 0
	if req.DefaultYes {
		def = 1
	}
	return Model{
		Theme:     theme,
		Mode:      ModeConfirm,
		Title:     req.Title,
		Prompt:    req.Prompt,
		Options:   []string{ButtonNo, ButtonYes},
		Default:   def,
		Selection: NewSelectionManager(2, def),
	}
}

// NewAlertModel creates a message box with a single OK button.
func NewAlertModel(theme Theme, title, message string) Model {
	return Model{
		Theme:     theme,
		Mode:      ModeAlert,
		Title:     title,
		Prompt:    message,
		Options:   []string{ButtonOK},
		Selection: NewSelectionManager(1, 0),
	}
}

// Choice returns the highlighted option.
func (m Model) Choice() string {
	if len(m.Options) == 0 {
		return ""
	}
	return m.Options[m.Selection.RawIndex()]
}

// Confirmed reports whether a confirm prompt was answered Yes.
func (m Model) Confirmed() bool {
	return m.Mode == ModeConfirm && !m.Canceled && m.Choice() == ButtonYes
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.Canceled = m.Mode != ModeAlert
		return m.finish()

	case key.Matches(msg, keys.Enter):
		return m.finish()
	}

	switch m.Mode {
	case ModePick:
		return m.handlePickKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

func (m Model) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.Selection.SelectPrevious()
	case key.Matches(msg, keys.Down):
		m.Selection.SelectNext()
	case key.Matches(msg, keys.Top):
		m.Selection.SelectFirst()
	case key.Matches(msg, keys.Bottom):
		m.Selection.SelectLast()
	case key.Matches(msg, keys.Number):
		n := int(msg.String()[0] - '1')
		if n < m.Selection.TotalItems() {
			m.Selection.SetIndex(n)
			return m.finish()
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		m.Selection.SetIndex(1)
		return m.finish()
	case key.Matches(msg, keys.No):
		m.Selection.SetIndex(0)
		return m.finish()
	case key.Matches(msg, keys.Left, keys.Up):
		m.Selection.SelectPrevious()
	case key.Matches(msg, keys.Right, keys.Down):
		m.Selection.SelectNext()
	}
	return m, nil
}

func (m Model) finish() (tea.Model, tea.Cmd) {
	m.Done = true
	return m, tea.Quit
}

// View implements tea.Model. A finished prompt renders nothing so it
// disappears from the terminal.
func (m Model) View() string {
	if m.Done {
		return ""
	}

	var body string
	switch m.Mode {
	case ModePick:
		body = m.renderList()
	default:
		body = m.renderButtons()
	}

	border, title := m.Theme.ModalBorder, m.Theme.ModalTitle
	if m.Mode == ModeAlert {
		border, title = m.Theme.AlertBorder, m.Theme.AlertTitle
	}

	var sb strings.Builder
	if m.Title != "" {
		sb.WriteString(title.Render(m.Title) + "\n\n")
	}
	if m.Prompt != "" {
		sb.WriteString(m.Theme.Prompt.Render(m.Prompt) + "\n\n")
	}
	sb.WriteString(body + "\n\n")
	sb.WriteString(m.renderHelp())

	if m.Width > 4 {
		border = border.MaxWidth(m.Width)
	}
	return border.Render(sb.String()) + "\n"
}

func (m Model) renderList() string {
	lines := make([]string, len(m.Options))
	for i, opt := range m.Options {
		number := "  "
		if i < 9 {
			number = fmt.Sprintf("%d.", i+1)
		}
		line := m.Theme.ItemNumber.Render(number) + " " + opt
		if i == m.Default {
			line += m.Theme.DefaultMarker.Render(" *")
		}
		if i == m.Selection.RawIndex() {
			line = m.Theme.SelectedItem.Render("› " + line)
		} else {
			line = m.Theme.UnselectedItem.Render("  " + line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderButtons() string {
	buttons := make([]string, len(m.Options))
	for i, label := range m.Options {
		style := m.Theme.Button
		if i == m.Selection.RawIndex() {
			style = m.Theme.ActiveButton
		}
		buttons[i] = style.Render(label)
	}
	return strings.Join(buttons, " ")
}

func (m Model) renderHelp() string {
	var items []string
	switch m.Mode {
	case ModePick:
		items = append(items,
			m.Theme.HelpKey.Render("↑/↓")+" Move",
			m.Theme.HelpKey.Render("1-9")+" Pick",
			m.Theme.HelpKey.Render("↵")+" Choose",
			m.Theme.HelpKey.Render("esc")+" Cancel",
		)
	case ModeConfirm:
		items = append(items,
			m.Theme.HelpKey.Render("y/n")+" Answer",
			m.Theme.HelpKey.Render("←/→")+" Move",
			m.Theme.HelpKey.Render("↵")+" Choose",
			m.Theme.HelpKey.Render("esc")+" Cancel",
		)
	case ModeAlert:
		items = append(items, m.Theme.HelpKey.Render("↵")+" Close")
	}
	sep := m.Theme.HelpSep.Render(" | ")
	return m.Theme.HelpText.Render(strings.Join(items, sep))
}
