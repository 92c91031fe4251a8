// Package command implements the ":" palette: a one-line prompt that
// parses what was typed against a fixed command table.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/theme"
)

// Entry describes one palette command.
type Entry struct {
	Name    string
	Aliases []string
	// Args lists the accepted values of the optional argument. Nil means
	// the command takes no argument.
	Args []string
	Desc string
}

// Table is every command the palette understands.
var Table = []Entry{
	{Name: "new", Aliases: []string{"add", "n"}, Desc: "create a task"},
	{Name: "categories", Aliases: []string{"cat", "c"}, Desc: "manage categories"},
	{Name: "stats", Aliases: []string{"s"}, Desc: "progress per category"},
	{Name: "completed", Aliases: []string{"done"}, Args: []string{"on", "off"}, Desc: "show or hide finished tasks"},
	{Name: "refresh", Aliases: []string{"r", "reload"}, Desc: "reload from the database"},
	{Name: "help", Aliases: []string{"h", "?"}, Desc: "key bindings"},
	{Name: "quit", Aliases: []string{"q", "exit"}, Desc: "leave studytrack"},
}

// CommandMsg is emitted when the user presses enter. Err is set when the
// input did not parse; Name is then empty.
type CommandMsg struct {
	Name string
	Arg  string
	Err  error
}

// Parse resolves input against Table. Matching is case-insensitive and
// accepts aliases.
func Parse(input string) (CommandMsg, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return CommandMsg{}, errors.New("empty command")
	}

	entry, ok := lookup(fields[0])
	if !ok {
		return CommandMsg{}, fmt.Errorf("unknown command %q", fields[0])
	}

	args := fields[1:]
	switch {
	case len(args) == 0:
		return CommandMsg{Name: entry.Name}, nil
	case entry.Args == nil || len(args) > 1:
		return CommandMsg{}, fmt.Errorf("%s: unexpected argument %q", entry.Name, strings.Join(args, " "))
	}

	for _, a := range entry.Args {
		if a == args[0] {
			return CommandMsg{Name: entry.Name, Arg: a}, nil
		}
	}
	return CommandMsg{}, fmt.Errorf("%s: argument must be one of %s", entry.Name, strings.Join(entry.Args, ", "))
}

func lookup(word string) (Entry, bool) {
	for _, s := range Table {
		if s.Name == word {
			return s, true
		}
		for _, a := range s.Aliases {
			if a == word {
				return s, true
			}
		}
	}
	return Entry{}, false
}

// suggestions are the completions offered while typing.
func suggestions() []string {
	var out []string
	for _, s := range Table {
		out = append(out, s.Name)
		for _, a := range s.Args {
			out = append(out, s.Name+" "+a)
		}
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command, tab completes"
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(suggestions())
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		raw := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(raw) == "" {
			return m, nil
		}

		parsed, err := Parse(raw)
		parsed.Err = err
		return m, func() tea.Msg { return parsed }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt above a table of the available commands.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	usageStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(22)
	rows := make([]string, 0, len(Table))
	for _, s := range Table {
		usage := s.Name
		if s.Args != nil {
			usage += " [" + strings.Join(s.Args, "|") + "]"
		}
		rows = append(rows, usageStyle.Render(usage)+theme.HelpStyle.Render(s.Desc))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Command Palette"),
		m.input.View(),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
