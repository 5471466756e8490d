// Package cli runs the note editor as a terminal UI.
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"example.com/markdown-notes/internal/editor"
	"example.com/markdown-notes/internal/stringsx"
)

type state int

const (
	stateList state = iota
	stateView
	stateSearch
	stateInput
	stateBody
	stateConfirm
)

// inputAction says what a line typed in stateInput is for.
type inputAction int

const (
	inputTag inputAction = iota
	inputUntag
	inputFilter
	inputTitle
	inputExport
	inputImport
)

var inputPrompts = map[inputAction]string{
	inputTag:    "Add tag",
	inputUntag:  "Remove tag",
	inputFilter: "Toggle tag filter",
	inputTitle:  "Rename note",
	inputExport: "Export notes to directory",
	inputImport: "Import markdown file",
}

const noSelection = "No note selected. Press n to create one."

// Model is the bubbletea model around an editor. The editor holds all
// note state; the model only tracks which view is on screen.
type Model struct {
	ed       *editor.Editor
	renderer *editor.Renderer
	log      zerolog.Logger

	state  state
	back   state
	action inputAction

	list        list.Model
	searchInput textinput.Model
	input       textinput.Model
	body        textarea.Model

	width  int
	height int

	status string
	failed bool
}

type Option func(*Model)

// WithRenderer enables rendered markdown for notes shown in preview mode.
func WithRenderer(r *editor.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

func NewModel(ed *editor.Editor, opts ...Option) Model {
	si := textinput.New()
	si.Placeholder = "search notes..."
	si.CharLimit = 100
	si.Width = 40

	in := textinput.New()
	in.CharLimit = 256
	in.Width = 40

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Notes"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := Model{
		ed:          ed,
		log:         zerolog.Nop(),
		list:        l,
		searchInput: si,
		input:       in,
		body:        ta,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refreshList()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		m.body.SetWidth(max(msg.Width-4, 20))
		m.body.SetHeight(max(msg.Height-8, 3))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateView:
		return m.updateView(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateInput:
		return m.updateInput(msg)
	case stateBody:
		return m.updateBody(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch k := key.String(); k {
	case "q":
		return m, tea.Quit
	case "n":
		n := m.ed.Create()
		m.log.Debug().Str("note_id", n.ID).Msg("note created")
		m.setStatus("Created note " + n.ID)
		m.refreshList()
		m.state = stateView
		return m, nil
	case "enter":
		if m.selectHighlighted() {
			m.state = stateView
		}
		return m, nil
	case "/":
		m.state = stateSearch
		return m, m.searchInput.Focus()
	case "c":
		m.clearFilters()
		return m, nil
	case "p":
		m.togglePreview()
		return m, nil
	case "f":
		return m.openInput(inputFilter, stateList)
	case "E":
		return m.openInput(inputExport, stateList)
	case "i":
		return m.openInput(inputImport, stateList)
	case "e", "r", "t", "x", "d":
		if !m.selectHighlighted() {
			m.setError(noSelection)
			return m, nil
		}
		return m.noteAction(k, stateList)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectHighlighted()
	return m, cmd
}

func (m Model) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.state = stateList
		m.refreshList()
	case "p":
		m.togglePreview()
	case "e", "r", "t", "x", "d":
		return m.noteAction(k, stateView)
	}
	return m, nil
}

// noteAction starts an edit of the selected note. from is the state to
// return to when the edit is done.
func (m Model) noteAction(k string, from state) (tea.Model, tea.Cmd) {
	n, ok := m.ed.Selected()
	if !ok {
		m.setError(noSelection)
		return m, nil
	}

	switch k {
	case "e":
		m.back = from
		m.body.SetValue(n.Content)
		m.state = stateBody
		return m, m.body.Focus()
	case "r":
		return m.openInput(inputTitle, from)
	case "t":
		return m.openInput(inputTag, from)
	case "x":
		return m.openInput(inputUntag, from)
	case "d":
		m.ed.RequestDelete(n.ID)
		m.back = from
		m.state = stateConfirm
	}
	return m, nil
}

// updateSearch filters the list as the query is typed. Enter keeps the
// query and esc clears it.
func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.searchInput.Blur()
			m.state = stateList
			if q := m.ed.SearchQuery(); q != "" {
				m.setStatus(fmt.Sprintf("Search %q: %d notes", q, len(m.list.Items())))
			}
			return m, nil
		case "esc":
			m.searchInput.Reset()
			m.searchInput.Blur()
			m.ed.SetSearchQuery("")
			m.refreshList()
			m.state = stateList
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.ed.SearchQuery() {
		m.ed.SetSearchQuery(q)
		m.refreshList()
	}
	return m, cmd
}

func (m Model) openInput(a inputAction, from state) (tea.Model, tea.Cmd) {
	m.action = a
	m.back = from
	m.input.Reset()
	m.input.Placeholder = ""
	if a == inputTitle {
		if n, ok := m.ed.Selected(); ok {
			m.input.Placeholder = n.Title
		}
	}
	m.state = stateInput
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.input.Blur()
			m.state = m.back
			m.applyInput(m.input.Value())
			return m, nil
		case "esc":
			m.input.Blur()
			m.state = m.back
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyInput(value string) {
	defer m.refreshList()

	switch m.action {
	case inputTitle:
		if stringsx.IsEmpty(value) {
			m.setStatus("Title unchanged")
			return
		}
		m.ed.Update(editor.Patch{Title: &value})
		m.setStatus("Renamed to " + value)
	case inputTag:
		n, ok := m.ed.Selected()
		tag := stringsx.Normalize(value)
		switch {
		case !ok:
			m.setError(noSelection)
		case tag == "":
			m.setError("Tag is empty")
		case n.HasTag(tag):
			m.setError("Note already has tag " + tag)
		default:
			m.ed.AddTag(value)
			m.setStatus("Tagged " + tag)
		}
	case inputUntag:
		tag := stringsx.Normalize(value)
		if !m.ed.RemoveTag(tag) {
			m.setError(fmt.Sprintf("Tag %q is not on the selected note", tag))
			return
		}
		m.setStatus("Removed tag " + tag)
	case inputFilter:
		tag := stringsx.Normalize(value)
		if tag == "" {
			m.setError("Tag is empty")
			return
		}
		m.ed.ToggleTagFilter(tag)
		if slices.Contains(m.ed.SelectedTags(), tag) {
			m.setStatus("Filtering by tag " + tag)
		} else {
			m.setStatus("Stopped filtering by tag " + tag)
		}
	case inputExport:
		m.exportTo(strings.TrimSpace(value))
	case inputImport:
		m.importFrom(strings.TrimSpace(value))
	}
}

func (m Model) updateBody(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+s":
			content := m.body.Value()
			m.ed.Update(editor.Patch{Content: &content})
			m.body.Blur()
			m.state = m.back
			m.refreshList()
			m.setStatus("Saved")
			return m, nil
		case "esc":
			m.body.Blur()
			m.state = m.back
			m.setStatus("Discarded changes")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

// keyPrompter answers the delete dialog with the key the user pressed.
type keyPrompter editor.Choice

func (p keyPrompter) Prompt(string, string) (editor.Choice, error) {
	return editor.Choice(p), nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	var choice editor.Choice
	switch key.String() {
	case "y", "Y":
		choice = editor.ChoiceConfirm
	case "n", "N":
		choice = editor.ChoiceCancel
	case "esc":
		choice = editor.ChoiceDismiss
	default:
		return m, nil
	}

	m.state = m.back
	d, ok := m.ed.DeleteDialog()
	if !ok {
		return m, nil
	}
	pending, _ := m.ed.PendingDelete()
	before := len(m.ed.Notes())

	if err := d.Run(keyPrompter(choice)); err != nil {
		m.setError("Delete failed: " + err.Error())
		return m, nil
	}

	if len(m.ed.Notes()) < before {
		m.log.Info().Str("note_id", pending.ID).Msg("note deleted")
		m.setStatus(fmt.Sprintf("Deleted %q", d.NoteTitle))
		m.state = stateList
	} else {
		m.setStatus(fmt.Sprintf("Kept %q", d.NoteTitle))
	}
	m.refreshList()
	return m, nil
}

func (m *Model) exportTo(dir string) {
	if dir == "" {
		m.setError("Export needs a directory")
		return
	}
	written, skipped, err := exportNotes(m.ed.Notes(), dir, m.log)
	if err != nil {
		m.setError("Export failed: " + err.Error())
		return
	}
	msg := fmt.Sprintf("Exported %d notes to %s", written, dir)
	if skipped > 0 {
		msg += fmt.Sprintf(", skipped %d with unsafe ids", skipped)
	}
	m.setStatus(msg)
}

func (m *Model) importFrom(path string) {
	if path == "" {
		m.setError("Import needs a file")
		return
	}
	n, err := importNote(path)
	if err != nil {
		m.setError("Import failed: " + err.Error())
		return
	}
	n = m.ed.Import(n)
	m.log.Debug().Str("note_id", n.ID).Str("path", path).Msg("note imported")
	m.setStatus("Imported note " + n.ID)
}

func (m *Model) clearFilters() {
	m.searchInput.Reset()
	m.ed.SetSearchQuery("")
	for _, t := range m.ed.SelectedTags() {
		m.ed.ToggleTagFilter(t)
	}
	m.refreshList()
	m.setStatus("Cleared search and tag filters")
}

func (m *Model) togglePreview() {
	m.ed.SetPreviewMode(!m.ed.PreviewMode())
	if m.ed.PreviewMode() {
		m.setStatus("Preview mode")
	} else {
		m.setStatus("Edit mode")
	}
}

// refreshList reloads the list from the editor's filtered notes and moves
// the cursor to the selected note when it is visible.
func (m *Model) refreshList() {
	notes := m.ed.Filtered()
	sel, _ := m.ed.Selected()

	items := make([]list.Item, len(notes))
	cursor := 0
	for i, n := range notes {
		items[i] = noteItem{note: n}
		if n.ID == sel.ID {
			cursor = i
		}
	}
	m.list.SetItems(items)
	m.list.Select(cursor)
}

// selectHighlighted makes the note under the list cursor the editor's
// selection.
func (m *Model) selectHighlighted() bool {
	it, ok := m.list.SelectedItem().(noteItem)
	return ok && m.ed.Select(it.note.ID)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.failed = true
}
