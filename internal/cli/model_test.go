package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"example.com/markdown-notes/internal/editor"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func testEditor(notes ...editor.Note) *editor.Editor {
	return editor.New(
		editor.WithClock(func() time.Time { return epoch }),
		editor.WithNotes(notes...),
	)
}

func note(id, title, content string, tags ...string) editor.Note {
	return editor.Note{ID: id, Title: title, Content: content, Tags: tags, CreatedAt: epoch, UpdatedAt: epoch}
}

// keyMsg turns a key name into a key message. Anything that is not a
// named key is typed as runes.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func drive(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	var tm tea.Model = m
	tm, _ = tm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	for _, k := range keys {
		tm, _ = tm.Update(keyMsg(k))
	}
	out, ok := tm.(Model)
	require.True(t, ok)
	return out
}

func TestModel_CreateAndTag(t *testing.T) {
	ed := testEditor()

	m := drive(t, NewModel(ed), "n")
	require.Equal(t, stateView, m.state)
	require.Contains(t, m.status, "Created note ")

	m = drive(t, m,
		"r", "Groceries", "enter",
		"t", "Home", "enter",
		"t", "home", "enter",
	)
	require.Equal(t, "Note already has tag home", m.status)
	require.True(t, m.failed)

	m = drive(t, m,
		"t", "errands", "enter",
		"x", "errands", "enter",
	)
	require.Equal(t, "Removed tag errands", m.status)

	n, ok := ed.Selected()
	require.True(t, ok)
	require.Equal(t, "Groceries", n.Title)
	require.Equal(t, []string{"home"}, n.Tags)
	require.Equal(t, stateView, m.state)
	require.Contains(t, m.View(), "Tags: home")
}

func TestModel_EditBody(t *testing.T) {
	ed := testEditor(note("1", "One", ""))

	m := drive(t, NewModel(ed), "e", "# List", "enter", "enter", "- milk", "ctrl+s")
	require.Equal(t, stateList, m.state)
	require.Equal(t, "Saved", m.status)

	n, _ := ed.Selected()
	require.Equal(t, "# List\n\n- milk", n.Content)

	drive(t, m, "e", "junk", "esc")
	n, _ = ed.Selected()
	require.Equal(t, "# List\n\n- milk", n.Content)
}

func TestModel_EditBodyHasNoSizeLimit(t *testing.T) {
	ed := testEditor(note("1", "One", ""))
	big := strings.Repeat("x", 70*1024)

	drive(t, NewModel(ed), "e", big, "ctrl+s")
	n, _ := ed.Selected()
	require.Len(t, n.Content, len(big))
}

func TestModel_RenameKeepsTitleOnEmptyInput(t *testing.T) {
	ed := testEditor(note("1", "One", ""))

	m := drive(t, NewModel(ed), "r", "enter")
	require.Equal(t, "Title unchanged", m.status)
	n, _ := ed.Selected()
	require.Equal(t, "One", n.Title)
}

func TestModel_List(t *testing.T) {
	long := "# Heading\n\n" + strings.Repeat("word ", 40)
	ed := testEditor(
		note("1", "First", long, "a", "b", "c", "d", "e"),
		note("2", "Second", "**bold** and `code`", "b"),
	)

	view := drive(t, NewModel(ed)).View()
	require.Contains(t, view, "First")
	require.Contains(t, view, "Second")
	require.Contains(t, view, "[a] [b] [c] [+2]")
	require.Contains(t, view, "[b]  bold and code...")
	require.NotContains(t, view, "# Heading")
	require.Contains(t, view, "mode: edit")

	view = drive(t, NewModel(testEditor())).View()
	require.Contains(t, view, "No notes found")
}

func TestModel_NavigationMovesSelection(t *testing.T) {
	ed := testEditor(note("1", "One", ""), note("2", "Two", ""))

	drive(t, NewModel(ed), "down")
	sel, ok := ed.Selected()
	require.True(t, ok)
	require.Equal(t, "2", sel.ID)
}

func TestModel_SearchAndFilter(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		want   []string
		absent []string
	}{
		{name: "search", keys: []string{"/", "MILK", "enter"}, want: []string{"Shopping"}, absent: []string{"Go notes", "Ideas"}},
		{name: "search esc clears", keys: []string{"/", "MILK", "esc"}, want: []string{"Shopping", "Go notes", "Ideas"}},
		{name: "filter", keys: []string{"f", "Work", "enter"}, want: []string{"Go notes", "Ideas", "tags: work"}, absent: []string{"Shopping"}},
		{name: "filter toggled off", keys: []string{"f", "work", "enter", "f", "work", "enter"}, want: []string{"Shopping", "Go notes", "Ideas"}},
		{name: "nothing matches", keys: []string{"/", "zzz", "enter"}, want: []string{"No notes found", `search: "zzz"`}},
		{name: "clear filters", keys: []string{"/", "zzz", "enter", "f", "go", "enter", "c"}, want: []string{"Shopping", "Go notes", "Ideas"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := testEditor(
				note("1", "Shopping", "milk", "home"),
				note("2", "Go notes", "channels", "go", "work"),
				note("3", "Ideas", "nothing", "work"),
			)

			m := drive(t, NewModel(ed), tt.keys...)
			require.Equal(t, stateList, m.state)
			view := m.View()
			for _, w := range tt.want {
				require.Contains(t, view, w)
			}
			for _, a := range tt.absent {
				require.NotContains(t, view, a)
			}
		})
	}
}

func TestModel_FilterPromptListsTags(t *testing.T) {
	ed := testEditor(note("1", "A", "", "go", "web"), note("2", "B", "", "db"))

	view := drive(t, NewModel(ed), "f", "web", "enter", "f").View()
	require.Contains(t, view, "Toggle tag filter:")
	require.Contains(t, view, "  go\n")
	require.Contains(t, view, "* web\n")
	require.Contains(t, view, "  db\n")

	view = drive(t, NewModel(testEditor()), "f").View()
	require.Contains(t, view, "No tags")
}

func TestModel_TypingInInputsDoesNotRunCommands(t *testing.T) {
	ed := testEditor(note("1", "One", ""))

	m := drive(t, NewModel(ed), "/", "q", "n", "d")
	require.Equal(t, stateSearch, m.state)
	require.Equal(t, "qnd", ed.SearchQuery())
	require.Len(t, ed.Notes(), 1)
	require.False(t, ed.DialogOpen())
}

func TestModel_ViewNote(t *testing.T) {
	ed := testEditor(note("1", "Title", "# Heading\n\nbody text", "x"))

	m := drive(t, NewModel(ed), "enter")
	require.Equal(t, stateView, m.state)
	view := m.View()
	require.Contains(t, view, "Tags: x\n")
	require.Contains(t, view, "Mode: edit")
	require.Contains(t, view, "# Heading\n\nbody text")

	r, err := editor.NewRenderer(60, "notty")
	require.NoError(t, err)
	m = drive(t, NewModel(ed, WithRenderer(r)), "enter", "p")
	require.True(t, ed.PreviewMode())
	view = m.View()
	require.Contains(t, view, "Mode: preview")
	require.Contains(t, view, "body text")

	m = drive(t, m, "p", "esc")
	require.False(t, ed.PreviewMode())
	require.Equal(t, stateList, m.state)

	m = drive(t, NewModel(testEditor()), "enter")
	require.Equal(t, stateList, m.state)
}

func TestModel_Delete(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantIDs    []string
		wantStatus string
		wantSelID  string
	}{
		{name: "confirm highlighted", keys: []string{"d", "y"}, wantIDs: []string{"2"}, wantStatus: `Deleted "One"`, wantSelID: "2"},
		{name: "confirm after moving", keys: []string{"down", "d", "y"}, wantIDs: []string{"1"}, wantStatus: `Deleted "Two"`, wantSelID: "1"},
		{name: "confirm from note view", keys: []string{"enter", "d", "Y"}, wantIDs: []string{"2"}, wantStatus: `Deleted "One"`, wantSelID: "2"},
		{name: "decline", keys: []string{"d", "n"}, wantIDs: []string{"1", "2"}, wantStatus: `Kept "One"`, wantSelID: "1"},
		{name: "dismiss", keys: []string{"d", "esc"}, wantIDs: []string{"1", "2"}, wantStatus: `Kept "One"`, wantSelID: "1"},
		{name: "other keys wait", keys: []string{"d", "q", "x", "n"}, wantIDs: []string{"1", "2"}, wantStatus: `Kept "One"`, wantSelID: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := testEditor(note("1", "One", ""), note("2", "Two", ""))

			m := drive(t, NewModel(ed), tt.keys...)
			require.Equal(t, tt.wantStatus, m.status)
			require.Equal(t, stateList, m.state)
			require.False(t, ed.DialogOpen())

			var ids []string
			for _, n := range ed.Notes() {
				ids = append(ids, n.ID)
			}
			require.Equal(t, tt.wantIDs, ids)

			sel, ok := ed.Selected()
			require.True(t, ok)
			require.Equal(t, tt.wantSelID, sel.ID)
		})
	}
}

func TestModel_DeclineFromNoteViewReturnsToIt(t *testing.T) {
	ed := testEditor(note("1", "One", ""))

	m := drive(t, NewModel(ed), "enter", "d", "n")
	require.Equal(t, stateView, m.state)
	require.Len(t, ed.Notes(), 1)
}

func TestModel_ConfirmViewShowsDialog(t *testing.T) {
	ed := testEditor(note("1", "Groceries", ""))

	m := drive(t, NewModel(ed), "d")
	require.Equal(t, stateConfirm, m.state)
	require.True(t, ed.DialogOpen())

	view := m.View()
	require.Contains(t, view, "Delete Note")
	require.Contains(t, view, `Are you sure you want to delete the note "Groceries"? This action cannot be undone.`)
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{name: "q in list", keys: []string{"q"}},
		{name: "q in note view", keys: []string{"enter", "q"}},
		{name: "ctrl+c in list", keys: []string{"ctrl+c"}},
		{name: "ctrl+c while searching", keys: []string{"/", "ctrl+c"}},
		{name: "ctrl+c while editing", keys: []string{"e", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := drive(t, NewModel(testEditor(note("1", "One", ""))), tt.keys[:len(tt.keys)-1]...)

			_, cmd := m.Update(keyMsg(tt.keys[len(tt.keys)-1]))
			require.NotNil(t, cmd)
			require.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_NoSelection(t *testing.T) {
	for _, k := range []string{"e", "r", "t", "x", "d"} {
		m := drive(t, NewModel(testEditor()), k)
		require.Equal(t, stateList, m.state, "key %s", k)
		require.Equal(t, noSelection, m.status)
		require.True(t, m.failed)
	}
}

func TestModel_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "empty tag", keys: []string{"t", "  ", "enter"}, want: "Tag is empty"},
		{name: "untag missing", keys: []string{"x", "nope", "enter"}, want: `Tag "nope" is not on the selected note`},
		{name: "empty filter", keys: []string{"f", "enter"}, want: "Tag is empty"},
		{name: "export without dir", keys: []string{"E", "enter"}, want: "Export needs a directory"},
		{name: "import without file", keys: []string{"i", "enter"}, want: "Import needs a file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := drive(t, NewModel(testEditor(note("1", "One", ""))), tt.keys...)
			require.Equal(t, tt.want, m.status)
			require.True(t, m.failed)
		})
	}
}

func TestModel_InputEscCancels(t *testing.T) {
	ed := testEditor(note("1", "One", ""))

	m := drive(t, NewModel(ed), "t", "work", "esc")
	require.Equal(t, stateList, m.state)
	n, _ := ed.Selected()
	require.Empty(t, n.Tags)
}

func TestModel_ExportImport(t *testing.T) {
	dir := t.TempDir()
	ed := testEditor(note("1", "One", "first body", "a"), note("2", "Two", "second body"))

	m := drive(t, NewModel(ed), "E", dir, "enter")
	require.Equal(t, "Exported 2 notes to "+dir, m.status)

	data, err := os.ReadFile(filepath.Join(dir, "1.md"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "---\n"))
	require.Contains(t, string(data), "first body")

	other := testEditor()
	m = drive(t, NewModel(other), "i", filepath.Join(dir, "1.md"), "enter")
	require.Equal(t, "Imported note 1", m.status)

	n, ok := other.Selected()
	require.True(t, ok)
	require.Equal(t, "One", n.Title)
	require.Equal(t, "first body", n.Content)
	require.Equal(t, []string{"a"}, n.Tags)
	require.Contains(t, m.View(), "One")

	m = drive(t, m, "i", filepath.Join(dir, "missing.md"), "enter")
	require.Contains(t, m.status, "Import failed")
	require.True(t, m.failed)
}

func TestModel_ImportedEscapingIDCannotLeaveExportDir(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "evil.md")
	evil := "---\nid: ../../escaped\ntitle: Evil\ntags: []\n---\n\nbody\n"
	require.NoError(t, os.WriteFile(src, []byte(evil), 0o644))

	ed := testEditor()
	out := filepath.Join(root, "a", "b")
	drive(t, NewModel(ed), "i", src, "enter", "E", out, "enter")

	n, ok := ed.Selected()
	require.True(t, ok)
	require.Equal(t, "Evil", n.Title)
	require.NotEqual(t, "../../escaped", n.ID)

	_, err := os.Stat(filepath.Join(root, "escaped.md"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(out, n.ID+".md"))
	require.NoError(t, err)
}

func TestContentPreview(t *testing.T) {
	require.Equal(t, "Title body...", contentPreview("# Title\n\n*body*"))
	require.Equal(t, "...", contentPreview(""))
	require.Equal(t, strings.Repeat("é", 100)+"...", contentPreview(strings.Repeat("é", 150)))
}

func TestTagBadges(t *testing.T) {
	require.Equal(t, "", tagBadges(nil))
	require.Equal(t, "[a] [b] [c]", tagBadges([]string{"a", "b", "c"}))
	require.Equal(t, "[a] [b] [c] [+1]", tagBadges([]string{"a", "b", "c", "d"}))
}

func TestNoteItem(t *testing.T) {
	it := noteItem{note: note("1", "Title", "**hi**", "x")}
	require.Equal(t, "Title", it.Title())
	require.Equal(t, "Title", it.FilterValue())
	require.Equal(t, "[x]  hi...", it.Description())

	it = noteItem{note: note("2", "Bare", "text")}
	require.Equal(t, "text...", it.Description())
}
