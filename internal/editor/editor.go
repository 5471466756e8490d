// Package editor holds the note editor's state: the working set of notes,
// the selection, search and tag filters, and the pending delete. It is
// single-threaded and never touches the network. Operations that need a
// selection are no-ops without one and report false.
package editor

import (
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"example.com/markdown-notes/internal/stringsx"
)

const (
	DefaultTitle   = "Untitled Note"
	DefaultContent = "# New Note\n\nStart writing..."
)

type Note struct {
	ID        string    `json:"id"        yaml:"id"`
	Title     string    `json:"title"     yaml:"title"`
	Content   string    `json:"content"   yaml:"-"`
	Tags      []string  `json:"tags"      yaml:"tags"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// HasTag reports whether tag is on the note. Tags are stored lowercase.
func (n Note) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// clone copies n so the caller cannot reach the editor's tag slice.
func (n Note) clone() Note {
	n.Tags = slices.Clone(n.Tags)
	return n
}

func cloneNotes(notes []Note) []Note {
	if notes == nil {
		return nil
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.clone()
	}
	return out
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title   *string
	Content *string
	Tags    []string
}

type Editor struct {
	notes      []Note
	selectedID string
	preview    bool

	searchQuery  string
	selectedTags []string

	pendingDelete *Note
	dialogOpen    bool

	now    func() time.Time
	lastID int64
}

type Option func(*Editor)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithNotes starts the editor with notes and selects the first one.
func WithNotes(notes ...Note) Option {
	return func(e *Editor) {
		e.notes = make([]Note, 0, len(notes))
		for _, n := range notes {
			n.Tags = normalizeTags(n.Tags)
			e.notes = append(e.notes, n)
		}
		if len(e.notes) > 0 {
			e.selectedID = e.notes[0].ID
		}
	}
}

func New(opts ...Option) *Editor {
	e := &Editor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Notes returns a copy of the working set, newest first.
func (e *Editor) Notes() []Note {
	return cloneNotes(e.notes)
}

// Selected returns the selected note.
func (e *Editor) Selected() (Note, bool) {
	i := e.indexOf(e.selectedID)
	if i < 0 {
		return Note{}, false
	}
	return e.notes[i].clone(), true
}

// Select makes the note with id current. Unknown ids leave the selection alone.
func (e *Editor) Select(id string) bool {
	if e.indexOf(id) < 0 {
		return false
	}
	e.selectedID = id
	return true
}

func (e *Editor) PreviewMode() bool { return e.preview }
func (e *Editor) SetPreviewMode(on bool) { e.preview = on }
func (e *Editor) SearchQuery() string { return e.searchQuery }
func (e *Editor) SetSearchQuery(q string) { e.searchQuery = q }
func (e *Editor) SelectedTags() []string { return slices.Clone(e.selectedTags) }
func (e *Editor) DialogOpen() bool { return e.dialogOpen }

// Create prepends a blank note, selects it and switches to edit mode.
func (e *Editor) Create() Note {
	now := e.now()
	n := Note{
		ID:        e.nextID(now),
		Title:     DefaultTitle,
		Content:   DefaultContent,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.notes = append([]Note{n}, e.notes...)
	e.selectedID = n.ID
	e.preview = false
	return n
}

// Import prepends an existing note and selects it. A missing or clashing
// id, or one that is not a plain file name, is replaced with a fresh one.
func (e *Editor) Import(n Note) Note {
	now := e.now()
	if !IsFileSafeID(n.ID) || e.indexOf(n.ID) >= 0 {
		n.ID = e.nextID(now)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	n.Tags = normalizeTags(n.Tags)

	e.notes = append([]Note{n}, e.notes...)
	e.selectedID = n.ID
	return n.clone()
}

// IsFileSafeID reports whether id can be used as a file name inside an
// export directory: it is local and has no directory part.
func IsFileSafeID(id string) bool {
	return id != "" && filepath.IsLocal(id) && filepath.Base(id) == id
}

// nextID returns the current unix millisecond as a string, bumped past the
// last issued id so two notes created in the same millisecond differ.
func (e *Editor) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	for e.indexOf(strconv.FormatInt(id, 10)) >= 0 {
		id++
	}
	e.lastID = id
	return strconv.FormatInt(id, 10)
}

// Update merges p into the selected note and stamps UpdatedAt.
func (e *Editor) Update(p Patch) bool {
	i := e.indexOf(e.selectedID)
	if i < 0 {
		return false
	}

	n := e.notes[i]
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = normalizeTags(p.Tags)
	}

	n.UpdatedAt = e.now()
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}

	e.notes[i] = n
	return true
}

// AddTag adds a trimmed, lowercased tag to the selected note. Empty and
// already present tags are ignored.
func (e *Editor) AddTag(raw string) bool {
	n, ok := e.Selected()
	if !ok || stringsx.IsEmpty(raw) {
		return false
	}
	tag := stringsx.Normalize(raw)
	if n.HasTag(tag) {
		return false
	}
	return e.Update(Patch{Tags: append(slices.Clone(n.Tags), tag)})
}

func (e *Editor) RemoveTag(tag string) bool {
	n, ok := e.Selected()
	if !ok || !n.HasTag(tag) {
		return false
	}
	kept := slices.DeleteFunc(slices.Clone(n.Tags), func(t string) bool { return t == tag })
	return e.Update(Patch{Tags: kept})
}

// AllTags returns every tag in use, in order of first appearance.
func (e *Editor) AllTags() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, n := range e.notes {
		for _, t := range n.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// ToggleTagFilter adds tag to the filter set, or removes it if present.
func (e *Editor) ToggleTagFilter(tag string) {
	if i := slices.Index(e.selectedTags, tag); i >= 0 {
		e.selectedTags = slices.Delete(e.selectedTags, i, i+1)
		return
	}
	e.selectedTags = append(e.selectedTags, tag)
}

// Filtered returns the notes whose title or content contains the search
// query, ignoring case, and that carry at least one filtered tag when
// any tag filter is set.
func (e *Editor) Filtered() []Note {
	out := make([]Note, 0, len(e.notes))
	for _, n := range e.notes {
		if e.matches(n) {
			out = append(out, n.clone())
		}
	}
	return out
}

func (e *Editor) matches(n Note) bool {
	if !stringsx.ContainsFold(n.Title, e.searchQuery) && !stringsx.ContainsFold(n.Content, e.searchQuery) {
		return false
	}
	if len(e.selectedTags) == 0 {
		return true
	}
	return slices.ContainsFunc(e.selectedTags, n.HasTag)
}

func (e *Editor) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(e.notes, func(n Note) bool { return n.ID == id })
}

// normalizeTags lowercases and trims tags, dropping empties and duplicates.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = stringsx.Normalize(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
