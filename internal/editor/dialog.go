package editor

import "fmt"

// RequestDelete marks the note with id for deletion and opens the
// confirmation dialog. The note stays in the list until ConfirmDelete.
func (e *Editor) RequestDelete(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	n := e.notes[i]
	e.pendingDelete = &n
	e.dialogOpen = true
	return true
}

// PendingDelete returns the note awaiting confirmation.
func (e *Editor) PendingDelete() (Note, bool) {
	if e.pendingDelete == nil {
		return Note{}, false
	}
	return *e.pendingDelete, true
}

// ConfirmDelete removes the pending note. If it was selected, the first
// remaining note becomes selected, or nothing when the list is empty.
func (e *Editor) ConfirmDelete() bool {
	if e.pendingDelete == nil {
		return false
	}
	id := e.pendingDelete.ID
	e.pendingDelete = nil
	e.dialogOpen = false

	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.notes = append(e.notes[:i], e.notes[i+1:]...)

	if e.selectedID == id {
		e.selectedID = ""
		if len(e.notes) > 0 {
			e.selectedID = e.notes[0].ID
		}
	}
	return true
}

// CancelDelete closes the dialog and forgets the pending note.
func (e *Editor) CancelDelete() {
	e.pendingDelete = nil
	e.dialogOpen = false
}

// Choice is the user's answer to a prompt.
type Choice int

const (
	ChoiceDismiss Choice = iota
	ChoiceCancel
	ChoiceConfirm
)

// Prompter asks the user to confirm or cancel.
type Prompter interface {
	Prompt(title, message string) (Choice, error)
}

// DeleteDialog is the confirmation prompt shown before a delete. It keeps
// no state of its own: Run calls exactly one of OnConfirm or OnCancel.
type DeleteDialog struct {
	Open      bool
	NoteTitle string
	OnCancel  func()
	OnConfirm func()
}

const deleteDialogTitle = "Delete Note"

func (d DeleteDialog) Title() string { return deleteDialogTitle }

func (d DeleteDialog) Message() string {
	return fmt.Sprintf("Are you sure you want to delete the note \"%s\"? This action cannot be undone.", d.NoteTitle)
}

// Run shows the prompt when the dialog is open. Dismissal and prompt
// errors take the cancel path so the caller's dialog state is reset.
func (d DeleteDialog) Run(p Prompter) error {
	if !d.Open {
		return nil
	}

	choice, err := p.Prompt(deleteDialogTitle, d.Message())
	if err == nil && choice == ChoiceConfirm {
		if d.OnConfirm != nil {
			d.OnConfirm()
		}
		return nil
	}

	if d.OnCancel != nil {
		d.OnCancel()
	}
	return err
}

// DeleteDialog returns the dialog for the pending delete, wired to
// ConfirmDelete and CancelDelete. ok is false when nothing is pending.
func (e *Editor) DeleteDialog() (DeleteDialog, bool) {
	n, ok := e.PendingDelete()
	if !ok {
		return DeleteDialog{}, false
	}
	return DeleteDialog{
		Open:      e.dialogOpen,
		NoteTitle: n.Title,
		OnCancel:  e.CancelDelete,
		OnConfirm: func() { e.ConfirmDelete() },
	}, true
}
