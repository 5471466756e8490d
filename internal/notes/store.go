package notes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps notes in process memory, in creation order.
// It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	notes []Note

	now   func() time.Time
	newID func() string
}

type StoreOption func(*MemoryStore)

// WithClock overrides the timestamp source for created notes.
func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator overrides the id source for created notes.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *MemoryStore) { s.newID = newID }
}

func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{
		notes: make([]Note, 0, 32),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends a new note built from content.
func (s *MemoryStore) Create(_ context.Context, content string) (Note, error) {
	if content == "" {
		return Note{}, &ValidationError{Field: "content", Message: msgContentRequired}
	}

	n := Note{
		ID:        s.newID(),
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(n)
	return n, nil
}

// List returns a copy of all notes in store order. It never returns nil.
func (s *MemoryStore) List(_ context.Context) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out, nil
}

// Delete removes the note with the given id and returns it.
func (s *MemoryStore) Delete(_ context.Context, id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Note{}, &NotFoundError{ID: id}
	}
	return s.removeAt(i), nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Reset drops every note.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = s.notes[:0]
}

// The helpers below expect s.mu to be held.

func (s *MemoryStore) append(n Note) {
	s.notes = append(s.notes, n)
}

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) removeAt(i int) Note {
	n := s.notes[i]
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return n
}
