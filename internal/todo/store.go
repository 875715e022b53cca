// Package todo holds the authoritative in-memory list of todos.
//
// Every mutation replaces the list wholesale: the slice returned by List is
// never modified afterwards, so callers may keep it as a snapshot.
package todo

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nissyi-gh/timecards/internal/model"
)

// Store holds the current todo snapshot.
type Store struct {
	todos []model.Todo
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for CreatedAt and CompletedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the function used to assign new ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store seeded with todos. The seed slice is copied.
func NewStore(todos []model.Todo, opts ...Option) *Store {
	s := &Store{
		todos: slices.Clone(todos),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the current snapshot.
func (s *Store) List() []model.Todo {
	return s.todos
}

// Get returns the todo with the given id.
func (s *Store) Get(id string) (model.Todo, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Todo{}, false
	}
	return s.todos[i], true
}

// Create validates fields and appends a new incomplete todo.
func (s *Store) Create(fields model.NewTodo) (model.Todo, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	t := model.Todo{
		ID:                s.newID(),
		Title:             fields.Title,
		Description:       fields.Description,
		Priority:          fields.Priority,
		CreatedAt:         s.now(),
		TimeSlot:          fields.TimeSlot,
		EstimatedDuration: fields.EstimatedDuration,
	}

	next := make([]model.Todo, len(s.todos), len(s.todos)+1)
	copy(next, s.todos)
	s.todos = append(next, t)
	return t, nil
}

// ToggleComplete flips the completion state of a todo. It reports false and
// leaves the list untouched when id is unknown.
func (s *Store) ToggleComplete(id string) (model.Todo, bool) {
	return s.update(id, func(t *model.Todo) {
		if t.Completed {
			t.Completed = false
			t.CompletedAt = nil
			return
		}
		at := s.now()
		t.Completed = true
		t.CompletedAt = &at
	})
}

// AssignTimeSlot moves a todo into the slot with the given label,
// replacing any previous slot.
func (s *Store) AssignTimeSlot(id, slot string) (model.Todo, bool, error) {
	if !model.IsValidSlot(slot) {
		return model.Todo{}, false, fmt.Errorf("assign %s: %w: %q", id, model.ErrInvalidTimeSlot, slot)
	}
	t, ok := s.update(id, func(t *model.Todo) { t.TimeSlot = slot })
	return t, ok, nil
}

// ClearTimeSlot moves a todo back to the unscheduled bucket.
func (s *Store) ClearTimeSlot(id string) (model.Todo, bool) {
	return s.update(id, func(t *model.Todo) { t.TimeSlot = "" })
}

func (s *Store) update(id string, fn func(*model.Todo)) (model.Todo, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Todo{}, false
	}
	next := slices.Clone(s.todos)
	fn(&next[i])
	s.todos = next
	return next[i], true
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.todos, func(t model.Todo) bool { return t.ID == id })
}
