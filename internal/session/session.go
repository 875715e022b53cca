// Package session wires the todo store, the streak engine and persistence.
//
// A Session owns the current todo snapshot and the current streak snapshot.
// Each mutation applies to the todo store, recomputes the streak from the
// new snapshot and the previous streak data, then saves both keys. Save
// failures are logged and remembered but never undo the mutation.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/timecards/internal/logging"
	"github.com/nissyi-gh/timecards/internal/model"
	"github.com/nissyi-gh/timecards/internal/store"
	"github.com/nissyi-gh/timecards/internal/streak"
	"github.com/nissyi-gh/timecards/internal/todo"
)

// Options configures Open.
type Options struct {
	Logger   *log.Logger
	Location *time.Location
	// Now overrides the clock; the result is converted to Location.
	Now   func() time.Time
	NewID func() string
}

// Session is the single owner of the in-memory state.
type Session struct {
	kv      store.KV
	todos   *todo.Store
	streak  model.StreakData
	logger  *log.Logger
	loc     *time.Location
	now     func() time.Time
	saveErr error
}

// Open loads both keys from kv, recomputes the streak once and saves it.
// Open never fails: unreadable data is logged and replaced by an empty state.
func Open(kv store.KV, opts Options) *Session {
	s := &Session{
		kv:     kv,
		logger: opts.Logger,
		loc:    opts.Location,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}

	todos, err := store.LoadTodos(kv)
	if err != nil {
		s.logger.Warn("could not load todos, starting empty", "err", err)
		todos = nil
	}
	prior, err := store.LoadStreak(kv)
	if err != nil {
		s.logger.Warn("could not load streak data, starting fresh", "err", err)
		prior = model.StreakData{}
	}

	storeOpts := []todo.Option{todo.WithClock(s.clock)}
	if opts.NewID != nil {
		storeOpts = append(storeOpts, todo.WithIDGenerator(opts.NewID))
	}
	s.todos = todo.NewStore(todos, storeOpts...)
	s.streak = prior

	s.logger.Info("session opened", "todos", len(todos), "longest_streak", prior.LongestStreak)
	s.recompute()
	s.save(false)
	return s
}

func (s *Session) clock() time.Time {
	return s.now().In(s.loc)
}

// Location returns the time zone used for calendar days.
func (s *Session) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the session's location.
func (s *Session) Now() time.Time {
	return s.clock()
}

// Todos returns the current todo snapshot.
func (s *Session) Todos() []model.Todo {
	return s.todos.List()
}

// Streak returns the current streak snapshot.
func (s *Session) Streak() model.StreakData {
	return s.streak
}

// Slots partitions the current todos into time slots.
func (s *Session) Slots() (slots []model.Slot, unscheduled []model.Todo) {
	return model.Partition(s.todos.List())
}

// Summary returns the history summary as of now.
func (s *Session) Summary() streak.Summary {
	return streak.Summarize(s.todos.List(), s.clock())
}

// Day returns the detail of one calendar day.
func (s *Session) Day(date string) streak.Day {
	return streak.DayDetail(s.todos.List(), s.streak, date, s.loc)
}

// Resolve finds a todo by id or unique id prefix.
func (s *Session) Resolve(idOrPrefix string) (model.Todo, error) {
	return todo.Resolve(s.todos.List(), idOrPrefix)
}

// LastSaveError returns the error of the most recent failed save, or nil
// once a later save succeeds.
func (s *Session) LastSaveError() error {
	return s.saveErr
}

// Refresh recomputes the streak without a mutation, e.g. after midnight.
func (s *Session) Refresh() {
	s.recompute()
	s.save(false)
}

// Create adds a new todo.
func (s *Session) Create(fields model.NewTodo) (model.Todo, error) {
	t, err := s.todos.Create(fields)
	if err != nil {
		return model.Todo{}, err
	}
	s.logger.Debug("todo created", "id", t.ID, "title", t.Title)
	s.commit()
	return t, nil
}

// CreateAll adds several todos as one mutation. All fields are validated
// before any todo is created.
func (s *Session) CreateAll(fields []model.NewTodo) ([]model.Todo, error) {
	created, _, err := s.Apply(fields, nil)
	return created, err
}

// Apply creates todos and schedules existing ones as a single mutation.
// Every field, id and slot is checked first; on error nothing changes.
func (s *Session) Apply(fields []model.NewTodo, assignments []model.SlotAssignment) (created, scheduled []model.Todo, err error) {
	for _, f := range fields {
		if err := f.Normalize().Validate(); err != nil {
			return nil, nil, err
		}
	}
	current := s.todos.List()
	ids := make([]string, len(assignments))
	for i, a := range assignments {
		if !model.IsValidSlot(a.TimeSlot) {
			return nil, nil, fmt.Errorf("%w: %q", model.ErrInvalidTimeSlot, a.TimeSlot)
		}
		t, err := todo.Resolve(current, a.ID)
		if err != nil {
			return nil, nil, err
		}
		ids[i] = t.ID
	}

	created = make([]model.Todo, 0, len(fields))
	for _, f := range fields {
		t, err := s.todos.Create(f)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, t)
	}
	scheduled = make([]model.Todo, 0, len(assignments))
	for i, a := range assignments {
		t, ok, err := s.todos.AssignTimeSlot(ids[i], a.TimeSlot)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			scheduled = append(scheduled, t)
		}
	}
	s.logger.Debug("plan applied", "created", len(created), "scheduled", len(scheduled))
	s.commit()
	return created, scheduled, nil
}

// ToggleComplete flips a todo's completion. It reports false for an
// unknown id, in which case nothing is saved.
func (s *Session) ToggleComplete(id string) (model.Todo, bool) {
	t, ok := s.todos.ToggleComplete(id)
	if !ok {
		s.logger.Debug("toggle: todo not found", "id", id)
		return model.Todo{}, false
	}
	s.logger.Debug("todo toggled", "id", id, "completed", t.Completed)
	s.commit()
	return t, true
}

// AssignTimeSlot schedules a todo into a slot.
func (s *Session) AssignTimeSlot(id, slot string) (model.Todo, bool, error) {
	t, ok, err := s.todos.AssignTimeSlot(id, slot)
	if err != nil || !ok {
		return t, ok, err
	}
	s.logger.Debug("todo scheduled", "id", id, "slot", slot)
	s.commit()
	return t, true, nil
}

// ClearTimeSlot moves a todo back to the backlog.
func (s *Session) ClearTimeSlot(id string) (model.Todo, bool) {
	t, ok := s.todos.ClearTimeSlot(id)
	if !ok {
		return t, false
	}
	s.logger.Debug("todo unscheduled", "id", id)
	s.commit()
	return t, true
}

func (s *Session) commit() {
	s.recompute()
	s.save(true)
}

func (s *Session) recompute() {
	s.streak = streak.Compute(s.todos.List(), s.streak, s.clock())
	s.logger.Debug("streak recomputed",
		"current", s.streak.CurrentStreak,
		"longest", s.streak.LongestStreak,
		"last", s.streak.LastStreakDate,
	)
}

func (s *Session) save(withTodos bool) {
	var errs []error
	if withTodos {
		if err := store.SaveTodos(s.kv, s.todos.List()); err != nil {
			s.logger.Warn("save failed; in-memory state kept", "key", store.TodosKey, "err", err)
			errs = append(errs, err)
		}
	}
	if err := store.SaveStreak(s.kv, s.streak); err != nil {
		s.logger.Warn("save failed; in-memory state kept", "key", store.StreakKey, "err", err)
		errs = append(errs, err)
	}
	s.saveErr = errors.Join(errs...)
}
