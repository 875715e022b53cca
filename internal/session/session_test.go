package session_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/nissyi-gh/timecards/internal/model"
	"github.com/nissyi-gh/timecards/internal/session"
	"github.com/nissyi-gh/timecards/internal/store"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("todo-%03d", n)
	}
}

func openTest(t *testing.T, kv store.KV, c *clock) *session.Session {
	t.Helper()
	return session.Open(kv, session.Options{
		Location: time.UTC,
		Now:      c.Now,
		NewID:    newIDs(),
	})
}

func TestOpenEmptyStore(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}

	s := openTest(t, kv, c)

	if len(s.Todos()) != 0 {
		t.Fatalf("expected no todos, got %d", len(s.Todos()))
	}
	sd := s.Streak()
	if len(sd.DayRecords) != 30 || sd.CurrentStreak != 0 {
		t.Fatalf("unexpected streak data: %+v", sd)
	}
	if _, ok := kv.Snapshot()[store.StreakKey]; !ok {
		t.Fatal("expected streak data to be saved on open")
	}
}

func TestCreateToggleScenario(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)

	var ids []string
	for _, title := range []string{"email", "gym", "read"} {
		created, err := s.Create(model.NewTodo{Title: title})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		ids = append(ids, created.ID)
	}
	s.ToggleComplete(ids[0])
	s.ToggleComplete(ids[1])

	sd := s.Streak()
	today := sd.DayRecords[len(sd.DayRecords)-1]
	if today.TotalTodos != 3 || today.CompletedTodos != 2 || !today.IsStreakDay {
		t.Fatalf("unexpected today record: %+v", today)
	}
	if sd.CurrentStreak != 1 || sd.LongestStreak != 1 || sd.LastStreakDate != "2026-05-01" {
		t.Fatalf("unexpected streak counters: %+v", sd)
	}

	persisted, err := store.LoadTodos(kv)
	if err != nil {
		t.Fatalf("load todos: %v", err)
	}
	if !reflect.DeepEqual(persisted, s.Todos()) {
		t.Fatalf("persisted todos differ from memory:\n got  %+v\n want %+v", persisted, s.Todos())
	}
	persistedStreak, err := store.LoadStreak(kv)
	if err != nil {
		t.Fatalf("load streak: %v", err)
	}
	if persistedStreak.CurrentStreak != 1 {
		t.Fatalf("expected persisted streak to be current, got %+v", persistedStreak)
	}
}

func TestReopenCarriesLongestStreak(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}

	s := openTest(t, kv, c)
	for day := 0; day < 3; day++ {
		created, _ := s.Create(model.NewTodo{Title: "daily"})
		s.ToggleComplete(created.ID)
		c.now = c.now.AddDate(0, 0, 1)
	}
	if got := s.Streak().LongestStreak; got != 3 {
		t.Fatalf("LongestStreak = %d, want 3", got)
	}

	// Forty days later every streak day has left the window.
	c.now = c.now.AddDate(0, 0, 40)
	reopened := openTest(t, kv, c)

	sd := reopened.Streak()
	if sd.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", sd.CurrentStreak)
	}
	if sd.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3 carried over", sd.LongestStreak)
	}
	if sd.LastStreakDate != "2026-05-03" {
		t.Errorf("LastStreakDate = %q, want 2026-05-03", sd.LastStreakDate)
	}
	if len(reopened.Todos()) != 3 {
		t.Errorf("expected 3 todos after reopen, got %d", len(reopened.Todos()))
	}
}

func TestNotFoundIsNoOp(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)
	s.Create(model.NewTodo{Title: "a"})
	before := kv.Snapshot()

	if _, ok := s.ToggleComplete("nope"); ok {
		t.Fatal("expected not found")
	}
	if _, ok, err := s.AssignTimeSlot("nope", "09:00"); ok || err != nil {
		t.Fatalf("expected silent not found, got ok=%v err=%v", ok, err)
	}
	if _, ok := s.ClearTimeSlot("nope"); ok {
		t.Fatal("expected not found")
	}
	if !reflect.DeepEqual(before, kv.Snapshot()) {
		t.Fatal("not-found operations must not write")
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)

	boom := errors.New("disk full")
	kv.FailWrites = boom
	created, err := s.Create(model.NewTodo{Title: "a"})
	if err != nil {
		t.Fatalf("create should not fail on save error: %v", err)
	}
	if len(s.Todos()) != 1 {
		t.Fatal("in-memory mutation must survive a failed save")
	}
	if !errors.Is(s.LastSaveError(), boom) {
		t.Fatalf("expected LastSaveError to wrap %v, got %v", boom, s.LastSaveError())
	}

	kv.FailWrites = nil
	s.ToggleComplete(created.ID)
	if s.LastSaveError() != nil {
		t.Fatalf("expected save error cleared, got %v", s.LastSaveError())
	}
	persisted, _ := store.LoadTodos(kv)
	if len(persisted) != 1 || !persisted[0].Completed {
		t.Fatalf("next successful save should reconcile storage, got %+v", persisted)
	}
}

func TestCorruptStorageStartsEmpty(t *testing.T) {
	kv := store.NewMemory()
	kv.Set(store.TodosKey, []byte("not json"))
	kv.Set(store.StreakKey, []byte("{"))
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}

	s := openTest(t, kv, c)
	if len(s.Todos()) != 0 || s.Streak().LongestStreak != 0 {
		t.Fatal("expected empty state after corrupt load")
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)
	before := kv.Snapshot()

	if _, err := s.Create(model.NewTodo{Title: ""}); !errors.Is(err, model.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if !reflect.DeepEqual(before, kv.Snapshot()) {
		t.Fatal("rejected create must not write")
	}
}

func TestCreateAllValidatesFirst(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)

	_, err := s.CreateAll([]model.NewTodo{{Title: "ok"}, {Title: "bad", TimeSlot: "02:00"}})
	if !errors.Is(err, model.ErrInvalidTimeSlot) {
		t.Fatalf("expected ErrInvalidTimeSlot, got %v", err)
	}
	if len(s.Todos()) != 0 {
		t.Fatal("no todo should be created when one is invalid")
	}

	created, err := s.CreateAll([]model.NewTodo{{Title: "one"}, {Title: "two", TimeSlot: "07:00"}})
	if err != nil || len(created) != 2 {
		t.Fatalf("unexpected result %v (%v)", created, err)
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)
	existing, _ := s.Create(model.NewTodo{Title: "existing"})
	before := kv.Snapshot()

	_, _, err := s.Apply(
		[]model.NewTodo{{Title: "new"}},
		[]model.SlotAssignment{{ID: existing.ID, TimeSlot: "09:00"}, {ID: "missing", TimeSlot: "10:00"}},
	)
	if err == nil {
		t.Fatal("expected an error for an unknown id")
	}
	if len(s.Todos()) != 1 || s.Todos()[0].IsScheduled() {
		t.Fatalf("rejected plan must not change todos: %+v", s.Todos())
	}
	if !reflect.DeepEqual(before, kv.Snapshot()) {
		t.Fatal("rejected plan must not write")
	}

	created, scheduled, err := s.Apply(
		[]model.NewTodo{{Title: "new"}},
		[]model.SlotAssignment{{ID: existing.ID[:5], TimeSlot: "09:00"}},
	)
	if err != nil || len(created) != 1 || len(scheduled) != 1 {
		t.Fatalf("created=%v scheduled=%v err=%v", created, scheduled, err)
	}
	if got := scheduled[0]; got.ID != existing.ID || got.TimeSlot != "09:00" {
		t.Fatalf("unexpected scheduled todo: %+v", got)
	}
}

func TestSlotsAndResolve(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)

	a, _ := s.Create(model.NewTodo{Title: "a"})
	s.Create(model.NewTodo{Title: "b"})
	if _, ok, err := s.AssignTimeSlot(a.ID, "09:00"); !ok || err != nil {
		t.Fatalf("assign: ok=%v err=%v", ok, err)
	}

	slots, unscheduled := s.Slots()
	if len(slots[3].Todos) != 1 || len(unscheduled) != 1 {
		t.Fatalf("unexpected partition: slot=%d unscheduled=%d", len(slots[3].Todos), len(unscheduled))
	}

	s.ClearTimeSlot(a.ID)
	slots, unscheduled = s.Slots()
	if len(slots[3].Todos) != 0 || len(unscheduled) != 2 {
		t.Fatal("expected todo back in backlog")
	}

	got, err := s.Resolve("todo-001")
	if err != nil || got.ID != a.ID {
		t.Fatalf("Resolve() = %+v (%v)", got, err)
	}
}

func TestSummaryAndDay(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s := openTest(t, kv, c)

	a, _ := s.Create(model.NewTodo{Title: "a"})
	s.Create(model.NewTodo{Title: "b"})
	s.ToggleComplete(a.ID)

	sum := s.Summary()
	if sum.CompletedToday != 1 || sum.CompletionRate != 50 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	day := s.Day("2026-05-01")
	if !day.InWindow || len(day.Todos) != 2 || !day.Record.IsStreakDay {
		t.Fatalf("unexpected day detail: %+v", day)
	}
}
