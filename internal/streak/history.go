package streak

import (
	"math"
	"sort"
	"time"

	"github.com/nissyi-gh/timecards/internal/model"
)

// RecentLimit is the number of completions listed in Summary.Recent.
const RecentLimit = 10

// Summary collects the history and board counters shown next to the streak.
type Summary struct {
	Total          int
	Completed      int
	Scheduled      int
	Unscheduled    int
	CompletedToday int
	CompletedWeek  int
	// CompletionRate is the rounded percentage of all todos that are complete.
	CompletionRate int
	// Recent holds the latest completions, newest first.
	Recent []model.Todo
}

// Summarize computes the history summary for todos as of now.
func Summarize(todos []model.Todo, now time.Time) Summary {
	var s Summary
	today := now.Format(model.DateLayout)
	weekAgo := now.AddDate(0, 0, -7)

	var completed []model.Todo
	for _, t := range todos {
		s.Total++
		if t.IsScheduled() {
			s.Scheduled++
		} else {
			s.Unscheduled++
		}
		if !t.Completed {
			continue
		}
		s.Completed++
		completed = append(completed, t)
		if t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.In(now.Location()).Format(model.DateLayout) == today {
			s.CompletedToday++
		}
		if !t.CompletedAt.Before(weekAgo) {
			s.CompletedWeek++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completedUnix(completed[i]) > completedUnix(completed[j])
	})
	if len(completed) > RecentLimit {
		completed = completed[:RecentLimit]
	}
	s.Recent = completed
	return s
}

func completedUnix(t model.Todo) int64 {
	if t.CompletedAt == nil {
		return 0
	}
	return t.CompletedAt.UnixNano()
}

// Day is the detail view of one calendar day.
type Day struct {
	Date string
	// Record is only meaningful when InWindow is true.
	Record   model.DayRecord
	InWindow bool
	Todos    []model.Todo
}

// DayDetail returns the todos created on date (YYYY-MM-DD in loc) and the
// matching record from data.
func DayDetail(todos []model.Todo, data model.StreakData, date string, loc *time.Location) Day {
	d := Day{Date: date}
	d.Record, d.InWindow = data.Record(date)
	for _, t := range todos {
		if t.CreatedOn(loc) == date {
			d.Todos = append(d.Todos, t)
		}
	}
	return d
}
