// Package streak derives day records and streak counters from a todo list.
//
// A streak day is a calendar day on which at least one todo was created and
// at least half of the todos created that day are complete. The engine looks
// at a fixed trailing window of days ending today; LongestStreak and
// LastStreakDate are carried over from the previous result so they survive
// the window rolling forward.
package streak

import (
	"time"

	"github.com/nissyi-gh/timecards/internal/model"
)

// WindowDays is the number of days covered by StreakData.DayRecords.
const WindowDays = 30

type dayCount struct {
	total     int
	completed int
}

// Compute returns the streak data for todos as of now. Days are bucketed in
// now's location. prior supplies the carried-over counters; its DayRecords
// and CurrentStreak are ignored.
func Compute(todos []model.Todo, prior model.StreakData, now time.Time) model.StreakData {
	loc := now.Location()

	byDay := make(map[string]dayCount)
	for _, t := range todos {
		key := t.CreatedOn(loc)
		c := byDay[key]
		c.total++
		if t.Completed {
			c.completed++
		}
		byDay[key] = c
	}

	records := make([]model.DayRecord, 0, WindowDays)
	y, m, d := now.Date()
	for i := WindowDays - 1; i >= 0; i-- {
		key := time.Date(y, m, d-i, 0, 0, 0, 0, loc).Format(model.DateLayout)
		records = append(records, newDayRecord(key, byDay[key]))
	}

	result := model.StreakData{
		LongestStreak:  prior.LongestStreak,
		LastStreakDate: prior.LastStreakDate,
		DayRecords:     records,
	}

	for i := len(records) - 1; i >= 0; i-- {
		if !records[i].IsStreakDay {
			break
		}
		result.CurrentStreak++
		// YYYY-MM-DD keys order lexically.
		if result.LastStreakDate == "" || records[i].Date > result.LastStreakDate {
			result.LastStreakDate = records[i].Date
		}
	}

	run := 0
	for _, r := range records {
		if !r.IsStreakDay {
			run = 0
			continue
		}
		run++
		result.LongestStreak = max(result.LongestStreak, run)
	}

	return result
}

func newDayRecord(date string, c dayCount) model.DayRecord {
	r := model.DayRecord{
		Date:           date,
		TotalTodos:     c.total,
		CompletedTodos: c.completed,
	}
	if c.total > 0 {
		r.CompletionRate = float64(c.completed) / float64(c.total) * 100
		r.IsStreakDay = c.completed*2 >= c.total
	}
	return r
}
