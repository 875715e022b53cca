package model

// DayRecord aggregates the todos created on one calendar day.
type DayRecord struct {
	Date           string  `json:"date"`
	TotalTodos     int     `json:"totalTodos"`
	CompletedTodos int     `json:"completedTodos"`
	CompletionRate float64 `json:"completionRate"`
	IsStreakDay    bool    `json:"isStreakDay"`
}

// StreakData is the derived streak snapshot. Only LongestStreak and
// LastStreakDate carry information across recomputations; DayRecords is
// rebuilt every time.
type StreakData struct {
	CurrentStreak  int         `json:"currentStreak"`
	LongestStreak  int         `json:"longestStreak"`
	LastStreakDate string      `json:"lastStreakDate,omitempty"`
	DayRecords     []DayRecord `json:"dayRecords"`
}

// Record returns the day record for date, if it is inside the window.
func (s StreakData) Record(date string) (DayRecord, bool) {
	for _, r := range s.DayRecords {
		if r.Date == date {
			return r, true
		}
	}
	return DayRecord{}, false
}
