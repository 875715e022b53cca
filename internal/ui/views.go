package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/nissyi-gh/timecards/internal/model"
	"github.com/nissyi-gh/timecards/internal/streak"
)

var (
	streakDayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	activeDayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	emptyDayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	selectedStyle  = lipgloss.NewStyle().Underline(true)
	statStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
)

func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

func renderStats(sd model.StreakData, sum streak.Summary) string {
	parts := []string{
		statStyle.Render(fmt.Sprintf("🔥 %d", sd.CurrentStreak)) + " streak",
		statStyle.Render(fmt.Sprintf("🏆 %d", sd.LongestStreak)) + " best",
		fmt.Sprintf("%d unscheduled", sum.Unscheduled),
		fmt.Sprintf("%d scheduled", sum.Scheduled),
		fmt.Sprintf("%d done", sum.Completed),
		fmt.Sprintf("%d%%", sum.CompletionRate),
	}
	return strings.Join(parts, statusStyle.Render("  ·  "))
}

func renderTodoDetail(t model.Todo, now time.Time, width int) string {
	descContent := statusStyle.Render("(no description)")
	if t.Description != "" {
		descContent = t.Description
	}
	desc := descBoxStyle.Render(descContent)

	slot := "unscheduled"
	if t.IsScheduled() {
		slot = fmt.Sprintf("%s (%s)", t.TimeSlot, model.SlotDisplay(t.TimeSlot))
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("priority:   %s", t.Priority))
	lines = append(lines, fmt.Sprintf("slot:       %s", slot))
	if t.EstimatedDuration > 0 {
		lines = append(lines, fmt.Sprintf("estimate:   %d min", t.EstimatedDuration))
	}
	lines = append(lines, fmt.Sprintf("created:    %s", humanize.RelTime(t.CreatedAt, now, "ago", "from now")))
	if t.CompletedAt != nil {
		lines = append(lines, fmt.Sprintf("completed:  %s", humanize.RelTime(*t.CompletedAt, now, "ago", "from now")))
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s",
		fit(t.Title, width),
		desc,
		strings.Join(lines, "\n"),
		statusStyle.Render("x: toggle  s: slot  u: unschedule"),
	)
}

// renderStrip draws the day window as rows of seven cells, oldest first.
func renderStrip(sd model.StreakData, selected string) string {
	var rows []string
	var row []string
	for i, r := range sd.DayRecords {
		cell := emptyDayStyle.Render("·")
		switch {
		case r.IsStreakDay:
			cell = streakDayStyle.Render("■")
		case r.TotalTodos > 0:
			cell = activeDayStyle.Render("□")
		}
		if r.Date == selected {
			cell = selectedStyle.Render(cell)
		}
		row = append(row, cell)
		if len(row) == 7 || i == len(sd.DayRecords)-1 {
			rows = append(rows, strings.Join(row, " "))
			row = nil
		}
	}
	return strings.Join(rows, "\n")
}

func renderCalendar(sd model.StreakData, day streak.Day, input string, width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Progress Calendar"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("%s streak   %s best   goal 50%%\n\n",
		statStyle.Render(fmt.Sprint(sd.CurrentStreak)),
		statStyle.Render(fmt.Sprint(sd.LongestStreak)),
	))
	if n := len(sd.DayRecords); n > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("%s .. %s", sd.DayRecords[0].Date, sd.DayRecords[n-1].Date)))
		sb.WriteString("\n")
	}
	sb.WriteString(renderStrip(sd, day.Date))
	sb.WriteString("\n\n")
	sb.WriteString(input)
	sb.WriteString("\n\n")

	header := day.Date
	if day.InWindow && day.Record.IsStreakDay {
		header += "  " + streakDayStyle.Render("🔥 streak day")
	}
	sb.WriteString(header + "\n")

	if day.InWindow && day.Record.TotalTodos > 0 {
		sb.WriteString(fmt.Sprintf("total %d  done %d  rate %.0f%%\n",
			day.Record.TotalTodos, day.Record.CompletedTodos, day.Record.CompletionRate))
	} else if len(day.Todos) == 0 {
		sb.WriteString(statusStyle.Render("No todos on this day") + "\n")
	}
	for _, t := range day.Todos {
		mark := "○"
		if t.Completed {
			mark = "●"
		}
		sb.WriteString(fit(fmt.Sprintf("  %s %s", mark, t.Title), width) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render("[/]: prev/next day • tab: next field • enter: show • esc: back"))
	return sb.String()
}

func renderHistory(sum streak.Summary, now time.Time, width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Todo History"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("%s today   %s this week   %s complete\n\n",
		statStyle.Render(fmt.Sprint(sum.CompletedToday)),
		statStyle.Render(fmt.Sprint(sum.CompletedWeek)),
		statStyle.Render(fmt.Sprintf("%d%%", sum.CompletionRate)),
	))

	sb.WriteString("Recent Completions\n")
	if len(sum.Recent) == 0 {
		sb.WriteString(statusStyle.Render("No completed todos yet") + "\n")
	}
	for _, t := range sum.Recent {
		when := ""
		if t.CompletedAt != nil {
			when = humanize.RelTime(*t.CompletedAt, now, "ago", "from now")
		}
		line := fmt.Sprintf("  %-6s %s", t.Priority, t.Title)
		sb.WriteString(fit(line, width-len(when)-2) + "  " + statusStyle.Render(when) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render("esc: back"))
	return sb.String()
}

func renderSlotPicker(t model.Todo, cursor int) string {
	var lines []string
	for i, label := range model.SlotLabels() {
		c := "  "
		if i == cursor {
			c = "> "
		}
		current := ""
		if label == t.TimeSlot {
			current = statusStyle.Render("  (current)")
		}
		lines = append(lines, c+label+"  "+model.SlotDisplay(label)+current)
	}
	return titleStyle.Render("Schedule: "+t.Title) + "\n\n" +
		strings.Join(lines, "\n") + "\n\n" +
		statusStyle.Render("j/k: navigate • enter: assign • esc: cancel")
}
