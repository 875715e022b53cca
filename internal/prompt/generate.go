package prompt

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/timecards/internal/model"
	"github.com/nissyi-gh/timecards/internal/todo"
)

const yamlFormat = `Reply with the following YAML format only. Output a single YAML code block and no other text.

` + "```yaml" + `
todos:
  - title: "Todo title"
    description: "What needs to be done"
    priority: "medium"
    time_slot: "09:00"
    estimated_duration: 30
` + "```" + `

Fields:
- id: (only for existing todos) the id shown in brackets; give it with a time_slot to schedule that todo, other fields are then ignored
- title: (required for new todos) short title of the todo
- description: (optional) details
- priority: (optional) low, medium or high; defaults to medium
- time_slot: (optional) hourly slot from "06:00" to "23:00"; omit to leave it in the backlog
- estimated_duration: (optional) minutes`

// GenerateNew returns a prompt for planning a day from scratch.
func GenerateNew() string {
	return fmt.Sprintf(`You are a personal planning assistant.
Break the user's goals for today into concrete todos and place them in hourly time slots.

%s
`, yamlFormat)
}

// GenerateFromBoard returns a prompt for scheduling the current backlog
// around the slots that are already taken.
func GenerateFromBoard(slots []model.Slot, backlog []model.Todo, sd model.StreakData) string {
	var sb strings.Builder

	sb.WriteString("You are a personal planning assistant.\n")
	sb.WriteString("Schedule the backlog below into free hourly time slots and add any todos that are missing.\n")
	sb.WriteString("Refer to existing todos by their id in brackets; entries without an id create new todos.\n\n")

	sb.WriteString("## Streak\n")
	sb.WriteString(fmt.Sprintf("- current: %d days\n", sd.CurrentStreak))
	sb.WriteString(fmt.Sprintf("- best: %d days\n", sd.LongestStreak))
	sb.WriteString("- a day counts when at least half of its todos are done\n")

	var taken []model.Slot
	all := append([]model.Todo(nil), backlog...)
	for _, s := range slots {
		if len(s.Todos) > 0 {
			taken = append(taken, s)
			all = append(all, s.Todos...)
		}
	}
	idLen := todo.ShortIDLength(all, 8)

	sb.WriteString("\n## Backlog\n")
	if len(backlog) == 0 {
		sb.WriteString("(empty)\n")
	}
	for _, t := range backlog {
		sb.WriteString(todoLine(t, idLen))
	}

	if len(taken) > 0 {
		sb.WriteString("\n## Scheduled\n")
		for _, s := range taken {
			sb.WriteString(fmt.Sprintf("### %s\n", s.Label))
			for _, t := range s.Todos {
				sb.WriteString(todoLine(t, idLen))
			}
		}
		sb.WriteString("\nDo not repeat scheduled todos; only return new todos or backlog ids with a time_slot.\n")
	}

	if len(backlog) > 0 {
		sb.WriteString(fmt.Sprintf("\nTo schedule a backlog todo, reply with its id, e.g. `- id: \"%s\"` and `time_slot: \"10:00\"`.\n", todoID(backlog[0], idLen)))
	}

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}

func todoID(t model.Todo, idLen int) string {
	if len(t.ID) > idLen {
		return t.ID[:idLen]
	}
	return t.ID
}

func todoLine(t model.Todo, idLen int) string {
	status := "open"
	if t.Completed {
		status = "done"
	}
	line := fmt.Sprintf("- [%s] %s (%s, %s", todoID(t, idLen), t.Title, t.Priority, status)
	if t.EstimatedDuration > 0 {
		line += fmt.Sprintf(", %dm", t.EstimatedDuration)
	}
	line += ")"
	if t.Description != "" {
		line += ": " + t.Description
	}
	return line + "\n"
}
