package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/nissyi-gh/timecards/internal/model"
)

const backlogSection = "backlog"

// BuildBoard flattens the backlog and the occupied time slots into list
// rows: a header row per section followed by its todos, drawn with
// tree prefixes (├─, └─). Empty slots are skipped; the backlog header is
// always present.
func BuildBoard(slots []model.Slot, backlog []model.Todo) []list.Item {
	var items []list.Item

	add := func(section, label string, todos []model.Todo) {
		items = append(items, SectionItem{Section: section, Label: label, Count: len(todos)})
		for idx, t := range todos {
			prefix := " ├─ "
			if idx == len(todos)-1 {
				prefix = " └─ "
			}
			items = append(items, TodoItem{Todo: t, Section: section, Prefix: prefix})
		}
	}

	add(backlogSection, "Backlog", backlog)
	for _, s := range slots {
		if len(s.Todos) == 0 {
			continue
		}
		add(s.Label, model.SlotDisplay(s.Label), s.Todos)
	}
	return items
}
