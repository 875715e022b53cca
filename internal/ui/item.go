package ui

import (
	"fmt"

	"github.com/nissyi-gh/timecards/internal/model"
)

// SectionItem is the header row of the backlog or a time slot.
type SectionItem struct {
	Section string
	Label   string
	Count   int
}

func (i SectionItem) Title() string {
	return fmt.Sprintf("%s (%d)", i.Label, i.Count)
}

func (i SectionItem) Description() string {
	return ""
}

// FilterValue is empty so headers drop out while filtering.
func (i SectionItem) FilterValue() string {
	return ""
}

// TodoItem wraps model.Todo to satisfy the list.DefaultItem interface.
type TodoItem struct {
	Todo    model.Todo
	Section string
	// Prefix holds the tree-drawing characters, e.g. " └─ "
	Prefix string
}

func (i TodoItem) Title() string {
	check := "[ ]"
	if i.Todo.Completed {
		check = "[x]"
	}
	mark := ""
	switch i.Todo.Priority {
	case model.PriorityHigh:
		mark = "!! "
	case model.PriorityLow:
		mark = "· "
	}
	duration := ""
	if i.Todo.EstimatedDuration > 0 {
		duration = fmt.Sprintf(" (%dm)", i.Todo.EstimatedDuration)
	}
	return fmt.Sprintf("%s%s %s%s%s", i.Prefix, check, mark, i.Todo.Title, duration)
}

func (i TodoItem) Description() string {
	return ""
}

func (i TodoItem) FilterValue() string {
	return i.Todo.Title
}
