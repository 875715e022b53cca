package importer

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/timecards/internal/model"
	"gopkg.in/yaml.v3"
)

// YAMLTodo represents a single todo in the YAML input. An entry with an id
// refers to an existing todo and only its time_slot is used.
type YAMLTodo struct {
	ID                string `yaml:"id,omitempty"`
	Title             string `yaml:"title"`
	Description       string `yaml:"description,omitempty"`
	Priority          string `yaml:"priority,omitempty"`
	TimeSlot          string `yaml:"time_slot,omitempty"`
	EstimatedDuration int    `yaml:"estimated_duration,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Todos []YAMLTodo `yaml:"todos"`
}

// Plan is a parsed import: new todos and existing todos to schedule.
type Plan struct {
	Create   []model.NewTodo
	Schedule []model.SlotAssignment
}

// Applier applies a whole plan as one mutation.
type Applier interface {
	Apply(fields []model.NewTodo, assignments []model.SlotAssignment) (created, scheduled []model.Todo, err error)
}

// Parse decodes and validates a YAML document without changing anything.
func Parse(data []byte) (Plan, error) {
	var input YAMLInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return Plan{}, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Todos) == 0 {
		return Plan{}, fmt.Errorf("no todos found in YAML")
	}

	var plan Plan
	for i, yt := range input.Todos {
		if id := strings.TrimSpace(yt.ID); id != "" {
			slot := strings.TrimSpace(yt.TimeSlot)
			if !model.IsValidSlot(slot) {
				return Plan{}, fmt.Errorf("todo %d (id %s): %w: %q", i+1, id, model.ErrInvalidTimeSlot, slot)
			}
			plan.Schedule = append(plan.Schedule, model.SlotAssignment{ID: id, TimeSlot: slot})
			continue
		}

		priority, err := model.ParsePriority(yt.Priority)
		if err != nil {
			return Plan{}, fmt.Errorf("todo %d: %w", i+1, err)
		}
		f := model.NewTodo{
			Title:             yt.Title,
			Description:       yt.Description,
			Priority:          priority,
			TimeSlot:          yt.TimeSlot,
			EstimatedDuration: yt.EstimatedDuration,
		}.Normalize()
		if err := f.Validate(); err != nil {
			return Plan{}, fmt.Errorf("todo %d (%q): %w", i+1, yt.Title, err)
		}
		plan.Create = append(plan.Create, f)
	}
	return plan, nil
}

// Import parses a YAML document and applies it. It returns how many todos
// were created and how many existing ones were scheduled.
func Import(a Applier, data []byte) (created, scheduled int, err error) {
	plan, err := Parse(data)
	if err != nil {
		return 0, 0, err
	}
	c, s, err := a.Apply(plan.Create, plan.Schedule)
	if err != nil {
		return 0, 0, fmt.Errorf("import todos: %w", err)
	}
	return len(c), len(s), nil
}
