package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day key format used for day records.
const DateLayout = "2006-01-02"

var (
	// ErrEmptyTitle is returned when a todo title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidPriority is returned for a priority outside low/medium/high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidDuration is returned for a negative estimated duration.
	ErrInvalidDuration = errors.New("estimated duration must be positive")
)

// Priority is the importance level of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority parses a priority name. An empty string yields the default.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is a single task record.
type Todo struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Priority          Priority   `json:"priority"`
	Completed         bool       `json:"completed"`
	CreatedAt         time.Time  `json:"createdAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	TimeSlot          string     `json:"timeSlot,omitempty"`
	EstimatedDuration int        `json:"estimatedDuration,omitempty"`
}

// IsScheduled reports whether the todo sits in a time slot.
func (t Todo) IsScheduled() bool {
	return t.TimeSlot != ""
}

// CreatedOn returns the calendar day the todo was created on in loc.
func (t Todo) CreatedOn(loc *time.Location) string {
	return t.CreatedAt.In(loc).Format(DateLayout)
}

// NewTodo holds the caller-supplied fields of a todo being created.
type NewTodo struct {
	Title             string
	Description       string
	Priority          Priority
	TimeSlot          string
	EstimatedDuration int
}

// Normalize trims text fields and fills in the default priority.
func (n NewTodo) Normalize() NewTodo {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	n.TimeSlot = strings.TrimSpace(n.TimeSlot)
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	return n
}

// Validate checks the fields of a normalized NewTodo.
func (n NewTodo) Validate() error {
	if n.Title == "" {
		return ErrEmptyTitle
	}
	if !n.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, n.Priority)
	}
	if n.EstimatedDuration < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, n.EstimatedDuration)
	}
	if n.TimeSlot != "" && !IsValidSlot(n.TimeSlot) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, n.TimeSlot)
	}
	return nil
}
