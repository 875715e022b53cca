package model

import (
	"errors"
	"fmt"
)

const (
	// FirstSlotHour is the hour of the earliest time slot.
	FirstSlotHour = 6
	// LastSlotHour is the hour of the latest time slot.
	LastSlotHour = 23
)

// ErrInvalidTimeSlot is returned for a label outside "06:00".."23:00".
var ErrInvalidTimeSlot = errors.New("invalid time slot")

// SlotAssignment moves an existing todo, named by id or unique id prefix,
// into a time slot.
type SlotAssignment struct {
	ID       string
	TimeSlot string
}

// SlotLabel returns the label for the slot starting at hour, e.g. "09:00".
func SlotLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// SlotLabels returns all slot labels in chronological order.
func SlotLabels() []string {
	labels := make([]string, 0, LastSlotHour-FirstSlotHour+1)
	for h := FirstSlotHour; h <= LastSlotHour; h++ {
		labels = append(labels, SlotLabel(h))
	}
	return labels
}

// SlotHour returns the hour of a slot label.
func SlotHour(label string) (int, error) {
	for h := FirstSlotHour; h <= LastSlotHour; h++ {
		if SlotLabel(h) == label {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, label)
}

// IsValidSlot reports whether label names one of the fixed slots.
func IsValidSlot(label string) bool {
	_, err := SlotHour(label)
	return err == nil
}

// SlotDisplay formats a slot label on a 12-hour clock, e.g. "9:00 AM".
func SlotDisplay(label string) string {
	hour, err := SlotHour(label)
	if err != nil {
		return label
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	if hour > 12 {
		display = hour - 12
	}
	return fmt.Sprintf("%d:00 %s", display, period)
}

// Slot is one hourly bucket together with the todos assigned to it.
type Slot struct {
	Label string
	Hour  int
	Todos []Todo
}

// Partition groups todos into the fixed hourly slots plus the unscheduled
// bucket. Todos keep their relative order. A todo whose slot label is not
// one of the fixed slots lands in neither.
func Partition(todos []Todo) (slots []Slot, unscheduled []Todo) {
	index := make(map[string]int)
	for h := FirstSlotHour; h <= LastSlotHour; h++ {
		label := SlotLabel(h)
		index[label] = len(slots)
		slots = append(slots, Slot{Label: label, Hour: h})
	}

	for _, t := range todos {
		if !t.IsScheduled() {
			unscheduled = append(unscheduled, t)
			continue
		}
		if i, ok := index[t.TimeSlot]; ok {
			slots[i].Todos = append(slots[i].Todos, t)
		}
	}
	return slots, unscheduled
}
