package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDayPickerValue(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		set     string
		want    string
		wantErr bool
	}{
		{name: "full date", set: "2026-02-03", want: "2026-02-03"},
		{name: "pads single digits", set: "2026-2-3", want: "2026-02-03"},
		{name: "defaults year and month", set: "--7", want: "2026-03-07"},
		{name: "day required", set: "2026-02-", wantErr: true},
		{name: "rejects impossible day", set: "2026-02-30", wantErr: true},
		{name: "rejects month 13", set: "2026-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newDayPicker(tt.set).Value(now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Value: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayPickerStep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p := newDayPicker("2026-03-01")
	p, _ = p.Update(keyRunes("["), now)
	if got, _ := p.Value(now); got != "2026-02-28" {
		t.Fatalf("after [: %q", got)
	}
	p, _ = p.Update(keyRunes("]"), now)
	p, _ = p.Update(keyRunes("]"), now)
	if got, _ := p.Value(now); got != "2026-03-02" {
		t.Fatalf("after ]]: %q", got)
	}

	p = newDayPicker("")
	p, _ = p.Update(keyRunes("]"), now)
	if got, _ := p.Value(now); got != "2026-03-02" {
		t.Fatalf("step from empty: %q", got)
	}
}

func TestDayPickerTypingDay(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

	p := newDayPicker("2026-06-10")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyBackspace}, now)
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyBackspace}, now)
	if _, err := p.Value(now); err == nil {
		t.Fatal("expected an error with the day cleared")
	}
	p, _ = p.Update(keyRunes("5"), now)
	if got, _ := p.Value(now); got != "2026-06-05" {
		t.Fatalf("after typing: %q", got)
	}

	// Stepping continues from the typed day.
	p, _ = p.Update(keyRunes("]"), now)
	if got, _ := p.Value(now); got != "2026-06-06" {
		t.Fatalf("after ]: %q", got)
	}
}
