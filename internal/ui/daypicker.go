package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/timecards/internal/model"
)

const (
	pickYear = iota
	pickMonth
	pickDay
)

// dayPicker edits the calendar day shown in the streak view. A blank year
// or month means the current one.
type dayPicker struct {
	fields [3]textinput.Model
	active int
}

func newDayPicker(date string) dayPicker {
	var p dayPicker
	for i, placeholder := range [3]string{"YYYY", "MM", "DD"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = len(placeholder)
		ti.Width = len(placeholder) + 1
		ti.Validate = digitsOnly
		p.fields[i] = ti
	}
	p.set(date)
	p.focus(pickDay)
	return p
}

func digitsOnly(s string) error {
	if strings.TrimLeft(s, "0123456789") != "" {
		return errors.New("digits only")
	}
	return nil
}

func (p *dayPicker) set(date string) {
	parts := strings.SplitN(date, "-", 3)
	for i := range p.fields {
		v := ""
		if i < len(parts) {
			v = parts[i]
		}
		p.fields[i].SetValue(v)
	}
}

func (p *dayPicker) focus(idx int) tea.Cmd {
	p.active = (idx + len(p.fields)) % len(p.fields)
	var cmd tea.Cmd
	for i := range p.fields {
		if i == p.active {
			cmd = p.fields[i].Focus()
		} else {
			p.fields[i].Blur()
		}
	}
	return cmd
}

// Day returns the picked day in now's location.
func (p dayPicker) Day(now time.Time) (time.Time, error) {
	nums := [3]int{now.Year(), int(now.Month()), 0}
	for i, f := range p.fields {
		v := strings.TrimSpace(f.Value())
		if v == "" {
			if i == pickDay {
				return time.Time{}, errors.New("day is required")
			}
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date field %q", v)
		}
		nums[i] = n
	}

	day := time.Date(nums[pickYear], time.Month(nums[pickMonth]), nums[pickDay], 0, 0, 0, 0, now.Location())
	if day.Year() != nums[pickYear] || int(day.Month()) != nums[pickMonth] || day.Day() != nums[pickDay] {
		return time.Time{}, fmt.Errorf("invalid date: %04d-%02d-%02d", nums[pickYear], nums[pickMonth], nums[pickDay])
	}
	return day, nil
}

// Value returns the picked day as YYYY-MM-DD.
func (p dayPicker) Value(now time.Time) (string, error) {
	day, err := p.Day(now)
	if err != nil {
		return "", err
	}
	return day.Format(model.DateLayout), nil
}

// Update edits the fields. [ and ] step one day back or forward, from today
// when the fields are incomplete; tab and the arrows move between fields.
func (p dayPicker) Update(msg tea.Msg, now time.Time) (dayPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "[", "]":
			base, err := p.Day(now)
			if err != nil {
				base = now
			}
			step := 1
			if keyMsg.String() == "[" {
				step = -1
			}
			p.set(base.AddDate(0, 0, step).Format(model.DateLayout))
			return p, nil
		case "tab", "right":
			return p, p.focus(p.active + 1)
		case "shift+tab", "left":
			return p, p.focus(p.active - 1)
		}
	}

	var cmd tea.Cmd
	p.fields[p.active], cmd = p.fields[p.active].Update(msg)
	return p, cmd
}

func (p dayPicker) View() string {
	return p.fields[pickYear].View() + " - " + p.fields[pickMonth].View() + " - " + p.fields[pickDay].View()
}
