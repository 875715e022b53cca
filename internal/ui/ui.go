package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nissyi-gh/timecards/internal/model"
	"github.com/nissyi-gh/timecards/internal/prompt"
	"github.com/nissyi-gh/timecards/internal/session"
)

type appState int

const (
	stateList appState = iota
	stateAdd
	stateSlot
	stateCalendar
	stateHistory
)

const (
	addFieldTitle = iota
	addFieldDuration
	addFieldPriority
)

var (
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	detailStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
	descBoxStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))

	priorities = []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}
)

type extraKeyMap struct {
	Add        key.Binding
	Toggle     key.Binding
	Schedule   key.Binding
	Unschedule key.Binding
	Calendar   key.Binding
	History    key.Binding
	Prompt     key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "toggle"),
		),
		Schedule: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "slot"),
		),
		Unschedule: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unschedule"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "calendar"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		Prompt: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "copy prompt"),
		),
	}
}

func (k extraKeyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Schedule, k.Unschedule, k.Calendar, k.History, k.Prompt}
}

// Model is the top-level BubbleTea model for the timecards TUI.
type Model struct {
	state         appState
	list          list.Model
	input         textinput.Model
	durationInput textinput.Model
	addFocus      int
	addPriority   model.Priority
	picker        dayPicker
	selectedDate  string
	slotCursor    int
	slotTodo      model.Todo
	focusID       string
	session       *session.Session
	keys          extraKeyMap
	copy          func(string) error
	today         string
	notice        string
	err           error
	width         int
	height        int
}

type boardLoadedMsg []list.Item
type tickMsg time.Time

// NewModel creates a new TUI model.
func NewModel(s *session.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Todo title..."
	ti.CharLimit = 256

	di := textinput.New()
	di.Placeholder = "minutes"
	di.CharLimit = 4
	di.Width = 8

	keys := newExtraKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "timecards"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("row", "rows")
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	return Model{
		state:         stateList,
		list:          l,
		input:         ti,
		durationInput: di,
		addPriority:   model.PriorityMedium,
		session:       s,
		keys:          keys,
		copy:          clipboard.WriteAll,
		today:         s.Now().Format(model.DateLayout),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadBoard, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadBoard() tea.Msg {
	slots, backlog := m.session.Slots()
	return boardLoadedMsg(BuildBoard(slots, backlog))
}

// afterMutation surfaces a failed save as a warning and reloads the board.
func (m Model) afterMutation() (Model, tea.Cmd) {
	if err := m.session.LastSaveError(); err != nil {
		m.err = fmt.Errorf("not saved (kept in memory): %w", err)
	} else {
		m.err = nil
	}
	return m, m.loadBoard
}

func (m Model) selectedTodo() (model.Todo, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return item.Todo, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		contentWidth := msg.Width - h
		leftWidth := contentWidth * 60 / 100
		m.list.SetSize(leftWidth, msg.Height-v-2)
		return m, nil

	case boardLoadedMsg:
		m.list.SetItems([]list.Item(msg))
		if m.focusID != "" {
			for i, item := range m.list.Items() {
				if ti, ok := item.(TodoItem); ok && ti.Todo.ID == m.focusID {
					m.list.Select(i)
					break
				}
			}
		}
		return m, nil

	case tickMsg:
		today := m.session.Now().Format(model.DateLayout)
		if today != m.today {
			m.today = today
			m.session.Refresh()
			return m, tea.Batch(m.loadBoard, tick())
		}
		return m, tick()
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateAdd:
		return m.updateAdd(msg)
	case stateSlot:
		return m.updateSlot(msg)
	case stateCalendar:
		return m.updateCalendar(msg)
	case stateHistory:
		return m.updateHistory(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		m.notice = ""
		switch keyMsg.String() {
		case "a", "n":
			m.state = stateAdd
			m.addFocus = addFieldTitle
			m.addPriority = model.PriorityMedium
			m.input.Reset()
			m.durationInput.Reset()
			m.durationInput.Blur()
			cmd := m.input.Focus()
			return m, cmd
		case "enter", "x":
			if t, ok := m.selectedTodo(); ok {
				m.focusID = t.ID
				m.session.ToggleComplete(t.ID)
				return m.afterMutation()
			}
		case "s":
			if t, ok := m.selectedTodo(); ok {
				m.state = stateSlot
				m.slotTodo = t
				m.slotCursor = initialSlotCursor(t, m.session.Now())
				return m, nil
			}
		case "u":
			if t, ok := m.selectedTodo(); ok {
				m.focusID = t.ID
				m.session.ClearTimeSlot(t.ID)
				return m.afterMutation()
			}
		case "c":
			m.state = stateCalendar
			m.selectedDate = m.session.Now().Format(model.DateLayout)
			m.picker = newDayPicker(m.selectedDate)
			return m, nil
		case "h":
			m.state = stateHistory
			return m, nil
		case "p":
			slots, backlog := m.session.Slots()
			text := prompt.GenerateFromBoard(slots, backlog, m.session.Streak())
			if err := m.copy(text); err != nil {
				m.err = fmt.Errorf("copy prompt: %w", err)
				return m, nil
			}
			m.notice = "Planning prompt copied to clipboard"
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func initialSlotCursor(t model.Todo, now time.Time) int {
	hour := now.Hour()
	if t.IsScheduled() {
		if h, err := model.SlotHour(t.TimeSlot); err == nil {
			hour = h
		}
	}
	hour = min(max(hour, model.FirstSlotHour), model.LastSlotHour)
	return hour - model.FirstSlotHour
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			title := strings.TrimSpace(m.input.Value())
			if title != "" {
				fields := model.NewTodo{Title: title, Priority: m.addPriority}
				if v := strings.TrimSpace(m.durationInput.Value()); v != "" {
					minutes, err := strconv.Atoi(v)
					if err != nil || minutes <= 0 {
						m.err = fmt.Errorf("%w: %q", model.ErrInvalidDuration, v)
						return m, nil
					}
					fields.EstimatedDuration = minutes
				}
				t, err := m.session.Create(fields)
				if err != nil {
					m.err = err
					return m, nil
				}
				m.focusID = t.ID
				m.notice = fmt.Sprintf("%q added to the backlog", t.Title)
			}
			m.state = stateList
			return m.afterMutation()
		case "esc":
			m.state = stateList
			return m, nil
		case "tab", "shift+tab":
			step := 1
			if keyMsg.String() == "shift+tab" {
				step = 2
			}
			m.addFocus = (m.addFocus + step) % 3
			m.input.Blur()
			m.durationInput.Blur()
			switch m.addFocus {
			case addFieldTitle:
				return m, m.input.Focus()
			case addFieldDuration:
				return m, m.durationInput.Focus()
			}
			return m, nil
		}
		if m.addFocus == addFieldPriority {
			switch keyMsg.String() {
			case "left", "h":
				m.addPriority = cyclePriority(m.addPriority, -1)
			case "right", "l", " ":
				m.addPriority = cyclePriority(m.addPriority, 1)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.addFocus == addFieldDuration {
		m.durationInput, cmd = m.durationInput.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func cyclePriority(p model.Priority, step int) model.Priority {
	for i, candidate := range priorities {
		if candidate == p {
			return priorities[(i+step+len(priorities))%len(priorities)]
		}
	}
	return model.PriorityMedium
}

func (m Model) updateSlot(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		labels := model.SlotLabels()
		switch keyMsg.String() {
		case "j", "down":
			if m.slotCursor < len(labels)-1 {
				m.slotCursor++
			}
		case "k", "up":
			if m.slotCursor > 0 {
				m.slotCursor--
			}
		case "enter", " ":
			label := labels[m.slotCursor]
			m.focusID = m.slotTodo.ID
			if _, _, err := m.session.AssignTimeSlot(m.slotTodo.ID, label); err != nil {
				m.err = err
				m.state = stateList
				return m, nil
			}
			m.notice = fmt.Sprintf("%q moved to %s", m.slotTodo.Title, model.SlotDisplay(label))
			m.state = stateList
			return m.afterMutation()
		case "esc":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateCalendar(msg tea.Msg) (tea.Model, tea.Cmd) {
	now := m.session.Now()
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			v, err := m.picker.Value(now)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.selectedDate = v
			return m, nil
		case "esc", "q":
			m.state = stateList
			m.err = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg, now)
	if v, err := m.picker.Value(now); err == nil {
		m.selectedDate = v
	}
	return m, cmd
}

func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "h":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) renderDetail(width int) string {
	if item, ok := m.list.SelectedItem().(SectionItem); ok {
		return fmt.Sprintf("%s\n\n%s", item.Title(), statusStyle.Render("select a todo to see its details"))
	}
	t, ok := m.selectedTodo()
	if !ok {
		return statusStyle.Render("a: add your first todo")
	}
	return renderTodoDetail(t, m.session.Now(), width)
}

func (m Model) View() string {
	var footer string
	switch {
	case m.err != nil:
		footer = "\n" + errorStyle.Render("Error: "+m.err.Error())
	case m.notice != "":
		footer = "\n" + noticeStyle.Render(m.notice)
	}

	h, v := appStyle.GetFrameSize()
	contentWidth := m.width - h

	switch m.state {
	case stateAdd:
		priority := string(m.addPriority)
		if m.addFocus == addFieldPriority {
			priority = "< " + priority + " >"
		}
		return appStyle.Render(
			titleStyle.Render("New Todo") + "\n\n" +
				m.input.View() + "\n\n" +
				"estimate: " + m.durationInput.View() + "\n" +
				"priority: " + priority + "\n\n" +
				statusStyle.Render("tab: next field • ←/→: priority • enter: save • esc: cancel") +
				footer,
		)
	case stateSlot:
		return appStyle.Render(renderSlotPicker(m.slotTodo, m.slotCursor) + footer)
	case stateCalendar:
		day := m.session.Day(m.selectedDate)
		return appStyle.Render(renderCalendar(m.session.Streak(), day, m.picker.View(), contentWidth) + footer)
	case stateHistory:
		return appStyle.Render(renderHistory(m.session.Summary(), m.session.Now(), contentWidth) + footer)
	default:
		contentHeight := m.height - v - 2
		leftWidth := contentWidth * 60 / 100
		rightWidth := contentWidth - leftWidth

		stats := renderStats(m.session.Streak(), m.session.Summary())
		leftPane := m.list.View()
		rightPane := detailStyle.
			Width(rightWidth).
			Height(contentHeight).
			Render(m.renderDetail(rightWidth - 6))
		content := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
		return appStyle.Render(stats + "\n\n" + content + footer)
	}
}
