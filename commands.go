package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/nissyi-gh/timecards/internal/importer"
	"github.com/nissyi-gh/timecards/internal/model"
	"github.com/nissyi-gh/timecards/internal/prompt"
	"github.com/nissyi-gh/timecards/internal/todo"
	"github.com/spf13/cobra"
)

var (
	addDescription string
	addPriority    string
	addSlot        string
	addDuration    int

	listJSON   bool
	streakJSON bool
	promptCopy bool
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a todo to the backlog",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var doneCmd = &cobra.Command{
	Use:     "done <id>",
	Short:   "Toggle a todo between open and completed",
	Aliases: []string{"toggle"},
	Args:    cobra.ExactArgs(1),
	RunE:    runDone,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <id> <HH:00>",
	Short: "Put a todo into an hourly slot (06:00 to 23:00)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSchedule,
}

var unscheduleCmd = &cobra.Command{
	Use:   "unschedule <id>",
	Short: "Move a todo back to the backlog",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnschedule,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List todos by slot",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the completion streak",
	Args:  cobra.NoArgs,
	RunE:  runStreak,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create or schedule todos from a YAML file (- reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print a planning prompt for an AI assistant",
	Args:  cobra.NoArgs,
	RunE:  runPrompt,
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "todo description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority: low, medium or high")
	addCmd.Flags().StringVar(&addSlot, "slot", "", "schedule into this slot right away")
	addCmd.Flags().IntVar(&addDuration, "duration", 0, "estimated minutes")

	listCmd.Flags().BoolVar(&listJSON, "json", false, "print todos as JSON")
	streakCmd.Flags().BoolVar(&streakJSON, "json", false, "print streak data as JSON")
	promptCmd.Flags().BoolVar(&promptCopy, "copy", false, "copy to the clipboard instead of printing")

	rootCmd.AddCommand(addCmd, doneCmd, scheduleCmd, unscheduleCmd, listCmd, streakCmd, importCmd, promptCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	priority, err := model.ParsePriority(addPriority)
	if err != nil {
		return err
	}
	fields := model.NewTodo{
		Title:             args[0],
		Description:       addDescription,
		Priority:          priority,
		TimeSlot:          addSlot,
		EstimatedDuration: addDuration,
	}
	if err := fields.Normalize().Validate(); err != nil {
		return err
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.session.Create(fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s %q\n", shortID(t.ID), t.Title)
	return a.warnSave(cmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.session.Resolve(args[0])
	if err != nil {
		return err
	}
	t, ok := a.session.ToggleComplete(found.ID)
	if !ok {
		return fmt.Errorf("%w: %s", todo.ErrTodoNotFound, args[0])
	}
	verb := "reopened"
	if t.Completed {
		verb = "completed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", verb, t.Title)
	return a.warnSave(cmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.session.Resolve(args[0])
	if err != nil {
		return err
	}
	t, ok, err := a.session.AssignTimeSlot(found.ID, args[1])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", todo.ErrTodoNotFound, args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scheduled %q at %s\n", t.Title, model.SlotDisplay(t.TimeSlot))
	return a.warnSave(cmd)
}

func runUnschedule(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.session.Resolve(args[0])
	if err != nil {
		return err
	}
	t, ok := a.session.ClearTimeSlot(found.ID)
	if !ok {
		return fmt.Errorf("%w: %s", todo.ErrTodoNotFound, args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "moved %q to the backlog\n", t.Title)
	return a.warnSave(cmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	todos := a.session.Todos()
	if listJSON {
		if todos == nil {
			todos = []model.Todo{}
		}
		return writeJSON(out, todos)
	}
	if len(todos) == 0 {
		fmt.Fprintln(out, "No todos yet. Add one with: timecards add <title>")
		return nil
	}

	width := todo.ShortIDLength(todos, 8)
	slots, backlog := a.session.Slots()
	fmt.Fprintf(out, "Backlog (%d)\n", len(backlog))
	for _, t := range backlog {
		fmt.Fprintln(out, formatTodoLine(t, width))
	}
	for _, s := range slots {
		if len(s.Todos) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s %s (%d)\n", s.Label, model.SlotDisplay(s.Label), len(s.Todos))
		for _, t := range s.Todos {
			fmt.Fprintln(out, formatTodoLine(t, width))
		}
	}
	return nil
}

func runStreak(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	sd := a.session.Streak()
	if streakJSON {
		return writeJSON(out, sd)
	}

	last := sd.LastStreakDate
	if last == "" {
		last = "never"
	}
	fmt.Fprintf(out, "current streak: %d\n", sd.CurrentStreak)
	fmt.Fprintf(out, "longest streak: %d\n", sd.LongestStreak)
	fmt.Fprintf(out, "last streak day: %s\n", last)

	var strip strings.Builder
	for _, r := range sd.DayRecords {
		switch {
		case r.IsStreakDay:
			strip.WriteByte('#')
		case r.TotalTodos > 0:
			strip.WriteByte('o')
		default:
			strip.WriteByte('.')
		}
	}
	if n := len(sd.DayRecords); n > 0 {
		fmt.Fprintf(out, "%s %s %s\n", sd.DayRecords[0].Date, strip.String(), sd.DayRecords[n-1].Date)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	created, scheduled, err := importer.Import(a.session, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d todos, scheduled %d\n", created, scheduled)
	return a.warnSave(cmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	var text string
	if len(a.session.Todos()) == 0 {
		text = prompt.GenerateNew()
	} else {
		slots, backlog := a.session.Slots()
		text = prompt.GenerateFromBoard(slots, backlog, a.session.Streak())
	}

	if promptCopy {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy prompt: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "planning prompt copied to clipboard")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

// warnSave reports a failed save. The change stays applied for this run,
// so the command still succeeds.
func (a *app) warnSave(cmd *cobra.Command) error {
	if err := a.session.LastSaveError(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: changes were not saved: %v\n", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTodoLine(t model.Todo, width int) string {
	id := t.ID
	if len(id) > width {
		id = id[:width]
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := fmt.Sprintf("  %s %s %s (%s)", id, check, t.Title, t.Priority)
	if t.EstimatedDuration > 0 {
		line += fmt.Sprintf(" %dm", t.EstimatedDuration)
	}
	return line
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
