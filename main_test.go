package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nissyi-gh/timecards/internal/config"
	"github.com/nissyi-gh/timecards/internal/model"
	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
)

// buildTimecards builds the binary once and returns its path.
func buildTimecards(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		binDir, err := os.MkdirTemp("", "timecards-bin-")
		if err != nil {
			buildErr = err
			return
		}
		binPath = filepath.Join(binDir, "timecards")
		cmd := exec.Command("go", "build", "-o", binPath, ".")
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build timecards: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}
	return binPath
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("TIMECARDS", buildTimecards(t))
			home := filepath.Join(env.WorkDir, "home")
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			env.Setenv("HOME", home)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
			env.Setenv(config.DataDirEnv, filepath.Join(env.WorkDir, "data"))
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"todoid": cmdTodoID,
		},
	})
}

// cmdTodoID finds a todo by title in a `list --json` dump and stores its
// ID in an env var.
func cmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("todoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: todoid FILE TITLE VAR")
	}

	var items []model.Todo
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &items); err != nil {
		ts.Fatalf("parse todo list: %v", err)
	}
	for _, item := range items {
		if item.Title == args[1] {
			ts.Setenv(args[2], item.ID)
			return
		}
	}
	ts.Fatalf("todo with title %q not found", args[1])
}

func TestFormatTodoLine(t *testing.T) {
	line := formatTodoLine(model.Todo{
		ID:                "0123456789abcdef",
		Title:             "Write report",
		Priority:          model.PriorityHigh,
		Completed:         true,
		EstimatedDuration: 25,
	}, 8)
	if want := "  01234567 [x] Write report (high) 25m"; line != want {
		t.Fatalf("formatTodoLine = %q, want %q", line, want)
	}
}
