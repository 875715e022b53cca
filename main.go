package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/timecards/internal/config"
	"github.com/nissyi-gh/timecards/internal/logging"
	"github.com/nissyi-gh/timecards/internal/session"
	"github.com/nissyi-gh/timecards/internal/store"
	"github.com/nissyi-gh/timecards/internal/ui"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "timecards",
	Short:        "Plan your day in hourly slots and keep a completion streak",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/timecards/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// app bundles what every command needs.
type app struct {
	session *session.Session
	kv      store.KV
	logger  *log.Logger
	closers []io.Closer
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("close store", "err", err)
	}
	for _, c := range a.closers {
		c.Close()
	}
}

// openApp loads the config, opens storage and the session. The TUI logs to
// a file since it owns the terminal; commands log to stderr.
func openApp(tui bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}

	a := &app{}
	if tui {
		path, err := cfg.LogPath()
		if err != nil {
			return nil, err
		}
		logger, closer, err := logging.OpenFile(path, level)
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.closers = append(a.closers, closer)
	} else {
		a.logger, err = logging.New(os.Stderr, level)
		if err != nil {
			return nil, err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a.kv, err = store.Open(cfg.Storage.Backend, cfg.StoragePath())
	if err != nil {
		for _, c := range a.closers {
			c.Close()
		}
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.logger.Debug("storage opened", "backend", cfg.Storage.Backend)

	a.session = session.Open(a.kv, session.Options{
		Logger:   a.logger,
		Location: loc,
	})
	return a, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(ui.NewModel(a.session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
