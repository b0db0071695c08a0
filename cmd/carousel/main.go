package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"

	"github.com/andyrewlee/carousel/internal/app"
	"github.com/andyrewlee/carousel/internal/config"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/messages"
	"github.com/andyrewlee/carousel/internal/perf"
	"github.com/andyrewlee/carousel/internal/safego"
)

// Version info set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	items := flag.Int("items", 12, "number of items")
	finite := flag.Bool("finite", false, "start with a finite list")
	touch := flag.Bool("touch", false, "start in touch emulation")
	persistKey := flag.String("key", "", "persist key for the saved offset")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if *showVersion {
		fmt.Printf("carousel %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "carousel needs an interactive terminal; try carousel-harness for headless runs")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create %s: %v\n", cfg.Paths.Home, err)
	}
	if err := logging.Initialize(cfg.Paths.LogsDir, logging.ParseLevel(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging in %s: %v\n", filepath.Clean(cfg.Paths.LogsDir), err)
	}
	defer logging.Close()

	if *finite {
		cfg.UI.Finite = true
	}
	if *touch {
		cfg.UI.Touch = true
	}
	key := *persistKey
	if key == "" {
		key = cfg.Persistence.Key
	}
	if key == "" {
		key = "default"
	}

	logging.Info("Starting carousel %s", version)
	a := app.New(cfg, app.Options{Items: *items, PersistKey: key})
	p := tea.NewProgram(a, tea.WithFilter(mouseEventFilter))
	safego.SetPanicHandler(func(name string, r any, _ []byte) {
		p.Send(messages.Error{Err: fmt.Errorf("recovered: %v", r), Context: name, Logged: true})
	})
	if _, err := p.Run(); err != nil {
		logging.Error("App exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		a.Shutdown()
		os.Exit(1)
	}
	a.Shutdown()
	perf.Flush("exit")
	logging.Info("carousel shutdown complete")
}

var lastMouseMotion time.Time

// mouseEventFilter drops repeated motion events at the same position within
// one frame.
func mouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); ok {
		now := time.Now()
		if now.Sub(lastMouseMotion) < 8*time.Millisecond {
			return nil
		}
		lastMouseMotion = now
	}
	return msg
}
