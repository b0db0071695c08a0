// Package app is the terminal host for a carousel: it feeds bubbletea input
// into the engine and renders the simulated viewport.
package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/andyrewlee/carousel/internal/carousel"
	"github.com/andyrewlee/carousel/internal/config"
	"github.com/andyrewlee/carousel/internal/keymap"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/messages"
	"github.com/andyrewlee/carousel/internal/perf"
	"github.com/andyrewlee/carousel/internal/safego"
	"github.com/andyrewlee/carousel/internal/store"
	"github.com/andyrewlee/carousel/internal/teleport"
	"github.com/andyrewlee/carousel/internal/ui/carouselview"
	"github.com/andyrewlee/carousel/internal/ui/common"
	"github.com/andyrewlee/carousel/internal/viewport"
)

const (
	cardCells = 28
	gapCells  = 3
	// pageSize items arrive per simulated page load in finite mode.
	pageSize  = 10
	pageDelay = 400 * time.Millisecond
)

// Options configures the host.
type Options struct {
	Items      int
	PersistKey string
	// Store overrides the configured persistence backend.
	Store store.Store
	// Clock is the initial loop time. Zero uses time.Now.
	Clock time.Time
	// NoWatch disables config hot reload.
	NoWatch bool
}

// App is the root bubbletea model.
type App struct {
	config *config.Config
	opts   Options
	keymap keymap.KeyMap
	styles common.Styles

	loop  *loop.Loop
	sim   *viewport.Sim
	car   *carousel.Carousel
	store store.Store

	view   *carouselview.Model
	zone   *zone.Manager
	toast  *common.ToastModel
	canvas *lipgloss.Canvas

	items       int
	infinite    bool
	touch       bool
	active      int
	pagePending bool
	endReached  bool

	press   carouselview.Hit
	pressed bool
	lastX   float64
	touchV  float64

	configCh chan *config.Config
	cancel   context.CancelFunc
	watcher  *config.Watcher

	width, height int
	ready         bool
	showHelp      bool
	quitting      bool
	shutdown      bool
}

// New creates the host. The carousel mounts on the first window size.
func New(cfg *config.Config, opts Options) *App {
	if opts.Items <= 0 {
		opts.Items = 12
	}
	if opts.Clock.IsZero() {
		opts.Clock = time.Now()
	}
	styles := common.StylesFor(common.GetTheme(common.ThemeID(cfg.UI.Theme)))
	z := zone.New()
	a := &App{
		config:   cfg,
		opts:     opts,
		keymap:   keymap.New(cfg.KeyMap),
		styles:   styles,
		loop:     loop.New(opts.Clock),
		zone:     z,
		view:     carouselview.New(z, styles, cfg.Tunables.PixelsPerCell),
		toast:    common.NewToastModel(styles),
		items:    opts.Items,
		infinite: !cfg.UI.Finite,
		touch:    cfg.UI.Touch,
		active:   -1,
		configCh: make(chan *config.Config, 1),
	}
	a.store = opts.Store
	if a.store == nil {
		a.store = store.OpenOrMemory(cfg.Persistence.Backend, cfg.Persistence.Path(cfg.Paths))
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return common.SafeBatch(a.tick(), a.startWatcher())
}

func (a *App) tick() tea.Cmd {
	return common.SafeTick(a.loop.FrameInterval(), func(t time.Time) tea.Msg {
		return messages.FrameTick{At: t}
	})
}

func (a *App) platform() teleport.Platform {
	if a.touch {
		return teleport.PlatformTouch
	}
	return teleport.PlatformPointer
}

func (a *App) pixels(cells int) float64 {
	return float64(cells) * a.config.Tunables.PixelsPerCell
}

// mount builds the viewport and carousel at the first known size.
func (a *App) mount() {
	simCfg := viewport.DefaultSimConfig()
	simCfg.ClientWidth = a.view.ClientWidth()
	simCfg.CardWidth = a.pixels(cardCells)
	simCfg.Gap = a.pixels(gapCells)
	a.sim = viewport.NewSim(a.loop, simCfg, 0)

	a.car = carousel.New(carousel.Options{
		Items:             a.items,
		Infinite:          a.infinite,
		Platform:          a.platform(),
		PersistKey:        a.opts.PersistKey,
		FallbackCardWidth: simCfg.CardWidth,
		Gap:               simCfg.Gap,
		NextPagePending:   func() bool { return a.pagePending },
		OnActiveItem:      func(i int) { a.active = i },
		OnEndReached:      func() { a.endReached = true },
		Tunables:          a.config.Tunables,
	}, carousel.Deps{
		Viewport: a.sim,
		Renderer: a.sim,
		Store:    a.store,
		Loop:     a.loop,
	})
	a.sim.OnScroll(a.car.HandleScroll)
	a.sim.OnScrollEnd(a.car.HandleScrollEnd)
	a.car.Mount()
	a.ready = true
	logging.Info("Carousel %s mounted: %d items, infinite=%t", a.car.ID(), a.items, a.infinite)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case messages.FrameTick:
		if a.quitting {
			return a, nil
		}
		a.loop.AdvanceTo(msg.At)
		return a, common.SafeBatch(a.tick(), a.takeEndReached())

	case messages.PageLoaded:
		a.pagePending = false
		if a.car != nil {
			a.items += msg.Count
			a.car.SetItems(a.items)
		}
		return a, a.toast.Show(messages.Toast{Message: "loaded more items", Level: messages.ToastInfo})

	case messages.ConfigReloaded:
		a.applyConfig(msg.Config)
		return a, common.SafeBatch(
			a.toast.Show(messages.Toast{Message: "config reloaded", Level: messages.ToastSuccess}),
			a.waitForConfig(),
		)

	case messages.Toast:
		return a, a.toast.Show(msg)

	case common.ToastDismissed:
		a.toast.Update(msg)
		return a, nil

	case messages.Error:
		if !msg.Logged {
			logging.Error("%s", msg.Error())
		}
		return a, a.toast.Show(messages.Toast{Message: msg.Error(), Level: messages.ToastError})

	case messages.ToggleHelp:
		a.showHelp = !a.showHelp
		return a, nil

	case tea.BlurMsg:
		if a.car != nil {
			a.car.PointerCancel()
		}
		a.pressed = false
		return a, nil

	case tea.KeyPressMsg:
		return a, a.handleKey(msg)
	case tea.MouseClickMsg:
		return a, a.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		a.handleMouseMotion(msg)
		return a, nil
	case tea.MouseReleaseMsg:
		a.handleMouseRelease(msg)
		return a, nil
	case tea.MouseWheelMsg:
		a.handleMouseWheel(msg)
		return a, nil
	}
	return a, nil
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.view.SetSize(width, height)
	if !a.ready {
		a.mount()
		return
	}
	a.car.Resize(a.view.ClientWidth())
}

// takeEndReached turns an end notification into a simulated page load.
func (a *App) takeEndReached() tea.Cmd {
	if !a.endReached {
		return nil
	}
	a.endReached = false
	if a.pagePending {
		return nil
	}
	a.pagePending = true
	return common.SafeTick(pageDelay, func(time.Time) tea.Msg {
		return messages.PageLoaded{Count: pageSize}
	})
}

func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.config.Tunables = cfg.Tunables
	a.config.KeyMap = cfg.KeyMap
	a.config.UI.ShowKeymapHints = cfg.UI.ShowKeymapHints
	a.config.UI.Theme = cfg.UI.Theme
	a.keymap = keymap.New(cfg.KeyMap)
	a.styles = common.StylesFor(common.GetTheme(common.ThemeID(cfg.UI.Theme)))
	a.view.SetStyles(a.styles)
	a.toast.SetStyles(a.styles)
	if a.car != nil {
		a.car.SetTunables(cfg.Tunables)
	}
}

func (a *App) startWatcher() tea.Cmd {
	if a.opts.NoWatch || a.config.Paths == nil {
		return nil
	}
	w, err := config.NewWatcher(a.config.Paths, func(cfg *config.Config) {
		select {
		case a.configCh <- cfg:
		default:
		}
	})
	if err != nil {
		logging.Warn("Config watcher unavailable: %v", err)
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.watcher = w
	a.cancel = cancel
	safego.Go("config-watcher", func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			logging.Warn("Config watcher stopped: %v", err)
		}
	})
	return a.waitForConfig()
}

func (a *App) waitForConfig() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	ch := a.configCh
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return messages.ConfigReloaded{Config: cfg}
	}
}

// Snapshot returns the carousel state, or a zero state before mount.
func (a *App) Snapshot() carousel.State {
	if a.car == nil {
		return carousel.State{Active: -1}
	}
	return a.car.Snapshot()
}

// Shutdown unmounts the carousel and releases resources. Safe to call twice.
func (a *App) Shutdown() {
	if a.shutdown {
		return
	}
	a.shutdown = true
	if a.car != nil {
		a.car.Unmount()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.Warn("Failed to close offset store: %v", err)
		}
	}
	perf.Flush("shutdown")
}
