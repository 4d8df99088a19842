package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/habdometer/internal/app/screens"
	"github.com/rook-computer/habdometer/internal/buttons"
	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/render"
	"github.com/rook-computer/habdometer/internal/source"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/rook-computer/habdometer/internal/system"
	"github.com/rook-computer/habdometer/internal/web"
)

// nudgeFraction is how far one arrow key press moves the target.
const nudgeFraction = 0.01

const defaultNetworkInterval = 10 * time.Second

// Console switches the terminal into and out of graphics mode.
type Console interface {
	Enter() error
	Restore() error
}

type App struct {
	Store   *state.Store
	Render  render.Renderer
	Web     web.Server
	Buttons buttons.Buttons
	// Poller feeds live readings into Store. Optional.
	Poller  *source.Poller
	Console Console
	NetInfo system.NetInfo
	Logger  Logger

	// PublicURL overrides the address shown in the share QR code.
	PublicURL string
	// Listen is the web server address, used to derive the share URL port.
	Listen          string
	Smoothing       float64
	NetworkInterval time.Duration
	Debug           bool

	// Frame state, owned by the render loop goroutine.
	animator   *gauge.Animator
	warning    gauge.WarningState
	normal     render.Screen
	fullscreen render.Screen
	shown      bool
	shareRev   uint64
	shareBase  string

	netMu   sync.Mutex
	netIP   string
	netBase string

	screenCtx     context.Context
	currentScreen render.Screen

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, renderer render.Renderer, webServer web.Server, buttonDriver buttons.Buttons) *App {
	return &App{Store: store, Render: renderer, Web: webServer, Buttons: buttonDriver, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running.
// Any screen can call this to terminate the process via the generic codepath.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	app.exitOnce.Store(false)

	if app.Render == nil {
		app.Render = render.NewFBRenderer()
	}
	if fb, ok := app.Render.(*render.FBRenderer); ok {
		fb.Logger = app.Logger
		fb.Debug = app.Debug
		fb.OnFrame = app.frame
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer app.Render.Stop()

	// Switch console to KD_GRAPHICS to suppress hardware cursor
	if app.Console != nil {
		_ = app.Console.Enter()
		defer func() { _ = app.Console.Restore() }()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup

	if app.Web != nil {
		if err := app.Web.Start(runCtx); err != nil {
			app.Logger.Errorf("app", "web server start error: %v", err)
			return err
		}
		defer app.Web.Stop()
	}

	if app.Buttons != nil {
		if err := app.Buttons.Start(runCtx); err != nil {
			app.Logger.Warnf("app", "buttons unavailable: %v", err)
		} else {
			defer app.Buttons.Stop()
			wg.Add(1)
			go func() {
				defer wg.Done()
				app.watchButtons(runCtx)
			}()
		}
	}

	if app.Poller != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.Poller.Run(runCtx)
		}()
	}

	app.refreshNetwork(runCtx)
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.watchNetwork(runCtx)
	}()

	app.screenCtx = runCtx
	app.normal = screens.NewGaugeScreen(app.Logger)
	app.fullscreen = screens.NewFullscreenScreen(app.Logger)
	app.Store.SetPhase(state.READY)
	app.frame(time.Now())
	if app.currentScreen == nil {
		if err := app.setScreen(runCtx, app.normal); err != nil {
			return err
		}
	}

	// Force immediate first redraw so the gauge shows without waiting for the loop.
	app.Render.RedrawWithState(app.Store.Snapshot())

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Render.RunLoop(runCtx, app.Store)
	}()

	// Wait for completion (requested by a screen or button), then exit.
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	app.Store.SetPhase(state.STOPPING)
	cancel()
	wg.Wait()
	if app.currentScreen != nil {
		_ = app.currentScreen.Stop()
	}
	return err
}

// frame advances the animation by one tick. It runs on the render loop
// goroutine before every redraw.
func (app *App) frame(now time.Time) {
	snap := app.Store.Snapshot()
	if app.animator == nil {
		app.animator = gauge.NewAnimator(app.Smoothing, snap.Gauge.Value)
	}
	app.animator.SetTarget(snap.Gauge.Value)
	shown := app.animator.Tick()
	app.warning.Update(shown, snap.Gauge, now)
	app.Store.SetDisplay(state.Display{Value: shown, Warning: app.warning.View()})

	app.syncShareURL(snap)

	if app.normal != nil && (app.currentScreen == nil || snap.Fullscreen != app.shown) {
		next := app.normal
		if snap.Fullscreen {
			next = app.fullscreen
		}
		app.shown = snap.Fullscreen
		if err := app.setScreen(app.screenCtx, next); err != nil {
			app.Logger.Errorf("app", "screen start failed: %v", err)
		}
	}
}

func (app *App) setScreen(ctx context.Context, screen render.Screen) error {
	if app.currentScreen == screen {
		return nil
	}
	if app.currentScreen != nil {
		_ = app.currentScreen.Stop()
	}
	app.currentScreen = screen
	app.Render.SetScreen(screen)
	if ctx == nil {
		ctx = context.Background()
	}
	return screen.Start(ctx)
}

func (app *App) watchButtons(ctx context.Context) {
	events := app.Buttons.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			app.handleButton(ev)
		}
	}
}

func (app *App) handleButton(ev buttons.Event) {
	if app.Debug {
		app.Logger.Infof("buttons", "event %s", ev)
	}
	switch ev {
	case buttons.Exit:
		app.Exit(nil)
	case buttons.ToggleFullscreen:
		app.Store.ToggleFullscreen()
	case buttons.LeaveFullscreen:
		app.Store.SetFullscreen(false)
	case buttons.ValueUp:
		app.Store.NudgeValue(nudgeFraction)
	case buttons.ValueDown:
		app.Store.NudgeValue(-nudgeFraction)
	default:
		i, ok := ev.PresetIndex()
		if !ok || i >= len(gauge.Presets) {
			return
		}
		p := gauge.Presets[i]
		app.Store.UpdateGauge(func(c *gauge.Config) { *c = p.Apply(*c) })
		app.Logger.Infof("app", "preset %s selected", p.Key)
	}
}

func (app *App) watchNetwork(ctx context.Context) {
	interval := app.NetworkInterval
	if interval <= 0 {
		interval = defaultNetworkInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.refreshNetwork(ctx)
		}
	}
}

// refreshNetwork looks up the kiosk address. The share URL itself is
// rebuilt by the render loop whenever the address or the gauge changes.
func (app *App) refreshNetwork(ctx context.Context) {
	var ip string
	if app.NetInfo != nil {
		var err error
		ip, err = app.NetInfo.IP(ctx)
		if err != nil && app.Debug {
			app.Logger.Warnf("net", "no address: %v", err)
		}
	}
	base := system.BaseURL(app.PublicURL, ip, app.Listen)

	app.netMu.Lock()
	changed := base != app.netBase
	app.netIP, app.netBase = ip, base
	app.netMu.Unlock()
	if changed {
		app.Logger.Infof("net", "share address %q", base)
	}
}

func (app *App) syncShareURL(snap state.State) {
	app.netMu.Lock()
	ip, base := app.netIP, app.netBase
	app.netMu.Unlock()
	if base == app.shareBase && snap.Revision == app.shareRev && snap.Network.URL == base {
		return
	}
	app.shareBase, app.shareRev = base, snap.Revision

	info := state.NetworkInfo{IP: ip, URL: base}
	if base != "" {
		info.ShareURL = web.ShareURL(base, snap.Gauge, false)
	}
	app.Store.UpdateNetwork(info)
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Warnf(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Warnf(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}
