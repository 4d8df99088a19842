package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rook-computer/habdometer/internal/app"
	"github.com/rook-computer/habdometer/internal/buttons"
	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/logger"
	"github.com/rook-computer/habdometer/internal/render"
	"github.com/rook-computer/habdometer/internal/source"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/rook-computer/habdometer/internal/system"
	"github.com/rook-computer/habdometer/internal/web"
	"github.com/spf13/cobra"
)

type options struct {
	listenAddr string
	devMode    bool
	staticDir  string
	scenario   string
	period     time.Duration
	interval   time.Duration
	fps        int
	logLevel   string
}

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8090")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	opts := options{}
	rootCmd := &cobra.Command{
		Use:   "simulator",
		Short: "Run the habdometer kiosk without hardware",
		Long: `simulator runs the kiosk pipeline against a headless renderer. The
rendered screen is served at /api/v1/screen.png and the value feed is driven
by a scenario that can be switched at runtime under /sim/.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := rootCmd.Flags()
	flags.StringVar(&opts.listenAddr, "listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	flags.BoolVar(&opts.devMode, "dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	flags.StringVar(&opts.staticDir, "static-dir", "", "serve static UI from this directory (optional); when empty, the embedded control page is served")
	flags.StringVar(&opts.scenario, "scenario", ScenarioSweep, "startup scenario: "+scenarioList())
	flags.DurationVar(&opts.period, "period", 10*time.Second, "sweep period")
	flags.DurationVar(&opts.interval, "interval", 200*time.Millisecond, "how often the scenario is read")
	flags.IntVar(&opts.fps, "fps", 15, "headless frames per second")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	log := logger.Init(logger.ParseLevel(opts.logLevel), false)

	processCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore(gauge.DefaultConfig())
	control := NewSimControl(store, opts.scenario, opts.period)
	if err := control.ApplyScenario(opts.scenario); err != nil {
		return fmt.Errorf("scenario init: %w", err)
	}

	fb := render.NewFBRenderer()
	fb.Headless = true
	fb.FPS = opts.fps

	metrics := web.NewMetrics()
	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: opts.listenAddr, DevMode: opts.devMode}, web.APIV1Deps{
		Store:   store,
		Logger:  log,
		Metrics: metrics,
		Screen:  fb,
	})
	server.StaticDir = opts.staticDir
	server.Extra = control.Register

	a := app.New(store, fb, server, buttons.NewNoopButtons())
	a.Logger = log
	a.Poller = &source.Poller{Source: control, Sink: store, Interval: opts.interval, Logger: log}
	a.NetInfo = system.NoopNetInfo{}
	a.Listen = opts.listenAddr
	a.PublicURL = "http://" + displayAddr(opts.listenAddr)

	fmt.Println("Habdometer simulator listening on", opts.listenAddr)
	fmt.Println("Scenario:", control.Scenario())
	fmt.Println("Screen: http://" + displayAddr(opts.listenAddr) + "/api/v1/screen.png")

	err := a.Start(processCtx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func displayAddr(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8090"
	}
	return addr
}
