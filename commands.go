package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rook-computer/habdometer/internal/app"
	"github.com/rook-computer/habdometer/internal/buttons"
	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/logger"
	"github.com/rook-computer/habdometer/internal/render"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/rook-computer/habdometer/internal/system"
	"github.com/rook-computer/habdometer/internal/web"
	"github.com/spf13/cobra"
)

func newKioskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kiosk",
		Short: "Show the live gauge on the framebuffer and serve the web API",
		Args:  cobra.NoArgs,
		RunE:  runKiosk,
	}
}

func runKiosk(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	g := initialGauge(cfg, log)
	store := state.NewStore(g)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fb := render.NewFBRenderer()
	fb.Device = cfg.Framebuffer
	fb.Width, fb.Height = cfg.CanvasWidth, cfg.CanvasHeight
	fb.FPS = cfg.FPS
	fb.Background = g.Background

	metrics := web.NewMetrics()
	registerGaugeMetrics(metrics, store)
	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: cfg.Listen, DevMode: cfg.Dev}, web.APIV1Deps{
		Store:     store,
		Logger:    log,
		Metrics:   metrics,
		Screen:    fb,
		PublicURL: cfg.PublicURL,
	})

	poller, err := newPoller(cfg, g, store, log)
	if err != nil {
		return err
	}

	a := app.New(store, fb, server, buttons.NewKeyboard(log))
	a.Logger = log
	a.Poller = poller
	a.Console = system.Console{Logger: log}
	a.NetInfo = system.InterfaceNetInfo{}
	a.PublicURL = cfg.PublicURL
	a.Listen = cfg.Listen
	a.Smoothing = cfg.Smoothing
	a.Debug = logger.ParseLevel(cfg.LogLevel) == logger.DebugLevel

	log.Infof("main", "kiosk starting on %s (%dx%d @ %d fps)", cfg.Framebuffer, cfg.CanvasWidth, cfg.CanvasHeight, cfg.FPS)
	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the gauge web API and control page without a display",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	g := initialGauge(cfg, log)
	store := state.NewStore(g)
	store.SetPhase(state.READY)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := web.NewMetrics()
	registerGaugeMetrics(metrics, store)
	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: cfg.Listen, DevMode: cfg.Dev}, web.APIV1Deps{
		Store:     store,
		Logger:    log,
		Metrics:   metrics,
		PublicURL: cfg.PublicURL,
	})
	if err := server.Start(ctx); err != nil {
		return err
	}
	defer server.Stop()

	poller, err := newPoller(cfg, g, store, log)
	if err != nil {
		return err
	}
	if poller != nil {
		go poller.Run(ctx)
	}

	<-ctx.Done()
	store.SetPhase(state.STOPPING)
	return nil
}

// renderFlags maps render command flags onto share link query keys so the
// command and the HTTP endpoints parse values the same way.
var renderFlags = []struct{ flag, key, usage string }{
	{"value", "value", "Gauge value"},
	{"min", "min", "Range minimum"},
	{"max", "max", "Range maximum"},
	{"name", "name", "Gauge title"},
	{"units", "units", "Units label"},
	{"bg", "bg", "Background color (#RRGGBB)"},
	{"warning-threshold", "warningThreshold", "Show the warning banner at or above this value"},
	{"warning-message", "warningMessage", "Warning banner text"},
	{"preset", "preset", "Start from a preset: temperature, speed, pressure, battery"},
}

func newRenderCmd() *cobra.Command {
	var (
		outputPath string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one gauge to a PNG or SVG file",
		Example: `  habdometer render --value 72 --type speedometer -o speed.png
  habdometer render --preset temperature --format svg > temp.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			q := url.Values{}
			for _, f := range renderFlags {
				if fl := cmd.Flags().Lookup(f.flag); fl != nil && fl.Changed {
					q.Set(f.key, fl.Value.String())
				}
			}
			g, _, issues := web.ParseQuery(q, initialGauge(cfg, log))
			g, more := gauge.Normalize(g)
			for _, issue := range append(issues, more...).Strings() {
				log.Warnf("render", "%s", issue)
			}

			if format == "" {
				format = "png"
				if strings.EqualFold(filepath.Ext(outputPath), ".svg") {
					format = "svg"
				}
			}
			return writeGauge(outputPath, format, g)
		},
	}
	for _, f := range renderFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: png or svg (default: from the output extension)")
	return cmd
}

func writeGauge(path, format string, g gauge.Config) (err error) {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	var enc render.Encoder
	view := gauge.StillWarning(g)
	switch strings.ToLower(format) {
	case "png":
		_, err = enc.PNG(w, g, view)
	case "svg":
		_, err = enc.SVG(w, g, view)
	default:
		return fmt.Errorf("invalid format: %s (must be png or svg)", format)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
