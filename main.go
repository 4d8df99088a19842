package main

import (
	"fmt"
	"os"

	"github.com/rook-computer/habdometer/internal/config"
	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/logger"
	"github.com/rook-computer/habdometer/internal/source"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/rook-computer/habdometer/internal/web"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "habdometer",
		Short: "Analog gauge renderer and kiosk display",
		Long: `habdometer draws analog gauges (angular, semicircle, quarter, linear,
speedometer) as PNG or SVG, serves them over HTTP and shows a live gauge
on the Linux framebuffer.`,
		SilenceUsage: true,
	}
	config.AddFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(newKioskCmd(), newServeCmd(), newRenderCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration for cmd, redirects stdio when a log file is
// set and installs the process logger.
func setup(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, logger.Nop(), err
	}

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	if cfg.LogFile != "" {
		if err := redirectStdIO(cfg.LogFile); err != nil {
			fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
		}
	}

	log := logger.Init(logger.ParseLevel(cfg.LogLevel), logger.IsService())
	return cfg, log, nil
}

// initialGauge converts the [gauge] table and reports what was corrected.
func initialGauge(cfg *config.Config, log logger.Logger) gauge.Config {
	g, issues := cfg.GaugeConfig()
	for _, issue := range issues.Strings() {
		log.Warnf("config", "gauge: %s", issue)
	}
	return g
}

// newPoller returns nil for the static source: the configured value is the
// target and only the API changes it.
func newPoller(cfg *config.Config, g gauge.Config, store *state.Store, log logger.Logger) (*source.Poller, error) {
	if cfg.Source == "" || cfg.Source == "static" {
		return nil, nil
	}
	src, err := source.New(cfg.Source, g.Value, g.Min, g.Max)
	if err != nil {
		return nil, err
	}
	log.Infof("source", "polling %s every %s", src.Name(), cfg.PollInterval)
	return &source.Poller{Source: src, Sink: store, Interval: cfg.PollInterval, Logger: log}, nil
}

func registerGaugeMetrics(m *web.Metrics, store *state.Store) {
	m.GaugeFunc("habdometer_value", func() float64 { return store.Snapshot().Display.Value })
	m.GaugeFunc("habdometer_target", func() float64 { return store.Snapshot().Gauge.Value })
	m.GaugeFunc("habdometer_warning", func() float64 {
		if store.Snapshot().Display.Warning.Visible {
			return 1
		}
		return 0
	})
}
