package web

import (
	"image"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/state"
)

// GaugeStore abstracts the kiosk state used by the API.
//
// The concrete implementation is *state.Store.
type GaugeStore interface {
	Snapshot() state.State
	SetGauge(cfg gauge.Config) gauge.Issues
	SetValue(v float64)
	SetFullscreen(on bool)
}

// sysLogger matches the logging shape used across the application.
// It is intentionally tiny so callers can pass existing loggers without adapters.
type sysLogger interface {
	Infof(component string, format string, args ...interface{})
	Warnf(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// FrameSource yields the last frame shown on the kiosk display.
type FrameSource interface {
	Frame() image.Image
}

type APIV1Deps struct {
	Store   GaugeStore
	Logger  sysLogger
	Metrics *Metrics
	// Screen is optional; without it /screen.png answers 501.
	Screen FrameSource
	// PublicURL is the base of share links. Empty derives it from the request.
	PublicURL string
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Store == nil {
		out.Store = state.NewStore(gauge.DefaultConfig())
	}
	if out.Logger == nil {
		out.Logger = noopLogger{}
	}
	if out.Metrics == nil {
		out.Metrics = NewMetrics()
	}
	return out
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Warnf(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}
