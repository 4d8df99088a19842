package screens

import (
	"fmt"

	"github.com/rook-computer/habdometer/internal/gauge"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Warnf(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// AppExiter is implemented by the host application.
// Screens can call Exit to request termination.
type AppExiter interface {
	Exit(err error)
}

// frameConfig is the target configuration with the animated value swapped in.
func frameConfig(cfg gauge.Config, displayed float64) gauge.Config {
	cfg.Value = displayed
	return cfg
}

// repeatFilter drops a warning identical to the previous one. Screens redraw
// the same config many times per second.
type repeatFilter struct {
	Logger
	last string
}

func (f *repeatFilter) Warnf(component string, format string, args ...interface{}) {
	msg := component + ": " + fmt.Sprintf(format, args...)
	if msg == f.last {
		return
	}
	f.last = msg
	f.Logger.Warnf(component, format, args...)
}

func gaugeLogger(l Logger) gauge.Logger {
	if l == nil {
		return nil
	}
	return &repeatFilter{Logger: l}
}
