// Package source supplies live values for the kiosk gauge.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Source produces one reading per call. Read must honor ctx.
type Source interface {
	Name() string
	Read(ctx context.Context) (float64, error)
}

// Names lists the sources New understands.
var Names = []string{"static", "cpu", "mem", "battery", "sweep"}

// New builds the named source. static returns value on every read; sweep
// oscillates over [min, max].
func New(name string, value, min, max float64) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "static":
		return Static(value), nil
	case "cpu":
		return CPU{}, nil
	case "mem", "memory":
		return Memory{}, nil
	case "battery":
		return Battery{}, nil
	case "sweep":
		return NewSweep(min, max, 10*time.Second), nil
	}
	return nil, fmt.Errorf("unknown source %q (want one of %s)", name, strings.Join(Names, ", "))
}

// Static always reads the same value.
type Static float64

func (s Static) Name() string { return "static" }

func (s Static) Read(ctx context.Context) (float64, error) {
	return float64(s), ctx.Err()
}
