package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/source"
	"github.com/rook-computer/habdometer/internal/state"
)

const (
	// ScenarioSweep moves the value back and forth across the range.
	ScenarioSweep = "sweep"
	// ScenarioWarning sweeps with a warning threshold at 80% of the range.
	ScenarioWarning = "warning"
	// ScenarioStatic leaves the value to the web API.
	ScenarioStatic = "static"
	// ScenarioFault fails every read.
	ScenarioFault = "fault"
)

var scenarios = []string{ScenarioSweep, ScenarioWarning, ScenarioStatic, ScenarioFault}

func scenarioList() string { return strings.Join(scenarios, " | ") }

var errSimulatedFault = errors.New("simulated sensor failure")

// SimControl is the simulator's value source. The active scenario decides
// what each read returns and can be switched over HTTP.
type SimControl struct {
	store           *state.Store
	startupScenario string
	period          time.Duration

	mu       sync.Mutex
	scenario string
	sweep    *source.Sweep
}

func NewSimControl(store *state.Store, startupScenario string, period time.Duration) *SimControl {
	startupScenario = strings.TrimSpace(startupScenario)
	if startupScenario == "" {
		startupScenario = ScenarioSweep
	}
	return &SimControl{store: store, startupScenario: startupScenario, period: period}
}

func (c *SimControl) Name() string { return "sim:" + c.Scenario() }

func (c *SimControl) Scenario() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenario
}

// Read follows the store's current range so the sweep adapts when the
// range is changed through the API.
func (c *SimControl) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	snap := c.store.Snapshot().Gauge

	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.scenario {
	case ScenarioFault:
		return 0, errSimulatedFault
	case ScenarioStatic:
		return snap.Value, nil
	}
	c.sweep.Min, c.sweep.Max = snap.Min, snap.Max
	return c.sweep.Read(ctx)
}

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = c.startupScenario
	}
	switch name {
	case ScenarioSweep, ScenarioStatic, ScenarioFault:
		c.store.UpdateGauge(func(g *gauge.Config) { g.WarningThreshold = nil })
	case ScenarioWarning:
		c.store.UpdateGauge(func(g *gauge.Config) {
			threshold := g.Min + (g.Max-g.Min)*0.8
			g.WarningThreshold = &threshold
			g.WarningMessage = "OVER LIMIT"
		})
	default:
		return fmt.Errorf("unknown scenario %q (want %s)", name, scenarioList())
	}

	c.mu.Lock()
	c.scenario = name
	c.sweep = source.NewSweep(0, 0, c.period)
	c.mu.Unlock()
	return nil
}

// Reset restores the default gauge and the startup scenario.
func (c *SimControl) Reset() error {
	c.store.SetGauge(gauge.DefaultConfig())
	c.store.SetFullscreen(false)
	return c.ApplyScenario(c.startupScenario)
}

// Register adds the /sim/ control endpoints.
func (c *SimControl) Register(mux *http.ServeMux) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := c.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": c.Scenario()})
	})

	mux.HandleFunc("/sim/scenario", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"scenario": c.Scenario(), "available": scenarios})
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/sim/scenario/")
		name = strings.Trim(name, "/")
		if err := c.ApplyScenario(name); err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": c.Scenario()})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
