package state

import (
	"sync"
	"time"

	"github.com/rook-computer/habdometer/internal/gauge"
)

type Phase int

const (
	BOOTING Phase = iota
	READY
	STOPPING
	ERROR
)

func (p Phase) String() string {
	switch p {
	case READY:
		return "ready"
	case STOPPING:
		return "stopping"
	case ERROR:
		return "error"
	default:
		return "booting"
	}
}

type NetworkInfo struct {
	IP       string
	URL      string
	ShareURL string
}

// SourceInfo describes the live value feed.
type SourceInfo struct {
	Name      string
	Err       string
	UpdatedAt time.Time
}

// Display is what the kiosk showed on the last frame.
type Display struct {
	Value   float64
	Warning gauge.WarningView
}

type State struct {
	Phase      Phase
	Gauge      gauge.Config
	Fullscreen bool
	Network    NetworkInfo
	Source     SourceInfo
	Display    Display
	// Revision increases on every change to Gauge.
	Revision uint64
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore(initial gauge.Config) *Store {
	initial, _ = gauge.Normalize(initial)
	return &Store{state: State{
		Phase:   BOOTING,
		Gauge:   cloneConfig(initial),
		Display: Display{Value: initial.Value},
	}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	snap := store.state
	snap.Gauge = cloneConfig(snap.Gauge)
	return snap
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// SetGauge replaces the target configuration. It is normalized first and
// the corrections are returned.
func (store *Store) SetGauge(cfg gauge.Config) gauge.Issues {
	cfg, issues := gauge.Normalize(cfg)
	store.mu.Lock()
	store.state.Gauge = cloneConfig(cfg)
	store.state.Revision++
	store.mu.Unlock()
	return issues
}

// UpdateGauge applies fn to a copy of the target configuration and stores
// the normalized result.
func (store *Store) UpdateGauge(fn func(*gauge.Config)) (gauge.Config, gauge.Issues) {
	store.mu.Lock()
	defer store.mu.Unlock()
	cfg := cloneConfig(store.state.Gauge)
	fn(&cfg)
	cfg, issues := gauge.Normalize(cfg)
	store.state.Gauge = cfg
	store.state.Revision++
	return cloneConfig(cfg), issues
}

// SetValue moves the target value, clamped to the configured range.
func (store *Store) SetValue(v float64) {
	store.UpdateGauge(func(c *gauge.Config) { c.Value = v })
}

// NudgeValue moves the target by fraction of the range.
func (store *Store) NudgeValue(fraction float64) float64 {
	cfg, _ := store.UpdateGauge(func(c *gauge.Config) {
		c.Value += c.Max*fraction - c.Min*fraction
	})
	return cfg.Value
}

func (store *Store) SetFullscreen(on bool) {
	store.mu.Lock()
	store.state.Fullscreen = on
	store.mu.Unlock()
}

// ToggleFullscreen flips the fullscreen flag and returns the new value.
func (store *Store) ToggleFullscreen() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Fullscreen = !store.state.Fullscreen
	return store.state.Fullscreen
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.mu.Unlock()
}

// UpdateSource records the outcome of a source read.
func (store *Store) UpdateSource(name string, err error, at time.Time) {
	store.mu.Lock()
	store.state.Source.Name = name
	store.state.Source.UpdatedAt = at
	store.state.Source.Err = ""
	if err != nil {
		store.state.Source.Err = err.Error()
	}
	store.mu.Unlock()
}

func (store *Store) SetDisplay(d Display) {
	store.mu.Lock()
	store.state.Display = d
	store.mu.Unlock()
}

func cloneConfig(c gauge.Config) gauge.Config {
	if c.WarningThreshold != nil {
		t := *c.WarningThreshold
		c.WarningThreshold = &t
	}
	return c
}
