package gauge

import "time"

type WarningPhase int

const (
	WarningIdle WarningPhase = iota
	WarningActive
	WarningCooldown
)

func (p WarningPhase) String() string {
	switch p {
	case WarningActive:
		return "active"
	case WarningCooldown:
		return "cooldown"
	default:
		return "idle"
	}
}

const (
	BlinkInterval       = 500 * time.Millisecond
	WarningCooldownTime = 2 * time.Second
	// jitterFraction is the needle offset while blinking, as a fraction of
	// the sweep.
	jitterFraction = 0.004
)

const DefaultWarningMessage = "WARNING"

// WarningView is what the renderer needs to know about the warning for one
// frame.
type WarningView struct {
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
	// Jitter offsets the needle by this fraction of the sweep.
	Jitter float64 `json:"jitter"`
}

// StillWarning is the view for a single still image: a steady banner when
// the value is at or above the threshold.
func StillWarning(cfg Config) WarningView {
	if !cfg.HasWarning() || cfg.Value < *cfg.WarningThreshold {
		return WarningView{}
	}
	msg := cfg.WarningMessage
	if msg == "" {
		msg = DefaultWarningMessage
	}
	return WarningView{Visible: true, Message: msg}
}

// WarningState tracks the threshold warning across frames. It is owned by
// the caller and advanced explicitly with Update.
type WarningState struct {
	phase   WarningPhase
	since   time.Time
	now     time.Time
	message string
}

func (w *WarningState) Phase() WarningPhase { return w.phase }

// Update advances the state machine with the value currently displayed.
// The warning is active while value >= threshold. Once the value drops back
// below it the banner is held steady for WarningCooldownTime before going
// idle. Rising above the threshold during cooldown re-arms it.
func (w *WarningState) Update(value float64, cfg Config, now time.Time) {
	w.now = now
	w.message = cfg.WarningMessage
	if w.message == "" {
		w.message = DefaultWarningMessage
	}
	if !cfg.HasWarning() {
		w.enter(WarningIdle, now)
		return
	}
	above := value >= *cfg.WarningThreshold

	switch w.phase {
	case WarningIdle:
		if above {
			w.enter(WarningActive, now)
		}
	case WarningActive:
		if !above {
			w.enter(WarningCooldown, now)
		}
	case WarningCooldown:
		switch {
		case above:
			w.enter(WarningActive, now)
		case now.Sub(w.since) >= WarningCooldownTime:
			w.enter(WarningIdle, now)
		}
	}
}

func (w *WarningState) enter(p WarningPhase, now time.Time) {
	if w.phase == p {
		return
	}
	w.phase = p
	w.since = now
}

// View returns the overlay for the time of the last Update.
func (w *WarningState) View() WarningView {
	switch w.phase {
	case WarningActive:
		on := (w.now.Sub(w.since)/BlinkInterval)%2 == 0
		v := WarningView{Visible: on, Message: w.message, Jitter: jitterFraction}
		if !on {
			v.Jitter = -jitterFraction
		}
		return v
	case WarningCooldown:
		return WarningView{Visible: true, Message: w.message}
	}
	return WarningView{}
}
