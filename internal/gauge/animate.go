package gauge

import (
	"math"

	"github.com/VividCortex/ewma"
)

const (
	// DefaultSmoothing is the fraction of the remaining distance covered per
	// tick.
	DefaultSmoothing = 0.15
	// SnapDistance is how close the displayed value must get before it
	// jumps onto the target.
	SnapDistance = 0.1
)

// Animator eases a displayed value toward a target, one Tick at a time.
type Animator struct {
	avg    ewma.MovingAverage
	target float64
	value  float64
}

// NewAnimator returns an Animator at rest on initial. fraction is clamped to
// (0,1]; zero selects DefaultSmoothing.
func NewAnimator(fraction, initial float64) *Animator {
	if !(fraction > 0) {
		fraction = DefaultSmoothing
	}
	fraction = math.Min(fraction, 1)
	// ewma uses decay = 2/(age+1). Age 30 selects its SimpleEWMA, which
	// treats a zero value as unset, so nudge off it.
	age := 2/fraction - 1
	if age == ewma.AVG_METRIC_AGE {
		age += 1e-9
	}
	a := &Animator{avg: ewma.NewMovingAverage(age), target: initial, value: initial}
	a.avg.Set(initial)
	return a
}

func (a *Animator) SetTarget(v float64) {
	if isFinite(v) {
		a.target = v
	}
}

func (a *Animator) Target() float64 { return a.target }
func (a *Animator) Value() float64  { return a.value }

// Settled reports whether the displayed value has reached the target.
func (a *Animator) Settled() bool { return a.value == a.target }

// Jump moves both target and displayed value to v without easing.
func (a *Animator) Jump(v float64) {
	if !isFinite(v) {
		return
	}
	a.target, a.value = v, v
	a.avg.Set(v)
}

// Tick advances one frame and returns the new displayed value.
func (a *Animator) Tick() float64 {
	if a.Settled() {
		return a.value
	}
	a.avg.Add(a.target)
	a.value = a.avg.Value()
	if math.Abs(a.target-a.value) < SnapDistance {
		a.value = a.target
		a.avg.Set(a.target)
	}
	return a.value
}
