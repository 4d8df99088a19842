package source

import (
	"context"
	"math"
	"sync"
	"time"
)

// Sweep is a triangle wave between Min and Max with the given period. It is
// deterministic for a fixed clock.
type Sweep struct {
	Min, Max float64
	Period   time.Duration

	mu    sync.Mutex
	start time.Time
	now   func() time.Time
}

func NewSweep(min, max float64, period time.Duration) *Sweep {
	return &Sweep{Min: min, Max: max, Period: period, now: time.Now}
}

func (s *Sweep) Name() string { return "sweep" }

func (s *Sweep) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.start.IsZero() {
		s.start = now
	}
	return s.At(now.Sub(s.start)), nil
}

// At returns the value elapsed into the wave. It starts at Min and peaks at
// Max after half a period.
func (s *Sweep) At(elapsed time.Duration) float64 {
	if s.Period <= 0 || s.Max <= s.Min {
		return s.Min
	}
	phase := math.Mod(float64(elapsed)/float64(s.Period), 1)
	if phase < 0 {
		phase++
	}
	tri := 1 - math.Abs(2*phase-1)
	return s.Min*(1-tri) + s.Max*tri
}

// SetClock replaces the time source and restarts the wave.
func (s *Sweep) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.start = time.Time{}
	s.mu.Unlock()
}
