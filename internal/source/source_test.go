package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/distatus/battery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, name := range Names {
		s, err := New(name, 1, 0, 10)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}
	_, err := New("gpu", 0, 0, 1)
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	v, err := Static(42).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Static(1).Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepTriangle(t *testing.T) {
	s := NewSweep(0, 100, 10*time.Second)
	assert.Equal(t, 0.0, s.At(0))
	assert.InDelta(t, 50, s.At(2500*time.Millisecond), 1e-9)
	assert.InDelta(t, 100, s.At(5*time.Second), 1e-9)
	assert.InDelta(t, 50, s.At(7500*time.Millisecond), 1e-9)
	assert.InDelta(t, 0, s.At(10*time.Second), 1e-9)

	flat := NewSweep(5, 5, time.Second)
	assert.Equal(t, 5.0, flat.At(300*time.Millisecond))

	wide := NewSweep(-1e308, 1e308, 4*time.Second)
	assert.Equal(t, 1e308, wide.At(2*time.Second))
	assert.InDelta(t, 0, wide.At(time.Second), 1e-9)
}

func TestSweepReadUsesClock(t *testing.T) {
	s := NewSweep(0, 10, 4*time.Second)
	now := time.Unix(1000, 0)
	s.SetClock(func() time.Time { return now })

	v, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	now = now.Add(time.Second)
	v, err = s.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 5, v, 1e-9)
}

func TestBatteryPercent(t *testing.T) {
	v, err := batteryPercent([]*battery.Battery{
		{Current: 30, Full: 60},
		{Current: 40, Full: 40},
		nil,
		{Current: 5, Full: 0},
	})
	require.NoError(t, err)
	assert.InDelta(t, 70, v, 1e-9)

	_, err = batteryPercent(nil)
	assert.Error(t, err)
}

type recordingSink struct {
	mu     sync.Mutex
	values []float64
	errs   []error
	name   string
}

func (s *recordingSink) SetValue(v float64) {
	s.mu.Lock()
	s.values = append(s.values, v)
	s.mu.Unlock()
}

func (s *recordingSink) UpdateSource(name string, err error, _ time.Time) {
	s.mu.Lock()
	s.name = name
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

type failingSource struct{}

func (failingSource) Name() string                          { return "broken" }
func (failingSource) Read(context.Context) (float64, error) { return 0, errors.New("boom") }

func TestPollerPoll(t *testing.T) {
	sink := &recordingSink{}
	p := &Poller{Source: Static(7), Sink: sink}
	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []float64{7}, sink.values)
	assert.Equal(t, "static", sink.name)

	p.Source = failingSource{}
	assert.Error(t, p.Poll(context.Background()))
	assert.Equal(t, []float64{7}, sink.values, "failed reads keep the target")
	assert.Equal(t, "broken", sink.name)
	assert.Error(t, sink.errs[len(sink.errs)-1])
}

func TestPollerRunStops(t *testing.T) {
	sink := &recordingSink{}
	p := &Poller{Source: Static(3), Sink: sink, Interval: 5 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.values) >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
