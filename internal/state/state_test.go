package state_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSnapshotIsACopy(t *testing.T) {
	threshold := 80.0
	cfg := gauge.DefaultConfig()
	cfg.WarningThreshold = &threshold
	store := state.NewStore(cfg)

	snap := store.Snapshot()
	*snap.Gauge.WarningThreshold = 10
	assert.Equal(t, 80.0, *store.Snapshot().Gauge.WarningThreshold)

	threshold = 20
	assert.Equal(t, 80.0, *store.Snapshot().Gauge.WarningThreshold)
}

func TestStoreSetGaugeNormalizes(t *testing.T) {
	store := state.NewStore(gauge.DefaultConfig())
	before := store.Snapshot().Revision

	cfg := gauge.DefaultConfig()
	cfg.Value = 500
	issues := store.SetGauge(cfg)
	assert.True(t, issues.Has(gauge.ErrOutOfBounds))

	snap := store.Snapshot()
	assert.Equal(t, 100.0, snap.Gauge.Value)
	assert.Greater(t, snap.Revision, before)
}

func TestStoreNudgeValue(t *testing.T) {
	cfg := gauge.DefaultConfig()
	cfg.Min, cfg.Max, cfg.Value = 0, 200, 100
	store := state.NewStore(cfg)

	assert.Equal(t, 102.0, store.NudgeValue(0.01))
	assert.Equal(t, 100.0, store.NudgeValue(-0.01))
	store.SetValue(1000)
	assert.Equal(t, 200.0, store.Snapshot().Gauge.Value)

	cfg.Min, cfg.Max, cfg.Value = -1e308, 1e308, 0
	wide := state.NewStore(cfg)
	assert.InDelta(t, 2e306, wide.NudgeValue(0.01), 1e292)
}

func TestStoreFullscreenAndSource(t *testing.T) {
	store := state.NewStore(gauge.DefaultConfig())
	assert.True(t, store.ToggleFullscreen())
	assert.False(t, store.ToggleFullscreen())

	now := time.Unix(100, 0)
	store.UpdateSource("cpu", errors.New("unavailable"), now)
	snap := store.Snapshot()
	assert.Equal(t, "cpu", snap.Source.Name)
	assert.Equal(t, "unavailable", snap.Source.Err)

	store.UpdateSource("cpu", nil, now)
	assert.Empty(t, store.Snapshot().Source.Err)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := state.NewStore(gauge.DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.SetValue(float64(i * 10))
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
	require.Equal(t, state.BOOTING, store.Snapshot().Phase)
}
