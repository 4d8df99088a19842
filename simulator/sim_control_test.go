package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newControl(t *testing.T, scenario string) (*SimControl, *state.Store) {
	t.Helper()
	store := state.NewStore(gauge.DefaultConfig())
	c := NewSimControl(store, scenario, time.Second)
	require.NoError(t, c.ApplyScenario(scenario))
	return c, store
}

func TestScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("static keeps the target", func(t *testing.T) {
		c, store := newControl(t, ScenarioStatic)
		store.SetValue(33)
		v, err := c.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, 33.0, v)
	})

	t.Run("fault fails reads", func(t *testing.T) {
		c, _ := newControl(t, ScenarioFault)
		_, err := c.Read(ctx)
		assert.ErrorIs(t, err, errSimulatedFault)
		assert.Equal(t, "sim:fault", c.Name())
	})

	t.Run("sweep stays in range", func(t *testing.T) {
		c, store := newControl(t, ScenarioSweep)
		store.UpdateGauge(func(g *gauge.Config) { g.Min, g.Max = 10, 20 })
		for i := 0; i < 5; i++ {
			v, err := c.Read(ctx)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 10.0)
			assert.LessOrEqual(t, v, 20.0)
		}
	})

	t.Run("warning arms the threshold", func(t *testing.T) {
		_, store := newControl(t, ScenarioWarning)
		g := store.Snapshot().Gauge
		require.NotNil(t, g.WarningThreshold)
		assert.Equal(t, 80.0, *g.WarningThreshold)
		assert.True(t, g.HasWarning())
	})
}

func TestScenarioSwitchClearsWarning(t *testing.T) {
	c, store := newControl(t, ScenarioWarning)
	require.NoError(t, c.ApplyScenario(ScenarioSweep))
	assert.Nil(t, store.Snapshot().Gauge.WarningThreshold)
	assert.Error(t, c.ApplyScenario("meteor"))
	assert.Equal(t, ScenarioSweep, c.Scenario())
}

func TestSimEndpoints(t *testing.T) {
	c, store := newControl(t, ScenarioSweep)
	mux := http.NewServeMux()
	c.Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := http.Post(srv.URL+"/sim/scenario/fault", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, ScenarioFault, c.Scenario())

	res, err = http.Post(srv.URL+"/sim/scenario/nope", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = http.Get(srv.URL + "/sim/scenario")
	require.NoError(t, err)
	var out struct {
		Scenario  string   `json:"scenario"`
		Available []string `json:"available"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	res.Body.Close()
	assert.Equal(t, ScenarioFault, out.Scenario)
	assert.Len(t, out.Available, len(scenarios))

	store.SetValue(90)
	res, err = http.Post(srv.URL+"/sim/reset", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, ScenarioSweep, c.Scenario())
	assert.Equal(t, gauge.DefaultValue, store.Snapshot().Gauge.Value)
}
