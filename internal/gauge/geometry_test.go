package gauge_test

import (
	"math"
	"testing"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePercentage(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            float64
	}{
		{"at min", 0, 0, 100, 0},
		{"at max", 100, 0, 100, 1},
		{"middle", 25, 0, 100, 0.25},
		{"negative range", -5, -10, 10, 0.25},
		{"below min clamps", -20, 0, 100, 0},
		{"above max clamps", 250, 0, 200, 1},
		{"equal bounds", 5, 5, 5, 0},
		{"inverted bounds", 5, 10, 0, 0},
		{"nan value", math.NaN(), 0, 100, 0},
		{"infinite max", 5, 0, math.Inf(1), 0},
		{"overflowing span at max", 1e308, -1e308, 1e308, 1},
		{"overflowing span middle", 0, -1e308, 1e308, 0.5},
		{"overflowing span at min", -1e308, -1e308, 1e308, 0},
		{"extreme bounds", math.MaxFloat64, -math.MaxFloat64, math.MaxFloat64, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, gauge.ComputePercentage(tt.value, tt.min, tt.max), 1e-12)
		})
	}
}

func TestComputePercentageMonotonic(t *testing.T) {
	prev := -1.0
	for v := -50.0; v <= 150; v += 0.5 {
		p := gauge.ComputePercentage(v, -50, 150)
		require.GreaterOrEqual(t, p, prev, "value %v", v)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
		prev = p
	}
}

func TestArcEndpoints(t *testing.T) {
	want := map[gauge.Type]gauge.ArcSpec{
		gauge.Angular:     {Start: 0.75 * math.Pi, End: 2.25 * math.Pi},
		gauge.Semicircle:  {Start: math.Pi, End: 2 * math.Pi},
		gauge.Quarter:     {Start: math.Pi, End: 1.5 * math.Pi},
		gauge.Speedometer: {Start: 0.75 * math.Pi, End: 2.25 * math.Pi},
	}
	for typ, arc := range want {
		got, ok := gauge.ArcFor(typ)
		require.True(t, ok, typ)
		assert.Equal(t, arc, got, typ)
		assert.InDelta(t, arc.Start, gauge.AngleForPercentage(got, 0), 1e-12, typ)
		assert.InDelta(t, arc.End, gauge.AngleForPercentage(got, 1), 1e-12, typ)
	}

	_, ok := gauge.ArcFor(gauge.Linear)
	assert.False(t, ok)
}

func TestSpeedometerNeedleAngle(t *testing.T) {
	cfg := gauge.DefaultConfig()
	cfg.Value, cfg.Min, cfg.Max, cfg.Type = 80, 0, 200, gauge.Speedometer

	g := gauge.Compute(cfg, 400, 400)
	assert.InDelta(t, 0.4, g.Percentage, 1e-12)
	assert.InDelta(t, 1.35*math.Pi, g.NeedleAngle, 1e-12)
	assert.InDelta(t, 0.75*180, g.NeedleLength, 1e-9)
}

func TestComputeTicks(t *testing.T) {
	tests := []struct {
		typ    gauge.Type
		majors int
	}{
		{gauge.Angular, 10},
		{gauge.Semicircle, 6},
		{gauge.Quarter, 4},
		{gauge.Speedometer, 10},
		{gauge.Linear, 10},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			cfg := gauge.DefaultConfig()
			cfg.Type = tt.typ
			cfg.Min, cfg.Max = 0, 60
			g := gauge.Compute(cfg, 400, 400)

			require.Len(t, g.Ticks, tt.majors*gauge.MinorPerMajor+1)
			majors := 0
			for _, tick := range g.Ticks {
				if tick.Major {
					majors++
					assert.NotEmpty(t, tick.Label)
				} else {
					assert.Empty(t, tick.Label)
				}
			}
			assert.Equal(t, tt.majors+1, majors)
			assert.Equal(t, tt.majors, gauge.MajorTicks(tt.typ))

			first, last := g.Ticks[0], g.Ticks[len(g.Ticks)-1]
			assert.Equal(t, "0", first.Label)
			assert.Equal(t, "60", last.Label)
			if tt.typ != gauge.Linear {
				assert.InDelta(t, g.Arc.Start, first.Angle, 1e-12)
				assert.InDelta(t, g.Arc.End, last.Angle, 1e-12)
			}
		})
	}
}

func TestTickLabelsUseRange(t *testing.T) {
	cfg := gauge.DefaultConfig()
	cfg.Min, cfg.Max = 0, 10
	g := gauge.Compute(cfg, 400, 400)

	var labels []string
	for _, tick := range g.Ticks {
		if tick.Major {
			labels = append(labels, tick.Label)
		}
	}
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, labels)

	cfg.Min, cfg.Max = 0, 1
	g = gauge.Compute(cfg, 400, 400)
	assert.Equal(t, "0.1", g.Ticks[gauge.MinorPerMajor].Label)
}

func TestTicksStayFiniteForExtremeRange(t *testing.T) {
	for _, typ := range []gauge.Type{gauge.Angular, gauge.Linear} {
		t.Run(string(typ), func(t *testing.T) {
			cfg := gauge.DefaultConfig()
			cfg.Type = typ
			cfg.Min, cfg.Max, cfg.Value = -1e308, 1e308, 1e308

			g := gauge.Compute(cfg, 400, 400)
			assert.InDelta(t, 1, g.Percentage, 1e-12)
			require.NotEmpty(t, g.Ticks)
			for i, tick := range g.Ticks {
				require.False(t, math.IsNaN(tick.Value) || math.IsInf(tick.Value, 0), "tick %d value %v", i, tick.Value)
				assert.NotContains(t, tick.Label, "NaN")
				assert.NotContains(t, tick.Label, "Inf")
			}
			assert.Equal(t, -1e308, g.Ticks[0].Value)
			assert.Equal(t, 1e308, g.Ticks[len(g.Ticks)-1].Value)
		})
	}
}

func TestComputeLinear(t *testing.T) {
	cfg := gauge.DefaultConfig()
	cfg.Type = gauge.Linear
	cfg.Value = 75

	g := gauge.Compute(cfg, 400, 400)
	assert.InDelta(t, 320, g.Bar.W, 1e-9)
	assert.InDelta(t, 40, g.Bar.X, 1e-9)
	assert.InDelta(t, 40, g.Bar.H, 1e-9)
	assert.InDelta(t, 240, g.Fill.W, 1e-9)
	assert.Equal(t, "75%", g.ValueText)
}

func TestComputeInvalidRange(t *testing.T) {
	cfg := gauge.DefaultConfig()
	cfg.Min, cfg.Max = 50, 50

	g := gauge.Compute(cfg, 400, 400)
	assert.Zero(t, g.Percentage)
	assert.InDelta(t, g.Arc.Start, g.NeedleAngle, 1e-12)
}

func TestComputeScalesWithSurface(t *testing.T) {
	cfg := gauge.DefaultConfig()
	small := gauge.Compute(cfg, 200, 200)
	large := gauge.Compute(cfg, 800, 800)

	assert.InDelta(t, 4*small.Radius, large.Radius, 1e-9)
	assert.InDelta(t, 4*small.NeedleLength, large.NeedleLength, 1e-9)
	assert.InDelta(t, 4*small.HubRadius, large.HubRadius, 1e-9)
	assert.InDelta(t, 4*small.ArcWidth, large.ArcWidth, 1e-9)
	assert.InDelta(t, small.NeedleAngle, large.NeedleAngle, 1e-12)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "80", gauge.FormatValue(80))
	assert.Equal(t, "2.5", gauge.FormatValue(2.5))
	assert.Equal(t, "33.33", gauge.FormatValue(33.3333))
	assert.Equal(t, "0", gauge.FormatValue(-0.001))
	assert.Equal(t, "-12.5", gauge.FormatValue(-12.5))
}
