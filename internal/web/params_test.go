package web_test

import (
	"net/url"
	"testing"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	def := gauge.DefaultConfig()
	tests := []struct {
		name   string
		query  string
		check  func(t *testing.T, cfg gauge.Config)
		issues []error
	}{
		{
			name:  "empty keeps defaults",
			query: "",
			check: func(t *testing.T, cfg gauge.Config) { assert.Equal(t, def, cfg) },
		},
		{
			name:  "numbers and text",
			query: "value=80&min=0&max=200&name=Oil+Temp&units=%C2%B0C&type=speedometer",
			check: func(t *testing.T, cfg gauge.Config) {
				assert.Equal(t, 80.0, cfg.Value)
				assert.Equal(t, 200.0, cfg.Max)
				assert.Equal(t, "Oil Temp", cfg.Name)
				assert.Equal(t, "°C", cfg.Units)
				assert.Equal(t, gauge.Speedometer, cfg.Type)
			},
		},
		{
			name:  "bad number keeps default",
			query: "value=abc",
			check: func(t *testing.T, cfg gauge.Config) {
				assert.Equal(t, def.Value, cfg.Value)
			},
			issues: []error{gauge.ErrInvalidNumber},
		},
		{
			name:  "size outside range is ignored",
			query: "size=100",
			check: func(t *testing.T, cfg gauge.Config) {
				assert.Equal(t, def.Size, cfg.Size)
			},
			issues: []error{gauge.ErrOutOfBounds},
		},
		{
			name:  "size inside range",
			query: "size=640",
			check: func(t *testing.T, cfg gauge.Config) { assert.Equal(t, 640, cfg.Size) },
		},
		{
			name:  "background",
			query: "bg=%23ff8800",
			check: func(t *testing.T, cfg gauge.Config) {
				assert.Equal(t, "#ff8800", gauge.HexColor(cfg.Background))
			},
		},
		{
			name:  "double encoded name",
			query: "name=Oil%2520Temp",
			check: func(t *testing.T, cfg gauge.Config) { assert.Equal(t, "Oil Temp", cfg.Name) },
		},
		{
			name:   "unknown type falls back",
			query:  "type=radar",
			check:  func(t *testing.T, cfg gauge.Config) { assert.Equal(t, gauge.Angular, cfg.Type) },
			issues: []error{gauge.ErrInvalidType},
		},
		{
			name:  "preset then override",
			query: "preset=speed&value=120",
			check: func(t *testing.T, cfg gauge.Config) {
				assert.Equal(t, "Speed", cfg.Name)
				assert.Equal(t, 120.0, cfg.Value)
				assert.Equal(t, gauge.Speedometer, cfg.Type)
			},
		},
		{
			name:  "warning",
			query: "warningThreshold=90&warningMessage=HOT",
			check: func(t *testing.T, cfg gauge.Config) {
				require.NotNil(t, cfg.WarningThreshold)
				assert.Equal(t, 90.0, *cfg.WarningThreshold)
				assert.Equal(t, "HOT", cfg.WarningMessage)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			cfg, _, issues := web.ParseQuery(q, def)
			tt.check(t, cfg)
			for _, want := range tt.issues {
				assert.True(t, issues.Has(want), "missing %v in %v", want, issues)
			}
			if tt.issues == nil {
				assert.Empty(t, issues)
			}
		})
	}
}

func TestParseQueryFullscreen(t *testing.T) {
	_, fullscreen, _ := web.ParseQuery(url.Values{"fullscreen": {"true"}}, gauge.DefaultConfig())
	assert.True(t, fullscreen)
	_, fullscreen, _ = web.ParseQuery(url.Values{"fullscreen": {"1"}}, gauge.DefaultConfig())
	assert.False(t, fullscreen)
}

func TestBuildQueryOmitsDefaults(t *testing.T) {
	assert.Empty(t, web.BuildQuery(gauge.DefaultConfig(), false).Encode())
	assert.Equal(t, "fullscreen=true", web.BuildQuery(gauge.DefaultConfig(), true).Encode())

	cfg := gauge.DefaultConfig()
	cfg.Value = 80
	cfg.Max = 200
	cfg.Type = gauge.Speedometer
	q := web.BuildQuery(cfg, false)
	assert.Equal(t, "80", q.Get("value"))
	assert.Equal(t, "200", q.Get("max"))
	assert.Equal(t, "speedometer", q.Get("type"))
	assert.False(t, q.Has("min"))
	assert.False(t, q.Has("name"))
}

func TestBuildQueryRoundTrip(t *testing.T) {
	threshold := 150.0
	cfg := gauge.DefaultConfig()
	cfg.Value = 12.5
	cfg.Min = -20
	cfg.Max = 180
	cfg.Name = "Coolant & Oil"
	cfg.Units = "°C"
	cfg.Type = gauge.Quarter
	cfg.Size = 320
	cfg.Background, _ = gauge.ParseHexColor("#003366")
	cfg.WarningThreshold = &threshold
	cfg.WarningMessage = "OVERHEAT"

	q, err := url.ParseQuery(web.BuildQuery(cfg, true).Encode())
	require.NoError(t, err)
	got, fullscreen, issues := web.ParseQuery(q, gauge.DefaultConfig())
	assert.Empty(t, issues)
	assert.True(t, fullscreen)
	assert.Equal(t, cfg, got)
}

func TestShareURL(t *testing.T) {
	cfg := gauge.DefaultConfig()
	assert.Equal(t, "http://kiosk.local/", web.ShareURL("http://kiosk.local/", cfg, false))
	cfg.Value = 75
	assert.Equal(t, "http://kiosk.local/?fullscreen=true&value=75", web.ShareURL("http://kiosk.local/", cfg, true))
}
