package web_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/rook-computer/habdometer/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedFrame struct{ img image.Image }

func (f fixedFrame) Frame() image.Image { return f.img }

func newTestServer(t *testing.T, deps web.APIV1Deps) (*httptest.Server, web.APIV1Deps) {
	t.Helper()
	if deps.Store == nil {
		deps.Store = state.NewStore(gauge.DefaultConfig())
	}
	if deps.Metrics == nil {
		deps.Metrics = web.NewMetrics()
	}
	srv := httptest.NewServer(web.NewHTTPServer(web.ServerConfig{}, deps).Handler())
	t.Cleanup(srv.Close)
	return srv, deps
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestGaugePNG(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})

	res := get(t, srv.URL+"/api/v1/gauge.png?value=30&size=240&type=semicircle")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))

	img, err := png.Decode(res.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 240, 240), img.Bounds())

	// Corners are outside every gauge shape and keep the background.
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.InDelta(t, 0x1a, r>>8, 2)
	assert.InDelta(t, 0x1a, g>>8, 2)
	assert.InDelta(t, 0x1a, b>>8, 2)
}

func TestGaugePNGReportsIssues(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/gauge.png?min=10&max=10")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("X-Gauge-Issues"), "invalid range")
}

func TestGaugeSVG(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/gauge.svg?name=Boost%20%3C1%3E&type=speedometer")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	doc := string(body)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(doc), "<?xml"))
	assert.Contains(t, doc, "<svg")
	assert.Contains(t, doc, "radialGradient")
	assert.Contains(t, doc, "BOOST &lt;1&gt;")
	assert.NotContains(t, doc, "BOOST <1>")
}

func TestGeometryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/geometry?value=80&max=200&type=speedometer")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Geometry gauge.Geometry `json:"geometry"`
		Issues   []string       `json:"issues"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.InDelta(t, 0.4, out.Geometry.Percentage, 1e-9)
	assert.Empty(t, out.Issues)
	assert.Equal(t, gauge.Speedometer, out.Geometry.Type)
}

func TestGeometryEndpointExtremeRange(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/geometry?min=-1e308&max=1e308&value=1e308")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Geometry gauge.Geometry `json:"geometry"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.InDelta(t, 1, out.Geometry.Percentage, 1e-12)
	require.NotEmpty(t, out.Geometry.Ticks)
	for _, tick := range out.Geometry.Ticks {
		assert.NotContains(t, tick.Label, "NaN")
	}
}

func TestCommandsWarningMatchesImage(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})

	warningText := func(query string) bool {
		res := get(t, srv.URL+"/api/v1/commands?"+query)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var out struct {
			Commands []gauge.Command `json:"commands"`
		}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		for _, c := range out.Commands {
			if c.Op == "text" && c.Text == gauge.DefaultWarningMessage {
				return true
			}
		}
		return false
	}

	// The value is clamped to max before the threshold is checked.
	assert.False(t, warningText("value=500&max=100&warningThreshold=150"))
	assert.True(t, warningText("value=90&max=100&warningThreshold=50"))
}

func TestCommandsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/commands?type=linear")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Commands []gauge.Command `json:"commands"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.NotEmpty(t, out.Commands)
	assert.Equal(t, "clear", out.Commands[0].Op)
}

func TestPresetsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/presets")
	var presets []gauge.Preset
	require.NoError(t, json.NewDecoder(res.Body).Decode(&presets))
	assert.Len(t, presets, len(gauge.Presets))
}

func TestConfigGetPut(t *testing.T) {
	srv, deps := newTestServer(t, web.APIV1Deps{})

	res := do(t, http.MethodPut, srv.URL+"/api/v1/config", `{"value":500,"max":200,"type":"quarter","bg":"#000000"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out struct {
		Config map[string]any `json:"config"`
		Issues []string       `json:"issues"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, 200.0, out.Config["value"])
	assert.Len(t, out.Issues, 1)

	snap := deps.Store.Snapshot()
	assert.Equal(t, gauge.Quarter, snap.Gauge.Type)
	assert.Equal(t, gauge.DefaultName, snap.Gauge.Name, "fields missing from the body keep their value")
	assert.Equal(t, color.NRGBA{A: 0xff}, snap.Gauge.Background)

	res = get(t, srv.URL+"/api/v1/config")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestConfigRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})

	res := do(t, http.MethodPut, srv.URL+"/api/v1/config", `{"bg":"red"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, http.MethodPut, srv.URL+"/api/v1/config", `{`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, http.MethodDelete, srv.URL+"/api/v1/config", "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&apiErr))
	assert.Equal(t, "method_not_allowed", apiErr.Error)
}

func TestValueAndFullscreen(t *testing.T) {
	srv, deps := newTestServer(t, web.APIV1Deps{})

	res := do(t, http.MethodPost, srv.URL+"/api/v1/value", `{"value":42}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 42.0, deps.Store.Snapshot().Gauge.Value)

	res = do(t, http.MethodPost, srv.URL+"/api/v1/value", `{}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, http.MethodPost, srv.URL+"/api/v1/fullscreen", `{"fullscreen":true}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, deps.Store.Snapshot().Fullscreen)

	res = get(t, srv.URL+"/api/v1/status")
	var status map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	assert.Equal(t, true, status["fullscreen"])
	assert.Equal(t, 42.0, status["target"])
}

func TestShareEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{PublicURL: "http://kiosk.local:8080"})

	res := get(t, srv.URL+"/api/v1/share?value=80&name=Habdometer")
	var out struct {
		URL           string `json:"url"`
		FullscreenURL string `json:"fullscreenUrl"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, "http://kiosk.local:8080/?value=80", out.URL)
	assert.Equal(t, "http://kiosk.local:8080/?fullscreen=true&value=80", out.FullscreenURL)

	res = get(t, srv.URL+"/api/v1/share.png?value=80&px=128")
	require.Equal(t, http.StatusOK, res.StatusCode)
	img, err := png.Decode(res.Body)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestShareDerivesHost(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/share")
	var out struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, srv.URL+"/", out.URL)
}

func TestScreenEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/api/v1/screen.png")
	assert.Equal(t, http.StatusNotImplemented, res.StatusCode)

	frame := image.NewRGBA(image.Rect(0, 0, 16, 9))
	srv, _ = newTestServer(t, web.APIV1Deps{Screen: fixedFrame{img: frame}})
	res = get(t, srv.URL+"/api/v1/screen.png")
	require.Equal(t, http.StatusOK, res.StatusCode)
	img, err := png.Decode(res.Body)
	require.NoError(t, err)
	assert.Equal(t, frame.Bounds(), img.Bounds())
}

func TestMetricsCountRenders(t *testing.T) {
	srv, deps := newTestServer(t, web.APIV1Deps{})
	deps.Metrics.GaugeFunc("habdometer_value", func() float64 { return 12 })

	get(t, srv.URL+"/api/v1/gauge.png")
	get(t, srv.URL+"/api/v1/gauge.svg")

	res := get(t, srv.URL+"/metrics")
	var buf bytes.Buffer
	_, err := buf.ReadFrom(res.Body)
	require.NoError(t, err)
	text := buf.String()
	assert.Contains(t, text, `habdometer_renders_total{format="png"} 1`)
	assert.Contains(t, text, `habdometer_renders_total{format="svg"} 1`)
	assert.Contains(t, text, "habdometer_value 12")
}

func TestIndexServed(t *testing.T) {
	srv, _ := newTestServer(t, web.APIV1Deps{})
	res := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<title>Habdometer</title>")
}

func TestDevCORS(t *testing.T) {
	deps := web.APIV1Deps{Store: state.NewStore(gauge.DefaultConfig())}
	srv := httptest.NewServer(web.NewHTTPServer(web.ServerConfig{DevMode: true}, deps).Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/config", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "http://localhost:5173", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Gauge-Issues", res.Header.Get("Access-Control-Expose-Headers"))
}
