package screens_test

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/rook-computer/habdometer/internal/app/screens"
	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/render"
	"github.com/rook-computer/habdometer/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headless(t *testing.T, screen render.Screen) *render.FBRenderer {
	t.Helper()
	r := render.NewFBRenderer()
	r.Headless = true
	r.Width, r.Height = 640, 360
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(func() { _ = r.Stop() })
	require.NoError(t, screen.Start(context.Background()))
	t.Cleanup(func() { _ = screen.Stop() })
	r.SetScreen(screen)
	return r
}

func snapshot(mutate func(*state.Store)) state.State {
	store := state.NewStore(gauge.DefaultConfig())
	if mutate != nil {
		mutate(store)
	}
	return store.Snapshot()
}

func isColor(img image.Image, x, y int, want color.NRGBA) bool {
	got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return got == want
}

func countNot(img image.Image, rect image.Rectangle, bg color.NRGBA) int {
	n := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if !isColor(img, x, y, bg) {
				n++
			}
		}
	}
	return n
}

func TestGaugeScreenDrawsGaugeAndChrome(t *testing.T) {
	r := headless(t, screens.NewGaugeScreen(nil))
	snap := snapshot(nil)
	r.RedrawWithState(snap)

	frame := r.Frame()
	require.NotNil(t, frame)
	bg := snap.Gauge.Background

	assert.True(t, isColor(frame, 400, 5, render.Panel), "title bar")
	assert.True(t, isColor(frame, 2, 350, bg), "background below the title bar")
	// Without a share URL the gauge is centered in the body.
	gaugeArea := image.Rect(200, 100, 440, 340)
	assert.Greater(t, countNot(frame, gaugeArea, bg), 1000)
}

func TestGaugeScreenShowsShareCode(t *testing.T) {
	r := headless(t, screens.NewGaugeScreen(nil))
	snap := snapshot(func(s *state.Store) {
		s.UpdateNetwork(state.NetworkInfo{IP: "10.0.0.5", URL: "http://10.0.0.5/", ShareURL: "http://10.0.0.5/?value=80"})
	})
	r.RedrawWithState(snap)

	frame := r.Frame()
	require.NotNil(t, frame)
	// The QR code sits on a light frame in the right-hand panel.
	assert.True(t, isColor(frame, 362, 110, render.Foreground))
	assert.Greater(t, countNot(frame, image.Rect(366, 100, 586, 320), render.Foreground), 100, "dark modules")
}

func TestFullscreenScreenUsesCanvasBackground(t *testing.T) {
	r := headless(t, screens.NewFullscreenScreen(nil))
	snap := snapshot(func(s *state.Store) {
		s.UpdateGauge(func(c *gauge.Config) { c.Background = color.NRGBA{R: 0x10, G: 0x20, B: 0x40, A: 0xff} })
	})
	r.RedrawWithState(snap)

	frame := r.Frame()
	require.NotNil(t, frame)
	bg := snap.Gauge.Background
	assert.True(t, isColor(frame, 5, 5, bg))
	assert.True(t, isColor(frame, 635, 355, bg))
	// 85% of the 360px height, centered.
	assert.Greater(t, countNot(frame, image.Rect(167, 27, 473, 333), bg), 1000)
	assert.True(t, isColor(frame, 100, 180, bg), "nothing outside the gauge square")
}
