package render_test

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVGCanvasShapes(t *testing.T) {
	var buf bytes.Buffer
	c := render.NewSVGCanvas(&buf, 200, 100, "test")
	c.Clear(color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff})
	c.StrokeArc(100, 50, 40, 0, 3.14159, 10, gauge.Solid(color.NRGBA{R: 0xff, A: 0x80}))
	c.FillRing(100, 50, 10, 20, gauge.LinearGradient(0, 0, 200, 0,
		gauge.Stop{Offset: 0, Color: color.NRGBA{A: 0xff}},
		gauge.Stop{Offset: 1, Color: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	))
	c.Text("a<b", 100, 90, gauge.TextStyle{Size: 12, Align: gauge.AlignCenter, Color: color.NRGBA{A: 0xff}})
	c.Close()

	doc := buf.String()
	assert.Contains(t, doc, `width="200"`)
	assert.Contains(t, doc, "<title>test</title>")
	assert.Contains(t, doc, "fill:#1a1a1a")
	assert.Contains(t, doc, "stroke-opacity:0.5")
	assert.Contains(t, doc, `<linearGradient id="g1" gradientUnits="userSpaceOnUse"`)
	assert.Contains(t, doc, "url(#g1)")
	assert.Contains(t, doc, "fill-rule:evenodd")
	assert.Contains(t, doc, "text-anchor:middle")
	assert.Contains(t, doc, "a&lt;b")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "</svg>"))
}

func TestSVGCanvasSkipsDegenerateShapes(t *testing.T) {
	var buf bytes.Buffer
	c := render.NewSVGCanvas(&buf, 10, 10, "")
	before := buf.Len()
	c.StrokeArc(5, 5, 0, 0, 1, 1, gauge.Solid(color.NRGBA{A: 0xff}))
	c.FillRect(0, 0, 0, 5, gauge.Solid(color.NRGBA{A: 0xff}))
	c.FillPolygon([]gauge.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, gauge.Solid(color.NRGBA{A: 0xff}))
	c.Clear(color.NRGBA{})
	assert.Equal(t, before, buf.Len())
}

func TestEncodeSVGEveryType(t *testing.T) {
	for _, typ := range gauge.Types {
		cfg := gauge.DefaultConfig()
		cfg.Type = typ
		var buf bytes.Buffer
		require.NoError(t, render.EncodeSVG(&buf, cfg))
		assert.Contains(t, buf.String(), `height="400"`, typ)
	}
}

func TestEncoderCommandsMatchRender(t *testing.T) {
	var e render.Encoder
	cfg := gauge.DefaultConfig()
	geom, cmds := e.Commands(cfg, gauge.WarningView{})
	require.NotEmpty(t, cmds)
	assert.Equal(t, "clear", cmds[0].Op)
	assert.Equal(t, gauge.Compute(cfg, 400, 400), geom)
}
