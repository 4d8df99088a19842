package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/rook-computer/habdometer/internal/gauge"
)

// GGCanvas is a raster gauge.Canvas backed by a gg context. It is reused
// across frames; Clear resets every pixel.
type GGCanvas struct {
	dc    *gg.Context
	fonts fontSources
	// faces are cached per style and size.
	faces map[ggFaceKey]text.Face
	err   error
}

type ggFaceKey struct {
	size   float64
	bold   bool
	family gauge.FontFamily
}

func NewGGCanvas(width, height int) *GGCanvas {
	fonts, err := loadGGFonts()
	return &GGCanvas{
		dc:    gg.NewContext(width, height),
		fonts: fonts,
		faces: make(map[ggFaceKey]text.Face),
		err:   err,
	}
}

func (c *GGCanvas) Size() (float64, float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

// Image returns the rendered surface.
func (c *GGCanvas) Image() image.Image { return c.dc.Image() }

func (c *GGCanvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

// Err reports the first drawing or font error seen since the canvas was
// created. Drawing continues past errors.
func (c *GGCanvas) Err() error { return c.err }

func (c *GGCanvas) Close() error { return c.dc.Close() }

func (c *GGCanvas) Clear(bg color.NRGBA) {
	c.dc.ClearPath()
	if bg.A == 0 {
		c.dc.Clear()
		return
	}
	c.dc.ClearWithColor(toRGBA(bg))
}

func (c *GGCanvas) StrokeArc(cx, cy, r, start, end, width float64, p gauge.Paint) {
	if r <= 0 || end <= start {
		return
	}
	c.dc.ClearPath()
	c.dc.DrawArc(cx, cy, r, start, end)
	c.stroke(width, gg.LineCapButt, p)
}

func (c *GGCanvas) StrokeCircle(cx, cy, r, width float64, p gauge.Paint) {
	if r <= 0 {
		return
	}
	c.dc.ClearPath()
	c.dc.DrawCircle(cx, cy, r)
	c.stroke(width, gg.LineCapButt, p)
}

func (c *GGCanvas) FillCircle(cx, cy, r float64, p gauge.Paint) {
	if r <= 0 {
		return
	}
	c.dc.ClearPath()
	c.dc.DrawCircle(cx, cy, r)
	c.fill(p)
}

func (c *GGCanvas) FillRing(cx, cy, inner, outer float64, p gauge.Paint) {
	if outer <= 0 || inner >= outer {
		return
	}
	c.dc.ClearPath()
	c.dc.DrawCircle(cx, cy, outer)
	if inner > 0 {
		c.dc.NewSubPath()
		c.dc.DrawCircle(cx, cy, inner)
	}
	c.dc.SetFillRule(gg.FillRuleEvenOdd)
	c.fill(p)
	c.dc.SetFillRule(gg.FillRuleNonZero)
}

func (c *GGCanvas) StrokeLine(x1, y1, x2, y2, width float64, p gauge.Paint) {
	c.dc.ClearPath()
	c.dc.MoveTo(x1, y1)
	c.dc.LineTo(x2, y2)
	c.stroke(width, gg.LineCapRound, p)
}

func (c *GGCanvas) FillPolygon(pts []gauge.Point, p gauge.Paint) {
	if len(pts) < 3 {
		return
	}
	c.dc.ClearPath()
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		c.dc.LineTo(pt.X, pt.Y)
	}
	c.dc.ClosePath()
	c.fill(p)
}

func (c *GGCanvas) FillRect(x, y, w, h float64, p gauge.Paint) {
	if w <= 0 || h <= 0 {
		return
	}
	c.dc.ClearPath()
	c.dc.DrawRectangle(x, y, w, h)
	c.fill(p)
}

func (c *GGCanvas) StrokeRect(x, y, w, h, width float64, p gauge.Paint) {
	c.dc.ClearPath()
	c.dc.DrawRectangle(x, y, w, h)
	c.stroke(width, gg.LineCapButt, p)
}

func (c *GGCanvas) Text(s string, x, y float64, style gauge.TextStyle) {
	face := c.face(style)
	if face == nil || s == "" {
		return
	}
	c.dc.SetFont(face)
	c.dc.SetFillBrush(gg.Solid(toRGBA(style.Color)))

	w, _ := c.dc.MeasureString(s)
	switch style.Align {
	case gauge.AlignCenter:
		x -= w / 2
	case gauge.AlignRight:
		x -= w
	}
	if style.Baseline == gauge.BaselineMiddle {
		// Cap height of the bundled faces is close to 0.7em.
		y += style.Size * 0.35
	}
	c.dc.DrawString(s, x, y)
}

func (c *GGCanvas) face(style gauge.TextStyle) text.Face {
	if style.Size <= 0 {
		return nil
	}
	key := ggFaceKey{size: style.Size, bold: style.Bold, family: style.Family}
	if f, ok := c.faces[key]; ok {
		return f
	}
	src := c.fonts.regular
	switch {
	case style.Family == gauge.FontMono && c.fonts.mono != nil:
		src = c.fonts.mono
	case style.Bold && c.fonts.bold != nil:
		src = c.fonts.bold
	}
	if src == nil {
		return nil
	}
	f := src.Face(style.Size)
	c.faces[key] = f
	return f
}

func (c *GGCanvas) fill(p gauge.Paint) {
	c.dc.SetFillBrush(toBrush(p))
	c.track(c.dc.Fill())
}

func (c *GGCanvas) stroke(width float64, lineCap gg.LineCap, p gauge.Paint) {
	if width <= 0 {
		c.dc.ClearPath()
		return
	}
	c.dc.SetLineWidth(width)
	c.dc.SetLineCap(lineCap)
	c.dc.SetStrokeBrush(toBrush(p))
	c.track(c.dc.Stroke())
}

func (c *GGCanvas) track(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

func toBrush(p gauge.Paint) gg.Brush {
	switch p.Kind {
	case gauge.PaintLinear:
		b := gg.NewLinearGradientBrush(p.X0, p.Y0, p.X1, p.Y1)
		for _, s := range p.Stops {
			b.AddColorStop(clampOffset(s.Offset), toRGBA(s.Color))
		}
		return b
	case gauge.PaintRadial:
		b := gg.NewRadialGradientBrush(p.X1, p.Y1, p.R0, p.R1).SetFocus(p.X0, p.Y0)
		for _, s := range p.Stops {
			b.AddColorStop(clampOffset(s.Offset), toRGBA(s.Color))
		}
		return b
	default:
		return gg.Solid(toRGBA(p.Color))
	}
}

// toRGBA converts to gg's straight-alpha float color.
func toRGBA(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func clampOffset(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
