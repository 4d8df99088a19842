package gauge

import (
	"image/color"
	"math"
	"strings"
)

// Logger is the subset of the application logger the renderer needs.
type Logger interface {
	Warnf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Warnf(component, format string, args ...interface{}) {}

// Renderer draws gauges onto a Canvas. The zero value is ready to use.
type Renderer struct {
	Logger Logger
}

// Render draws cfg with no warning overlay using a zero Renderer.
func Render(c Canvas, cfg Config) Geometry {
	var r Renderer
	return r.Render(c, cfg, WarningView{})
}

// Render clears c, lays cfg out on the surface size and draws it. The
// returned Geometry is exactly what was drawn, including warning jitter.
func (r *Renderer) Render(c Canvas, cfg Config, view WarningView) Geometry {
	log := r.Logger
	if log == nil {
		log = noopLogger{}
	}
	norm, issues := Normalize(cfg)
	if issues.Has(ErrInvalidRange) {
		log.Warnf("gauge", "invalid range min=%v max=%v, drawing at 0%%", norm.Min, norm.Max)
	}

	w, h := c.Size()
	g := compute(norm, w, h)
	if view.Jitter != 0 && g.Type != Linear {
		g.NeedleAngle += view.Jitter * g.Arc.Sweep()
		g.NeedleTip = g.Center.Polar(g.NeedleLength, g.NeedleAngle)
	}

	c.Clear(norm.Background)
	switch g.Type {
	case Semicircle, Quarter:
		drawPlainArcGauge(c, g, norm)
	case Linear:
		drawLinear(c, g, norm)
	case Speedometer:
		drawSpeedometer(c, g, norm)
	default:
		drawAngular(c, g, norm)
	}
	if view.Visible {
		drawWarningBanner(c, g, view.Message)
	}
	return g
}

var (
	white    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black    = color.NRGBA{A: 0xff}
	ink      = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	inkLight = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	track    = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
)

func gray(v uint8) color.NRGBA { return color.NRGBA{R: v, G: v, B: v, A: 0xff} }

func rgba(r, g, b uint8, a float64) color.NRGBA {
	return WithAlpha(color.NRGBA{R: r, G: g, B: b}, a)
}

func drawAngular(c Canvas, g Geometry, cfg Config) {
	s, cx, cy, r := g.Scale, g.Center.X, g.Center.Y, g.Radius

	c.FillRing(cx, cy, r+10*s, r+20*s, RadialGradient(cx, cy, r+15*s, cx, cy, r+25*s,
		Stop{0, gray(0xe0)}, Stop{0.5, gray(0xc0)}, Stop{1, gray(0xa0)}))
	c.FillCircle(cx, cy, r+5*s, RadialGradient(cx-20*s, cy-20*s, 0, cx, cy, r,
		Stop{0, gray(0xf8)}, Stop{0.7, gray(0xe8)}, Stop{1, gray(0xd0)}))

	c.StrokeArc(cx, cy, g.ArcRadius, g.Arc.Start, g.Arc.End, g.ArcWidth,
		LinearGradient(cx-r, cy, cx+r, cy, Stop{0, gray(0xf0)}, Stop{0.5, gray(0xe8)}, Stop{1, gray(0xf0)}))
	c.StrokeArc(cx, cy, g.ArcRadius-12*s, g.Arc.Start, g.Arc.End, 8*s, Solid(rgba(0, 0, 0, 0.1)))

	if g.Percentage > 0 {
		col := g.FillColor
		c.StrokeArc(cx, cy, g.ArcRadius, g.Arc.Start, g.FillAngle, g.ArcWidth,
			LinearGradient(cx-r, cy-r, cx+r, cy+r,
				Stop{0, Lighten(col, 30)}, Stop{0.3, col}, Stop{0.7, col}, Stop{1, Darken(col, 20)}))
		c.StrokeArc(cx, cy, r+10*s, g.Arc.Start, g.FillAngle, 4*s, Solid(rgba(255, 255, 255, 0.6)))
	}

	drawTicks(c, g, tickStyle{major: ink, minor: gray(0x99), label: ink, majorWidth: 3, minorWidth: 1, labelSize: 14})
	drawNeedle(c, g)
	drawCenterHub(c, g)
	drawLabelText(c, g, cfg.Name, labelStyle{value: black, name: inkLight, valueSize: 28, shadow: true})
}

// drawPlainArcGauge is the flat style shared by the semicircle and quarter
// layouts: grey track, heat colored fill, dark hub.
func drawPlainArcGauge(c Canvas, g Geometry, cfg Config) {
	cx, cy := g.Center.X, g.Center.Y
	c.StrokeArc(cx, cy, g.ArcRadius, g.Arc.Start, g.Arc.End, g.ArcWidth, Solid(track))
	if g.Percentage > 0 {
		c.StrokeArc(cx, cy, g.ArcRadius, g.Arc.Start, g.FillAngle, g.ArcWidth, Solid(g.FillColor))
	}
	drawTicks(c, g, tickStyle{major: ink, minor: gray(0x99), label: ink, majorWidth: 2, minorWidth: 1, labelSize: 12})
	drawNeedle(c, g)
	c.FillCircle(cx, cy, g.HubRadius, Solid(ink))
	drawLabelText(c, g, cfg.Name, labelStyle{value: ink, name: inkLight, valueSize: 24})
}

func drawLinear(c Canvas, g Geometry, cfg Config) {
	s := g.Scale
	c.FillRect(g.Bar.X, g.Bar.Y, g.Bar.W, g.Bar.H, Solid(track))
	if g.Fill.W > 0 {
		c.FillRect(g.Fill.X, g.Fill.Y, g.Fill.W, g.Fill.H, Solid(g.FillColor))
	}
	c.StrokeRect(g.Bar.X, g.Bar.Y, g.Bar.W, g.Bar.H, 2*s, Solid(ink))
	drawTicks(c, g, tickStyle{major: ink, minor: gray(0x99), label: ink, majorWidth: 2, minorWidth: 1, labelSize: 12})
	drawLabelText(c, g, cfg.Name, labelStyle{value: ink, name: inkLight, valueSize: 24})
}

func drawSpeedometer(c Canvas, g Geometry, cfg Config) {
	s, cx, cy, r := g.Scale, g.Center.X, g.Center.Y, g.Radius

	drawChromeRing(c, g.Center, r+4*s, r+16*s, s)
	drawCarFace(c, g.Center, r, s)

	c.StrokeArc(cx, cy, g.ArcRadius, g.Arc.Start, g.Arc.End, g.ArcWidth,
		LinearGradient(cx-r, cy, cx+r, cy, Stop{0, gray(0x1a)}, Stop{0.5, gray(0x0a)}, Stop{1, gray(0x1a)}))
	c.StrokeArc(cx, cy, r-25*s, g.Arc.Start, g.Arc.End, 8*s, Solid(rgba(0, 0, 0, 0.6)))

	if g.Percentage > 0 {
		col := g.FillColor
		c.StrokeArc(cx, cy, g.ArcRadius, g.Arc.Start, g.FillAngle, g.ArcWidth,
			LinearGradient(cx-r, cy-r, cx+r, cy+r,
				Stop{0, Lighten(col, 40)}, Stop{0.2, Lighten(col, 20)}, Stop{0.5, col},
				Stop{0.8, Darken(col, 20)}, Stop{1, Darken(col, 40)}))
		c.StrokeArc(cx, cy, r-5*s, g.Arc.Start, g.FillAngle, 3*s, Solid(rgba(255, 255, 255, 0.8)))
	}

	drawTicks(c, g, tickStyle{
		major: gray(0xee), minor: rgba(255, 255, 255, 0.6), label: white, glow: rgba(255, 255, 255, 0.2),
		majorWidth: 4, minorWidth: 2, labelSize: 16,
	})
	drawNeedle(c, g)
	drawCenterHub(c, g)
	drawDigitalDisplay(c, g)
	if cfg.Name != "" {
		c.Text(strings.ToUpper(cfg.Name), g.NameAt.X, g.NameAt.Y, TextStyle{
			Size: 18 * s, Bold: true, Color: gray(0x99), Align: AlignCenter, Baseline: BaselineMiddle,
		})
	}
}

func drawChromeRing(c Canvas, center Point, inner, outer, s float64) {
	c.FillRing(center.X, center.Y, inner, outer, RadialGradient(center.X, center.Y, inner, center.X, center.Y, outer,
		Stop{0, gray(0xf0)}, Stop{0.3, gray(0xe0)}, Stop{0.6, gray(0xc0)}, Stop{0.8, gray(0xa0)}, Stop{1, gray(0x80)}))
	c.FillRing(center.X, center.Y, inner, outer, LinearGradient(center.X-outer, center.Y-outer, center.X+outer, center.Y+outer,
		Stop{0, rgba(255, 255, 255, 0.8)}, Stop{0.5, rgba(255, 255, 255, 0.2)}, Stop{1, rgba(255, 255, 255, 0.1)}))
	for i := 0; i < 3; i++ {
		c.StrokeArc(center.X-3*s, center.Y-3*s, outer-float64(i)*2*s, 0.2*math.Pi, 0.8*math.Pi, 2*s,
			Solid(rgba(255, 255, 255, 0.4-float64(i)*0.1)))
	}
}

func drawCarFace(c Canvas, center Point, r, s float64) {
	c.FillCircle(center.X, center.Y, r, RadialGradient(center.X, center.Y, 0, center.X, center.Y, r,
		Stop{0, gray(0x2a)}, Stop{0.7, gray(0x1a)}, Stop{1, gray(0x0a)}))
	texture := rgba(0x33, 0x33, 0x33, 0.3)
	for i := 0; i < 20; i++ {
		a := float64(i) / 20 * 2 * math.Pi
		p1 := center.Polar(r*0.3, a)
		p2 := center.Polar(r*0.9, a)
		c.StrokeLine(p1.X, p1.Y, p2.X, p2.Y, s, Solid(texture))
	}
}

type tickStyle struct {
	major, minor, label, glow color.NRGBA
	majorWidth, minorWidth    float64
	labelSize                 float64
}

// drawTicks strokes every tick in g and labels the major ones.
func drawTicks(c Canvas, g Geometry, st tickStyle) {
	s := g.Scale
	for _, t := range g.Ticks {
		if !t.Major {
			c.StrokeLine(t.Inner.X, t.Inner.Y, t.Outer.X, t.Outer.Y, st.minorWidth*s, Solid(st.minor))
			continue
		}
		if st.glow.A != 0 {
			c.StrokeLine(t.Inner.X, t.Inner.Y, t.Outer.X, t.Outer.Y, 2*st.majorWidth*s, Solid(st.glow))
		}
		c.StrokeLine(t.Inner.X, t.Inner.Y, t.Outer.X, t.Outer.Y, st.majorWidth*s, Solid(st.major))
		c.Text(t.Label, t.LabelAt.X, t.LabelAt.Y, TextStyle{
			Size: st.labelSize * s, Bold: true, Color: st.label, Align: AlignCenter, Baseline: BaselineMiddle,
		})
	}
}

// needleShape returns the needle outline in local coordinates, the x axis
// pointing along the needle.
func needleShape(g Geometry) []Point {
	s, l := g.Scale, g.NeedleLength
	if g.Type == Speedometer {
		w := g.NeedleWidth
		return []Point{{-2 * w, -w}, {l * 0.8, -w * 0.5}, {l, 0}, {l * 0.8, w * 0.5}, {-2 * w, w}}
	}
	return []Point{{-15 * s, -3 * s}, {l - 10*s, -2 * s}, {l, -s}, {l, s}, {l - 10*s, 2 * s}, {-15 * s, 3 * s}}
}

func place(center Point, angle float64, local []Point, offset Point) []Point {
	sin, cos := math.Sincos(angle)
	out := make([]Point, len(local))
	for i, p := range local {
		out[i] = Point{
			X: center.X + offset.X + p.X*cos - p.Y*sin,
			Y: center.Y + offset.Y + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// drawNeedle draws the pointer from the center toward NeedleTip with a drop
// shadow and a round cap on the tip.
func drawNeedle(c Canvas, g Geometry) {
	s := g.Scale
	shape := needleShape(g)
	shadow := Point{2 * s, 2 * s}
	tipR, tipRing := 3*s, needleRed[1]
	stops := []Stop{{0, needleRed[0]}, {0.3, needleRed[1]}, {0.7, needleRed[2]}, {1, needleRed[3]}}
	if g.Type == Speedometer {
		shadow = Point{3 * s, 3 * s}
		tipR, tipRing = g.NeedleWidth*0.8, color.NRGBA{R: 0xff, A: 0xff}
	}

	// The body gradient runs across the needle, perpendicular to its axis.
	across := g.Center.Polar(g.NeedleWidth, g.NeedleAngle+math.Pi/2)
	back := g.Center.Polar(g.NeedleWidth, g.NeedleAngle-math.Pi/2)
	body := LinearGradient(back.X, back.Y, across.X, across.Y, stops...)

	c.FillPolygon(place(g.Center, g.NeedleAngle, shape, shadow), Solid(rgba(0, 0, 0, 0.35)))
	c.FillPolygon(place(g.Center, g.NeedleAngle, shape, Point{}), body)

	tip := g.NeedleTip
	c.FillCircle(tip.X, tip.Y, tipR, Solid(white))
	c.StrokeCircle(tip.X, tip.Y, tipR, math.Max(1, 2*s), Solid(tipRing))
	if g.Type == Speedometer {
		c.StrokeCircle(tip.X, tip.Y, g.NeedleWidth*1.2, 4*s, Solid(rgba(255, 0, 0, 0.3)))
	}
}

var needleRed = [4]color.NRGBA{
	{R: 0xff, G: 0x44, B: 0x44, A: 0xff},
	{R: 0xcc, A: 0xff},
	{R: 0x99, A: 0xff},
	{R: 0x66, A: 0xff},
}

// drawCenterHub draws the metallic hub over the needle root, with the hub
// glyph centered on it when the layout has one.
func drawCenterHub(c Canvas, g Geometry) {
	s, cx, cy, hr := g.Scale, g.Center.X, g.Center.Y, g.HubRadius
	c.FillCircle(cx+2*s, cy+2*s, hr, Solid(rgba(0, 0, 0, 0.3)))
	c.FillCircle(cx, cy, hr, RadialGradient(cx-5*s, cy-5*s, 0, cx, cy, hr,
		Stop{0, white}, Stop{0.3, gray(0xe0)}, Stop{0.7, gray(0xc0)}, Stop{1, gray(0xa0)}))
	c.StrokeCircle(cx, cy, hr, 2*s, Solid(inkLight))
	c.FillCircle(cx, cy, hr-8*s, Solid(gray(0x1a)))
	if g.HubGlyph != "" {
		c.Text(g.HubGlyph, cx, cy, TextStyle{Size: 16 * s, Bold: true, Color: white, Align: AlignCenter, Baseline: BaselineMiddle})
	} else {
		c.FillCircle(cx, cy, 3*s, Solid(white))
	}
}

type labelStyle struct {
	value, name color.NRGBA
	valueSize   float64
	shadow      bool
}

// drawLabelText writes the value with its units and the gauge name below it.
func drawLabelText(c Canvas, g Geometry, name string, st labelStyle) {
	s := g.Scale
	x, y := g.ValueAt.X, g.ValueAt.Y
	valueStyle := TextStyle{Size: st.valueSize * s, Bold: true, Color: st.value, Align: AlignCenter}
	if st.shadow {
		shadow := valueStyle
		shadow.Color = rgba(0, 0, 0, 0.3)
		c.Text(g.ValueText, x+2*s, y+2*s, shadow)
	}
	c.Text(g.ValueText, x, y, valueStyle)
	if name != "" {
		c.Text(name, g.NameAt.X, g.NameAt.Y, TextStyle{Size: 16 * s, Color: st.name, Align: AlignCenter})
	}
}

func drawDigitalDisplay(c Canvas, g Geometry) {
	s := g.Scale
	w, h := 80*s, 25*s
	x, y := g.ValueAt.X-w/2, g.ValueAt.Y-h/2
	c.FillRect(x, y, w, h, Solid(black))
	c.StrokeRect(x, y, w, h, 2*s, Solid(ink))
	c.Text(g.ValueText, g.ValueAt.X, g.ValueAt.Y, TextStyle{
		Size: 14 * s, Bold: true, Family: FontMono, Color: color.NRGBA{G: 0xff, A: 0xff},
		Align: AlignCenter, Baseline: BaselineMiddle,
	})
}

// drawWarningBanner overlays message across the top of the surface.
func drawWarningBanner(c Canvas, g Geometry, message string) {
	s := g.Scale
	if message == "" {
		message = DefaultWarningMessage
	}
	w, h := g.Width*0.8, 36*s
	x, y := (g.Width-w)/2, 10*s
	c.FillRect(x, y, w, h, Solid(rgba(0xdc, 0x26, 0x26, 0.9)))
	c.StrokeRect(x, y, w, h, 2*s, Solid(white))
	c.Text(message, g.Width/2, y+h/2, TextStyle{
		Size: 18 * s, Bold: true, Color: white, Align: AlignCenter, Baseline: BaselineMiddle,
	})
}
