package gauge

import (
	"image/color"
	"math"
	"strconv"
)

// ArcSpec is the angular sweep a gauge type occupies.
type ArcSpec struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Sweep returns End - Start.
func (a ArcSpec) Sweep() float64 { return a.End - a.Start }

var arcs = map[Type]ArcSpec{
	Angular:     {Start: 0.75 * math.Pi, End: 2.25 * math.Pi},
	Semicircle:  {Start: math.Pi, End: 2 * math.Pi},
	Quarter:     {Start: math.Pi, End: 1.5 * math.Pi},
	Speedometer: {Start: 0.75 * math.Pi, End: 2.25 * math.Pi},
}

// ArcFor returns the sweep of t. Linear has no sweep and reports false;
// unknown types fall back to the angular sweep.
func ArcFor(t Type) (ArcSpec, bool) {
	if t == Linear {
		return ArcSpec{}, false
	}
	if a, ok := arcs[t]; ok {
		return a, true
	}
	return arcs[Angular], true
}

// ComputePercentage maps value onto [0,1] relative to [min,max]. A zero or
// inverted range, infinite bounds and NaN inputs yield 0.
func ComputePercentage(value, min, max float64) float64 {
	if !isFinite(min) || !isFinite(max) || !(max > min) {
		return 0
	}
	p := (value - min) / (max - min)
	if math.IsInf(max-min, 0) {
		// Finite bounds whose difference overflows.
		p = (value/2 - min/2) / (max/2 - min/2)
	}
	if math.IsNaN(p) {
		return 0
	}
	return clamp(p, 0, 1)
}

// lerp returns the point frac of the way from a to b without forming b-a,
// so it stays finite for any finite bounds.
func lerp(a, b, frac float64) float64 {
	return a*(1-frac) + b*frac
}

// tickStep is the value distance between major ticks.
func tickStep(min, max float64, majors int) float64 {
	n := float64(majors)
	return max/n - min/n
}

// AngleForPercentage interpolates linearly across the sweep.
func AngleForPercentage(arc ArcSpec, p float64) float64 {
	return arc.Start + (arc.End-arc.Start)*p
}

// MinorPerMajor is how many parts each major tick interval is divided into.
const MinorPerMajor = 5

// designSize is the reference surface edge every length below is expressed
// against; lengths are multiplied by min(width, height)/designSize.
const designSize = 400.0

type layout struct {
	majorTicks int
	arcWidth   float64
	arcInset   float64 // distance from the radius to the arc centerline
	needleLen  func(radius float64) float64
	hubRadius  float64
	hubGlyph   string
	textOffset Point // value text position relative to the center
	tickOuter  float64
	tickMajor  float64
	tickMinor  float64
	labelInset float64
}

var layouts = map[Type]layout{
	Angular: {
		majorTicks: 10, arcWidth: 25,
		needleLen: func(r float64) float64 { return r - 35 },
		hubRadius: 25, hubGlyph: "H",
		textOffset: Point{0, 60},
		tickOuter:  10, tickMajor: 30, tickMinor: 20, labelInset: 45,
	},
	Semicircle: {
		majorTicks: 6, arcWidth: 25,
		needleLen:  func(r float64) float64 { return r - 35 },
		hubRadius:  20,
		textOffset: Point{0, 50},
		tickOuter:  10, tickMajor: 30, tickMinor: 20, labelInset: 45,
	},
	Quarter: {
		majorTicks: 4, arcWidth: 30,
		needleLen:  func(r float64) float64 { return r - 40 },
		hubRadius:  25,
		textOffset: Point{-50, 50},
		tickOuter:  10, tickMajor: 32, tickMinor: 22, labelInset: 48,
	},
	Speedometer: {
		majorTicks: 10, arcWidth: 30, arcInset: 15,
		needleLen: func(r float64) float64 { return r * 0.75 },
		hubRadius: 20, hubGlyph: "H",
		textOffset: Point{0, 0},
		tickOuter:  15, tickMajor: 40, tickMinor: 25, labelInset: 55,
	},
	Linear: {
		majorTicks: 10,
		textOffset: Point{0, 60},
	},
}

// Tick is one graduation mark. Minor ticks carry no label.
type Tick struct {
	Major   bool    `json:"major"`
	Value   float64 `json:"value"`
	Label   string  `json:"label,omitempty"`
	Angle   float64 `json:"angle"`
	Inner   Point   `json:"inner"`
	Outer   Point   `json:"outer"`
	LabelAt Point   `json:"labelAt"`
}

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Geometry is the full computed layout of one frame, independent of pixels.
type Geometry struct {
	Type       Type    `json:"type"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scale      float64 `json:"scale"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`

	Center   Point   `json:"center"`
	Radius   float64 `json:"radius"`
	Arc      ArcSpec `json:"arc"`
	ArcWidth float64 `json:"arcWidth"`
	// ArcRadius is the centerline radius of the background and fill arcs.
	ArcRadius float64 `json:"arcRadius"`

	// FillAngle is where the fill arc ends; NeedleAngle may differ from it
	// by the warning jitter.
	FillAngle    float64 `json:"fillAngle"`
	NeedleAngle  float64 `json:"needleAngle"`
	NeedleLength float64 `json:"needleLength"`
	NeedleWidth  float64 `json:"needleWidth"`
	NeedleTip    Point   `json:"needleTip"`
	HubRadius    float64 `json:"hubRadius"`
	HubGlyph     string  `json:"hubGlyph,omitempty"`

	Ticks []Tick `json:"ticks"`

	// Bar and Fill are set for the linear type only.
	Bar  Rect `json:"bar"`
	Fill Rect `json:"fill"`

	FillColor color.NRGBA `json:"fillColor"`
	ValueText string      `json:"valueText"`
	ValueAt   Point       `json:"valueAt"`
	NameAt    Point       `json:"nameAt"`
}

// Compute lays out cfg on a width x height surface. cfg is normalized first,
// so any input produces a drawable geometry.
func Compute(cfg Config, width, height float64) Geometry {
	cfg, _ = Normalize(cfg)
	return compute(cfg, width, height)
}

func compute(cfg Config, width, height float64) Geometry {
	if !(width > 0) || !(height > 0) {
		width, height = float64(cfg.Size), float64(cfg.Size)
	}
	scale := math.Min(width, height) / designSize
	lay := layouts[cfg.Type]
	p := ComputePercentage(cfg.Value, cfg.Min, cfg.Max)

	g := Geometry{
		Type:       cfg.Type,
		Width:      width,
		Height:     height,
		Scale:      scale,
		Value:      cfg.Value,
		Percentage: p,
		Center:     Point{X: width / 2, Y: height / 2},
		FillColor:  HeatColor(p),
		ValueText:  FormatValue(cfg.Value) + cfg.Units,
	}
	g.Radius = math.Min(g.Center.X, g.Center.Y) - 20*scale

	if cfg.Type == Linear {
		computeLinear(&g, cfg, lay, scale)
		return g
	}

	arc, _ := ArcFor(cfg.Type)
	g.Arc = arc
	g.ArcWidth = lay.arcWidth * scale
	g.ArcRadius = g.Radius - lay.arcInset*scale
	g.FillAngle = AngleForPercentage(arc, p)
	g.NeedleAngle = g.FillAngle
	g.NeedleLength = lay.needleLen(g.Radius/scale) * scale
	g.NeedleWidth = math.Max(4, g.Radius/scale*0.02) * scale
	g.NeedleTip = g.Center.Polar(g.NeedleLength, g.NeedleAngle)
	g.HubRadius = lay.hubRadius * scale
	g.HubGlyph = lay.hubGlyph
	g.ValueAt = Point{X: g.Center.X + lay.textOffset.X*scale, Y: g.Center.Y + lay.textOffset.Y*scale}
	g.NameAt = Point{X: g.ValueAt.X, Y: g.ValueAt.Y + 25*scale}
	if cfg.Type == Speedometer {
		g.ValueAt = Point{X: g.Center.X, Y: g.Center.Y + g.Radius*0.3}
		g.NameAt = Point{X: g.Center.X, Y: g.Center.Y + g.Radius*0.55}
	}

	g.Ticks = arcTicks(g.Center, g.Radius, arc, cfg.Min, cfg.Max, lay, scale)
	return g
}

func computeLinear(g *Geometry, cfg Config, lay layout, scale float64) {
	barW := g.Width * 0.8
	barH := 40 * scale
	g.Bar = Rect{X: (g.Width - barW) / 2, Y: g.Height/2 - barH/2, W: barW, H: barH}
	g.Fill = Rect{X: g.Bar.X, Y: g.Bar.Y, W: barW * g.Percentage, H: barH}
	g.NeedleTip = Point{X: g.Bar.X + g.Fill.W, Y: g.Bar.Y + barH/2}
	g.ValueAt = Point{X: g.Width / 2, Y: g.Bar.Y + barH + lay.textOffset.Y*scale}
	g.NameAt = Point{X: g.ValueAt.X, Y: g.ValueAt.Y + 25*scale}

	n := lay.majorTicks * MinorPerMajor
	step := tickStep(cfg.Min, cfg.Max, lay.majorTicks)
	top := g.Bar.Y + barH + 4*scale
	for i := 0; i <= n; i++ {
		frac := float64(i) / float64(n)
		x := g.Bar.X + barW*frac
		t := Tick{
			Major: i%MinorPerMajor == 0,
			Value: lerp(cfg.Min, cfg.Max, frac),
			Inner: Point{X: x, Y: top},
		}
		if t.Major {
			t.Outer = Point{X: x, Y: top + 10*scale}
			t.Label = FormatTick(t.Value, step)
			t.LabelAt = Point{X: x, Y: top + 22*scale}
		} else {
			t.Outer = Point{X: x, Y: top + 5*scale}
		}
		g.Ticks = append(g.Ticks, t)
	}
}

// arcTicks places majorTicks+1 labeled marks and MinorPerMajor-1 minor marks
// inside every major interval.
func arcTicks(center Point, radius float64, arc ArcSpec, min, max float64, lay layout, scale float64) []Tick {
	n := lay.majorTicks * MinorPerMajor
	step := tickStep(min, max, lay.majorTicks)
	ticks := make([]Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		frac := float64(i) / float64(n)
		angle := AngleForPercentage(arc, frac)
		t := Tick{
			Major: i%MinorPerMajor == 0,
			Value: lerp(min, max, frac),
			Angle: angle,
			Outer: center.Polar(radius-lay.tickOuter*scale, angle),
		}
		if t.Major {
			t.Inner = center.Polar(radius-lay.tickMajor*scale, angle)
			t.Label = FormatTick(t.Value, step)
			t.LabelAt = center.Polar(radius-lay.labelInset*scale, angle)
		} else {
			t.Inner = center.Polar(radius-lay.tickMinor*scale, angle)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// MajorTicks returns the number of major intervals t is graduated with.
func MajorTicks(t Type) int {
	if lay, ok := layouts[t]; ok {
		return lay.majorTicks
	}
	return layouts[Angular].majorTicks
}

// FormatValue renders v with at most two decimals and no trailing zeros.
func FormatValue(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatTick renders a tick label with just enough decimals to tell
// neighbouring labels apart.
func FormatTick(v, step float64) string {
	decimals := 0
	step = math.Abs(step)
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
		if decimals > 3 {
			decimals = 3
		}
	}
	if decimals == 0 {
		v = math.Round(v)
	}
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
