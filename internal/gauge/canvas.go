package gauge

import (
	"image/color"
	"math"
)

// Canvas is the immediate-mode drawing surface a gauge renders onto.
// Angles are radians, measured clockwise from the positive x axis because the
// y axis points down. Arcs always sweep from start toward end.
type Canvas interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height float64)

	// Clear overwrites the whole surface with bg. A zero alpha clears to
	// transparent.
	Clear(bg color.NRGBA)

	StrokeArc(cx, cy, r, start, end, width float64, p Paint)
	StrokeCircle(cx, cy, r, width float64, p Paint)
	FillCircle(cx, cy, r float64, p Paint)
	// FillRing fills the annulus between inner and outer radius.
	FillRing(cx, cy, inner, outer float64, p Paint)
	StrokeLine(x1, y1, x2, y2, width float64, p Paint)
	FillPolygon(pts []Point, p Paint)
	FillRect(x, y, w, h float64, p Paint)
	StrokeRect(x, y, w, h, width float64, p Paint)

	// Text draws s anchored at (x, y) according to style.Align and
	// style.Baseline.
	Text(s string, x, y float64, style TextStyle)
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polar returns the point at distance r and angle a from p.
func (p Point) Polar(r, a float64) Point {
	return Point{X: p.X + r*math.Cos(a), Y: p.Y + r*math.Sin(a)}
}

type PaintKind int

const (
	PaintSolid PaintKind = iota
	PaintLinear
	PaintRadial
)

type Stop struct {
	Offset float64     `json:"offset"`
	Color  color.NRGBA `json:"color"`
}

// Paint is a solid color or a gradient. Linear gradients run from (X0,Y0)
// to (X1,Y1). Radial gradients run from a circle of radius R0 at (X0,Y0) to
// a circle of radius R1 at (X1,Y1), like a canvas radial gradient.
type Paint struct {
	Kind  PaintKind   `json:"kind"`
	Color color.NRGBA `json:"color"`
	X0    float64     `json:"x0,omitempty"`
	Y0    float64     `json:"y0,omitempty"`
	X1    float64     `json:"x1,omitempty"`
	Y1    float64     `json:"y1,omitempty"`
	R0    float64     `json:"r0,omitempty"`
	R1    float64     `json:"r1,omitempty"`
	Stops []Stop      `json:"stops,omitempty"`
}

func Solid(c color.NRGBA) Paint {
	return Paint{Kind: PaintSolid, Color: c}
}

func LinearGradient(x0, y0, x1, y1 float64, stops ...Stop) Paint {
	return Paint{Kind: PaintLinear, X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops}
}

func RadialGradient(x0, y0, r0, x1, y1, r1 float64, stops ...Stop) Paint {
	return Paint{Kind: PaintRadial, X0: x0, Y0: y0, R0: r0, X1: x1, Y1: y1, R1: r1, Stops: stops}
}

// Dominant returns a single representative color: the solid color, or the
// middle stop of a gradient. Backends without gradient support use it.
func (p Paint) Dominant() color.NRGBA {
	if p.Kind == PaintSolid || len(p.Stops) == 0 {
		return p.Color
	}
	return p.Stops[len(p.Stops)/2].Color
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

type Baseline int

const (
	BaselineAlphabetic Baseline = iota
	BaselineMiddle
)

type FontFamily int

const (
	FontSans FontFamily = iota
	FontMono
)

// TextStyle describes how to render text. Size is in pixels.
type TextStyle struct {
	Size     float64
	Bold     bool
	Family   FontFamily
	Color    color.NRGBA
	Align    Align
	Baseline Baseline
}
