package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/rook-computer/habdometer/internal/gauge"
)

// SVGCanvas streams a gauge as an SVG document. Call Close once drawing is
// done to finish the document.
type SVGCanvas struct {
	svg           *svg.SVG
	width, height float64
	gradients     int
}

func NewSVGCanvas(w io.Writer, width, height int, title string) *SVGCanvas {
	c := &SVGCanvas{svg: svg.New(w), width: float64(width), height: float64(height)}
	c.svg.Start(width, height)
	if title != "" {
		c.svg.Title(title)
	}
	return c
}

func (c *SVGCanvas) Close() { c.svg.End() }

func (c *SVGCanvas) Size() (float64, float64) { return c.width, c.height }

// Clear paints a full-size rectangle. The document cannot be rewound, so
// earlier shapes stay underneath.
func (c *SVGCanvas) Clear(bg color.NRGBA) {
	if bg.A == 0 {
		return
	}
	c.svg.Path(rectPath(0, 0, c.width, c.height), c.fillStyle(gauge.Solid(bg), ""))
}

func (c *SVGCanvas) StrokeArc(cx, cy, r, start, end, width float64, p gauge.Paint) {
	if r <= 0 || end <= start || width <= 0 {
		return
	}
	c.svg.Path(arcPath(cx, cy, r, start, end), c.strokeStyle(p, width, "butt"))
}

func (c *SVGCanvas) StrokeCircle(cx, cy, r, width float64, p gauge.Paint) {
	if r <= 0 || width <= 0 {
		return
	}
	c.svg.Path(circlePath(cx, cy, r), c.strokeStyle(p, width, "butt"))
}

func (c *SVGCanvas) FillCircle(cx, cy, r float64, p gauge.Paint) {
	if r <= 0 {
		return
	}
	c.svg.Path(circlePath(cx, cy, r), c.fillStyle(p, ""))
}

func (c *SVGCanvas) FillRing(cx, cy, inner, outer float64, p gauge.Paint) {
	if outer <= 0 || inner >= outer {
		return
	}
	d := circlePath(cx, cy, outer)
	if inner > 0 {
		d += " " + circlePath(cx, cy, inner)
	}
	c.svg.Path(d, c.fillStyle(p, "fill-rule:evenodd"))
}

func (c *SVGCanvas) StrokeLine(x1, y1, x2, y2, width float64, p gauge.Paint) {
	if width <= 0 {
		return
	}
	d := "M" + num(x1) + " " + num(y1) + " L" + num(x2) + " " + num(y2)
	c.svg.Path(d, c.strokeStyle(p, width, "round"))
}

func (c *SVGCanvas) FillPolygon(pts []gauge.Point, p gauge.Paint) {
	if len(pts) < 3 {
		return
	}
	var b strings.Builder
	for i, pt := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(pt.X) + " " + num(pt.Y))
	}
	b.WriteString(" Z")
	c.svg.Path(b.String(), c.fillStyle(p, ""))
}

func (c *SVGCanvas) FillRect(x, y, w, h float64, p gauge.Paint) {
	if w <= 0 || h <= 0 {
		return
	}
	c.svg.Path(rectPath(x, y, w, h), c.fillStyle(p, ""))
}

func (c *SVGCanvas) StrokeRect(x, y, w, h, width float64, p gauge.Paint) {
	if width <= 0 {
		return
	}
	c.svg.Path(rectPath(x, y, w, h), c.strokeStyle(p, width, "butt"))
}

func (c *SVGCanvas) Text(s string, x, y float64, style gauge.TextStyle) {
	if s == "" || style.Size <= 0 {
		return
	}
	attrs := []string{
		"font-size:" + num(style.Size) + "px",
		"fill:" + gauge.HexColor(style.Color),
	}
	if style.Color.A != 0xff {
		attrs = append(attrs, "fill-opacity:"+num(float64(style.Color.A)/255))
	}
	if style.Family == gauge.FontMono {
		attrs = append(attrs, "font-family:'Go Mono',monospace")
	} else {
		attrs = append(attrs, "font-family:'Go',Arial,sans-serif")
	}
	if style.Bold {
		attrs = append(attrs, "font-weight:bold")
	}
	switch style.Align {
	case gauge.AlignCenter:
		attrs = append(attrs, "text-anchor:middle")
	case gauge.AlignRight:
		attrs = append(attrs, "text-anchor:end")
	}
	if style.Baseline == gauge.BaselineMiddle {
		attrs = append(attrs, "dominant-baseline:central")
	}
	c.svg.Text(int(math.Round(x)), int(math.Round(y)), s, strings.Join(attrs, ";"))
}

func (c *SVGCanvas) fillStyle(p gauge.Paint, extra string) string {
	style := "fill:" + c.paint(p) + opacity("fill-opacity", p)
	if extra != "" {
		style += ";" + extra
	}
	return style
}

func (c *SVGCanvas) strokeStyle(p gauge.Paint, width float64, lineCap string) string {
	return "fill:none;stroke:" + c.paint(p) + opacity("stroke-opacity", p) +
		";stroke-width:" + num(width) + ";stroke-linecap:" + lineCap
}

// paint returns a color or a url() reference to a freshly defined gradient.
func (c *SVGCanvas) paint(p gauge.Paint) string {
	if p.Kind == gauge.PaintSolid || len(p.Stops) == 0 {
		return gauge.HexColor(p.Dominant())
	}
	c.gradients++
	id := "g" + strconv.Itoa(c.gradients)
	w := c.svg.Writer

	c.svg.Def()
	if p.Kind == gauge.PaintLinear {
		fmt.Fprintf(w, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`+"\n",
			id, num(p.X0), num(p.Y0), num(p.X1), num(p.Y1))
	} else {
		fmt.Fprintf(w, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" fx="%s" fy="%s" fr="%s" cx="%s" cy="%s" r="%s">`+"\n",
			id, num(p.X0), num(p.Y0), num(p.R0), num(p.X1), num(p.Y1), num(p.R1))
	}
	for _, s := range p.Stops {
		fmt.Fprintf(w, `<stop offset="%s" stop-color="%s" stop-opacity="%s"/>`+"\n",
			num(clampOffset(s.Offset)), gauge.HexColor(s.Color), num(float64(s.Color.A)/255))
	}
	if p.Kind == gauge.PaintLinear {
		fmt.Fprintln(w, "</linearGradient>")
	} else {
		fmt.Fprintln(w, "</radialGradient>")
	}
	c.svg.DefEnd()
	return "url(#" + id + ")"
}

func opacity(prop string, p gauge.Paint) string {
	if p.Kind != gauge.PaintSolid || p.Color.A == 0xff {
		return ""
	}
	return ";" + prop + ":" + num(float64(p.Color.A)/255)
}

func arcPath(cx, cy, r, start, end float64) string {
	sweep := end - start
	if sweep >= 2*math.Pi-1e-9 {
		return circlePath(cx, cy, r)
	}
	p0 := gauge.Point{X: cx, Y: cy}.Polar(r, start)
	p1 := gauge.Point{X: cx, Y: cy}.Polar(r, end)
	large := "0"
	if sweep > math.Pi {
		large = "1"
	}
	return "M" + num(p0.X) + " " + num(p0.Y) +
		" A" + num(r) + " " + num(r) + " 0 " + large + " 1 " + num(p1.X) + " " + num(p1.Y)
}

func circlePath(cx, cy, r float64) string {
	return "M" + num(cx-r) + " " + num(cy) +
		" a" + num(r) + " " + num(r) + " 0 1 0 " + num(2*r) + " 0" +
		" a" + num(r) + " " + num(r) + " 0 1 0 " + num(-2*r) + " 0 Z"
}

func rectPath(x, y, w, h float64) string {
	return "M" + num(x) + " " + num(y) + " h" + num(w) + " v" + num(h) + " h" + num(-w) + " Z"
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
