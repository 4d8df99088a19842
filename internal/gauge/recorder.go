package gauge

import "image/color"

// Command is one recorded drawing call. Args holds lengths and coordinates
// only, so every Arg scales with the surface; angles are kept apart.
type Command struct {
	Op     string     `json:"op"`
	Args   []float64  `json:"args,omitempty"`
	Angles []float64  `json:"angles,omitempty"`
	Points []Point    `json:"points,omitempty"`
	Paint  *Paint     `json:"paint,omitempty"`
	Text   string     `json:"text,omitempty"`
	Style  *TextStyle `json:"style,omitempty"`
}

// Recorder is a Canvas that keeps the calls made to it instead of drawing.
type Recorder struct {
	Width, Height float64
	Commands      []Command
}

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

// Clear drops everything recorded so far, like a raster surface would.
func (r *Recorder) Clear(bg color.NRGBA) {
	r.Commands = r.Commands[:0]
	p := Solid(bg)
	r.add(Command{Op: "clear", Args: []float64{0, 0, r.Width, r.Height}, Paint: &p})
}

func (r *Recorder) StrokeArc(cx, cy, radius, start, end, width float64, p Paint) {
	r.add(Command{Op: "strokeArc", Args: []float64{cx, cy, radius, width}, Angles: []float64{start, end}, Paint: &p})
}

func (r *Recorder) StrokeCircle(cx, cy, radius, width float64, p Paint) {
	r.add(Command{Op: "strokeCircle", Args: []float64{cx, cy, radius, width}, Paint: &p})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, p Paint) {
	r.add(Command{Op: "fillCircle", Args: []float64{cx, cy, radius}, Paint: &p})
}

func (r *Recorder) FillRing(cx, cy, inner, outer float64, p Paint) {
	r.add(Command{Op: "fillRing", Args: []float64{cx, cy, inner, outer}, Paint: &p})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float64, p Paint) {
	r.add(Command{Op: "strokeLine", Args: []float64{x1, y1, x2, y2, width}, Paint: &p})
}

func (r *Recorder) FillPolygon(pts []Point, p Paint) {
	r.add(Command{Op: "fillPolygon", Points: append([]Point(nil), pts...), Paint: &p})
}

func (r *Recorder) FillRect(x, y, w, h float64, p Paint) {
	r.add(Command{Op: "fillRect", Args: []float64{x, y, w, h}, Paint: &p})
}

func (r *Recorder) StrokeRect(x, y, w, h, width float64, p Paint) {
	r.add(Command{Op: "strokeRect", Args: []float64{x, y, w, h, width}, Paint: &p})
}

func (r *Recorder) Text(s string, x, y float64, style TextStyle) {
	r.add(Command{Op: "text", Args: []float64{x, y}, Text: s, Style: &style})
}

func (r *Recorder) add(c Command) {
	if c.Paint != nil && len(c.Paint.Stops) > 0 {
		stops := append([]Stop(nil), c.Paint.Stops...)
		c.Paint.Stops = stops
	}
	r.Commands = append(r.Commands, c)
}

// Ops returns the operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		ops[i] = c.Op
	}
	return ops
}
