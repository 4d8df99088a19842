package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rook-computer/habdometer/internal/gauge"
)

// Encoder renders standalone gauge images at the configured size.
type Encoder struct {
	Renderer gauge.Renderer
}

// PNG rasterizes cfg and writes it as a PNG.
func (e *Encoder) PNG(w io.Writer, cfg gauge.Config, view gauge.WarningView) (gauge.Geometry, error) {
	cfg, _ = gauge.Normalize(cfg)
	canvas := NewGGCanvas(cfg.Size, cfg.Size)
	defer canvas.Close()

	geom := e.Renderer.Render(canvas, cfg, view)
	if err := canvas.Err(); err != nil {
		return geom, fmt.Errorf("rasterize gauge: %w", err)
	}
	if err := canvas.EncodePNG(w); err != nil {
		return geom, fmt.Errorf("encode png: %w", err)
	}
	return geom, nil
}

// SVG writes cfg as an SVG document.
func (e *Encoder) SVG(w io.Writer, cfg gauge.Config, view gauge.WarningView) (gauge.Geometry, error) {
	cfg, _ = gauge.Normalize(cfg)
	bw := bufio.NewWriter(w)
	canvas := NewSVGCanvas(bw, cfg.Size, cfg.Size, cfg.Name)
	geom := e.Renderer.Render(canvas, cfg, view)
	canvas.Close()
	if err := bw.Flush(); err != nil {
		return geom, fmt.Errorf("write svg: %w", err)
	}
	return geom, nil
}

// Commands records the drawing calls for cfg without rasterizing.
func (e *Encoder) Commands(cfg gauge.Config, view gauge.WarningView) (gauge.Geometry, []gauge.Command) {
	cfg, _ = gauge.Normalize(cfg)
	rec := gauge.NewRecorder(float64(cfg.Size), float64(cfg.Size))
	geom := e.Renderer.Render(rec, cfg, view)
	return geom, rec.Commands
}

func EncodePNG(w io.Writer, cfg gauge.Config) error {
	var e Encoder
	_, err := e.PNG(w, cfg, gauge.WarningView{})
	return err
}

func EncodeSVG(w io.Writer, cfg gauge.Config) error {
	var e Encoder
	_, err := e.SVG(w, cfg, gauge.WarningView{})
	return err
}
