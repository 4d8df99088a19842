package screens

import (
	"context"
	"image"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/render"
	"github.com/rook-computer/habdometer/internal/render/layout"
	"github.com/rook-computer/habdometer/internal/state"
)

const (
	titleBarPx  = 64
	sharePanelW = 280
	qrPx        = 220
	paddingPx   = 24
)

// gaugeView renders the gauge onto a surface it owns and hands the pixels
// to the drawer. The surface is rebuilt only when its side changes.
type gaugeView struct {
	renderer gauge.Renderer
	surface  *render.GGCanvas
	side     int
}

func (v *gaugeView) draw(d render.Drawer, rect image.Rectangle, st state.State) gauge.Geometry {
	side := rect.Dx()
	if side <= 0 {
		return gauge.Geometry{}
	}
	if v.surface == nil || v.side != side {
		if v.surface != nil {
			_ = v.surface.Close()
		}
		v.surface = render.NewGGCanvas(side, side)
		v.side = side
	}
	geom := v.renderer.Render(v.surface, frameConfig(st.Gauge, st.Display.Value), st.Display.Warning)
	d.DrawImage(v.surface.Image(), rect.Min.X, rect.Min.Y, render.ImageOpts{Src: true})
	return geom
}

func (v *gaugeView) close() {
	if v.surface != nil {
		_ = v.surface.Close()
		v.surface = nil
	}
}

// GaugeScreen is the normal kiosk view: a title bar, the gauge at its
// configured size and a QR code of the share link.
type GaugeScreen struct {
	Logger Logger

	view gaugeView
	qr   render.QRCache
}

func NewGaugeScreen(logger Logger) *GaugeScreen {
	s := &GaugeScreen{Logger: logger}
	s.view.renderer.Logger = gaugeLogger(logger)
	return s
}

func (s *GaugeScreen) Start(ctx context.Context) error { return nil }

func (s *GaugeScreen) Stop() error {
	s.view.close()
	return nil
}

func (s *GaugeScreen) Draw(d render.Drawer, st state.State) {
	w, h := d.Size()
	full := image.Rect(0, 0, w, h)
	d.FillBackground(st.Gauge.Background)

	title, body := layout.SplitHorizontal(full, titleBarPx)
	d.FillRect(title, render.Panel)
	d.DrawText("Habdometer", paddingPx, title.Min.Y+16, render.TextStyle{Size: 28, Bold: true, Color: render.Foreground})
	s.drawStatus(d, title, st)

	area := layout.Inset(body, paddingPx)
	if st.Network.ShareURL != "" {
		var panel image.Rectangle
		area, panel = layout.SplitVertical(area, area.Dx()-sharePanelW)
		s.drawShare(d, panel, st.Network.ShareURL)
	}
	s.view.draw(d, layout.CenterSquare(area, st.Gauge.Size), st)
}

func (s *GaugeScreen) drawStatus(d render.Drawer, title image.Rectangle, st state.State) {
	text := st.Phase.String()
	color := render.Muted
	if st.Source.Name != "" {
		text = st.Source.Name
	}
	if st.Source.Err != "" {
		text = st.Source.Name + ": " + st.Source.Err
		color = render.Alert
	}
	d.DrawText(text, title.Max.X-paddingPx, title.Min.Y+22, render.TextStyle{Size: 18, Color: color, Align: render.TextAlignRight})
}

func (s *GaugeScreen) drawShare(d render.Drawer, panel image.Rectangle, url string) {
	img, err := s.qr.Image(url, qrPx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Errorf("screen", "qr code failed: %v", err)
		}
		return
	}
	top, bottom := layout.SplitHorizontal(panel, qrPx+paddingPx)
	box := layout.CenterSquare(top, qrPx)
	d.FillRect(box.Inset(-8), render.Foreground)
	d.DrawImageInRect(img, box, render.ScaleModeFit)

	cx := bottom.Min.X + bottom.Dx()/2
	m := d.DrawText("scan to open", cx, bottom.Min.Y, render.TextStyle{Size: 18, Color: render.Muted, Align: render.TextAlignCenter})
	d.DrawText(url, cx, bottom.Min.Y+m.LineHeight+4, render.TextStyle{Size: 14, Mono: true, Color: render.Muted, Align: render.TextAlignCenter})
}

// FullscreenScreen shows only the gauge, sized to 85% of the shorter side.
type FullscreenScreen struct {
	view gaugeView
}

func NewFullscreenScreen(logger Logger) *FullscreenScreen {
	s := &FullscreenScreen{}
	s.view.renderer.Logger = gaugeLogger(logger)
	return s
}

func (s *FullscreenScreen) Start(ctx context.Context) error { return nil }

func (s *FullscreenScreen) Stop() error {
	s.view.close()
	return nil
}

func (s *FullscreenScreen) Draw(d render.Drawer, st state.State) {
	w, h := d.Size()
	full := image.Rect(0, 0, w, h)
	d.FillBackground(st.Gauge.Background)
	s.view.draw(d, layout.FullscreenSquare(full), st)
}
