package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/habdometer/internal/state"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
// With Headless set it never touches a device and only keeps the last frame.
type FBRenderer struct {
	Device        string
	Width, Height int
	FPS           int
	Headless      bool
	Background    color.Color
	Logger        interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
	// OnFrame runs on the loop goroutine before each redraw.
	OnFrame func(now time.Time)
	Debug   bool

	fbDev   *fb.Device
	faces   *faceCache
	running atomic.Bool

	mu      sync.Mutex // guards canvas, current and frame
	canvas  *image.RGBA
	current Screen
	frame   *image.RGBA
	frames  uint64
}

func NewFBRenderer() *FBRenderer {
	return &FBRenderer{
		Device:     "/dev/fb0",
		Width:      DefaultCanvasWidth,
		Height:     DefaultCanvasHeight,
		FPS:        DefaultFPS,
		Background: color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff},
	}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", r.Width, r.Height)
	}
	if !r.Headless {
		dev, err := fb.Open(r.Device)
		if err != nil {
			return fmt.Errorf("open framebuffer %s: %w", r.Device, err)
		}
		r.fbDev = dev
		if r.Logger != nil {
			bounds := dev.Bounds()
			r.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
		}
	}

	r.mu.Lock()
	r.canvas = image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	r.frame = image.NewRGBA(r.canvas.Bounds())
	r.mu.Unlock()

	faces, err := newFaceCache()
	if err != nil && r.Logger != nil {
		r.Logger.Errorf("fb", "font parse failed, falling back to basicfont: %v", err)
	}
	r.faces = faces

	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

// SetScreen sets the current logical screen to be drawn.
func (r *FBRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

// RedrawWithState draws the current screen and pushes it to the device.
func (r *FBRenderer) RedrawWithState(snap state.State) {
	if !r.running.Load() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.canvas == nil {
		return
	}
	r.FillBackground(r.Background)
	r.current.Draw(r, snap)
	copy(r.frame.Pix, r.canvas.Pix)
	r.frames++
	if r.fbDev != nil {
		blitToFB(r.fbDev, r.canvas)
	}
	if r.Debug && r.Logger != nil {
		r.Logger.Infof("fb", "redraw done, phase=%s", snap.Phase)
	}
}

// RunLoop redraws at FPS until the context is done.
func (r *FBRenderer) RunLoop(ctx context.Context, store *state.Store) {
	fps := r.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if r.OnFrame != nil {
				r.OnFrame(now)
			}
			snap := store.Snapshot()
			r.RedrawWithState(snap)
			if r.Debug && r.Logger != nil && time.Since(lastLog) > time.Second {
				r.Logger.Infof("fb", "heartbeat frame, phase=%s value=%.2f", snap.Phase, snap.Display.Value)
				lastLog = time.Now()
			}
		}
	}
}

// Frame returns a copy of the last completed frame, or nil before the
// first redraw.
func (r *FBRenderer) Frame() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frame == nil || r.frames == 0 {
		return nil
	}
	out := image.NewRGBA(r.frame.Bounds())
	copy(out.Pix, r.frame.Pix)
	return out
}

// Drawer primitives. They run with r.mu held by RedrawWithState.

func (r *FBRenderer) Size() (int, int) { return r.Width, r.Height }

func (r *FBRenderer) FillBackground(c color.Color) {
	if c == nil {
		c = color.Black
	}
	draw.Draw(r.canvas, r.canvas.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func (r *FBRenderer) FillRect(rect image.Rectangle, c color.Color) {
	draw.Draw(r.canvas, rect.Intersect(r.canvas.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Over)
}

func (r *FBRenderer) face(style TextStyle) font.Face {
	if r.faces == nil {
		r.faces, _ = newFaceCache()
	}
	return r.faces.face(style)
}

func (r *FBRenderer) MeasureText(text string, style TextStyle) TextMetrics {
	face := r.face(style)
	m := face.Metrics()
	return TextMetrics{
		Width:      font.MeasureString(face, text).Ceil(),
		Height:     (m.Ascent + m.Descent).Ceil(),
		Ascent:     m.Ascent.Ceil(),
		Descent:    m.Descent.Ceil(),
		LineHeight: m.Height.Ceil(),
	}
}

func (r *FBRenderer) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	metrics := r.MeasureText(text, style)
	switch style.Align {
	case TextAlignCenter:
		x -= metrics.Width / 2
	case TextAlignRight:
		x -= metrics.Width
	}
	fg := style.Color
	if fg == nil {
		fg = Foreground
	}
	drawer := &font.Drawer{
		Dst:  r.canvas,
		Src:  image.NewUniform(fg),
		Face: r.face(style),
		Dot:  fixed.P(x, y+metrics.Ascent),
	}
	drawer.DrawString(text)
	return metrics
}

func (r *FBRenderer) DrawTextCentered(text string, style TextStyle) {
	metrics := r.MeasureText(text, style)
	style.Align = TextAlignCenter
	r.DrawText(text, r.Width/2, (r.Height-metrics.Height)/2, style)
}

func (r *FBRenderer) ImageSize(img image.Image) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *FBRenderer) DrawImage(img image.Image, x, y int, opts ImageOpts) {
	if img == nil {
		return
	}
	op := draw.Over
	if opts.Src {
		op = draw.Src
	}
	b := img.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(r.canvas, dst, img, b.Min, op)
}

func (r *FBRenderer) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil || rect.Empty() {
		return
	}
	dst := fitRect(img.Bounds(), rect, mode)
	xdraw.CatmullRom.Scale(r.canvas, dst, img, img.Bounds(), xdraw.Over, nil)
}

// fitRect places src inside rect according to mode.
func fitRect(src, rect image.Rectangle, mode ScaleMode) image.Rectangle {
	if mode == ScaleModeStretch || src.Empty() {
		return rect
	}
	sx := float64(rect.Dx()) / float64(src.Dx())
	sy := float64(rect.Dy()) / float64(src.Dy())
	scale := sx
	if (mode == ScaleModeFit && sy < sx) || (mode == ScaleModeFill && sy > sx) {
		scale = sy
	}
	w := int(float64(src.Dx()) * scale)
	h := int(float64(src.Dy()) * scale)
	x := rect.Min.X + (rect.Dx()-w)/2
	y := rect.Min.Y + (rect.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// blitToFB scales the canvas onto the framebuffer.
func blitToFB(dev draw.Image, canvas *image.RGBA) {
	xdraw.ApproxBiLinear.Scale(dev, dev.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
}
