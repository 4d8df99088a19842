package render

import "image/color"

// Kiosk chrome colors. The gauge itself brings its own palette.
var (
	Foreground = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	Muted      = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	Accent     = color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff}
	Alert      = color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff}
	Panel      = color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xff}
)

// Default logical canvas size; scaled to the framebuffer on blit.
const (
	DefaultCanvasWidth  = 1280
	DefaultCanvasHeight = 720
	DefaultFPS          = 30
	defaultTextSize     = 24
)
