package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/habdometer/internal/assets"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// fontSources holds the parsed gauge fonts for the gg text engine. Parsing
// happens once per process; faces are cheap.
type fontSources struct {
	regular, bold, mono *text.FontSource
}

var (
	ggFontsOnce sync.Once
	ggFonts     fontSources
	ggFontsErr  error
)

func loadGGFonts() (fontSources, error) {
	ggFontsOnce.Do(func() {
		var err error
		if ggFonts.regular, err = text.NewFontSource(assets.SansTTF); err != nil {
			ggFontsErr = fmt.Errorf("parse sans font: %w", err)
			return
		}
		if ggFonts.bold, err = text.NewFontSource(assets.SansBoldTTF); err != nil {
			ggFontsErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		if ggFonts.mono, err = text.NewFontSource(assets.MonoTTF); err != nil {
			ggFontsErr = fmt.Errorf("parse mono font: %w", err)
		}
	})
	return ggFonts, ggFontsErr
}

type faceKey struct {
	size int
	bold bool
	mono bool
}

// faceCache hands out x/image font faces for the kiosk chrome: sans text
// through freetype, mono through opentype, basicfont when parsing failed.
type faceCache struct {
	mu    sync.Mutex
	sans  *truetype.Font
	bold  *truetype.Font
	mono  *opentype.Font
	faces map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	c := &faceCache{faces: make(map[faceKey]font.Face)}
	var errs []error
	var err error
	if c.sans, err = truetype.Parse(assets.SansTTF); err != nil {
		errs = append(errs, fmt.Errorf("truetype parse sans: %w", err))
	}
	if c.bold, err = truetype.Parse(assets.SansBoldTTF); err != nil {
		errs = append(errs, fmt.Errorf("truetype parse bold: %w", err))
	}
	if c.mono, err = opentype.Parse(assets.MonoTTF); err != nil {
		errs = append(errs, fmt.Errorf("opentype parse mono: %w", err))
	}
	if len(errs) > 0 {
		return c, errs[0]
	}
	return c, nil
}

func (c *faceCache) face(style TextStyle) font.Face {
	size := style.Size
	if size <= 0 {
		size = defaultTextSize
	}
	key := faceKey{size: size, bold: style.Bold, mono: style.Mono}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.faces[key]; ok {
		return f
	}

	var f font.Face = basicfont.Face7x13
	switch {
	case key.mono && c.mono != nil:
		if of, err := opentype.NewFace(c.mono, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull}); err == nil {
			f = of
		}
	case key.bold && c.bold != nil:
		f = truetype.NewFace(c.bold, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	case c.sans != nil:
		f = truetype.NewFace(c.sans, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	}
	c.faces[key] = f
	return f
}
