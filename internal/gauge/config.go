package gauge

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Type selects one of the five gauge layouts.
type Type string

const (
	Angular     Type = "angular"
	Semicircle  Type = "semicircle"
	Quarter     Type = "quarter"
	Linear      Type = "linear"
	Speedometer Type = "speedometer"
)

// Types lists every supported layout in display order.
var Types = []Type{Angular, Semicircle, Quarter, Linear, Speedometer}

// ParseType returns the gauge type named by s. Unknown names resolve to
// Angular together with ErrInvalidType.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return Angular, fmt.Errorf("%w: %q", ErrInvalidType, s)
}

const (
	MinSize = 200
	MaxSize = 800
)

// Defaults used when a parameter is absent. They also decide which keys a
// share URL may omit.
const (
	DefaultValue = 50.0
	DefaultMin   = 0.0
	DefaultMax   = 100.0
	DefaultName  = "Habdometer"
	DefaultUnits = "%"
	DefaultType  = Angular
	DefaultSize  = 400
	DefaultBG    = "#1a1a1a"
)

// Config is everything a single render needs. It is rebuilt for every frame.
type Config struct {
	Value      float64     `json:"value"`
	Min        float64     `json:"min"`
	Max        float64     `json:"max"`
	Name       string      `json:"name"`
	Units      string      `json:"units"`
	Type       Type        `json:"type"`
	Size       int         `json:"size"`
	Background color.NRGBA `json:"-"`

	// WarningThreshold is nil when no warning is configured.
	WarningThreshold *float64 `json:"warningThreshold,omitempty"`
	WarningMessage   string   `json:"warningMessage,omitempty"`
}

// DefaultConfig returns the configuration the control page starts with.
func DefaultConfig() Config {
	bg, _ := ParseHexColor(DefaultBG)
	return Config{
		Value:      DefaultValue,
		Min:        DefaultMin,
		Max:        DefaultMax,
		Name:       DefaultName,
		Units:      DefaultUnits,
		Type:       DefaultType,
		Size:       DefaultSize,
		Background: bg,
	}
}

// HasWarning reports whether a threshold is configured.
func (c Config) HasWarning() bool {
	return c.WarningThreshold != nil && !math.IsNaN(*c.WarningThreshold)
}

// ValidRange reports whether Min < Max with both bounds finite.
func (c Config) ValidRange() bool {
	return isFinite(c.Min) && isFinite(c.Max) && c.Min < c.Max
}

// Normalize returns a copy of c that can always be drawn, plus the list of
// problems it corrected. No issue is fatal.
func Normalize(c Config) (Config, Issues) {
	var issues Issues

	if !isFinite(c.Min) {
		issues = append(issues, fmt.Errorf("%w: min %v", ErrInvalidNumber, c.Min))
		c.Min = DefaultMin
	}
	if !isFinite(c.Max) {
		issues = append(issues, fmt.Errorf("%w: max %v", ErrInvalidNumber, c.Max))
		c.Max = DefaultMax
	}
	if !isFinite(c.Value) {
		issues = append(issues, fmt.Errorf("%w: value %v", ErrInvalidNumber, c.Value))
		c.Value = c.Min
	}
	if c.Min >= c.Max {
		issues = append(issues, fmt.Errorf("%w: min %v >= max %v", ErrInvalidRange, c.Min, c.Max))
	} else if c.Value < c.Min || c.Value > c.Max {
		issues = append(issues, fmt.Errorf("%w: value %v outside [%v, %v]", ErrOutOfBounds, c.Value, c.Min, c.Max))
		c.Value = clamp(c.Value, c.Min, c.Max)
	}

	if c.Type == "" {
		c.Type = DefaultType
	} else {
		t, err := ParseType(string(c.Type))
		if err != nil {
			issues = append(issues, err)
		}
		c.Type = t
	}

	if c.Size == 0 {
		c.Size = DefaultSize
	} else if c.Size < MinSize || c.Size > MaxSize {
		issues = append(issues, fmt.Errorf("%w: size %d outside [%d, %d]", ErrOutOfBounds, c.Size, MinSize, MaxSize))
		c.Size = int(clamp(float64(c.Size), MinSize, MaxSize))
	}

	if c.WarningThreshold != nil && !isFinite(*c.WarningThreshold) {
		issues = append(issues, fmt.Errorf("%w: warning threshold", ErrInvalidNumber))
		c.WarningThreshold = nil
	}

	return c, issues
}

// ParseHexColor parses #RRGGBB (the leading # is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: bad hex digit", s)
		}
		rgb[i] = hi<<4 | lo
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}, nil
}

// HexColor formats c as #rrggbb, ignoring alpha.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
