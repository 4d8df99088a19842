package gauge

import (
	"image/color"
	"math"
)

type heatBand struct {
	upTo     float64
	from, to [3]float64
}

// The ramp is continuous at every band edge and each channel moves in one
// direction inside a band.
var heatBands = [4]heatBand{
	{upTo: 0.25, from: [3]float64{34, 197, 94}, to: [3]float64{134, 255, 64}}, // green ramp
	{upTo: 0.50, from: [3]float64{134, 255, 64}, to: [3]float64{255, 255, 0}}, // green to yellow
	{upTo: 0.75, from: [3]float64{255, 255, 0}, to: [3]float64{255, 155, 0}},  // yellow to orange
	{upTo: 1.00, from: [3]float64{255, 155, 0}, to: [3]float64{255, 0, 0}},    // orange to red
}

// HeatColor maps a percentage in [0,1] onto the green-yellow-orange-red ramp.
// Inputs outside the range are clamped; NaN is treated as 0.
func HeatColor(p float64) color.NRGBA {
	if math.IsNaN(p) {
		p = 0
	}
	p = clamp(p, 0, 1)

	lo := 0.0
	for _, band := range heatBands {
		if p <= band.upTo {
			t := (p - lo) / (band.upTo - lo)
			return color.NRGBA{
				R: channel(band.from[0] + (band.to[0]-band.from[0])*t),
				G: channel(band.from[1] + (band.to[1]-band.from[1])*t),
				B: channel(band.from[2] + (band.to[2]-band.from[2])*t),
				A: 0xFF,
			}
		}
		lo = band.upTo
	}
	return color.NRGBA{R: 255, A: 0xFF}
}

// Lighten moves every channel percent% of the way toward white.
func Lighten(c color.NRGBA, percent float64) color.NRGBA {
	f := clamp(percent, 0, 100) / 100
	return color.NRGBA{
		R: channel(float64(c.R) + (255-float64(c.R))*f),
		G: channel(float64(c.G) + (255-float64(c.G))*f),
		B: channel(float64(c.B) + (255-float64(c.B))*f),
		A: c.A,
	}
}

// Darken scales every channel down by percent%.
func Darken(c color.NRGBA, percent float64) color.NRGBA {
	f := (100 - clamp(percent, 0, 100)) / 100
	return color.NRGBA{
		R: channel(float64(c.R) * f),
		G: channel(float64(c.G) * f),
		B: channel(float64(c.B) * f),
		A: c.A,
	}
}

// WithAlpha returns c with alpha a in [0,1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = channel(clamp(a, 0, 1) * 255)
	return c
}

func channel(v float64) uint8 {
	return uint8(clamp(math.Round(v), 0, 255))
}
