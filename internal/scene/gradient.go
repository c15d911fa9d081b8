package scene

import (
	"image/color"
	"math"
)

// Stop is a colour stop at Offset in [0,1] along a gradient axis.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// LinearGradient runs from (X0,Y0) to (X1,Y1). Colours are clamped to the
// first and last stop outside the axis, the way a canvas gradient pads.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []Stop
}

// Point returns the position of stop i in surface coordinates.
func (g LinearGradient) Point(i int) (x, y float64) {
	o := g.Stops[i].Offset
	return g.X0 + (g.X1-g.X0)*o, g.Y0 + (g.Y1-g.Y0)*o
}

// At projects (x,y) onto the axis and returns the colour there.
func (g LinearGradient) At(x, y float64) color.NRGBA {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return g.ColorAt(0)
	}
	return g.ColorAt(((x-g.X0)*dx + (y-g.Y0)*dy) / l2)
}

// ColorAt interpolates the stops at axis position pos.
func (g LinearGradient) ColorAt(pos float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}
	if pos <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if pos <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return lerpColor(a.Color, b.Color, (pos-a.Offset)/span)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}

func lerpColor(a, b color.NRGBA, k float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*k))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
