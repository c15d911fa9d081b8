package scene

import (
	"image/color"
	"math"

	"github.com/iburimskiy/gentle-checkin/internal/config"
)

var (
	backgroundTop    = color.NRGBA{R: 0x0c, G: 0x0f, B: 0x12, A: 0xff}
	backgroundBottom = color.NRGBA{R: 0x1a, G: 0x22, B: 0x29, A: 0xff}

	rodStops = []Stop{
		{0.0, color.NRGBA{R: 0x9a, G: 0xa3, B: 0xaa, A: 0xff}},
		{0.3, color.NRGBA{R: 0xf3, G: 0xf6, B: 0xf8, A: 0xff}},
		{0.5, color.NRGBA{R: 0x8c, G: 0x94, B: 0x9b, A: 0xff}},
		{0.7, color.NRGBA{R: 0xf3, G: 0xf6, B: 0xf8, A: 0xff}},
		{1.0, color.NRGBA{R: 0x7c, G: 0x85, B: 0x8d, A: 0xff}},
	}
	tipColor  = color.NRGBA{R: 0xe7, G: 0xee, B: 0xf5, A: 0xff}
	handColor = color.NRGBA{R: 0x7f, G: 0xb3, B: 0xc7, A: 0xff}

	wipeStops = []Stop{
		{0.0, color.NRGBA{R: 10, G: 10, B: 10, A: 255}},
		{0.5, color.NRGBA{R: 10, G: 10, B: 10, A: 77}},
		{1.0, color.NRGBA{R: 10, G: 10, B: 10, A: 0}},
	}

	// glove outline in unscaled pixels relative to the hand anchor
	handCurves = []QuadTo{
		{60, -40, 120, -20},
		{180, 0, 220, -10},
		{260, -20, 300, -5},
		{250, 60, 40, 80},
	}
)

// QuadTo is a quadratic Bezier segment with control point (CX,CY).
type QuadTo struct {
	CX, CY, X, Y float64
}

// Probe is the metallic rod. Gradient is in the rod's local frame, where
// the rod spans x in [-Length/2, Length/2] and the tip sits at +Length/2.
type Probe struct {
	X, Y, Angle   float64
	Length, Width float64
	Gradient      LinearGradient
	TipRadius     float64
	TipColor      color.NRGBA
	Blur          float64
}

// Hand is a closed path starting at the local origin.
type Hand struct {
	X, Y, Angle float64
	Color       color.NRGBA
	Curves      []QuadTo
	Blur        float64
}

// Wipe is the soft directional mask used during the last second.
type Wipe struct {
	Progress float64
	MaskX    float64
	Gradient LinearGradient
}

// Frame is everything needed to paint one frame.
type Frame struct {
	Elapsed, Phase        float64
	Width, Height, Scale  float64
	FocusProbe, FocusHand float64
	Background            LinearGradient
	Probe                 Probe
	Hand                  Hand
	Wipe                  *Wipe
}

// Compose lays out the scene for elapsed time t on a w×h surface with
// device scale dpr.
func Compose(t, w, h, dpr float64) Frame {
	tt := Phase(t)
	fp, fh := Focus(tt)
	f := Frame{
		Elapsed:    t,
		Phase:      tt,
		Width:      w,
		Height:     h,
		Scale:      dpr,
		FocusProbe: fp,
		FocusHand:  fh,
		Background: LinearGradient{
			X0: 0, Y0: 0, X1: 0, Y1: h,
			Stops: []Stop{{0, backgroundTop}, {1, backgroundBottom}},
		},
		Probe: layoutProbe(w, h, BlurRadius(fp, config.ProbeBlurScale, dpr)),
		Hand: Hand{
			X:      w * 0.2,
			Y:      h * 0.6,
			Angle:  0.2,
			Color:  handColor,
			Curves: handCurves,
			Blur:   BlurRadius(fh, config.HandBlurScale, dpr),
		},
	}
	if tt >= config.HandFocusEnd {
		f.Wipe = layoutWipe(tt, w)
	}
	return f
}

func layoutProbe(w, h, blur float64) Probe {
	short := math.Min(w, h)
	length := short * 0.7
	width := short * 0.02
	return Probe{
		X:      w * 0.55,
		Y:      h * 0.48,
		Angle:  -0.25,
		Length: length,
		Width:  width,
		Gradient: LinearGradient{
			X0: -length * 0.5, X1: length * 0.5,
			Stops: rodStops,
		},
		TipRadius: width * 0.8,
		TipColor:  tipColor,
		Blur:      blur,
	}
}

func layoutWipe(tt, w float64) *Wipe {
	k := (tt - config.HandFocusEnd) / (config.SceneLoop - config.HandFocusEnd)
	maskX := w * (1 - k)
	return &Wipe{
		Progress: k,
		MaskX:    maskX,
		Gradient: LinearGradient{
			X0: maskX - config.WipeHalfWidth, X1: maskX + config.WipeHalfWidth,
			Stops: wipeStops,
		},
	}
}
