package whisper

import "math"

// silence is the floor used instead of zero so exponential ramps stay valid.
const silence = 0.0001

// ControlPoint is a gain target reached at Offset seconds into the phrase.
type ControlPoint struct {
	Offset float64
	Gain   float64
}

// Envelope is a piecewise-linear gain curve, strictly ordered by Offset.
type Envelope []ControlPoint

// Phrase is shaped like the syllables of "Re-lax your jaw for me".
var Phrase = Envelope{
	{0.00, 0.0},
	{0.10, 0.8}, // re
	{0.25, 0.2},
	{0.35, 0.9}, // lax
	{0.60, 0.15},
	{0.70, 0.8}, // your
	{0.95, 0.25},
	{1.10, 0.85}, // jaw
	{1.40, 0.3},
	{1.55, 0.8}, // for
	{1.80, 0.25},
	{1.95, 0.95}, // me
	{2.30, 0.0},
}

// Apply schedules the curve on p starting at t0. Offsets past dur are
// clipped to dur and the curve settles back to silence at t0+dur.
func (e Envelope) Apply(p *Param, t0, dur float64) {
	p.CancelScheduledValues(t0)
	p.SetValueAtTime(silence, t0)
	for _, pt := range e {
		p.LinearRampToValueAtTime(pt.Gain, t0+math.Min(pt.Offset, dur))
	}
	p.LinearRampToValueAtTime(silence, t0+dur)
}
