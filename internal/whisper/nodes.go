package whisper

import (
	"math"

	"github.com/faiface/beep"
)

// biquad is a stereo second-order IIR section (RBJ cookbook). Coefficients
// are normalised by a0.
type biquad struct {
	src                beep.Streamer
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

// bandPass uses a linear Q, constant 0 dB peak gain.
func bandPass(src beep.Streamer, sr beep.SampleRate, freq, q float64) *biquad {
	w := 2 * math.Pi * freq / float64(sr)
	alpha := math.Sin(w) / (2 * q)
	a0 := 1 + alpha
	return &biquad{
		src: src,
		b0:  alpha / a0,
		b1:  0,
		b2:  -alpha / a0,
		a1:  -2 * math.Cos(w) / a0,
		a2:  (1 - alpha) / a0,
	}
}

// highPass takes its resonance in dB; 1 dB is the usual default.
func highPass(src beep.Streamer, sr beep.SampleRate, freq, qdB float64) *biquad {
	w := 2 * math.Pi * freq / float64(sr)
	cosw := math.Cos(w)
	alpha := math.Sin(w) / (2 * math.Pow(10, qdB/20))
	a0 := 1 + alpha
	return &biquad{
		src: src,
		b0:  (1 + cosw) / 2 / a0,
		b1:  -(1 + cosw) / a0,
		b2:  (1 + cosw) / 2 / a0,
		a1:  -2 * cosw / a0,
		a2:  (1 - alpha) / a0,
	}
}

func (f *biquad) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.src.Stream(samples)
	for i := range samples[:n] {
		for c := 0; c < 2; c++ {
			x := samples[i][c]
			y := f.b0*x + f.b1*f.x1[c] + f.b2*f.x2[c] - f.a1*f.y1[c] - f.a2*f.y2[c]
			f.x2[c], f.x1[c] = f.x1[c], x
			f.y2[c], f.y1[c] = f.y1[c], y
			samples[i][c] = y
		}
	}
	return n, ok
}

func (f *biquad) Err() error { return f.src.Err() }

// gain multiplies by an automated Param. start is the context time of the
// first frame that passes through.
type gain struct {
	src   beep.Streamer
	param *Param
	t, dt float64
}

func newGain(src beep.Streamer, sr beep.SampleRate, p *Param, start float64) *gain {
	return &gain{src: src, param: p, t: start, dt: 1 / float64(sr)}
}

func (g *gain) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.src.Stream(samples)
	for i := range samples[:n] {
		v := g.param.ValueAt(g.t)
		samples[i][0] *= v
		samples[i][1] *= v
		g.t += g.dt
	}
	return n, ok
}

func (g *gain) Err() error { return g.src.Err() }

// pan places a mono signal with the equal-power law: p=-1 is hard left,
// p=1 hard right and the centre sits at -3 dB on both sides. Stereo input is
// folded to mono first.
type pan struct {
	src    beep.Streamer
	gl, gr float64
}

func newPan(src beep.Streamer, p float64) *pan {
	p = max(-1, min(1, p))
	a := (p + 1) * math.Pi / 4
	return &pan{src: src, gl: math.Cos(a), gr: math.Sin(a)}
}

func (p *pan) Stream(samples [][2]float64) (int, bool) {
	n, ok := p.src.Stream(samples)
	for i := range samples[:n] {
		mono := (samples[i][0] + samples[i][1]) / 2
		samples[i][0], samples[i][1] = mono*p.gl, mono*p.gr
	}
	return n, ok
}

func (p *pan) Err() error { return p.src.Err() }

// square is a naive ±1 square oscillator, high for the first half period.
func square(sr beep.SampleRate, freq float64) beep.Streamer {
	phase := 0.0
	step := freq / float64(sr)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 1.0
			if phase >= 0.5 {
				v = -1
			}
			samples[i][0], samples[i][1] = v, v
			phase += step
			if phase >= 1 {
				phase--
			}
		}
		return len(samples), true
	})
}
