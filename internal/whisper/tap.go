package whisper

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// outputTap sits between a Context's mixer and its sink. Every frame the
// sink pulls is kept in a fixed ring so Context.Level can report what the
// listener is hearing right now, whisper and tap included.
type outputTap struct {
	mix  beep.Streamer
	ring [][2]float64
	head int // next write position
	mu   sync.RWMutex
}

func newOutputTap(mix beep.Streamer, frames int) *outputTap {
	return &outputTap{mix: mix, ring: make([][2]float64, frames)}
}

func (t *outputTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.mix.Stream(samples)
	if n == 0 {
		return n, ok
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range samples[:n] {
		t.ring[t.head] = f
		t.head = (t.head + 1) % len(t.ring)
	}
	return n, ok
}

func (t *outputTap) Err() error { return t.mix.Err() }

// snapshot returns up to the last n frames, oldest first.
func (t *outputTap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.ring) {
		n = len(t.ring)
	}
	out := make([][2]float64, n)
	idx := t.head - n
	if idx < 0 {
		idx += len(t.ring)
	}
	for i := range out {
		out[i] = t.ring[idx]
		idx++
		if idx >= len(t.ring) {
			idx = 0
		}
	}
	return out
}

// level is the mono RMS over the last n frames.
func (t *outputTap) level(n int) float64 {
	samples := t.snapshot(n)
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}
