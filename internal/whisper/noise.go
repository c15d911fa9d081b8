package whisper

import (
	"math"

	"github.com/faiface/beep"
)

// RandomSource yields uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NoiseBuffer is a mono run of lightly pinked white noise.
type NoiseBuffer struct {
	SampleRate beep.SampleRate
	Samples    []float64
}

// NewNoiseBuffer fills floor(durationSec*sampleRate) samples with
// pink[i] = 0.5*(white[i] + 0.97*pink[i-1]), pink[-1] = 0.
func NewNoiseBuffer(durationSec float64, sr beep.SampleRate, rnd RandomSource) *NoiseBuffer {
	n := int(math.Floor(durationSec * float64(sr)))
	if n < 0 {
		n = 0
	}
	data := make([]float64, n)
	prev := 0.0
	for i := range data {
		white := rnd.Float64()*2 - 1
		prev = (white + prev*0.97) * 0.5
		data[i] = prev
	}
	return &NoiseBuffer{SampleRate: sr, Samples: data}
}

// Streamer plays the buffer once, the same mono value on both channels.
// Every call returns an independent reader over the same content.
func (b *NoiseBuffer) Streamer() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(b.Samples) {
			return 0, false
		}
		n := copyMono(samples, b.Samples[pos:])
		pos += n
		return n, true
	})
}

func copyMono(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i][0], dst[i][1] = src[i], src[i]
	}
	return n
}
