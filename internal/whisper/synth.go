package whisper

import (
	"fmt"
	"sync"

	"github.com/faiface/beep"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/gentle-checkin/internal/config"
)

// chain describes one side of the binaural pair.
type chain struct {
	delay    float64 // seconds
	bandFreq float64
	bandQ    float64
	highFreq float64
	pan      float64
}

var (
	leftChain  = chain{bandFreq: 1800, bandQ: 0.8, highFreq: 400, pan: -0.55}
	rightChain = chain{delay: 0.02, bandFreq: 1700, bandQ: 0.9, highFreq: 380, pan: 0.55}
)

const (
	highPassQ   = 1.0 // dB
	resampleQ   = 4
	tapFreq     = 4000
	tapHighPass = 1500
	tapPeak     = 0.9
	tapAttack   = 0.005
	tapDecay    = 0.035
	tapLength   = 0.04
)

// Synth plays the whisper phrase and the tap click. The audio context is
// opened on first use and reused afterwards; a failed open is retried on the
// next call.
type Synth struct {
	mu   sync.Mutex
	open func() (*Context, error)
	ctx  *Context
	rnd  RandomSource
	log  zerolog.Logger
}

func New(open func() (*Context, error), rnd RandomSource, log zerolog.Logger) *Synth {
	return &Synth{open: open, rnd: rnd, log: log}
}

// Context returns the shared audio context, opening it if needed.
func (s *Synth) Context() (*Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context()
}

// Current returns the context if it has been opened, without opening it.
func (s *Synth) Current() *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Synth) context() (*Context, error) {
	if s.ctx != nil {
		return s.ctx, nil
	}
	ctx, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open audio context: %w", err)
	}
	s.log.Debug().Int("sample_rate", int(ctx.SampleRate())).Msg("audio context opened")
	s.ctx = ctx
	return ctx, nil
}

// Play schedules one whisper phrase and returns without waiting for it.
func (s *Synth) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, err := s.context()
	if err != nil {
		return err
	}
	buf := NewNoiseBuffer(config.WhisperLoop+config.NoisePadding, config.NoiseSampleRate, s.rnd)

	ctx.Schedule(func(sc *Scheduler) {
		t0 := sc.Now() + config.PlayLead
		for _, ch := range []chain{leftChain, rightChain} {
			sc.StartAt(t0, ch.build(ctx.SampleRate(), buf, t0))
		}
		s.log.Debug().
			Float64("t0", t0).
			Int("noise_len", len(buf.Samples)).
			Msg("whisper scheduled")
	})
	return nil
}

func (c chain) build(sr beep.SampleRate, buf *NoiseBuffer, t0 float64) beep.Streamer {
	var src beep.Streamer = beep.Resample(resampleQ, buf.SampleRate, sr, buf.Streamer())
	src = beep.Take(frames(sr, config.WhisperLoop+config.StopTail), src)
	if c.delay > 0 {
		src = beep.Seq(beep.Silence(frames(sr, c.delay)), src)
	}
	src = bandPass(src, sr, c.bandFreq, c.bandQ)
	src = highPass(src, sr, c.highFreq, highPassQ)

	env := NewParam(1)
	Phrase.Apply(env, t0, config.WhisperLoop)
	src = newGain(src, sr, env, t0)

	return newPan(src, c.pan)
}

// Tap schedules a short high click.
func (s *Synth) Tap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, err := s.context()
	if err != nil {
		return err
	}
	sr := ctx.SampleRate()
	ctx.Schedule(func(sc *Scheduler) {
		t0 := sc.Now() + config.TapLead
		env := NewParam(1)
		env.SetValueAtTime(silence, t0)
		env.ExponentialRampToValueAtTime(tapPeak, t0+tapAttack)
		env.ExponentialRampToValueAtTime(silence, t0+tapDecay)

		var src beep.Streamer = beep.Take(frames(sr, tapLength), square(sr, tapFreq))
		src = highPass(src, sr, tapHighPass, highPassQ)
		sc.StartAt(t0, newGain(src, sr, env, t0))
	})
	return nil
}
