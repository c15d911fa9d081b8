package whisper

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/gentle-checkin/internal/config"
)

// Sink is where a Context's mixed output goes.
type Sink interface {
	Start(sr beep.SampleRate, s beep.Streamer) error
	Lock()
	Unlock()
}

// SpeakerSink plays through the default output device.
type SpeakerSink struct {
	Buffer time.Duration
}

func (s SpeakerSink) Start(sr beep.SampleRate, st beep.Streamer) error {
	if err := speaker.Init(sr, sr.N(s.Buffer)); err != nil {
		return err
	}
	speaker.Play(st)
	return nil
}

func (SpeakerSink) Lock()   { speaker.Lock() }
func (SpeakerSink) Unlock() { speaker.Unlock() }

// OfflineSink renders into memory. Nothing advances until Render or
// Streamer is pulled.
type OfflineSink struct {
	mu   sync.Mutex
	root beep.Streamer
}

func (o *OfflineSink) Start(_ beep.SampleRate, s beep.Streamer) error {
	o.root = s
	return nil
}

func (o *OfflineSink) Lock()   { o.mu.Lock() }
func (o *OfflineSink) Unlock() { o.mu.Unlock() }

// Render pulls n frames of output.
func (o *OfflineSink) Render(n int) [][2]float64 {
	out := make([][2]float64, n)
	o.Streamer().Stream(out)
	return out
}

// Streamer exposes the output as an endless stream.
func (o *OfflineSink) Streamer() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		o.mu.Lock()
		defer o.mu.Unlock()
		return o.root.Stream(samples)
	})
}

// Context owns the output mixer and its sample clock. Graphs are started at
// absolute context times through Schedule.
type Context struct {
	sr    beep.SampleRate
	sink  Sink
	mixer *beep.Mixer
	tap   *outputTap
	clock atomic.Int64
}

// NewContext starts sink with an always-running mixer.
func NewContext(sr beep.SampleRate, sink Sink) (*Context, error) {
	c := &Context{
		sr:    sr,
		sink:  sink,
		mixer: &beep.Mixer{},
	}
	c.tap = newOutputTap(beep.StreamerFunc(c.stream), config.LevelRingSize)
	if err := sink.Start(sr, c.tap); err != nil {
		return nil, fmt.Errorf("start audio sink: %w", err)
	}
	return c, nil
}

// OpenSpeaker creates a Context on the default output device.
func OpenSpeaker() (*Context, error) {
	return NewContext(config.OutputSampleRate, SpeakerSink{Buffer: config.OutputBuffer})
}

func (c *Context) stream(samples [][2]float64) (int, bool) {
	n, _ := c.mixer.Stream(samples)
	c.clock.Add(int64(n))
	return len(samples), true
}

func (c *Context) SampleRate() beep.SampleRate { return c.sr }

// CurrentTime is the context clock in seconds: frames handed to the sink so far.
func (c *Context) CurrentTime() float64 {
	return float64(c.clock.Load()) / float64(c.sr)
}

// Level is the RMS of the most recent n output frames.
func (c *Context) Level(n int) float64 {
	return c.tap.level(n)
}

// Scheduler is handed to Schedule callbacks. Now is fixed for the whole
// callback.
type Scheduler struct {
	c   *Context
	now float64
}

func (s *Scheduler) Now() float64 { return s.now }

// StartAt queues st so its first frame plays at context time at. Times in
// the past start immediately.
func (s *Scheduler) StartAt(at float64, st beep.Streamer) {
	lead := frames(s.c.sr, at-s.now)
	if lead > 0 {
		st = beep.Seq(beep.Silence(lead), st)
	}
	s.c.mixer.Add(st)
}

// Schedule runs build with the sink locked so every start lands on one clock
// reading.
func (c *Context) Schedule(build func(s *Scheduler)) {
	c.sink.Lock()
	defer c.sink.Unlock()
	build(&Scheduler{c: c, now: c.CurrentTime()})
}

// frames converts seconds to a whole number of frames at sr.
func frames(sr beep.SampleRate, sec float64) int {
	if sec <= 0 {
		return 0
	}
	return int(math.Round(sec * float64(sr)))
}
