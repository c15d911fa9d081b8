package whisper

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/faiface/beep"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/gentle-checkin/internal/config"
)

type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// counter streams 1, 2, 3, ... on both channels.
func counter(n *float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			*n++
			samples[i][0], samples[i][1] = *n, *n
		}
		return len(samples), true
	})
}

func newOffline(t *testing.T) (*Context, *OfflineSink) {
	t.Helper()
	sink := &OfflineSink{}
	ctx, err := NewContext(config.OutputSampleRate, sink)
	if err != nil {
		t.Fatal(err)
	}
	return ctx, sink
}

func newSynth(ctx *Context) *Synth {
	return New(func() (*Context, error) { return ctx, nil }, rand.New(rand.NewSource(7)), zerolog.Nop())
}

func TestNoiseBufferPinking(t *testing.T) {
	src := &seqSource{vals: []float64{0.9, 0.1, 0.5, 0.75, 0.0}}
	buf := NewNoiseBuffer(0.01, 22050, src)
	if len(buf.Samples) != 220 {
		t.Fatalf("len = %d, want 220", len(buf.Samples))
	}

	check := &seqSource{vals: src.vals}
	prev := 0.0
	for i, got := range buf.Samples {
		white := check.Float64()*2 - 1
		want := 0.5 * (white + 0.97*prev)
		if got != want {
			t.Fatalf("pink[%d] = %v, want %v", i, got, want)
		}
		if got < -1 || got > 1 {
			t.Fatalf("pink[%d] = %v out of range", i, got)
		}
		prev = want
	}
	if buf.Samples[0] != 0.5*(0.9*2-1) {
		t.Errorf("pink[0] = %v", buf.Samples[0])
	}
}

func TestNoiseBufferLength(t *testing.T) {
	for _, d := range []float64{0, 0.5, 1.0 / 3, config.WhisperLoop + config.NoisePadding} {
		buf := NewNoiseBuffer(d, config.NoiseSampleRate, rand.New(rand.NewSource(1)))
		if want := int(math.Floor(d * config.NoiseSampleRate)); len(buf.Samples) != want {
			t.Errorf("len(%v) = %d, want %d", d, len(buf.Samples), want)
		}
	}
}

func TestNoiseStreamerIndependentReaders(t *testing.T) {
	buf := NewNoiseBuffer(0.01, 22050, &seqSource{vals: []float64{0.2, 0.8}})
	a, b := buf.Streamer(), buf.Streamer()
	sa := make([][2]float64, 300)
	sb := make([][2]float64, 10)
	n, ok := a.Stream(sa)
	if n != len(buf.Samples) || !ok {
		t.Fatalf("Stream = %d,%v", n, ok)
	}
	b.Stream(sb)
	for i := range sb {
		if sb[i] != sa[i] || sa[i][0] != sa[i][1] {
			t.Fatalf("frame %d differs: %v vs %v", i, sb[i], sa[i])
		}
	}
	if n, ok := a.Stream(sa); n != 0 || ok {
		t.Errorf("drained stream = %d,%v", n, ok)
	}
}

func TestPhraseIsOrdered(t *testing.T) {
	for i := 1; i < len(Phrase); i++ {
		if Phrase[i].Offset <= Phrase[i-1].Offset {
			t.Fatalf("point %d not after point %d", i, i-1)
		}
	}
	if Phrase[0].Gain != 0 || Phrase[len(Phrase)-1].Gain != 0 {
		t.Error("phrase must start and end silent")
	}
}

func TestEnvelopeValues(t *testing.T) {
	const t0 = 10.0
	p := NewParam(1)
	Phrase.Apply(p, t0, config.WhisperLoop)

	tests := []struct {
		offset, want float64
	}{
		{0.00, 0},
		{0.35, 0.9},
		{1.10, 0.85},
		{1.95, 0.95},
		{2.30, 0},
		{config.WhisperLoop, silence},
	}
	for _, tc := range tests {
		if got := p.ValueAt(t0 + tc.offset); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("gain at +%v = %v, want %v", tc.offset, got, tc.want)
		}
	}
	// midway up the "re" syllable
	if got := p.ValueAt(t0 + 0.05); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("gain at +0.05 = %v, want 0.4", got)
	}
	if got := p.ValueAt(t0 - 1); got != 1 {
		t.Errorf("gain before t0 = %v, want default", got)
	}
}

func TestEnvelopeClippedToDuration(t *testing.T) {
	const t0, dur = 2.0, 1.0
	p := NewParam(1)
	Phrase.Apply(p, t0, dur)
	for _, e := range p.events {
		if e.time > t0+dur {
			t.Fatalf("event at %v past %v", e.time, t0+dur)
		}
	}
	if got := p.ValueAt(t0 + 0.95); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("gain at +0.95 = %v, want 0.25", got)
	}
	if got := p.ValueAt(t0 + dur); got != silence {
		t.Errorf("gain at end = %v, want %v", got, silence)
	}
}

func TestEnvelopeReapplyCancels(t *testing.T) {
	p := NewParam(1)
	Phrase.Apply(p, 0, config.WhisperLoop)
	Phrase.Apply(p, 0, config.WhisperLoop)
	if len(p.events) != len(Phrase)+2 {
		t.Errorf("events = %d, want %d", len(p.events), len(Phrase)+2)
	}
}

func TestParamExponentialRamp(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0.0001, 1)
	p.ExponentialRampToValueAtTime(1, 2)
	if got := p.ValueAt(1.5); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("midpoint = %v, want 0.01", got)
	}
	if got := p.ValueAt(0.5); got != 0 {
		t.Errorf("before first event = %v", got)
	}
	if got := p.ValueAt(3); got != 1 {
		t.Errorf("after last event = %v", got)
	}
}

func TestPlayTiming(t *testing.T) {
	ctx, sink := newOffline(t)
	s := newSynth(ctx)
	if err := s.Play(); err != nil {
		t.Fatal(err)
	}

	sr := float64(config.OutputSampleRate)
	start := int(math.Round(config.PlayLead * sr))
	leftEnd := start + int(math.Round((config.WhisperLoop+config.StopTail)*sr))
	rightEnd := leftEnd + int(math.Round(0.02*sr))

	out := sink.Render(rightEnd + 2000)
	for i := 0; i < start; i++ {
		if out[i] != [2]float64{} {
			t.Fatalf("frame %d before t0 not silent: %v", i, out[i])
		}
	}
	for i := rightEnd; i < len(out); i++ {
		if out[i] != [2]float64{} {
			t.Fatalf("frame %d after stop not silent: %v", i, out[i])
		}
	}

	// "lax" sits around +0.35s
	from := start + int(0.30*sr)
	var energy float64
	for _, f := range out[from : from+int(0.1*sr)] {
		energy += f[0]*f[0] + f[1]*f[1]
	}
	if energy == 0 {
		t.Error("no signal during the phrase")
	}
	if got := ctx.CurrentTime(); math.Abs(got-float64(len(out))/sr) > 1e-9 {
		t.Errorf("CurrentTime = %v", got)
	}
}

func TestRightChannelDelayed(t *testing.T) {
	ctx, sink := newOffline(t)
	if err := newSynth(ctx).Play(); err != nil {
		t.Fatal(err)
	}
	sr := float64(config.OutputSampleRate)
	start := int(math.Round(config.PlayLead * sr))
	delay := int(math.Round(0.02 * sr))
	out := sink.Render(start + delay)

	// only the left chain plays during the first 20ms, so the channel ratio
	// is its pan law
	var l, r float64
	for _, f := range out[start:] {
		l += math.Abs(f[0])
		r += math.Abs(f[1])
	}
	if l == 0 {
		t.Fatal("left chain silent at onset")
	}
	a := (leftChain.pan + 1) * math.Pi / 4
	if want := math.Tan(a); math.Abs(r/l-want) > 1e-6 {
		t.Errorf("onset R/L = %.4f, want %.4f", r/l, want)
	}
}

func TestPanEqualPower(t *testing.T) {
	tests := []struct {
		pan    float64
		wl, wr float64
	}{
		{-1, 1, 0},
		{0, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{1, 0, 1},
		{-0.55, 0.938191, 0.346117},
		{0.55, 0.346117, 0.938191},
		{-3, 1, 0},
	}
	for _, tc := range tests {
		// left 0.5, right 1.5 folds to a mono level of 1
		src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
			for i := range samples {
				samples[i] = [2]float64{0.5, 1.5}
			}
			return len(samples), true
		})
		out := make([][2]float64, 4)
		newPan(src, tc.pan).Stream(out)
		for _, f := range out {
			if math.Abs(f[0]-tc.wl) > 1e-6 || math.Abs(f[1]-tc.wr) > 1e-6 {
				t.Errorf("pan %v: got %v, want [%v %v]", tc.pan, f, tc.wl, tc.wr)
				break
			}
		}
		if l, r := out[0][0], out[0][1]; math.Abs(l*l+r*r-1) > 1e-9 {
			t.Errorf("pan %v: power %v, want 1", tc.pan, l*l+r*r)
		}
	}
}

func TestTapTiming(t *testing.T) {
	ctx, sink := newOffline(t)
	if err := newSynth(ctx).Tap(); err != nil {
		t.Fatal(err)
	}
	sr := float64(config.OutputSampleRate)
	start := int(math.Round(config.TapLead * sr))
	end := start + int(math.Round(tapLength*sr))
	out := sink.Render(end + 500)

	peak, at := 0.0, -1
	for i, f := range out {
		if i < start && f != [2]float64{} {
			t.Fatalf("frame %d before tap not silent", i)
		}
		if i >= end && f != [2]float64{} {
			t.Fatalf("frame %d after tap not silent", i)
		}
		if v := math.Abs(f[0]); v > peak {
			peak, at = v, i
		}
	}
	if peak < 0.3 {
		t.Errorf("tap peak = %v, too quiet", peak)
	}
	// attack tops out 5ms after t0
	if lo, hi := start+int(0.003*sr), start+int(0.007*sr); at < lo || at > hi {
		t.Errorf("tap peak at frame %d, want in [%d, %d]", at, lo, hi)
	}
}

func TestContextOpenedOnce(t *testing.T) {
	ctx, _ := newOffline(t)
	opens := 0
	s := New(func() (*Context, error) {
		opens++
		return ctx, nil
	}, rand.New(rand.NewSource(1)), zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := s.Play(); err != nil {
			t.Fatal(err)
		}
		if err := s.Tap(); err != nil {
			t.Fatal(err)
		}
	}
	if opens != 1 {
		t.Errorf("opened %d times, want 1", opens)
	}
}

func TestContextOpenFailureRetries(t *testing.T) {
	errBlocked := errors.New("blocked")
	ctx, _ := newOffline(t)
	fail := true
	s := New(func() (*Context, error) {
		if fail {
			return nil, errBlocked
		}
		return ctx, nil
	}, rand.New(rand.NewSource(1)), zerolog.Nop())

	if err := s.Play(); !errors.Is(err, errBlocked) {
		t.Fatalf("Play err = %v, want %v", err, errBlocked)
	}
	if err := s.Tap(); !errors.Is(err, errBlocked) {
		t.Fatalf("Tap err = %v, want %v", err, errBlocked)
	}
	fail = false
	if err := s.Play(); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	got, err := s.Context()
	if err != nil || got != ctx {
		t.Errorf("Context() = %v, %v", got, err)
	}
}

func TestOutputTapSnapshotOrder(t *testing.T) {
	var n float64
	src := counter(&n)
	tap := newOutputTap(src, 4)
	buf := make([][2]float64, 6)
	tap.Stream(buf)

	got := tap.snapshot(3)
	want := []float64{4, 5, 6}
	for i := range want {
		if got[i][0] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
	if lvl := tap.level(1); lvl != 6 {
		t.Errorf("level = %v, want 6", lvl)
	}
}

func TestExportWritesWav(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "cycle-*.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := Export(f, rand.New(rand.NewSource(3)), zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	wantData := int64(frames(config.OutputSampleRate, cycleLength)) * 4
	if info.Size() != 44+wantData {
		t.Errorf("size = %d, want %d", info.Size(), 44+wantData)
	}
	header := make([]byte, 4)
	if _, err := f.ReadAt(header, 0); err != nil {
		t.Fatal(err)
	}
	if string(header) != "RIFF" {
		t.Errorf("header = %q", header)
	}
}
