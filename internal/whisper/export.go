package whisper

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/gentle-checkin/internal/config"
)

// cycleLength covers the whisper, its delayed right channel and the tap.
const cycleLength = config.PlayLead + config.WhisperLoop + config.StopTail + 0.05

// Export renders one Play+Tap cycle offline and writes it as 16-bit stereo WAV.
func Export(w io.WriteSeeker, rnd RandomSource, log zerolog.Logger) error {
	sink := &OfflineSink{}
	ctx, err := NewContext(config.OutputSampleRate, sink)
	if err != nil {
		return err
	}
	s := New(func() (*Context, error) { return ctx, nil }, rnd, log)
	if err := s.Play(); err != nil {
		return err
	}
	if err := s.Tap(); err != nil {
		return err
	}

	format := beep.Format{SampleRate: ctx.SampleRate(), NumChannels: 2, Precision: 2}
	n := frames(format.SampleRate, cycleLength)
	if err := wav.Encode(w, beep.Take(n, sink.Streamer()), format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	log.Info().Int("frames", n).Msg("cycle exported")
	return nil
}

// ExportFile writes one cycle to path, seeding the noise with seed.
func ExportFile(path string, seed int64, log zerolog.Logger) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Export(f, rand.New(rand.NewSource(seed)), log.With().Str("path", path).Logger())
}
