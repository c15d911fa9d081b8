package main

import (
	"errors"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/gentle-checkin/internal/config"
	"github.com/iburimskiy/gentle-checkin/internal/game"
	"github.com/iburimskiy/gentle-checkin/internal/loop"
	"github.com/iburimskiy/gentle-checkin/internal/whisper"
)

func main() {
	verbose := flag.Bool("v", false, "debug logging")
	seed := flag.Int64("seed", 0, "noise seed (0 picks one from the clock)")
	export := flag.String("export", "", "render one cycle to this WAV file and exit")
	width := flag.Int("width", config.WindowWidth, "initial window width")
	height := flag.Int("height", config.WindowHeight, "initial window height")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if *export != "" {
		if err := whisper.ExportFile(*export, *seed, log); err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		return
	}

	synth := whisper.New(whisper.OpenSpeaker, rand.New(rand.NewSource(*seed)), log.With().Str("component", "whisper").Logger())
	driver := loop.NewDriver(synth, loop.RealClock, config.CyclePeriod, log.With().Str("component", "loop").Logger())
	g := game.NewGame(synth, driver, log)
	defer g.Close()

	log.Info().Str("caption", config.CaptionLong).Int64("seed", *seed).Msg("ready")

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal().Err(err).Msg("game loop")
	}
}
