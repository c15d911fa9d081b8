package game

import (
	"context"
	"time"

	cb "github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/gentle-checkin/internal/config"
	"github.com/iburimskiy/gentle-checkin/internal/loop"
	"github.com/iburimskiy/gentle-checkin/internal/scene"
	"github.com/iburimskiy/gentle-checkin/internal/whisper"
)

// Game is the window: it draws the scene every frame and treats the whole
// surface as a one-shot start button for the audio loop.
type Game struct {
	ctx      context.Context
	cancel   context.CancelFunc
	driver   *loop.Driver
	synth    *whisper.Synth
	log      zerolog.Logger
	clock    *scene.Clock
	renderer renderer
	scale    float64

	// state
	ready      bool
	debug      bool
	exporting  bool
	exportDone chan error
	lastErr    error
}

func NewGame(synth *whisper.Synth, driver *loop.Driver, log zerolog.Logger) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	return &Game{
		ctx:        ctx,
		cancel:     cancel,
		driver:     driver,
		synth:      synth,
		log:        log,
		clock:      scene.NewClock(time.Now),
		scale:      1,
		exportDone: make(chan error, 1),
	}
}

func (g *Game) Update() error {
	select {
	case err := <-g.exportDone:
		g.exporting = false
		g.lastErr = err
	default:
	}

	if g.startPressed() {
		g.start()
	}
	g.updateCursor()

	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyCaption()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) && !g.exporting {
		g.exporting = true
		go func() { g.exportDone <- g.exportDialog() }()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.Close()
		return ebiten.Termination
	}
	return nil
}

// startPressed reports a click, tap, Space or Enter while the start control
// is enabled.
func (g *Game) startPressed() bool {
	if !g.ready || g.driver.Armed() {
		return false
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		return true
	}
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
}

func (g *Game) start() {
	if g.driver.Start(g.ctx) {
		g.log.Info().Str("announce", config.WhisperWords).Msg("loop started")
	}
}

// copyCaption puts the long caption on the system clipboard for screen
// readers and other tools that cannot see the canvas.
func (g *Game) copyCaption() {
	if err := cb.WriteAll(config.CaptionLong); err != nil {
		g.log.Warn().Err(err).Msg("copy caption")
		g.lastErr = err
		return
	}
	g.log.Debug().Msg("caption copied")
}

func (g *Game) updateCursor() {
	if g.ready && !g.driver.Armed() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
		return
	}
	ebiten.SetCursorShape(ebiten.CursorShapeDefault)
}

func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	f := scene.Compose(g.clock.Elapsed(), float64(b.Dx()), float64(b.Dy()), g.scale)
	g.renderer.Draw(screen, f)

	g.drawCaption(screen)
	if g.debug {
		g.drawDebug(screen, f)
	}
	g.ready = true
}

// Layout sizes the surface in device pixels so it always matches the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	return int(float64(outsideWidth) * g.scale), int(float64(outsideHeight) * g.scale)
}

// Close tears down the loop driver. Safe to call more than once.
func (g *Game) Close() {
	g.cancel()
	g.driver.Stop()
}
