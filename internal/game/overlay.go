package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/gentle-checkin/internal/config"
	"github.com/iburimskiy/gentle-checkin/internal/scene"
)

const (
	meterWidth  = 160
	meterHeight = 8
	levelFrames = 2048
)

func (g *Game) drawCaption(screen *ebiten.Image) {
	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, config.Caption, 12, h-24)
	if !g.driver.Armed() && g.ready {
		ebitenutil.DebugPrintAt(screen, "Click or tap to begin", 12, h-40)
	}
}

func (g *Game) drawDebug(screen *ebiten.Image, f scene.Frame) {
	lines := []string{
		fmt.Sprintf("loop %d  t %s  phase %s", g.driver.Count(), formatDuration(seconds(f.Elapsed)), formatDuration(seconds(f.Phase))),
		fmt.Sprintf("focus probe %.2f  hand %.2f", f.FocusProbe, f.FocusHand),
		fmt.Sprintf("blur probe %.1fpx  hand %.1fpx  scale %.2f", f.Probe.Blur, f.Hand.Blur, f.Scale),
	}
	if x, ok := wipeCentre(f); ok {
		lines = append(lines, fmt.Sprintf("wipe %.0f%%  centre %.0fpx", f.Wipe.Progress*100, x))
	}
	if g.lastErr != nil {
		lines = append(lines, "error: "+g.lastErr.Error())
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 12, 12+i*16)
	}

	y := float32(12 + len(lines)*16 + 4)
	vector.DrawFilledRect(screen, 12, y, meterWidth, meterHeight, color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	if ctx := g.synth.Current(); ctx != nil {
		level := clamp01(ctx.Level(levelFrames) * 4)
		r, gv, b := hsvToRgb(180+f.Phase/config.SceneLoop*120, 0.6, 0.9)
		vector.DrawFilledRect(screen, 12, y, float32(level*meterWidth), meterHeight, color.RGBA{R: r, G: gv, B: b, A: 255}, false)
	}
	vector.StrokeRect(screen, 12, y, meterWidth, meterHeight, 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)
}
