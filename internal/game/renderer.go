package game

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/gentle-checkin/internal/scene"
)

// blurTaps is the number of offsets on each side of the box kernel.
const blurTaps = 3

// renderer paints a scene.Frame. It owns the offscreen layers used for blur.
type renderer struct {
	white *ebiten.Image
	layer *ebiten.Image
	accum *ebiten.Image
}

func (r *renderer) whiteImage() *ebiten.Image {
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.white
}

func (r *renderer) Draw(screen *ebiten.Image, f scene.Frame) {
	var identity ebiten.GeoM
	r.fillGradient(screen, identity, 0, 0, f.Width, f.Height, f.Background)

	r.withBlur(screen, f.Probe.Blur, func(dst *ebiten.Image) {
		r.drawProbe(dst, f.Probe)
	})
	r.withBlur(screen, f.Hand.Blur, func(dst *ebiten.Image) {
		r.drawHand(dst, f.Hand)
	})

	if f.Wipe != nil {
		r.fillGradient(screen, identity, 0, 0, f.Width, f.Height, f.Wipe.Gradient)
	}
}

func (r *renderer) drawProbe(dst *ebiten.Image, p scene.Probe) {
	var geo ebiten.GeoM
	geo.Rotate(p.Angle)
	geo.Translate(p.X, p.Y)

	half := p.Length * 0.5
	r.fillGradient(dst, geo, -half, -p.Width*0.5, half, p.Width*0.5, p.Gradient)

	tx, ty := geo.Apply(half, 0)
	vector.DrawFilledCircle(dst, float32(tx), float32(ty), float32(p.TipRadius), p.TipColor, true)
}

func (r *renderer) drawHand(dst *ebiten.Image, h scene.Hand) {
	var geo ebiten.GeoM
	geo.Rotate(h.Angle)
	geo.Translate(h.X, h.Y)

	var path vector.Path
	x, y := geo.Apply(0, 0)
	path.MoveTo(float32(x), float32(y))
	for _, q := range h.Curves {
		cx, cy := geo.Apply(q.CX, q.CY)
		x, y := geo.Apply(q.X, q.Y)
		path.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	cr, cg, cb, ca := colorFloats(h.Color)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = cr, cg, cb, ca
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	op.FillRule = ebiten.EvenOdd
	dst.DrawTriangles(vs, is, r.whiteImage(), op)
}

// fillGradient fills the local rectangle (x0,y0)-(x1,y1), transformed by
// geo, with g. The gradient axis must be horizontal or vertical in local
// space; the rectangle is cut at every stop so vertex colour interpolation
// reproduces the stops exactly.
func (r *renderer) fillGradient(dst *ebiten.Image, geo ebiten.GeoM, x0, y0, x1, y1 float64, g scene.LinearGradient) {
	horizontal := g.Y0 == g.Y1
	lo, hi := y0, y1
	if horizontal {
		lo, hi = x0, x1
	}
	cuts := []float64{lo, hi}
	for i := range g.Stops {
		px, py := g.Point(i)
		p := py
		if horizontal {
			p = px
		}
		if p > lo && p < hi {
			cuts = append(cuts, p)
		}
	}
	sort.Float64s(cuts)

	vs := make([]ebiten.Vertex, 0, len(cuts)*2)
	is := make([]uint16, 0, (len(cuts)-1)*6)
	for i, c := range cuts {
		ax, ay, bx, by := x0, c, x1, c
		if horizontal {
			ax, ay, bx, by = c, y0, c, y1
		}
		col := g.At(ax, ay)
		vs = append(vs, vertex(geo, ax, ay, col), vertex(geo, bx, by, col))
		if i > 0 {
			k := uint16(2 * i)
			is = append(is, k-2, k-1, k, k-1, k+1, k)
		}
	}
	dst.DrawTriangles(vs, is, r.whiteImage(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// withBlur scopes a blurred draw: draw paints into a cleared offscreen layer
// which is then box-blurred onto dst. Nothing set up for the blur survives
// the call.
func (r *renderer) withBlur(dst *ebiten.Image, radius float64, draw func(*ebiten.Image)) {
	if radius < 0.5 {
		draw(dst)
		return
	}
	r.layer = sizedLike(r.layer, dst)
	r.accum = sizedLike(r.accum, dst)
	r.layer.Clear()
	r.accum.Clear()
	draw(r.layer)

	n := 2*blurTaps + 1
	w := float32(1 / float64(n*n))
	step := blurStep(radius)
	for j := -blurTaps; j <= blurTaps; j++ {
		for i := -blurTaps; i <= blurTaps; i++ {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(i)*step, float64(j)*step)
			op.ColorScale.Scale(w, w, w, w)
			op.Blend = ebiten.BlendLighter
			r.accum.DrawImage(r.layer, op)
		}
	}
	dst.DrawImage(r.accum, nil)
}

// blurStep spaces the kernel taps so their spread along each axis has a
// standard deviation of radius, the way CSS blur() reads its length.
func blurStep(radius float64) float64 {
	var sum float64
	for i := 1; i <= blurTaps; i++ {
		sum += float64(i * i)
	}
	return radius / math.Sqrt(2*sum/(2*blurTaps+1))
}

func sizedLike(img, dst *ebiten.Image) *ebiten.Image {
	size := dst.Bounds().Size()
	if img != nil && img.Bounds().Size() == size {
		return img
	}
	return ebiten.NewImage(max(size.X, 1), max(size.Y, 1))
}

func vertex(geo ebiten.GeoM, x, y float64, c color.NRGBA) ebiten.Vertex {
	dx, dy := geo.Apply(x, y)
	r, g, b, a := colorFloats(c)
	return ebiten.Vertex{
		DstX: float32(dx), DstY: float32(dy),
		SrcX: 1, SrcY: 1,
		ColorR: r, ColorG: g, ColorB: b, ColorA: a,
	}
}

func colorFloats(c color.NRGBA) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// wipeCentre is where the mask's middle stop lands on screen.
func wipeCentre(f scene.Frame) (float64, bool) {
	if f.Wipe == nil {
		return math.NaN(), false
	}
	x, _ := f.Wipe.Gradient.Point(1)
	return x, true
}
