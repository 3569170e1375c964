package canvas

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	defaultSymbolSize = 64   // pixels, for content without a viewBox
	maxSymbolSize     = 1024 // pixels, per side
)

// RasterizeSVG renders SVG content into an RGBA image of w×h pixels. A
// non-positive size uses the content's viewBox (or 64×64 without one).
// Unsupported SVG elements such as <text> are skipped.
func RasterizeSVG(content string, w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(content), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("rasterize symbol: %w", err)
	}
	if w <= 0 || h <= 0 {
		w, h = symbolSize(icon.ViewBox.W, icon.ViewBox.H)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// symbolSize picks a raster size from viewBox dimensions.
func symbolSize(vw, vh float64) (int, int) {
	if !finite(vw, vh) || vw <= 0 || vh <= 0 {
		return defaultSymbolSize, defaultSymbolSize
	}
	w := int(math.Ceil(math.Min(vw, maxSymbolSize)))
	h := int(math.Ceil(math.Min(vh, maxSymbolSize)))
	return w, h
}

// placementMatrix returns the screen-space affine matrix of a placement:
// the viewport matrix applied after translating to the placement's world
// position.
func placementMatrix(vs ViewportState, p Placement) [6]float64 {
	return multiplyAffine(vs.Matrix(), translateTransform(p.WorldX, p.WorldY))
}

// symbolRect returns the surface-space rectangle covered by a w×h raster of
// p. Placements outside the surface are skipped when drawing.
func symbolRect(vs ViewportState, p Placement, w, h int) Rect {
	x, y := transformPoint(placementMatrix(vs, p), 0, 0)
	return Rect{X: x, Y: y, Width: float64(w) * vs.Scale, Height: float64(h) * vs.Scale}
}

// geoM converts an affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// Renderer draws an engine's placements with ebiten. Symbol content is
// rasterized once per distinct content string and cached.
type Renderer struct {
	engine *Engine
	cache  map[string]*ebiten.Image
	failed map[string]bool
	// SymbolWidth and SymbolHeight force a raster size; zero uses the
	// content's viewBox.
	SymbolWidth, SymbolHeight int
}

// NewRenderer creates a renderer for e.
func NewRenderer(e *Engine) *Renderer {
	return &Renderer{
		engine: e,
		cache:  make(map[string]*ebiten.Image),
		failed: make(map[string]bool),
	}
}

// Draw renders every placement onto dst using the live viewport. dst is
// normally the surface sub-image; surface coordinates start at its bounds'
// top-left corner.
func (r *Renderer) Draw(dst *ebiten.Image) {
	vs := r.engine.Viewport()
	db := dst.Bounds()
	view := Rect{Width: float64(db.Dx()), Height: float64(db.Dy())}
	for _, p := range r.engine.registry.placements {
		img := r.image(p)
		if img == nil {
			continue
		}
		b := img.Bounds()
		if !symbolRect(vs, p, b.Dx(), b.Dy()).Intersects(view) {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = geoM(placementMatrix(vs, p))
		op.GeoM.Translate(float64(db.Min.X), float64(db.Min.Y))
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(img, op)
	}
}

// image returns the cached raster for p, rasterizing it on first use.
// Content that fails to parse is logged once and skipped afterwards.
func (r *Renderer) image(p Placement) *ebiten.Image {
	if img, ok := r.cache[p.Content]; ok {
		return img
	}
	if r.failed[p.Content] {
		return nil
	}
	rgba, err := RasterizeSVG(p.Content, r.SymbolWidth, r.SymbolHeight)
	if err != nil {
		r.engine.logger.Warn("cannot draw placement", "id", p.ID, "symbol", p.SourceSymbolID, "err", err)
		r.failed[p.Content] = true
		return nil
	}
	img := ebiten.NewImageFromImage(rgba)
	r.cache[p.Content] = img
	return img
}

// Clear drops every cached raster.
func (r *Renderer) Clear() {
	for k, img := range r.cache {
		img.Deallocate()
		delete(r.cache, k)
	}
	clear(r.failed)
}
