package canvas

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrInvalidScale is returned when an operation would set the scale to
	// zero, a negative value, or a non-finite value. The viewport is left at
	// its last valid state.
	ErrInvalidScale = errors.New("canvas: invalid scale")
	// ErrNonFinitePan is returned when an operation would set the pan offset
	// to NaN or ±Inf.
	ErrNonFinitePan = errors.New("canvas: non-finite pan offset")
)

// ViewportState is a snapshot of the pan offset and scale factor. The zero
// value is not valid; use [IdentityViewport] or [Viewport.State].
//
// Screen and world space are related by
//
//	screen = world*Scale + Pan
type ViewportState struct {
	PanX, PanY float64
	Scale      float64
}

// IdentityViewport is the state of a freshly created canvas.
var IdentityViewport = ViewportState{Scale: 1}

// Valid reports whether the scale is positive and every field is finite.
func (s ViewportState) Valid() bool {
	return finite(s.PanX, s.PanY, s.Scale) && s.Scale > 0
}

// ToWorld converts screen coordinates to world coordinates.
func (s ViewportState) ToWorld(sx, sy float64) (wx, wy float64) {
	return (sx - s.PanX) / s.Scale, (sy - s.PanY) / s.Scale
}

// ToScreen converts world coordinates to screen coordinates.
func (s ViewportState) ToScreen(wx, wy float64) (sx, sy float64) {
	return wx*s.Scale + s.PanX, wy*s.Scale + s.PanY
}

// Matrix returns the world-to-screen affine matrix [a, b, c, d, tx, ty].
func (s ViewportState) Matrix() [6]float64 {
	return [6]float64{s.Scale, 0, 0, s.Scale, s.PanX, s.PanY}
}

// InverseMatrix returns the screen-to-world affine matrix.
func (s ViewportState) InverseMatrix() [6]float64 {
	return invertAffine(s.Matrix())
}

// TransformAttr renders the state as an SVG transform attribute value,
// e.g. "translate(-10,-10) scale(1.1)".
func (s ViewportState) TransformAttr() string {
	buf := make([]byte, 0, 48)
	buf = append(buf, "translate("...)
	buf = strconv.AppendFloat(buf, s.PanX, 'f', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, s.PanY, 'f', -1, 64)
	buf = append(buf, ") scale("...)
	buf = strconv.AppendFloat(buf, s.Scale, 'f', -1, 64)
	buf = append(buf, ')')
	return string(buf)
}

// VisibleBounds returns the world-space rectangle visible through a surface
// of the given size.
func (s ViewportState) VisibleBounds(width, height float64) Rect {
	x0, y0 := s.ToWorld(0, 0)
	x1, y1 := s.ToWorld(width, height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// ScaleBounds limits the scale a viewport may reach. A zero Min or Max
// leaves that side unbounded.
type ScaleBounds struct {
	Min, Max float64
}

// Unbounded reports whether neither side is limited.
func (b ScaleBounds) Unbounded() bool {
	return b.Min <= 0 && b.Max <= 0
}

// clamp limits s to the bounds. s must already be positive and finite.
func (b ScaleBounds) clamp(s float64) float64 {
	if b.Min > 0 && s < b.Min {
		s = b.Min
	}
	if b.Max > 0 && s > b.Max {
		s = b.Max
	}
	return s
}

// Viewport owns the live pan/zoom state of one canvas. Every mutation is
// validated: the scale is never zero, negative or non-finite, and the pan is
// never non-finite. Viewport is not safe for concurrent use.
type Viewport struct {
	state  ViewportState
	bounds ScaleBounds

	// observer is called after each committed change.
	observer func(prev, next ViewportState)
}

// NewViewport creates a viewport at the identity state, clamped to bounds.
func NewViewport(bounds ScaleBounds) *Viewport {
	v := &Viewport{bounds: bounds, state: IdentityViewport}
	v.state.Scale = bounds.clamp(1)
	return v
}

// State returns a snapshot of the current state.
func (v *Viewport) State() ViewportState {
	return v.state
}

// Pan returns the current pan offset.
func (v *Viewport) Pan() (x, y float64) {
	return v.state.PanX, v.state.PanY
}

// Scale returns the current scale factor.
func (v *Viewport) Scale() float64 {
	return v.state.Scale
}

// Bounds returns the scale bounds.
func (v *Viewport) Bounds() ScaleBounds {
	return v.bounds
}

// ToWorld converts screen coordinates to world coordinates using the live
// state.
func (v *Viewport) ToWorld(sx, sy float64) (wx, wy float64) {
	return v.state.ToWorld(sx, sy)
}

// ToScreen converts world coordinates to screen coordinates using the live
// state.
func (v *Viewport) ToScreen(wx, wy float64) (sx, sy float64) {
	return v.state.ToScreen(wx, wy)
}

// SetPan sets the pan offset, leaving the scale untouched.
func (v *Viewport) SetPan(x, y float64) error {
	return v.Set(ViewportState{PanX: x, PanY: y, Scale: v.state.Scale})
}

// SetScale sets the scale, leaving the pan untouched. Zero, negative and
// non-finite values are rejected with ErrInvalidScale; finite positive
// values outside the bounds are clamped.
func (v *Viewport) SetScale(s float64) error {
	return v.Set(ViewportState{PanX: v.state.PanX, PanY: v.state.PanY, Scale: s})
}

// Set commits pan and scale together. Either all three values are applied
// or none are.
func (v *Viewport) Set(next ViewportState) error {
	if !finite(next.Scale) || next.Scale <= 0 {
		return ErrInvalidScale
	}
	if !finite(next.PanX, next.PanY) {
		return ErrNonFinitePan
	}
	next.Scale = v.bounds.clamp(next.Scale)
	if next == v.state {
		return nil
	}
	prev := v.state
	v.state = next
	if v.observer != nil {
		v.observer(prev, next)
	}
	return nil
}

// Reset returns the viewport to pan (0, 0) and scale 1 (clamped to bounds).
func (v *Viewport) Reset() {
	_ = v.Set(IdentityViewport)
}

// nearlyEqual compares two floats with a relative tolerance, used to decide
// whether a clamped scale has stopped moving.
func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}
