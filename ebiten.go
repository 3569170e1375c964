package canvas

import "github.com/hajimehoshi/ebiten/v2"

// InputSource is the subset of ebiten's input API the adapter polls.
// ebitenSource forwards to ebiten; tests substitute a fake.
type InputSource interface {
	CursorPosition() (x, y int)
	IsMouseButtonPressed(b ebiten.MouseButton) bool
	Wheel() (xoff, yoff float64)
}

type ebitenSource struct{}

func (ebitenSource) CursorPosition() (int, int) { return ebiten.CursorPosition() }
func (ebitenSource) Wheel() (float64, float64)  { return ebiten.Wheel() }

func (ebitenSource) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}

// wheelDeltaScale converts ebiten wheel offsets (positive = away from the
// user) to browser-style deltaY (negative = zoom in).
const wheelDeltaScale = -100

// EbitenInput polls ebiten's mouse state once per tick and turns it into
// engine events. Call Update from ebiten.Game.Update.
type EbitenInput struct {
	engine  *Engine
	src     InputSource
	surface Rect

	down     bool
	suppress bool // a press began outside the surface; ignore until release
	lastX    float64
	lastY    float64
}

// NewEbitenInput creates an adapter feeding e from ebiten's global input
// state. The surface is the host-space rectangle that receives pointer
// events; its top-left corner becomes the engine's surface origin.
func NewEbitenInput(e *Engine, surface Rect) *EbitenInput {
	return newEbitenInput(e, surface, ebitenSource{})
}

func newEbitenInput(e *Engine, surface Rect, src InputSource) *EbitenInput {
	in := &EbitenInput{engine: e, src: src}
	in.SetSurface(surface)
	return in
}

// SetSurface moves or resizes the interactive surface.
func (in *EbitenInput) SetSurface(r Rect) {
	in.surface = r
	in.engine.SetSurfaceOrigin(r.X, r.Y)
}

// Surface returns the interactive surface.
func (in *EbitenInput) Surface() Rect {
	return in.surface
}

// readButton reports the first pressed mouse button, in
// left/right/middle priority order.
func (in *EbitenInput) readButton() (MouseButton, bool) {
	switch {
	case in.src.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		return MouseButtonLeft, true
	case in.src.IsMouseButtonPressed(ebiten.MouseButtonRight):
		return MouseButtonRight, true
	case in.src.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		return MouseButtonMiddle, true
	}
	return MouseButtonLeft, false
}

// Update polls input and dispatches the resulting events. The returned
// error is a recoverable zoom rejection and can be ignored by most hosts.
func (in *EbitenInput) Update() error {
	cx, cy := in.src.CursorPosition()
	x, y := float64(cx), float64(cy)
	inside := in.surface.Contains(x, y)
	button, pressed := in.readButton()

	switch {
	case in.down && !inside:
		// Leaving with the button held ends the gesture; the press is
		// ignored until released so it cannot restart on re-entry.
		in.engine.PointerLeave()
		in.down = false
		in.suppress = pressed
	case pressed && !in.down:
		if inside && !in.suppress {
			in.engine.PointerDown(x, y, button)
			in.down = true
		} else {
			in.suppress = true
		}
	case pressed && in.down:
		if x != in.lastX || y != in.lastY {
			in.engine.PointerMove(x, y)
		}
	case !pressed && in.down:
		in.engine.PointerUp(x, y)
		in.down = false
	}
	if !pressed {
		in.suppress = false
	}
	in.lastX, in.lastY = x, y

	if _, wy := in.src.Wheel(); wy != 0 && inside {
		return in.engine.Wheel(wy*wheelDeltaScale, x, y)
	}
	return nil
}
