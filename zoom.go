package canvas

// DefaultZoomStep is the multiplicative factor of one zoom-in step. A zoom
// out uses its reciprocal.
const DefaultZoomStep = 1.1

// ZoomDirection is the sign of a zoom intent.
type ZoomDirection int8

const (
	ZoomNone ZoomDirection = 0  // no zoom
	ZoomIn   ZoomDirection = 1  // magnify
	ZoomOut  ZoomDirection = -1 // shrink
)

func (d ZoomDirection) String() string {
	switch d {
	case ZoomIn:
		return "in"
	case ZoomOut:
		return "out"
	default:
		return "none"
	}
}

// DirectionFromDelta maps a wheel delta to a zoom direction. Scrolling up
// (negative delta) zooms in.
func DirectionFromDelta(deltaY float64) ZoomDirection {
	switch {
	case deltaY < 0:
		return ZoomIn
	case deltaY > 0:
		return ZoomOut
	default:
		return ZoomNone
	}
}

// ZoomController applies pivot-preserving zoom steps to a viewport. It holds
// no state besides its step factor.
type ZoomController struct {
	vp   *Viewport
	step float64
}

// NewZoomController creates a controller bound to vp. A step that is not
// finite and greater than 1 falls back to DefaultZoomStep.
func NewZoomController(vp *Viewport, step float64) *ZoomController {
	if !finite(step) || step <= 1 {
		step = DefaultZoomStep
	}
	return &ZoomController{vp: vp, step: step}
}

// Step returns the zoom-in factor.
func (z *ZoomController) Step() float64 {
	return z.step
}

// Factor returns the multiplicative factor for dir.
func (z *ZoomController) Factor(dir ZoomDirection) float64 {
	switch dir {
	case ZoomIn:
		return z.step
	case ZoomOut:
		return 1 / z.step
	default:
		return 1
	}
}

// Zoom applies one step in dir, keeping the world point under the screen
// pivot fixed.
func (z *ZoomController) Zoom(dir ZoomDirection, pivotX, pivotY float64) error {
	if dir == ZoomNone {
		return nil
	}
	return z.ZoomBy(z.Factor(dir), pivotX, pivotY)
}

// ZoomBy multiplies the scale by factor about the screen pivot. The new pan
// and scale are committed together; on error the viewport is unchanged.
func (z *ZoomController) ZoomBy(factor, pivotX, pivotY float64) error {
	if !finite(factor) || factor <= 0 {
		return ErrInvalidScale
	}
	if !finite(pivotX, pivotY) {
		return ErrNonFinitePan
	}
	next, err := zoomAbout(z.vp.State(), z.vp.Bounds(), factor, pivotX, pivotY)
	if err != nil {
		return err
	}
	return z.vp.Set(next)
}

// zoomAbout computes the state after zooming s by factor about a screen
// pivot. When the bounds clamp the new scale, the effective factor is
// reduced to match so the pivot still maps to the same world point.
func zoomAbout(s ViewportState, bounds ScaleBounds, factor, pivotX, pivotY float64) (ViewportState, error) {
	scale := s.Scale * factor
	if !finite(scale) || scale <= 0 {
		return s, ErrInvalidScale
	}
	if clamped := bounds.clamp(scale); clamped != scale {
		if nearlyEqual(clamped, s.Scale) {
			return s, nil
		}
		scale = clamped
		factor = clamped / s.Scale
	}
	return ViewportState{
		PanX:  pivotX - (pivotX-s.PanX)*factor,
		PanY:  pivotY - (pivotY-s.PanY)*factor,
		Scale: scale,
	}, nil
}
