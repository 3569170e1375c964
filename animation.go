package canvas

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewAnim tweens a progress value from 0 to 1. Pan and scale are
// interpolated from it in float64, so any valid state can be animated.
type viewAnim struct {
	tween        *gween.Tween
	from, target ViewportState
}

// AnimateTo moves the viewport to target over duration seconds, advanced by
// Update. A non-positive duration applies target immediately. Any pointer
// press or wheel zoom cancels the animation. Easings that overshoot (back,
// elastic) can push the scale through zero on large zoom-outs; the
// animation then stops at its last valid state.
func (e *Engine) AnimateTo(target ViewportState, duration float32, fn ease.TweenFunc) error {
	if !finite(target.Scale) || target.Scale <= 0 {
		return ErrInvalidScale
	}
	if !finite(target.PanX, target.PanY) {
		return ErrNonFinitePan
	}
	e.stopAnimation()
	if duration <= 0 {
		return e.viewport.Set(target)
	}
	if fn == nil {
		fn = ease.OutQuad
	}
	e.anim = &viewAnim{
		tween:  gween.New(0, 1, duration, fn),
		from:   e.viewport.State(),
		target: target,
	}
	return nil
}

// Animating reports whether a view animation is in progress.
func (e *Engine) Animating() bool {
	return e.anim != nil
}

// Update advances view animations by dt seconds. Hosts call it once per
// tick.
func (e *Engine) Update(dt float32) {
	a := e.anim
	if a == nil {
		return
	}
	t, finished := a.tween.Update(dt)
	next := a.target
	if finished {
		e.anim = nil
	} else {
		next = lerpState(a.from, a.target, float64(t))
	}
	if err := e.viewport.Set(next); err != nil {
		e.logger.Warn("view animation stopped", "err", err)
		e.anim = nil
	}
}

// lerpState interpolates between two states. a*(1-t)+b*t stays finite for
// finite endpoints and t in [0, 1].
func lerpState(a, b ViewportState, t float64) ViewportState {
	return ViewportState{
		PanX:  a.PanX*(1-t) + b.PanX*t,
		PanY:  a.PanY*(1-t) + b.PanY*t,
		Scale: a.Scale*(1-t) + b.Scale*t,
	}
}

// ResetView animates back to pan (0, 0) and scale 1 over the configured
// duration.
func (e *Engine) ResetView() error {
	return e.AnimateTo(IdentityViewport, float32(e.cfg.AnimationSeconds), ease.OutQuad)
}

// ZoomToFit frames every placement anchor inside a surface of the given
// size, leaving padding pixels on each side. With no placements it resets
// the view.
func (e *Engine) ZoomToFit(width, height, padding float64) error {
	b, ok := e.registry.Bounds()
	if !ok {
		return e.ResetView()
	}
	target := fitState(b, width, height, padding, e.viewport.State().Scale, e.viewport.Bounds())
	return e.AnimateTo(target, float32(e.cfg.AnimationSeconds), ease.OutQuad)
}

// fitState returns the state that centres b in a width×height surface.
// A degenerate b (a single point or a line) keeps the current scale on the
// collapsed axis.
func fitState(b Rect, width, height, padding, current float64, bounds ScaleBounds) ViewportState {
	availW := math.Max(width-2*padding, 1)
	availH := math.Max(height-2*padding, 1)
	scale := math.Inf(1)
	if b.Width > 0 {
		scale = availW / b.Width
	}
	if b.Height > 0 {
		scale = math.Min(scale, availH/b.Height)
	}
	if math.IsInf(scale, 1) {
		scale = current
	}
	scale = bounds.clamp(scale)
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	return ViewportState{
		PanX:  width/2 - cx*scale,
		PanY:  height/2 - cy*scale,
		Scale: scale,
	}
}

func (e *Engine) stopAnimation() {
	e.anim = nil
}
