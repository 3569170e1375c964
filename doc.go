// Package canvas is the viewport and gesture engine of a 2D diagram canvas.
//
// Users drag symbols from a palette onto the canvas, then pan and zoom to
// navigate. The engine keeps the pan/zoom state, converts between screen
// and world coordinates, drives click-drag panning and pointer-centred
// zooming, and resolves drops into world-positioned placements regardless
// of the current view.
//
// # Quick start
//
// Create an [Engine] and feed it host events one at a time, in arrival
// order:
//
//	engine, err := canvas.NewEngine(canvas.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.PointerDown(100, 100, canvas.MouseButtonLeft)
//	engine.PointerMove(150, 120) // pan is now (50, 20)
//	engine.PointerUp(150, 120)
//	engine.Wheel(-100, 150, 120) // zoom in about the pointer
//
// With [Ebitengine], [NewEbitenInput] polls the mouse each tick and
// [NewRenderer] draws placements through the live viewport:
//
//	func (g *Game) Update() error {
//		_ = g.input.Update()
//		g.engine.Update(1.0 / 60)
//		return nil
//	}
//	func (g *Game) Draw(s *ebiten.Image) { g.renderer.Draw(s) }
//
// # Coordinates
//
// Screen space is the pixel space of the interactive surface; world space
// is the space of the scene content. They are related by
//
//	screen = world*Scale + Pan
//
// [ViewportState.ToWorld] and [ViewportState.ToScreen] are exact inverses
// for the same snapshot. The scale is always positive and finite: zero,
// negative and non-finite values are rejected with [ErrInvalidScale], and
// values outside the configured [ScaleBounds] are clamped.
//
// # Gestures
//
// Panning is a two-state machine ([GestureIdle], [GesturePanning]). The
// anchor captured on pointer down holds both the pointer position and the
// pan at that moment, so every move sets the pan as an absolute offset from
// the anchor. Leaving the surface ends a pan exactly like releasing the
// button.
//
// Wheel zooming multiplies the scale by [Config.ZoomStep] (or its
// reciprocal) and solves the pan so the world point under the pointer does
// not move.
//
// # Drops
//
// A drop carries a JSON [SymbolPayload]. It is converted with the viewport
// live at the moment of the drop and appended to the [Registry]. Malformed
// payloads return [ErrMalformedPayload] and leave the registry untouched.
//
// [Ebitengine]: https://ebitengine.org
package canvas
