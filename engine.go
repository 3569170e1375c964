package canvas

import "log/slog"

// Engine is the top-level object that owns the viewport, the gesture
// controllers, the drop resolver and the placement registry of one canvas.
//
// Input events must be delivered one at a time, in arrival order, from a
// single goroutine. Engine is not safe for concurrent use.
type Engine struct {
	cfg Config

	viewport *Viewport
	pan      *PanController
	zoom     *ZoomController
	drop     *DropResolver
	registry *Registry

	handlers handlerRegistry
	sink     EventSink
	logger   *slog.Logger
	debug    bool

	// Surface origin in host coordinates.
	originX, originY float64

	// cause is the event currently being dispatched.
	cause EventType
	// dropX, dropY are the surface coordinates of the drop in progress.
	dropX, dropY float64

	anim *viewAnim
}

// NewEngine creates an engine at the identity viewport.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vp := NewViewport(cfg.ScaleBounds())
	reg := NewRegistry()
	e := &Engine{
		cfg:      cfg,
		viewport: vp,
		pan:      NewPanController(vp),
		zoom:     NewZoomController(vp, cfg.ZoomStep),
		drop:     NewDropResolver(vp, reg),
		registry: reg,
		logger:   slog.New(slog.DiscardHandler),
		debug:    cfg.Debug,
	}
	e.pan.SetButtons(cfg.PanButtons)
	vp.observer = e.fireViewportChange
	e.drop.notify = e.firePlacement
	return e, nil
}

// Config returns the settings the engine was created with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Viewport returns a snapshot of the current viewport state. Renderers read
// it once per frame.
func (e *Engine) Viewport() ViewportState {
	return e.viewport.State()
}

// Placements returns the placements in insertion order.
func (e *Engine) Placements() []Placement {
	return e.registry.All()
}

// Registry returns the placement registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// GestureState returns the state of the pan gesture machine.
func (e *Engine) GestureState() GestureState {
	return e.pan.State()
}

// SetLogger sets the structured logger. A nil logger discards output.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e.logger = logger
}

// SetDebugMode enables or disables per-event debug logging.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// SetEventSink sets the optional notification bridge.
func (e *Engine) SetEventSink(sink EventSink) {
	e.sink = sink
}

// SetSurfaceOrigin sets the top-left corner of the interactive surface in
// host coordinates. Every incoming point is made relative to it.
func (e *Engine) SetSurfaceOrigin(x, y float64) {
	e.originX, e.originY = x, y
}

// SurfaceOrigin returns the surface origin in host coordinates.
func (e *Engine) SurfaceOrigin() (x, y float64) {
	return e.originX, e.originY
}

// ToWorld converts a host point to world coordinates with the live viewport.
func (e *Engine) ToWorld(hostX, hostY float64) (wx, wy float64) {
	sx, sy := e.toSurface(hostX, hostY)
	return e.viewport.ToWorld(sx, sy)
}

// ToScreen converts a world point to host coordinates with the live viewport.
func (e *Engine) ToScreen(wx, wy float64) (hostX, hostY float64) {
	sx, sy := e.viewport.ToScreen(wx, wy)
	return sx + e.originX, sy + e.originY
}

func (e *Engine) toSurface(x, y float64) (float64, float64) {
	return x - e.originX, y - e.originY
}

// Dispatch routes one host event. The only errors are recoverable ones:
// ErrMalformedPayload or ErrInvalidDropPosition for drops, and
// ErrInvalidScale or ErrNonFinitePan for wheel events; the engine state is
// unchanged when they are returned.
func (e *Engine) Dispatch(ev Event) error {
	switch ev.Type {
	case EventPointerDown:
		e.PointerDown(ev.X, ev.Y, ev.Button)
	case EventPointerMove:
		e.PointerMove(ev.X, ev.Y)
	case EventPointerUp:
		e.PointerUp(ev.X, ev.Y)
	case EventPointerLeave:
		e.PointerLeave()
	case EventWheel:
		return e.Wheel(ev.DeltaY, ev.X, ev.Y)
	case EventDragOver:
		e.DragOver()
	case EventDrop:
		_, err := e.Drop(ev.X, ev.Y, ev.Payload)
		return err
	default:
		e.logger.Warn("ignoring unknown event", "type", ev.Type)
	}
	return nil
}

// PointerDown begins a pan when button is one of the configured pan buttons.
// Any running view animation is stopped.
func (e *Engine) PointerDown(x, y float64, button MouseButton) {
	e.stopAnimation()
	sx, sy := e.toSurface(x, y)
	started := e.pan.BeginButton(sx, sy, button)
	if e.debug {
		e.logger.Debug("pointer down", "x", sx, "y", sy, "button", button, "panning", started)
	}
}

// PointerMove updates the pan while a gesture is active.
func (e *Engine) PointerMove(x, y float64) {
	sx, sy := e.toSurface(x, y)
	e.cause = EventPointerMove
	moved := e.pan.Move(sx, sy)
	e.cause = EventNone
	if e.debug && moved {
		px, py := e.viewport.Pan()
		e.logger.Debug("pan", "x", sx, "y", sy, "panX", px, "panY", py)
	}
}

// PointerUp ends the pan gesture.
func (e *Engine) PointerUp(x, y float64) {
	if e.debug && e.pan.State() == GesturePanning {
		sx, sy := e.toSurface(x, y)
		e.logger.Debug("pointer up", "x", sx, "y", sy)
	}
	e.pan.End()
}

// PointerLeave ends the pan gesture exactly like PointerUp.
func (e *Engine) PointerLeave() {
	if e.debug && e.pan.State() == GesturePanning {
		e.logger.Debug("pointer left surface while panning")
	}
	e.pan.Leave()
}

// Wheel applies one zoom step about the pointer. The direction comes from
// the sign of deltaY; a zero delta is ignored.
func (e *Engine) Wheel(deltaY, x, y float64) error {
	dir := DirectionFromDelta(deltaY)
	if dir == ZoomNone {
		return nil
	}
	e.stopAnimation()
	sx, sy := e.toSurface(x, y)
	e.cause = EventWheel
	err := e.zoom.Zoom(dir, sx, sy)
	e.cause = EventNone
	if err != nil {
		e.logger.Warn("zoom rejected", "direction", dir, "x", sx, "y", sy, "err", err)
		return err
	}
	if e.debug {
		e.logger.Debug("zoom", "direction", dir, "x", sx, "y", sy, "scale", e.viewport.Scale())
	}
	return nil
}

// ZoomBy multiplies the scale by factor about a host point. It is a
// programmatic change (toolbar buttons, pinch adapters), so the resulting
// ViewportChange has Cause EventNone.
func (e *Engine) ZoomBy(factor, x, y float64) error {
	e.stopAnimation()
	sx, sy := e.toSurface(x, y)
	if err := e.zoom.ZoomBy(factor, sx, sy); err != nil {
		e.logger.Warn("zoom rejected", "factor", factor, "x", sx, "y", sy, "err", err)
		return err
	}
	if e.debug {
		e.logger.Debug("zoom", "factor", factor, "x", sx, "y", sy, "scale", e.viewport.Scale())
	}
	return nil
}

// DragOver reports the drop effect for a palette drag hovering the surface.
func (e *Engine) DragOver() DropEffect {
	return e.drop.DragOver()
}

// Drop resolves a palette drop into a placement using the viewport state at
// the moment of the drop. A malformed payload is reported to OnDropRejected
// callbacks and returned; it never panics and never touches the registry.
func (e *Engine) Drop(x, y float64, payload []byte) (Placement, error) {
	sx, sy := e.toSurface(x, y)
	e.dropX, e.dropY = sx, sy
	p, err := e.drop.Resolve(sx, sy, payload)
	if err != nil {
		e.logger.Warn("drop rejected", "x", sx, "y", sy, "err", err)
		e.fireDropRejected(sx, sy, err)
		return Placement{}, err
	}
	e.logger.Info("symbol placed", "id", p.ID, "symbol", p.SourceSymbolID,
		"worldX", p.WorldX, "worldY", p.WorldY)
	return p, nil
}
