package canvas

// ViewportChange describes one committed viewport mutation.
type ViewportChange struct {
	Previous, Current ViewportState
	// Cause is the input event that produced the change, or EventNone for
	// programmatic changes (animation, Reset).
	Cause EventType
}

// PlacementContext is passed to placement-created callbacks.
type PlacementContext struct {
	Placement Placement
	// ScreenX and ScreenY are the surface coordinates of the drop.
	ScreenX, ScreenY float64
}

// DropRejectedContext is passed to drop-rejected callbacks.
type DropRejectedContext struct {
	ScreenX, ScreenY float64
	Err              error
}

// NotificationKind identifies a Notification.
type NotificationKind uint8

const (
	NotifyViewportChanged NotificationKind = iota // Viewport is set
	NotifyPlacementCreated                        // Placement is set
	NotifyDropRejected                            // Err is set
)

// Notification is the flattened form of every engine callback, delivered to
// an optional EventSink.
type Notification struct {
	Kind      NotificationKind
	Cause     EventType
	Viewport  ViewportState
	Placement Placement
	Err       error
}

// EventSink receives every engine notification. Persistence or ECS bridges
// implement it; see the ecs subpackage.
type EventSink interface {
	EmitEvent(n Notification)
}

// --- Handler registry ---

type viewportHandler struct {
	id uint32
	fn func(ViewportChange)
}

type placementHandler struct {
	id uint32
	fn func(PlacementContext)
}

type rejectedHandler struct {
	id uint32
	fn func(DropRejectedContext)
}

type handlerRegistry struct {
	viewport  []viewportHandler
	placement []placementHandler
	rejected  []rejectedHandler
	nextID    uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id   uint32
	reg  *handlerRegistry
	kind NotificationKind
}

// Remove unregisters this callback so it no longer fires. It may be called
// from inside the callback itself; handlers already scheduled for the
// current notification still run.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case NotifyViewportChanged:
		h.reg.viewport = removeHandler(h.reg.viewport, func(v viewportHandler) bool { return v.id == h.id })
	case NotifyPlacementCreated:
		h.reg.placement = removeHandler(h.reg.placement, func(v placementHandler) bool { return v.id == h.id })
	case NotifyDropRejected:
		h.reg.rejected = removeHandler(h.reg.rejected, func(v rejectedHandler) bool { return v.id == h.id })
	}
}

// removeHandler returns a new slice without the first match. The old
// backing array is left untouched so a dispatch loop ranging over it is
// unaffected when a handler removes itself.
func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			out := make([]T, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

// OnViewportChange registers a callback fired after every committed pan or
// zoom.
func (e *Engine) OnViewportChange(fn func(ViewportChange)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.viewport = append(e.handlers.viewport, viewportHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, kind: NotifyViewportChanged}
}

// OnPlacement registers a callback fired when a drop creates a placement.
func (e *Engine) OnPlacement(fn func(PlacementContext)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.placement = append(e.handlers.placement, placementHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, kind: NotifyPlacementCreated}
}

// OnDropRejected registers a callback fired when a drop is refused.
func (e *Engine) OnDropRejected(fn func(DropRejectedContext)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.rejected = append(e.handlers.rejected, rejectedHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, kind: NotifyDropRejected}
}

// --- Event dispatch ---

func (e *Engine) fireViewportChange(prev, next ViewportState) {
	ctx := ViewportChange{Previous: prev, Current: next, Cause: e.cause}
	for _, h := range e.handlers.viewport {
		h.fn(ctx)
	}
	if e.sink != nil {
		e.sink.EmitEvent(Notification{Kind: NotifyViewportChanged, Cause: e.cause, Viewport: next})
	}
}

func (e *Engine) firePlacement(p Placement) {
	ctx := PlacementContext{Placement: p, ScreenX: e.dropX, ScreenY: e.dropY}
	for _, h := range e.handlers.placement {
		h.fn(ctx)
	}
	if e.sink != nil {
		e.sink.EmitEvent(Notification{Kind: NotifyPlacementCreated, Cause: EventDrop,
			Viewport: e.viewport.State(), Placement: p})
	}
}

func (e *Engine) fireDropRejected(x, y float64, err error) {
	ctx := DropRejectedContext{ScreenX: x, ScreenY: y, Err: err}
	for _, h := range e.handlers.rejected {
		h.fn(ctx)
	}
	if e.sink != nil {
		e.sink.EmitEvent(Notification{Kind: NotifyDropRejected, Cause: EventDrop,
			Viewport: e.viewport.State(), Err: err})
	}
}
