package canvas

// GestureState is the state of the pan gesture machine.
type GestureState uint8

const (
	GestureIdle    GestureState = iota // no pan in progress
	GesturePanning                     // a pointer is held and drags the view
)

func (g GestureState) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GesturePanning:
		return "panning"
	default:
		return "unknown"
	}
}

// DragSession is the gesture anchor captured when a pan begins: the pointer
// position and the pan offset at that moment. Each move computes the pan as
// an absolute offset from the anchor, so long gestures never drift.
type DragSession struct {
	AnchorScreenX, AnchorScreenY float64
	AnchorPanX, AnchorPanY       float64
}

// PanController drives click-drag panning. It only ever writes the pan
// offset; the scale is never touched.
type PanController struct {
	vp      *Viewport
	state   GestureState
	session DragSession
	buttons ButtonMask
}

// NewPanController creates an idle controller bound to vp that pans with any
// mouse button.
func NewPanController(vp *Viewport) *PanController {
	return &PanController{vp: vp, buttons: ButtonMaskAny}
}

// SetButtons restricts which buttons begin a pan. A zero mask restores the
// default (any button).
func (p *PanController) SetButtons(mask ButtonMask) {
	if mask == 0 {
		mask = ButtonMaskAny
	}
	p.buttons = mask
}

// State returns the current gesture state.
func (p *PanController) State() GestureState {
	return p.state
}

// Session returns the active drag session. ok is false when idle.
func (p *PanController) Session() (s DragSession, ok bool) {
	if p.state != GesturePanning {
		return DragSession{}, false
	}
	return p.session, true
}

// Begin starts a pan at screen point (x, y). Calling Begin while already
// panning re-anchors the gesture at the new point.
func (p *PanController) Begin(x, y float64) bool {
	if !finite(x, y) {
		return false
	}
	px, py := p.vp.Pan()
	p.session = DragSession{
		AnchorScreenX: x, AnchorScreenY: y,
		AnchorPanX: px, AnchorPanY: py,
	}
	p.state = GesturePanning
	return true
}

// BeginButton is Begin gated on the controller's button mask.
func (p *PanController) BeginButton(x, y float64, button MouseButton) bool {
	if !p.buttons.Has(button) {
		return false
	}
	return p.Begin(x, y)
}

// Move updates the pan from the pointer position. It is a no-op while idle
// and reports whether the pan was recomputed.
func (p *PanController) Move(x, y float64) bool {
	if p.state != GesturePanning {
		return false
	}
	s := &p.session
	return p.vp.SetPan(x-s.AnchorScreenX+s.AnchorPanX, y-s.AnchorScreenY+s.AnchorPanY) == nil
}

// End finishes the gesture and discards the session.
func (p *PanController) End() {
	p.state = GestureIdle
	p.session = DragSession{}
}

// Leave handles the pointer leaving the surface. It ends the gesture exactly
// like End so a drag can never stay active with no release to close it.
func (p *PanController) Leave() {
	p.End()
}
