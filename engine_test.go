package canvas

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

type recordingSink struct {
	got []Notification
}

func (s *recordingSink) EmitEvent(n Notification) {
	s.got = append(s.got, n)
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ZoomStep = 0.5
	if _, err := NewEngine(cfg); err == nil {
		t.Fatal("expected error for zoom step below 1")
	}
}

func TestEngineStartsAtIdentity(t *testing.T) {
	e := newTestEngine(t)
	if e.Viewport() != IdentityViewport {
		t.Errorf("Viewport() = %+v", e.Viewport())
	}
	if e.GestureState() != GestureIdle {
		t.Errorf("GestureState() = %v", e.GestureState())
	}
	if len(e.Placements()) != 0 {
		t.Errorf("Placements() = %v", e.Placements())
	}
}

func TestEngineMixedPanAndZoom(t *testing.T) {
	e := newTestEngine(t)

	e.PointerDown(100, 100, MouseButtonLeft)
	e.PointerMove(150, 130)
	e.PointerUp(150, 130)
	assertState(t, e.Viewport(), ViewportState{PanX: 50, PanY: 30, Scale: 1})

	if err := e.Wheel(-100, 150, 130); err != nil {
		t.Fatal(err)
	}
	assertState(t, e.Viewport(), ViewportState{PanX: 40, PanY: 20, Scale: 1.1})

	e.PointerDown(150, 130, MouseButtonLeft)
	e.PointerMove(170, 140)
	e.PointerUp(170, 140)
	assertState(t, e.Viewport(), ViewportState{PanX: 60, PanY: 30, Scale: 1.1})
}

func TestEngineLeaveStopsPan(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(100, 100, MouseButtonLeft)
	e.PointerLeave()
	e.PointerMove(300, 300)
	if e.Viewport() != IdentityViewport {
		t.Errorf("pan changed after leave: %+v", e.Viewport())
	}
	if e.GestureState() != GestureIdle {
		t.Errorf("GestureState() = %v, want idle", e.GestureState())
	}
}

func TestEngineWheelZeroDeltaIgnored(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Wheel(0, 10, 10); err != nil {
		t.Fatal(err)
	}
	if e.Viewport() != IdentityViewport {
		t.Errorf("zero wheel delta changed the view: %+v", e.Viewport())
	}
}

func TestEngineDropAfterPanAndZoom(t *testing.T) {
	e, err := NewEngine(UnboundedConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.PointerDown(0, 0, MouseButtonLeft)
	e.PointerMove(50, 20)
	e.PointerUp(50, 20)
	if err := e.ZoomBy(0.5, 50, 20); err != nil {
		t.Fatal(err)
	}
	assertState(t, e.Viewport(), ViewportState{PanX: 50, PanY: 20, Scale: 0.5})

	p, err := e.Drop(150, 100, []byte(`{"sourceSymbolId":"TestSymbol","content":"<circle/>"}`))
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "worldX", p.WorldX, 200)
	assertNear(t, "worldY", p.WorldY, 160)

	sx, sy := e.ToScreen(p.WorldX, p.WorldY)
	assertNear(t, "screenX", sx, 150)
	assertNear(t, "screenY", sy, 100)
}

func TestEngineMalformedDrop(t *testing.T) {
	e := newTestEngine(t)
	var rejected []DropRejectedContext
	e.OnDropRejected(func(ctx DropRejectedContext) { rejected = append(rejected, ctx) })
	e.OnPlacement(func(PlacementContext) { t.Error("placement callback fired for malformed drop") })

	_, err := e.Drop(10, 20, []byte("not json"))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
	if len(e.Placements()) != 0 {
		t.Errorf("Placements() = %v, want none", e.Placements())
	}
	if len(rejected) != 1 || rejected[0].ScreenX != 10 || rejected[0].ScreenY != 20 {
		t.Errorf("rejected = %+v", rejected)
	}
}

func TestEngineSurfaceOrigin(t *testing.T) {
	e := newTestEngine(t)
	e.SetSurfaceOrigin(200, 50)
	if x, y := e.SurfaceOrigin(); x != 200 || y != 50 {
		t.Errorf("SurfaceOrigin() = (%v,%v)", x, y)
	}

	var ctx PlacementContext
	e.OnPlacement(func(c PlacementContext) { ctx = c })
	p, err := e.Drop(350, 150, []byte(`{"sourceSymbolId":"S","content":"<g/>"}`))
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "worldX", p.WorldX, 150)
	assertNear(t, "worldY", p.WorldY, 100)
	if ctx.ScreenX != 150 || ctx.ScreenY != 100 {
		t.Errorf("callback screen point = (%v,%v), want surface-relative (150,100)", ctx.ScreenX, ctx.ScreenY)
	}

	wx, wy := e.ToWorld(350, 150)
	assertNear(t, "ToWorld x", wx, 150)
	assertNear(t, "ToWorld y", wy, 100)

	// The zoom pivot is surface-relative as well.
	if err := e.Wheel(-1, 300, 150); err != nil {
		t.Fatal(err)
	}
	assertState(t, e.Viewport(), ViewportState{PanX: -10, PanY: -10, Scale: 1.1})
}

func TestEngineViewportCallbacks(t *testing.T) {
	e := newTestEngine(t)
	var changes []ViewportChange
	h := e.OnViewportChange(func(c ViewportChange) { changes = append(changes, c) })

	e.PointerDown(0, 0, MouseButtonLeft)
	e.PointerMove(10, 0)
	e.PointerUp(10, 0)
	_ = e.Wheel(100, 0, 0)

	if len(changes) != 2 {
		t.Fatalf("changes = %d, want 2", len(changes))
	}
	if changes[0].Cause != EventPointerMove || changes[1].Cause != EventWheel {
		t.Errorf("causes = %v, %v", changes[0].Cause, changes[1].Cause)
	}
	if changes[1].Previous != changes[0].Current {
		t.Errorf("change chain broken: %+v then %+v", changes[0], changes[1])
	}

	h.Remove()
	_ = e.Wheel(-100, 0, 0)
	if len(changes) != 2 {
		t.Errorf("removed callback still fired")
	}
}

func TestCallbackHandleRemoveKeepsOthers(t *testing.T) {
	e := newTestEngine(t)
	var a, b int
	ha := e.OnPlacement(func(PlacementContext) { a++ })
	e.OnPlacement(func(PlacementContext) { b++ })
	ha.Remove()
	ha.Remove() // second remove is a no-op
	CallbackHandle{}.Remove()

	if _, err := e.Drop(0, 0, []byte(`{"content":"<g/>"}`)); err != nil {
		t.Fatal(err)
	}
	if a != 0 || b != 1 {
		t.Errorf("a = %d, b = %d, want 0, 1", a, b)
	}
}

func TestEngineEventSink(t *testing.T) {
	e := newTestEngine(t)
	sink := &recordingSink{}
	e.SetEventSink(sink)

	_ = e.Wheel(-100, 0, 0)
	p, _ := e.Drop(11, 0, []byte(`{"sourceSymbolId":"S","content":"<g/>"}`))
	_, derr := e.Drop(0, 0, nil)

	vs := ViewportState{Scale: 1.1}
	want := []Notification{
		{Kind: NotifyViewportChanged, Cause: EventWheel, Viewport: vs},
		{Kind: NotifyPlacementCreated, Cause: EventDrop, Viewport: vs, Placement: p},
		{Kind: NotifyDropRejected, Cause: EventDrop, Viewport: vs, Err: derr},
	}
	if diff := cmp.Diff(want, sink.got, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineDispatch(t *testing.T) {
	e := newTestEngine(t)
	events := []Event{
		{Type: EventPointerDown, X: 100, Y: 100},
		{Type: EventPointerMove, X: 150, Y: 120},
		{Type: EventPointerUp, X: 150, Y: 120},
		{Type: EventDragOver, X: 10, Y: 10},
		{Type: EventDrop, X: 150, Y: 120, Payload: []byte(`{"sourceSymbolId":"S","content":"<g/>"}`)},
		{Type: EventPointerLeave},
		{Type: EventType(99)},
	}
	for _, ev := range events {
		if err := e.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%v): %v", ev.Type, err)
		}
	}
	assertState(t, e.Viewport(), ViewportState{PanX: 50, PanY: 20, Scale: 1})
	ps := e.Placements()
	if len(ps) != 1 {
		t.Fatalf("Placements() = %d, want 1", len(ps))
	}
	assertNear(t, "worldX", ps[0].WorldX, 100)
	assertNear(t, "worldY", ps[0].WorldY, 100)

	if err := e.Dispatch(Event{Type: EventDrop, Payload: []byte("{")}); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("malformed drop err = %v", err)
	}
}

func TestEnginePanButtons(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PanButtons = ButtonMaskMiddle
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	e.PointerDown(0, 0, MouseButtonLeft)
	e.PointerMove(40, 40)
	if e.Viewport() != IdentityViewport {
		t.Errorf("left drag panned with a middle-only config: %+v", e.Viewport())
	}
	e.PointerDown(0, 0, MouseButtonMiddle)
	e.PointerMove(40, 40)
	assertState(t, e.Viewport(), ViewportState{PanX: 40, PanY: 40, Scale: 1})
}

func TestEngineDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(t)
	e.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	e.PointerDown(0, 0, MouseButtonLeft)
	e.PointerMove(5, 5)
	if strings.Contains(buf.String(), "msg=pan") {
		t.Error("pan logged with debug mode off")
	}

	e.SetDebugMode(true)
	e.PointerMove(6, 6)
	e.PointerUp(6, 6)
	_, _ = e.Drop(0, 0, []byte("bad"))

	out := buf.String()
	for _, want := range []string{"msg=pan", `msg="pointer up"`, `msg="drop rejected"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}

	e.SetLogger(nil) // falls back to discarding
	e.PointerDown(0, 0, MouseButtonLeft)
}

func TestCallbackRemovedDuringDispatch(t *testing.T) {
	e := newTestEngine(t)
	var calls []string
	var ha CallbackHandle
	ha = e.OnViewportChange(func(ViewportChange) {
		calls = append(calls, "A")
		ha.Remove()
	})
	e.OnViewportChange(func(ViewportChange) { calls = append(calls, "B") })
	e.OnViewportChange(func(ViewportChange) { calls = append(calls, "C") })

	e.PointerDown(0, 0, MouseButtonLeft)
	e.PointerMove(10, 10)
	if diff := cmp.Diff([]string{"A", "B", "C"}, calls); diff != "" {
		t.Fatalf("first dispatch mismatch (-want +got):\n%s", diff)
	}

	e.PointerMove(20, 20)
	if diff := cmp.Diff([]string{"A", "B", "C", "B", "C"}, calls); diff != "" {
		t.Errorf("second dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestPlacementCallbackRemovesItself(t *testing.T) {
	e := newTestEngine(t)
	var first, other int
	var h CallbackHandle
	h = e.OnPlacement(func(PlacementContext) {
		first++
		h.Remove()
	})
	e.OnPlacement(func(PlacementContext) { other++ })
	var rejected int
	var hr CallbackHandle
	hr = e.OnDropRejected(func(DropRejectedContext) {
		rejected++
		hr.Remove()
	})
	e.OnDropRejected(func(DropRejectedContext) { rejected++ })

	payload := []byte(`{"sourceSymbolId":"S","content":"<g/>"}`)
	for i := 0; i < 3; i++ {
		_, _ = e.Drop(0, 0, payload)
		_, _ = e.Drop(0, 0, nil)
	}
	if first != 1 || other != 3 {
		t.Errorf("placement callbacks: first = %d, other = %d, want 1, 3", first, other)
	}
	if rejected != 4 {
		t.Errorf("rejected callbacks fired %d times, want 4", rejected)
	}
}

func TestEngineZoomByIsProgrammatic(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(t)
	e.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	e.SetDebugMode(true)
	var changes []ViewportChange
	e.OnViewportChange(func(c ViewportChange) { changes = append(changes, c) })

	if err := e.ZoomBy(2, 0, 0); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0].Cause != EventNone {
		t.Errorf("changes = %+v, want one with cause none", changes)
	}
	if err := e.ZoomBy(-1, 0, 0); !errors.Is(err, ErrInvalidScale) {
		t.Errorf("err = %v, want ErrInvalidScale", err)
	}
	out := buf.String()
	for _, want := range []string{"msg=zoom", `msg="zoom rejected"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}
