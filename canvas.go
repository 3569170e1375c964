package canvas

import (
	"fmt"
	"strings"
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// EventType identifies a kind of host input event.
type EventType uint8

const (
	EventNone         EventType = iota // zero value, never dispatched
	EventPointerDown                   // a pointer button was pressed over the surface
	EventPointerMove                   // the pointer moved
	EventPointerUp                     // a pointer button was released
	EventPointerLeave                  // the pointer left the surface
	EventWheel                         // a scroll/zoom intent
	EventDragOver                      // a palette drag hovers over the surface
	EventDrop                          // a palette drag was released over the surface
)

var eventTypeNames = [...]string{
	EventNone:         "none",
	EventPointerDown:  "down",
	EventPointerMove:  "move",
	EventPointerUp:    "up",
	EventPointerLeave: "leave",
	EventWheel:        "wheel",
	EventDragOver:     "dragover",
	EventDrop:         "drop",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// parseEventType is the inverse of EventType.String.
func parseEventType(name string) (EventType, bool) {
	for i, n := range eventTypeNames {
		if i != int(EventNone) && n == name {
			return EventType(i), true
		}
	}
	return EventNone, false
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("MouseButton(%d)", b)
	}
}

// parseMouseButton is the inverse of MouseButton.String. An empty name is
// the left button.
func parseMouseButton(name string) (MouseButton, bool) {
	switch strings.ToLower(name) {
	case "", "left":
		return MouseButtonLeft, true
	case "right":
		return MouseButtonRight, true
	case "middle":
		return MouseButtonMiddle, true
	default:
		return MouseButtonLeft, false
	}
}

// ButtonMask is a set of mouse buttons.
// Values can be combined with bitwise OR (e.g. ButtonMaskLeft | ButtonMaskMiddle).
type ButtonMask uint8

const (
	ButtonMaskLeft   ButtonMask = 1 << iota // left button
	ButtonMaskRight                         // right button
	ButtonMaskMiddle                        // middle button

	ButtonMaskAny = ButtonMaskLeft | ButtonMaskRight | ButtonMaskMiddle
)

// Has reports whether b is in the mask.
func (m ButtonMask) Has(b MouseButton) bool {
	return m&(1<<b) != 0
}

// Decode parses a comma-separated button list ("left,middle") or "any".
// It lets a ButtonMask be read straight from the environment by envconfig.
func (m *ButtonMask) Decode(value string) error {
	var mask ButtonMask
	for _, part := range strings.Split(value, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "any", "all":
			mask |= ButtonMaskAny
		case "left", "primary":
			mask |= ButtonMaskLeft
		case "right", "secondary":
			mask |= ButtonMaskRight
		case "middle":
			mask |= ButtonMaskMiddle
		case "":
		default:
			return fmt.Errorf("unknown mouse button %q", part)
		}
	}
	if mask == 0 {
		return fmt.Errorf("empty button list %q", value)
	}
	*m = mask
	return nil
}

// Event is a single host input event. Coordinates are in host space; the
// engine subtracts the surface origin before using them.
type Event struct {
	Type EventType
	X, Y float64
	// Button is the pressed button (EventPointerDown only).
	Button MouseButton
	// DeltaY is the wheel delta (EventWheel only). Negative zooms in.
	DeltaY float64
	// Payload is the serialized palette descriptor (EventDrop only).
	Payload []byte
}
