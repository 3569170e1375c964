package canvas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// scriptStep is a single event in a script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Button string  `json:"button,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	// Payload is either a JSON object (sent re-serialized) or a JSON string
	// (sent verbatim, which allows scripting malformed payloads).
	Payload json.RawMessage `json:"payload,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script is a recorded sequence of host events, replayed with
// Engine.Replay. Scripts make gesture sequences reproducible in tests and
// bug reports:
//
//	{"steps": [
//		{"action": "down", "x": 100, "y": 100},
//		{"action": "move", "x": 150, "y": 120},
//		{"action": "up", "x": 150, "y": 120},
//		{"action": "wheel", "deltaY": -100, "x": 150, "y": 120},
//		{"action": "drop", "x": 200, "y": 80,
//		 "payload": {"sourceSymbolId": "Source", "content": "<svg/>"}}
//	]}
type Script struct {
	events []Event
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	events := make([]Event, 0, len(f.Steps))
	for i, st := range f.Steps {
		ev, err := st.event()
		if err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return &Script{events: events}, nil
}

func (st scriptStep) event() (Event, error) {
	typ, ok := parseEventType(st.Action)
	if !ok {
		return Event{}, fmt.Errorf("unknown action %q", st.Action)
	}
	button, ok := parseMouseButton(st.Button)
	if !ok {
		return Event{}, fmt.Errorf("unknown button %q", st.Button)
	}
	ev := Event{Type: typ, X: st.X, Y: st.Y, Button: button, DeltaY: st.DeltaY}
	if typ == EventDrop {
		ev.Payload = rawPayload(st.Payload)
	}
	return ev, nil
}

// rawPayload turns a script payload into the bytes a host would deliver.
func rawPayload(raw json.RawMessage) []byte {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return []byte(s)
		}
	}
	return []byte(raw)
}

// Len returns the number of events in the script.
func (s *Script) Len() int {
	return len(s.events)
}

// Events returns a copy of the script's events.
func (s *Script) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// ReplayReport summarizes a replay.
type ReplayReport struct {
	Dispatched int
	Placed     []Placement
	// Rejected holds one error per refused drop or zoom, in order.
	Rejected []error
}

// Replay dispatches every scripted event in order. Recoverable failures do
// not stop the replay; they are collected in the report.
func (e *Engine) Replay(s *Script) ReplayReport {
	var rep ReplayReport
	for _, ev := range s.events {
		before := e.registry.Len()
		err := e.Dispatch(ev)
		rep.Dispatched++
		if err != nil {
			rep.Rejected = append(rep.Rejected, err)
			continue
		}
		if e.registry.Len() > before {
			all := e.registry.placements
			rep.Placed = append(rep.Placed, all[len(all)-1])
		}
	}
	return rep
}

// RejectedDrops counts the rejected events that were malformed drops.
func (r ReplayReport) RejectedDrops() int {
	n := 0
	for _, err := range r.Rejected {
		if errors.Is(err, ErrMalformedPayload) || errors.Is(err, ErrInvalidDropPosition) {
			n++
		}
	}
	return n
}
