package canvas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPayload is returned when a drop payload is absent, cannot
	// be parsed, or has no usable content. The drop is a no-op.
	ErrMalformedPayload = errors.New("canvas: malformed drop payload")
	// ErrInvalidDropPosition is returned when a drop position does not map
	// to a finite world point.
	ErrInvalidDropPosition = errors.New("canvas: invalid drop position")
)

// PayloadMIMEType is the data-transfer type palettes use for symbol payloads.
const PayloadMIMEType = "application/json"

// DropEffect is the feedback a drop target gives while a drag hovers over it.
type DropEffect uint8

const (
	DropEffectNone DropEffect = iota // the host must refuse the drop
	DropEffectCopy                   // the payload will be copied into the scene
)

func (e DropEffect) String() string {
	if e == DropEffectCopy {
		return "copy"
	}
	return "none"
}

// SymbolPayload is the descriptor a palette serializes on drag start.
type SymbolPayload struct {
	SourceSymbolID string `json:"sourceSymbolId"`
	Content        string `json:"content"`
}

// wirePayload also accepts the older palette shape {"name", "svg"}.
type wirePayload struct {
	SourceSymbolID string `json:"sourceSymbolId"`
	Content        string `json:"content"`
	Name           string `json:"name"`
	SVG            string `json:"svg"`
}

// EncodePayload serializes p for a drag-and-drop data transfer.
func EncodePayload(p SymbolPayload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode symbol payload: %w", err)
	}
	return data, nil
}

// DecodePayload parses a palette payload. Every failure wraps
// ErrMalformedPayload.
func DecodePayload(data []byte) (SymbolPayload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return SymbolPayload{}, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return SymbolPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	p := SymbolPayload{SourceSymbolID: w.SourceSymbolID, Content: w.Content}
	if p.SourceSymbolID == "" {
		p.SourceSymbolID = w.Name
	}
	if strings.TrimSpace(p.Content) == "" {
		p.Content = w.SVG
	}
	if strings.TrimSpace(p.Content) == "" {
		return SymbolPayload{}, fmt.Errorf("%w: missing content", ErrMalformedPayload)
	}
	return p, nil
}

// DropResolver turns drops into placements, converting the drop point with
// the viewport state live at the moment of the drop.
type DropResolver struct {
	vp       *Viewport
	registry *Registry

	// notify is called with every new placement.
	notify func(Placement)
}

// NewDropResolver creates a resolver that reads vp and appends to registry.
func NewDropResolver(vp *Viewport, registry *Registry) *DropResolver {
	return &DropResolver{vp: vp, registry: registry}
}

// DragOver reports the effect to show while a drag hovers. Symbols are
// always copied, so the host must allow the drop.
func (d *DropResolver) DragOver() DropEffect {
	return DropEffectCopy
}

// Resolve decodes payload, converts the screen point to world space and
// appends a new placement. On error the registry is unchanged.
func (d *DropResolver) Resolve(screenX, screenY float64, payload []byte) (Placement, error) {
	p, err := DecodePayload(payload)
	if err != nil {
		return Placement{}, err
	}
	wx, wy := d.vp.ToWorld(screenX, screenY)
	if !finite(wx, wy) {
		return Placement{}, fmt.Errorf("%w: (%v, %v)", ErrInvalidDropPosition, screenX, screenY)
	}
	placed := d.registry.Add(p.SourceSymbolID, wx, wy, p.Content)
	if d.notify != nil {
		d.notify(placed)
	}
	return placed, nil
}

// unwrapSVG strips one enclosing <svg …>…</svg> element. Content without
// an svg wrapper is returned unchanged.
func unwrapSVG(content string) string {
	s := strings.TrimSpace(content)
	if len(s) < 5 || !strings.HasPrefix(s, "<svg") {
		return content
	}
	switch s[4] {
	case ' ', '\t', '\n', '\r', '>', '/':
	default:
		return content
	}
	open := strings.IndexByte(s, '>')
	if open < 0 {
		return content
	}
	if s[open-1] == '/' {
		return ""
	}
	end := strings.LastIndex(s, "</svg>")
	if end < open {
		return content
	}
	return s[open+1 : end]
}
