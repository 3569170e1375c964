package canvas

import (
	"math"
	"strconv"
)

// PlacementID identifies a placement. IDs are assigned 1, 2, 3, … in
// insertion order; zero is never a valid ID.
type PlacementID uint64

func (id PlacementID) String() string {
	return "placement-" + strconv.FormatUint(uint64(id), 10)
}

// Placement is a symbol dropped onto the scene. Its world position is
// computed once, at drop time, and never changes afterwards: later pans and
// zooms only change where it projects on screen.
type Placement struct {
	ID             PlacementID
	SourceSymbolID string
	WorldX, WorldY float64
	// Content is the drawable description delivered by the palette,
	// typically an SVG fragment.
	Content string
}

// InnerContent returns Content with a single enclosing <svg> element
// stripped, which is what hosts embed inside a <g> group.
func (p Placement) InnerContent() string {
	return unwrapSVG(p.Content)
}

// Registry is the ordered, append-only collection of placements.
// Registry is not safe for concurrent use.
type Registry struct {
	placements []Placement
	index      map[PlacementID]int
	nextID     PlacementID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[PlacementID]int)}
}

// Add appends a placement and returns it with its assigned ID.
func (r *Registry) Add(sourceSymbolID string, worldX, worldY float64, content string) Placement {
	r.nextID++
	p := Placement{
		ID:             r.nextID,
		SourceSymbolID: sourceSymbolID,
		WorldX:         worldX,
		WorldY:         worldY,
		Content:        content,
	}
	r.index[p.ID] = len(r.placements)
	r.placements = append(r.placements, p)
	return p
}

// Len returns the number of placements.
func (r *Registry) Len() int {
	return len(r.placements)
}

// All returns a copy of the placements in insertion order.
func (r *Registry) All() []Placement {
	out := make([]Placement, len(r.placements))
	copy(out, r.placements)
	return out
}

// Get looks up a placement by ID.
func (r *Registry) Get(id PlacementID) (Placement, bool) {
	i, ok := r.index[id]
	if !ok {
		return Placement{}, false
	}
	return r.placements[i], true
}

// Bounds returns the world-space bounding box of all placement anchors.
// ok is false when the registry is empty.
func (r *Registry) Bounds() (b Rect, ok bool) {
	if len(r.placements) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range r.placements {
		p := &r.placements[i]
		minX = math.Min(minX, p.WorldX)
		minY = math.Min(minY, p.WorldY)
		maxX = math.Max(maxX, p.WorldX)
		maxY = math.Max(maxY, p.WorldY)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
