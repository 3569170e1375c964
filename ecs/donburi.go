package ecs

import (
	"github.com/phanxgames/canvas"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NotificationEventType is the Donburi event type for canvas notifications.
// Subscribe to this in your ECS systems to receive viewport, placement and
// rejected-drop events.
var NotificationEventType = events.NewEventType[canvas.Notification]()

// PlacementData is the component mirrored for each placement.
type PlacementData struct {
	ID             canvas.PlacementID
	SourceSymbolID string
	WorldX, WorldY float64
	Content        string
}

// PlacementComponent holds PlacementData on placement entities.
var PlacementComponent = donburi.NewComponentType[PlacementData]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Notifications are published to NotificationEventType and can be consumed
// with events.Subscribe and ProcessEvents. Each created placement also
// becomes an entity with a PlacementComponent.
func NewDonburiSink(world donburi.World) canvas.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(n canvas.Notification) {
	if n.Kind == canvas.NotifyPlacementCreated {
		p := n.Placement
		entity := s.world.Create(PlacementComponent)
		PlacementComponent.SetValue(s.world.Entry(entity), PlacementData{
			ID:             p.ID,
			SourceSymbolID: p.SourceSymbolID,
			WorldX:         p.WorldX,
			WorldY:         p.WorldY,
			Content:        p.Content,
		})
	}
	NotificationEventType.Publish(s.world, n)
}
