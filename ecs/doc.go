// Package ecs provides ECS adapters for canvas engine notifications.
//
// The primary adapter is [NewDonburiSink], which bridges viewport changes,
// placements and rejected drops into a [Donburi] world as typed events, and
// mirrors every placement as an entity carrying a [PlacementData] component.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
