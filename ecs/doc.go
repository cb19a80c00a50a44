// Package ecs provides ECS adapters for rowan's input event system.
//
// The primary adapter is [NewDonburiSink], which bridges rowan input
// events (key and action edges) into a [Donburi] world as typed events.
// Subscribe to [InputEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(ecsWorld)
//	world.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
