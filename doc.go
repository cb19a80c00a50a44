// Package rowan is a retained-mode 2D scene-graph engine for [Ebitengine].
//
// Rowan provides the node tree, lifecycle hooks, signals, collision
// detection, cameras, sprites, tile maps, input actions, tweens, and audio
// playback that every non-trivial 2D game needs.
//
// # Quick start
//
// The simplest way to get started is [World.Run], which creates a window
// and game loop for you:
//
//	world := rowan.NewWorld()
//	// ... add nodes under world.Root() ...
//	world.Run("My Game", 640, 480)
//
// For full control, implement [ebiten.Game] yourself and call
// [World.Update] and [World.Draw] directly:
//
//	type Game struct{ world *rowan.World }
//
//	func (g *Game) Update() error         { g.world.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)  { g.world.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a tree rooted at [World.Root].
// Children inherit their parent's transform, and each step of the game
// loop walks the tree in post-order calling [Node.OnProcess] hooks.
//
// Create nodes with typed constructors: [NewNode], [NewSprite],
// [NewArea], [NewStaticBody], [NewKinematicBody], [NewCamera],
// [NewTileMap], and others.
//
//	player := rowan.NewKinematicBody("player")
//	player.AddChild(rowan.NewRectShape("hitbox", rowan.ShapePhysics, rowan.Vec2{X: 16, Y: 24}))
//	world.Root().AddChild(player)
//
// Nodes communicate through [Signal] values: bodies emit body_entered /
// body_exited as the physics server diffs overlaps each tick, and any
// node can declare its own signals with [NewSignal].
//
// # Key features
//
// Rowan includes pause-aware processing (per-node [PauseMode] flags),
// layer/mask filtered collision between [NewArea], [NewStaticBody], and
// [NewKinematicBody] nodes, cameras with follow/scroll-to and limits,
// Aseprite-style texture atlases (optionally gzip-compressed), sparse
// tile maps, TOML-configurable input actions, tweens (via [gween]),
// MP3/OGG audio, node groups, locale tables, and ECS integration (via
// the [Donburi] adapter in rowan/ecs).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package rowan
