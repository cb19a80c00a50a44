// collision is a small arena game built on the body layer: a kinematic
// player collects area gems inside a static-body arena. Bodies declare
// what they present (Layer) and what they look for (Mask); contact edges
// arrive through the body_entered and body_exited signals. Move with
// WASD or the arrow keys. F1 toggles the collision gizmos, P pauses.
package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/rowan"
)

const (
	windowTitle = "Rowan — Collision Demo"
	screenW     = 960
	screenH     = 540

	wallThickness = 24
	playerSize    = 40
	playerSpeed   = 300 // pixels per second
	gemRadius     = 14
	gemCount      = 12

	// Bump flash
	flashTime = 0.25 // seconds
)

// Collision bits. The player presents layerPlayer and seeks the other
// two; gems and the zone present their bit and seek nothing, so their
// signals fire when the player's scan finds them. Walls keep the static
// default (present nothing, seek bit 0), which lands their contacts on
// the player's own body_entered.
const (
	layerPlayer rowan.CollisionFlags = 1 << iota
	layerGems
	layerZone
)

var (
	wallColor    = rowan.Color{R: 0.32, G: 0.34, B: 0.4, A: 1}
	playerColor  = rowan.Color{R: 0.4, G: 0.75, B: 1, A: 1}
	bumpColor    = rowan.Color{R: 1, G: 0.4, B: 0.35, A: 1}
	gemColor     = rowan.Color{R: 0.45, G: 0.95, B: 0.6, A: 1}
	zoneColor    = rowan.Color{R: 1, G: 1, B: 1, A: 0.12}
	zoneHotColor = rowan.Color{R: 1, G: 0.9, B: 0.4, A: 0.25}
)

func main() {
	world := rowan.NewWorld()
	world.ClearColor = rowan.Color{R: 0.07, G: 0.07, B: 0.1, A: 1}
	root := world.Root()

	in := world.Input()
	in.RegisterAction("left", ebiten.KeyArrowLeft, ebiten.KeyA)
	in.RegisterAction("right", ebiten.KeyArrowRight, ebiten.KeyD)
	in.RegisterAction("up", ebiten.KeyArrowUp, ebiten.KeyW)
	in.RegisterAction("down", ebiten.KeyArrowDown, ebiten.KeyS)
	in.RegisterAction("gizmos", ebiten.KeyF1)
	in.RegisterAction("pause", ebiten.KeyP)

	for _, w := range []struct {
		name          string
		x, y, wd, ht  float64
	}{
		{"wall_top", 0, 0, screenW, wallThickness},
		{"wall_bottom", 0, screenH - wallThickness, screenW, wallThickness},
		{"wall_left", 0, 0, wallThickness, screenH},
		{"wall_right", screenW - wallThickness, 0, wallThickness, screenH},
	} {
		root.AddChild(newWall(w.name, w.x, w.y, w.wd, w.ht))
	}

	player := newPlayer()
	root.AddChild(player)

	zone := newZone()
	root.AddChild(zone)
	zone.Body.BodyEntered.Connect(zone, "tint", func(args ...any) {
		zone.Child("visual").Color = zoneHotColor
	})
	zone.Body.BodyExited.Connect(zone, "tint", func(args ...any) {
		zone.Child("visual").Color = zoneColor
	})

	// Gems respawn as a fresh wave once the last one is collected. Frees
	// and spawns are deferred: collection happens mid collision pass.
	remaining := 0
	wave := 0
	var spawnWave func()
	collect := func(gem *rowan.Node) {
		world.Defer(gem.Free)
		remaining--
		if remaining == 0 {
			world.Defer(spawnWave)
			return
		}
		ebiten.SetWindowTitle(fmt.Sprintf("%s — %d gems left", windowTitle, remaining))
	}
	spawnWave = func() {
		wave++
		remaining = gemCount
		for i := 0; i < gemCount; i++ {
			gem := newGem(fmt.Sprintf("gem_%d_%d", wave, i), collect)
			world.AddToGroup(gem, "gems")
			root.AddChild(gem)
		}
		ebiten.SetWindowTitle(fmt.Sprintf("%s — wave %d, %d gems left", windowTitle, wave, remaining))
	}
	spawnWave()

	// Walls land on the player's own body_entered; flash on each bump.
	flash := 0.0
	playerVisual := player.Child("visual")
	player.Body.BodyEntered.Connect(player, "bump", func(args ...any) {
		flash = flashTime
	})
	player.OnProcess = func(n *rowan.Node, dt float64) {
		n.Body.Velocity = in.Strength("left", "right", "up", "down").Normalized().Scale(playerSpeed)

		// Kinematic motion reports contacts but never resolves them, so
		// hold the player inside the arena by hand. The clamp leaves the
		// player's shape sharing an edge with the wall, which still
		// counts as contact.
		p := n.Position
		p.X = clamp(p.X, wallThickness+playerSize/2, screenW-wallThickness-playerSize/2)
		p.Y = clamp(p.Y, wallThickness+playerSize/2, screenH-wallThickness-playerSize/2)
		n.SetPosition(p)

		if flash > 0 {
			flash -= dt
			t := clamp(flash/flashTime, 0, 1)
			playerVisual.Color = lerpColor(playerColor, bumpColor, t)
		}
	}

	gizmos := false
	in.OnEvent(func(ev rowan.InputEvent) {
		if ev.Kind != rowan.EventActionPressed {
			return
		}
		switch ev.Action {
		case "gizmos":
			gizmos = !gizmos
			world.SetDebugMode(gizmos)
		case "pause":
			world.SetPaused(!world.IsPaused())
		}
	})

	root.AddChild(rowan.NewFPSWidget())

	if err := world.Run(windowTitle, screenW, screenH); err != nil {
		log.Fatal(err)
	}
}

// newWall builds one arena edge: a static body with a rectangle shape
// and a matching sprite. Walls keep the static defaults.
func newWall(name string, x, y, w, h float64) *rowan.Node {
	wall := rowan.NewStaticBody(name)
	wall.Position = rowan.Vec2{X: x, Y: y}

	shape := rowan.NewRectShape("hitbox", rowan.ShapePhysics, rowan.Vec2{X: w, Y: h})
	wall.AddChild(shape)

	visual := rowan.NewImageSprite("visual", rowan.WhitePixel())
	visual.Scale = rowan.Vec2{X: w, Y: h}
	visual.Color = wallColor
	wall.AddChild(visual)
	return wall
}

// newPlayer builds the kinematic player: centered anchor, a square
// physics shape, and a sprite.
func newPlayer() *rowan.Node {
	player := rowan.NewKinematicBody("player")
	player.Position = rowan.Vec2{X: screenW / 2, Y: screenH * 0.75}
	player.Body.Layer = layerPlayer
	player.Body.Mask = layerGems | layerZone

	shape := rowan.NewRectShape("hitbox", rowan.ShapePhysics, rowan.Vec2{X: playerSize, Y: playerSize})
	shape.Anchor = rowan.Vec2{X: 0.5, Y: 0.5}
	player.AddChild(shape)

	visual := rowan.NewImageSprite("visual", rowan.WhitePixel())
	visual.Scale = rowan.Vec2{X: playerSize, Y: playerSize}
	visual.Anchor = rowan.Vec2{X: 0.5, Y: 0.5}
	visual.Color = playerColor
	player.AddChild(visual)
	return player
}

// newGem builds one collectible: an area presenting layerGems with a
// circle shape, collected on its first body_entered.
func newGem(name string, collect func(*rowan.Node)) *rowan.Node {
	gem := rowan.NewArea(name)
	gem.Position = rowan.Vec2{
		X: wallThickness + gemRadius + rand.Float64()*(screenW-2*(wallThickness+gemRadius)),
		Y: wallThickness + gemRadius + rand.Float64()*(screenH-2*(wallThickness+gemRadius)),
	}
	gem.Body.Layer = layerGems
	gem.Body.Mask = 0

	shape := rowan.NewCircleShape("hitbox", rowan.ShapePhysics, gemRadius)
	gem.AddChild(shape)

	visual := rowan.NewImageSprite("visual", rowan.WhitePixel())
	visual.Scale = rowan.Vec2{X: gemRadius * 2, Y: gemRadius * 2}
	visual.Anchor = rowan.Vec2{X: 0.5, Y: 0.5}
	visual.Color = gemColor
	gem.AddChild(visual)

	gem.Body.BodyEntered.Connect(gem, "collect", func(args ...any) {
		collect(gem)
	})
	return gem
}

// newZone builds the center zone: an area that tints while the player
// overlaps it, showing the exit edge as well as the enter edge.
func newZone() *rowan.Node {
	const zoneSize = 150
	zone := rowan.NewArea("zone")
	zone.Position = rowan.Vec2{X: screenW / 2, Y: screenH / 2}
	zone.Body.Layer = layerZone
	zone.Body.Mask = 0

	shape := rowan.NewRectShape("hitbox", rowan.ShapePhysics, rowan.Vec2{X: zoneSize, Y: zoneSize})
	shape.Anchor = rowan.Vec2{X: 0.5, Y: 0.5}
	zone.AddChild(shape)

	visual := rowan.NewImageSprite("visual", rowan.WhitePixel())
	visual.Scale = rowan.Vec2{X: zoneSize, Y: zoneSize}
	visual.Anchor = rowan.Vec2{X: 0.5, Y: 0.5}
	visual.Color = zoneColor
	zone.AddChild(visual)
	return zone
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func lerpColor(a, b rowan.Color, t float64) rowan.Color {
	return rowan.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
