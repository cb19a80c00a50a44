package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EventSink is the interface for optional ECS integration. When set on a
// World, every dispatched input event is forwarded to it.
type EventSink interface {
	EmitEvent(ev InputEvent)
}

// World owns one scene tree and everything that serves it: the collision
// space, the input router, active tweens, node groups, and the pause
// state. Several independent Worlds can coexist (tests build throwaway
// ones); each belongs to a single goroutine.
//
// One logical tick is the sequence DispatchInput, Step, Draw,
// ProcessCollisions. Update bundles the non-draw stages for use from an
// ebiten.Game, and Run supplies the whole shell.
type World struct {
	root    *Node
	physics *PhysicsServer
	input   *Input
	sink    EventSink

	// ClearColor fills the screen before the draw pass when its alpha is
	// above zero.
	ClearColor Color

	// ViewSize is the logical screen size. Run sets it; set it directly
	// when driving Update and Draw from a custom game loop. With no
	// active camera it defines the visible rectangle at the origin.
	ViewSize Vec2

	paused bool
	// PauseToggled fires with the new pause state (bool) after SetPaused
	// changes it.
	PauseToggled *Signal

	tweens   []*Tween
	deferred []func()
	groups   map[string][]*Node

	activeCamera *Node

	locale       string
	translations map[string]map[string]string
	// LocaleChanged fires with the new locale code after SetLocale.
	LocaleChanged *Signal

	testRunner *TestRunner
}

// NewWorld creates a world with an empty root container on the tree.
func NewWorld() *World {
	w := &World{
		physics: NewPhysicsServer(),
		groups:  make(map[string][]*Node),
	}
	w.input = newInput(w)
	w.PauseToggled = NewSignal(w, "pause_toggled")
	w.LocaleChanged = NewSignal(w, "locale_changed")
	w.root = NewNode("root")
	w.root.world = w
	w.root.onTree = true
	return w
}

// Root returns the tree's root container node.
func (w *World) Root() *Node { return w.root }

// Physics returns the world's collision space.
func (w *World) Physics() *PhysicsServer { return w.physics }

// Input returns the world's input router.
func (w *World) Input() *Input { return w.input }

// Step advances active tweens, then runs the per-frame propagation over
// the whole tree: global transforms refresh top-down, children process
// before parents, and the pause gate applies per node. Deferred closures
// queued with Defer run after the propagation finishes.
func (w *World) Step(dt float64) {
	w.stepTweens(dt)
	var pause PauseMode
	if w.paused {
		pause = PauseTreePaused
	}
	w.root.propagate(pause, dt)
	for len(w.deferred) > 0 {
		fns := w.deferred
		w.deferred = nil
		for _, fn := range fns {
			fn()
		}
	}
}

// Defer queues fn to run once the current Step's propagation completes.
// Use it for structural mutations (freeing a sibling, reparenting) from
// inside process callbacks, where mutating a live child list is unsafe.
func (w *World) Defer(fn func()) {
	w.deferred = append(w.deferred, fn)
}

// DispatchInput polls the keyboard, resolves action bindings, and invokes
// the OnInput callback of every registered node synchronously.
func (w *World) DispatchInput() {
	w.input.dispatch()
}

// Update runs the logic stages of one tick: input dispatch, tree
// propagation, then collision processing. Drawing is left to ebiten's draw
// callback; the ordering the collision bookkeeping depends on (propagation
// before ProcessCollisions) is preserved here.
func (w *World) Update() {
	if w.testRunner != nil {
		w.testRunner.step(w)
	}
	w.DispatchInput()
	w.Step(1.0 / float64(ebiten.TPS()))
	w.physics.ProcessCollisions()
}

// Draw fills the screen with ClearColor and walks the tree pre-order,
// drawing every visible node in child order. Call it from an ebiten draw
// callback; it never mutates game state.
func (w *World) Draw(screen *ebiten.Image) {
	if w.ClearColor.A > 0 {
		screen.Fill(w.ClearColor.toRGBA())
	}
	drawTree(w.root, screen, w.cameraOffset())
}

// --- Pause ---

// SetPaused pauses or resumes the tree and emits PauseToggled on change.
// While paused, only nodes carrying PauseContinue keep processing.
func (w *World) SetPaused(paused bool) {
	if w.paused == paused {
		return
	}
	w.paused = paused
	w.PauseToggled.Emit(paused)
}

// IsPaused reports the tree-wide pause state.
func (w *World) IsPaused() bool { return w.paused }

// --- Groups ---

// AddToGroup tags a node with a named group. A node may belong to any
// number of groups; adding twice is a no-op.
func (w *World) AddToGroup(n *Node, group string) {
	if n == nil || n.freed {
		return
	}
	if containsNode(w.groups[group], n) {
		return
	}
	w.groups[group] = append(w.groups[group], n)
}

// RemoveFromGroup removes the node's tag. No-op when absent.
func (w *World) RemoveFromGroup(n *Node, group string) {
	w.groups[group] = removeNode(w.groups[group], n)
}

// IsInGroup reports whether the node currently carries the group tag.
func (w *World) IsInGroup(n *Node, group string) bool {
	return !n.freed && containsNode(w.groups[group], n)
}

// Group returns the live members of a group. Freed nodes are pruned on
// the way; the returned slice must not be mutated.
func (w *World) Group(group string) []*Node {
	members := w.groups[group]
	kept := members[:0]
	for _, n := range members {
		if !n.freed {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(members); i++ {
		members[i] = nil
	}
	w.groups[group] = kept
	return kept
}

// CallGroup invokes fn for every live member of a group.
func (w *World) CallGroup(group string, fn func(n *Node)) {
	for _, n := range w.Group(group) {
		fn(n)
	}
}

// --- Active camera ---

// SetActiveCamera selects the camera node whose scroll offsets the draw
// pass. Pass nil to draw in plain world coordinates.
func (w *World) SetActiveCamera(cam *Node) {
	if cam != nil && cam.Kind != KindCamera {
		panic("rowan: not a camera node")
	}
	w.activeCamera = cam
}

// ActiveCamera returns the selected camera node, or nil.
func (w *World) ActiveCamera() *Node { return w.activeCamera }

// cameraOffset returns the world-space offset the active camera subtracts
// from drawn positions.
func (w *World) cameraOffset() Vec2 {
	if w.activeCamera == nil || w.activeCamera.Camera == nil {
		return Vec2{}
	}
	return w.activeCamera.Camera.offset
}

// viewRect returns the world-space rectangle currently visible: the
// active camera's view, or a ViewSize window at the origin.
func (w *World) viewRect() (Rect, bool) {
	if cam := w.activeCamera; cam != nil && cam.Camera != nil {
		return cam.Camera.VisibleRect(), true
	}
	if w.ViewSize.X > 0 && w.ViewSize.Y > 0 {
		return Rect{Width: w.ViewSize.X, Height: w.ViewSize.Y}, true
	}
	return Rect{}, false
}

// --- ECS bridge ---

// SetEventSink sets the optional ECS bridge; dispatched input events are
// forwarded to it.
func (w *World) SetEventSink(sink EventSink) { w.sink = sink }

// SetDebugMode enables or disables debug mode. When enabled, freed-node
// access panics, tree depth and child count warnings are printed, and
// bodies draw their shape outlines.
func (w *World) SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// --- Game shell ---

// gameShell adapts a World to the ebiten.Game interface.
type gameShell struct {
	world         *World
	width, height int
}

func (g *gameShell) Update() error {
	g.world.Update()
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens a window of the given logical size and drives the world's tick
// until the window closes. Callers that need a custom ebiten.Game (extra
// draw layers, custom layout) can skip Run and call Update and Draw
// themselves.
func (w *World) Run(title string, width, height int) error {
	w.ViewSize = Vec2{X: float64(width), Y: float64(height)}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	return ebiten.RunGame(&gameShell{world: w, width: width, height: height})
}
