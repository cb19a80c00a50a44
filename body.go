package rowan

// BodyData is the payload of the three collision-body kinds. A body owns
// the PHYSICS shapes among its child nodes, presents the bits of Layer to
// other bodies, and detects the bits of Mask in them. Contact edges are
// derived by diffing the current tick's contact set against the previous
// tick's.
type BodyData struct {
	// Layer is what this body presents; Mask is what it looks for. Both
	// are indexed by the physics space on tree-enter, so set them before
	// adding the body to the tree.
	Layer CollisionFlags
	Mask  CollisionFlags

	// BodyEntered fires on the tick a new contact appears, with the other
	// body node as the argument. BodyExited fires on the tick after a
	// contact disappears. Each fires at most once per pair per edge.
	BodyEntered *Signal
	BodyExited  *Signal

	activeShapes []*Node

	// bounds is the union of the active shapes' rects stored relative to
	// the body's global position, so translation never stales it.
	bounds      Rect
	boundsDirty bool

	colliding     []*Node // contacts found by the current tick's collision pass
	lastColliding []*Node // the previous tick's completed contact set

	// Kinematic motion
	Velocity Vec2 // per-second velocity integrated every step
	motion   Vec2 // one-shot motion queued by MoveAndCollide

	registered bool // already indexed by a physics space
}

func newBody(name string, kind NodeKind) *Node {
	n := &Node{name: name, Kind: kind}
	nodeDefaults(n)
	n.Body = &BodyData{
		boundsDirty: true,
	}
	n.Body.BodyEntered = NewSignal(n, "body_entered")
	n.Body.BodyExited = NewSignal(n, "body_exited")
	return n
}

// NewArea creates an overlap-detection body. Areas present and detect bit
// 0 by default and never move on their own.
func NewArea(name string) *Node {
	n := newBody(name, KindArea)
	n.Body.Layer = 1
	n.Body.Mask = 1
	return n
}

// NewStaticBody creates an immovable body. Static bodies default to layer
// 0 (detect only, present nothing), which suits walls and props that react
// to things bumping into them. Assign Layer to make one discoverable.
func NewStaticBody(name string) *Node {
	n := newBody(name, KindStaticBody)
	n.Body.Mask = 1
	return n
}

// NewKinematicBody creates a script-driven moving body. Kinematic bodies
// present and detect bit 0 by default.
func NewKinematicBody(name string) *Node {
	n := newBody(name, KindKinematicBody)
	n.Body.Layer = 1
	n.Body.Mask = 1
	return n
}

// HasShape reports whether the body owns at least one active PHYSICS shape.
func (n *Node) HasShape() bool {
	return n.Body != nil && len(n.Body.activeShapes) > 0
}

// CollidingBodies returns the contact set of the most recently completed
// tick. The returned slice must not be mutated.
func (n *Node) CollidingBodies() []*Node {
	return n.Body.lastColliding
}

// MoveAndCollide queues a one-shot motion, applied scaled by delta time at
// the start of the body's next physics step. Calling it every frame with a
// per-second velocity is equivalent to setting Velocity.
func (n *Node) MoveAndCollide(motion Vec2) {
	if n.Kind != KindKinematicBody {
		panic("rowan: not a kinematic body")
	}
	n.Body.motion = n.Body.motion.Add(motion)
}

// Bounds returns the body's world-space bounding rectangle: the union of
// its active shapes' rects. The union is memoized relative to the body's
// position and invalidated when any owned shape reports a geometry change,
// so moving the body is free and resizing a shape costs one lazy rebuild.
func (n *Node) Bounds() Rect {
	b := n.Body
	if b.boundsDirty {
		b.rebuildBounds(n)
	}
	return Rect{
		X:      b.bounds.X + n.globalPosition.X,
		Y:      b.bounds.Y + n.globalPosition.Y,
		Width:  b.bounds.Width,
		Height: b.bounds.Height,
	}
}

func (b *BodyData) rebuildBounds(n *Node) {
	b.boundsDirty = false
	b.bounds = Rect{}
	for i, s := range b.activeShapes {
		r := s.ShapeRect()
		r.X -= n.globalPosition.X
		r.Y -= n.globalPosition.Y
		if i == 0 {
			b.bounds = r
		} else {
			b.bounds = b.bounds.Union(r)
		}
	}
}

// IsColliding reports whether any active shape of this body overlaps any
// active shape of other, using the exact narrow-phase tests.
func (n *Node) IsColliding(other *Node) bool {
	if n.Body == nil || other.Body == nil {
		return false
	}
	for _, a := range n.Body.activeShapes {
		for _, ob := range other.Body.activeShapes {
			if shapesCollide(a, ob) {
				return true
			}
		}
	}
	return false
}

// adoptShape registers a PHYSICS shape child with its owning body and
// subscribes to its geometry changes. Area-kind shapes are left alone; they
// serve zone tests such as the visibility notifier.
func (b *BodyData) adoptShape(owner, shape *Node) {
	if shape.Shape.Kind != ShapePhysics {
		return
	}
	b.activeShapes = append(b.activeShapes, shape)
	b.boundsDirty = true
	shape.Shape.RectChanged.Connect(shape, owner, func(args ...any) {
		b.boundsDirty = true
	})
}

// dropShape unregisters a shape child on detach.
func (b *BodyData) dropShape(owner, shape *Node) {
	for i, s := range b.activeShapes {
		if s == shape {
			copy(b.activeShapes[i:], b.activeShapes[i+1:])
			b.activeShapes[len(b.activeShapes)-1] = nil
			b.activeShapes = b.activeShapes[:len(b.activeShapes)-1]
			b.boundsDirty = true
			break
		}
	}
	if shape.Shape.RectChanged.IsConnected(owner) {
		shape.Shape.RectChanged.Disconnect(shape, owner)
	}
}

// enterTree registers the body with the world's physics space and warns
// when the body cannot collide yet for lack of a shape.
func (b *BodyData) enterTree(n *Node) {
	if !n.HasShape() {
		debugLog("body %q entered the tree with no active shape; it cannot collide until one is added", n.name)
	}
	n.world.physics.InsertBody(n)
}

// step is the body's built-in per-frame update. It settles the previous
// tick's contact edges before anything else: every body still listed from
// last tick but missing from the fresh set emits BodyExited, then the sets
// swap and the new current set starts empty. Kinematic motion integrates
// afterwards so the upcoming collision pass sees the moved shapes.
func (b *BodyData) step(n *Node, dt float64) {
	for _, prev := range b.lastColliding {
		if !containsNode(b.colliding, prev) {
			b.BodyExited.Emit(prev)
		}
	}
	b.colliding, b.lastColliding = b.lastColliding[:0], b.colliding

	if n.Kind == KindKinematicBody {
		delta := b.Velocity.Add(b.motion).Scale(dt)
		b.motion = Vec2{}
		if delta != (Vec2{}) {
			n.SetPosition(n.Position.Add(delta))
		}
	}
}

// collide records a confirmed contact on the presenting side: other joins
// the current tick's set, and BodyEntered fires only when the contact is
// new since last tick. Repeated hits within one tick (several overlapping
// shape pairs, or several shared layer bits) collapse into one entry.
func (b *BodyData) collide(other *Node) {
	if containsNode(b.colliding, other) {
		return
	}
	b.colliding = append(b.colliding, other)
	if !containsNode(b.lastColliding, other) {
		b.BodyEntered.Emit(other)
	}
}

func containsNode(s []*Node, n *Node) bool {
	for _, e := range s {
		if e == n {
			return true
		}
	}
	return false
}
