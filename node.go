package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// nodeIDCounter is a plain counter (no atomic — the tree is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene tree element. A single flat struct is used
// for all node kinds to avoid interface dispatch on the hot path; per-kind
// state lives behind the payload pointers and is nil for other kinds.
//
// Children are ordered: the child sequence is the canonical processing and
// drawing order. Sibling names are unique, and a node has at most one
// parent. A node is either fully on the tree (reachable from a World's
// root) or fully detached; attach and detach propagate through the whole
// subtree synchronously.
type Node struct {
	// Identity
	ID   uint32
	Kind NodeKind
	name string

	// Hierarchy
	parent         *Node
	children       []*Node
	childrenByName map[string]*Node

	// Transform (local)
	Position Vec2
	Scale    Vec2
	// Anchor is the fraction (0..1 per axis) of the node's own cell size
	// that offsets its drawing and collision origin.
	Anchor Vec2

	// Computed caches, valid only while the node is on a tree. Refreshed
	// top-down on tree-enter and on every propagation pass.
	globalPosition Vec2
	globalScale    Vec2

	// State
	Visible   bool
	Color     Color
	PauseMode PauseMode
	UserData  any

	// Freed fires after the node has been detached and all of its children
	// have been freed. Observers never see a freed node with live children.
	Freed *Signal

	// Per-kind payloads (nil unless Kind matches)
	Shape    *ShapeData
	Body     *BodyData
	Sprite   *SpriteData
	Camera   *CameraData
	Canvas   *CanvasLayerData
	Notifier *VisibilityData
	Audio    *AudioData
	Tiles    *TileMapData

	// Per-node callbacks (nil by default; zero cost when unused)
	OnEnterTree      func(n *Node)
	OnExitTree       func(n *Node)
	OnProcess        func(n *Node, dt float64)
	OnPhysicsProcess func(n *Node, dt float64)
	OnDraw           func(n *Node, screen *ebiten.Image, view Vec2)
	OnInput          func(n *Node, ev InputEvent)

	// Internal
	world      *World // set while on tree
	onTree     bool
	processing bool
	freed      bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	if n.name == "" {
		panic(ErrEmptyName)
	}
	n.ID = nextNodeID()
	n.Scale = Vec2{1, 1}
	n.Color = ColorWhite
	n.Visible = true
	n.processing = true
	n.Freed = NewSignal(n, "freed")
}

// NewNode creates a plain container node with no payload.
func NewNode(name string) *Node {
	n := &Node{name: name, Kind: KindContainer}
	nodeDefaults(n)
	return n
}

// Name returns the node's name. Names are fixed at construction; sibling
// uniqueness is enforced when the node is added to a parent.
func (n *Node) Name() string { return n.name }

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// World returns the World this node is attached to, or nil while detached.
func (n *Node) World() *World { return n.world }

// IsOnTree reports whether the node is reachable from a World's root.
func (n *Node) IsOnTree() bool { return n.onTree }

// IsFreed reports whether Free has completed on this node.
func (n *Node) IsFreed() bool { return n.freed }

// Root walks up the parent chain and returns the topmost node.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// GlobalPosition returns the cached world-space position. The cache is
// meaningful only while the node is on a tree.
func (n *Node) GlobalPosition() Vec2 { return n.globalPosition }

// GlobalScale returns the cached world-space scale. The cache is meaningful
// only while the node is on a tree.
func (n *Node) GlobalScale() Vec2 { return n.globalScale }

// SetProcessing enables or disables this node's per-frame update. Children
// are unaffected.
func (n *Node) SetProcessing(enabled bool) { n.processing = enabled }

// IsProcessing reports whether the per-frame update is enabled.
func (n *Node) IsProcessing() bool { return n.processing }

// --- Tree manipulation ---

// AddChild appends child to this node's children. Panics with
// ErrInvalidChild if child is nil, is this node, already has a parent, or
// is an ancestor of this node; panics with ErrDuplicatedChild if a sibling
// already uses child's name. If this node is on a tree, the child subtree
// enters the tree synchronously before AddChild returns.
func (n *Node) AddChild(child *Node) {
	n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at the given index among this node's children.
// Same failure and tree-enter behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil || child == n || child.parent != nil {
		panic(ErrInvalidChild)
	}
	if globalDebug {
		debugCheckFreed(n, "AddChildAt (parent)")
		debugCheckFreed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic(ErrInvalidChild)
	}
	if index < 0 || index > len(n.children) {
		panic("rowan: child index out of range")
	}
	if _, ok := n.childrenByName[child.name]; ok {
		panic(ErrDuplicatedChild)
	}
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	if n.childrenByName == nil {
		n.childrenByName = make(map[string]*Node)
	}
	n.childrenByName[child.name] = child
	if n.Kind.isBody() && child.Kind == KindShape {
		n.Body.adoptShape(n, child)
	}
	if n.onTree {
		child.enterTree(n.world)
	}
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node and returns it. Returns nil
// without effect when this node has no children. Panics if child's parent
// is not this node. If the tree was live, the child subtree exits the tree
// synchronously before RemoveChild returns.
func (n *Node) RemoveChild(child *Node) *Node {
	if len(n.children) == 0 {
		return nil
	}
	if child == nil || child.parent != n {
		panic("rowan: node is not a child of this node")
	}
	n.detachChild(child)
	return child
}

// RemoveChildAt detaches and returns the child at the given index. Returns
// nil without effect when this node has no children.
func (n *Node) RemoveChildAt(index int) *Node {
	if len(n.children) == 0 {
		return nil
	}
	if index < 0 || index >= len(n.children) {
		panic("rowan: child index out of range")
	}
	child := n.children[index]
	n.detachChild(child)
	return child
}

// RemoveFromParent detaches this node from its parent. No-op when detached.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// RemoveChildren detaches every child. The children are not freed.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.detachChild(n.children[len(n.children)-1])
	}
}

// detachChild unlinks child from n, un-indexes its name, and exits the
// subtree from the tree if it was live.
func (n *Node) detachChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			break
		}
	}
	delete(n.childrenByName, child.name)
	child.parent = nil
	if n.Kind.isBody() && child.Kind == KindShape {
		n.Body.dropShape(n, child)
	}
	if child.onTree {
		child.exitTree()
	}
}

// Children returns the child list in processing/drawing order. The returned
// slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// Child returns the child with the given name, or nil.
func (n *Node) Child(name string) *Node { return n.childrenByName[name] }

// SetChildIndex moves child to a new index among its siblings. Ordering is
// the processing and drawing order, so this is also a z-order change.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child == nil || child.parent != n {
		panic("rowan: node is not a child of this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("rowan: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// --- Freeing ---

// Free permanently destroys this node: it detaches from its parent, frees
// every child depth-first, and then emits Freed. Children never outlive a
// freed parent, and Freed observers never see live children. Free is
// idempotent; a second call is a no-op.
func (n *Node) Free() {
	if n.freed {
		return
	}
	n.RemoveFromParent()
	// Children detach themselves from n as they free, so iterate a copy.
	kids := make([]*Node, len(n.children))
	copy(kids, n.children)
	for _, c := range kids {
		c.Free()
	}
	if n.Audio != nil {
		n.Audio.close()
	}
	n.freed = true
	n.Freed.Emit()
	n.children = nil
	n.childrenByName = nil
	n.UserData = nil
	n.OnEnterTree = nil
	n.OnExitTree = nil
	n.OnProcess = nil
	n.OnPhysicsProcess = nil
	n.OnDraw = nil
	n.OnInput = nil
}

// --- Tree enter / exit ---

// enterTree attaches the subtree rooted at n to w's tree: global transform
// caches are recomputed top-down, then the enter hook runs, then children
// enter. Kind hooks (body registration) run before user callbacks.
func (n *Node) enterTree(w *World) {
	n.world = w
	n.refreshGlobals()
	n.onTree = true
	if n.Kind.isBody() {
		n.Body.enterTree(n)
	}
	if n.Audio != nil && n.Audio.Autoplay {
		n.Audio.Play()
	}
	if n.OnEnterTree != nil {
		n.OnEnterTree(n)
	}
	for _, c := range n.children {
		c.enterTree(w)
	}
}

// exitTree detaches the subtree rooted at n from its tree, parent-first.
func (n *Node) exitTree() {
	n.onTree = false
	n.world = nil
	if n.OnExitTree != nil {
		n.OnExitTree(n)
	}
	for _, c := range n.children {
		c.exitTree()
	}
}

// refreshSubtreeGlobals recomputes the global caches of this node and all
// of its descendants.
func (n *Node) refreshSubtreeGlobals() {
	n.refreshGlobals()
	for _, c := range n.children {
		c.refreshSubtreeGlobals()
	}
}

// refreshGlobals recomputes this node's global transform caches from its
// parent's. The parent's caches must already be current.
func (n *Node) refreshGlobals() {
	if n.parent == nil {
		n.globalPosition = n.Position
		n.globalScale = n.Scale
		return
	}
	p := n.parent
	n.globalScale = p.globalScale.Mul(n.Scale)
	n.globalPosition = p.globalPosition.Add(n.Position.Mul(p.globalScale))
}

// --- Per-frame propagation ---

// propagate runs the per-frame update pass over the subtree rooted at n.
// Global transform caches refresh top-down on the way in; children update
// before their parent (post-order). The inherited pause mask accumulates
// this node's own PauseMode and flows down to the children.
func (n *Node) propagate(inherited PauseMode, dt float64) {
	n.refreshGlobals()
	effective := inherited | n.PauseMode
	// Children update first. The live slice is iterated directly; callers
	// must not mutate a node's child list while it is being propagated
	// (Free is safe — it recurses over a copy).
	for _, c := range n.children {
		c.propagate(effective, dt)
	}
	if n.canProcess(effective) {
		n.process(dt)
	}
}

// canProcess applies the pause gate: PauseStop always suppresses the
// update; a paused tree suppresses it unless this node itself carries
// PauseContinue.
func (n *Node) canProcess(effective PauseMode) bool {
	if effective&PauseStop != 0 {
		return false
	}
	if effective&PauseTreePaused != 0 && n.PauseMode&PauseContinue == 0 {
		return false
	}
	return true
}

// pauseAllows applies the pause gate outside propagation: it accumulates
// the pause modes along the ancestor chain, merges the given mask, and
// reports whether this node would still process.
func (n *Node) pauseAllows(inherited PauseMode) bool {
	effective := inherited
	for p := n; p != nil; p = p.parent {
		effective |= p.PauseMode
	}
	return n.canProcess(effective)
}

// process runs one per-frame update for this node: built-in kind behavior
// first, then the physics callback, then the general callback.
func (n *Node) process(dt float64) {
	if !n.processing {
		return
	}
	switch n.Kind {
	case KindArea, KindStaticBody, KindKinematicBody:
		n.Body.step(n, dt)
	case KindSprite:
		n.Sprite.advance(dt)
	case KindCamera:
		n.Camera.update(dt)
	case KindVisibilityNotifier:
		n.updateVisibility()
	}
	if n.OnPhysicsProcess != nil {
		n.OnPhysicsProcess(n, dt)
	}
	if n.OnProcess != nil {
		n.OnProcess(n, dt)
	}
}

// --- Transform setters ---

// SetPosition sets the local position. While on a tree the subtree's
// global caches refresh immediately, so collision tests in the same tick
// see the move. Shape nodes additionally announce the geometry change to
// their owning body.
func (n *Node) SetPosition(p Vec2) {
	if n.Position == p {
		return
	}
	n.Position = p
	if n.onTree {
		n.refreshSubtreeGlobals()
	}
	n.notifyShapeChanged()
}

// SetScale sets the local scale with the same immediate refresh as
// SetPosition. Shape nodes announce the geometry change; body nodes
// invalidate their cached bounds.
func (n *Node) SetScale(s Vec2) {
	if n.Scale == s {
		return
	}
	n.Scale = s
	if n.onTree {
		n.refreshSubtreeGlobals()
	}
	n.notifyShapeChanged()
	if n.Kind.isBody() {
		n.Body.boundsDirty = true
	}
}

// notifyShapeChanged emits RectChanged when this node is a collision shape.
func (n *Node) notifyShapeChanged() {
	if n.Kind == KindShape && n.Shape != nil {
		n.Shape.RectChanged.Emit()
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
