package rowan

// VisibilityData is the payload of a KindVisibilityNotifier node: a
// watched rectangle that reports when it enters or leaves the visible
// part of the world. Use it to despawn projectiles or sleep off-screen
// enemies.
type VisibilityData struct {
	// Size is the watched extent in unscaled pixels, placed by the
	// node's anchor like a sprite frame.
	Size Vec2

	onScreen bool

	// ScreenEntered fires when the watched rect starts intersecting the
	// view; ScreenExited when it stops. A notifier spawned off-screen
	// stays silent until it first enters.
	ScreenEntered *Signal
	ScreenExited  *Signal
}

// NewVisibilityNotifier creates a notifier node watching a rectangle of
// the given size.
func NewVisibilityNotifier(name string, size Vec2) *Node {
	n := &Node{name: name, Kind: KindVisibilityNotifier}
	nodeDefaults(n)
	n.Notifier = &VisibilityData{Size: size}
	n.Notifier.ScreenEntered = NewSignal(n, "screen_entered")
	n.Notifier.ScreenExited = NewSignal(n, "screen_exited")
	return n
}

// IsOnScreen reports whether the watched rect intersected the view as of
// the last update.
func (v *VisibilityData) IsOnScreen() bool { return v.onScreen }

// updateVisibility re-tests the watched rect against the view and emits
// on transitions. Runs during the notifier node's per-frame processing.
func (n *Node) updateVisibility() {
	v := n.Notifier
	if n.world == nil {
		return
	}
	view, ok := n.world.viewRect()
	if !ok {
		return
	}

	rect := anchoredRect(n.globalPosition, v.Size.Mul(absVec(n.globalScale)), n.Anchor)
	onScreen := rect.Intersects(view)
	if onScreen == v.onScreen {
		return
	}
	v.onScreen = onScreen
	if onScreen {
		v.ScreenEntered.Emit()
	} else {
		v.ScreenExited.Emit()
	}
}
