package rowan

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates up to 4 float64 fields simultaneously. Create one via
// World.TweenFloat or the node convenience constructors (TweenPosition,
// TweenScale, TweenColor, TweenAlpha); the owning world advances it every
// Step. If the target node is freed, the tween stops without firing
// Finished.
type Tween struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	apply  func() // runs after field writes, keeps dependent state fresh
	done   bool

	// Finished fires once, with no arguments, when every component tween
	// completes. Stopped tweens and tweens whose target was freed do not
	// fire it.
	Finished *Signal
}

func newTween(target *Node, count int) *Tween {
	t := &Tween{target: target, count: count}
	t.Finished = NewSignal(t, "finished")
	return t
}

// Stop halts the tween where it is. Finished does not fire; the world
// drops the tween on its next Step.
func (t *Tween) Stop() { t.done = true }

// IsDone reports whether the tween has completed or been stopped.
func (t *Tween) IsDone() bool { return t.done }

// update advances all component tweens by dt seconds and writes the
// eased values to the target fields.
func (t *Tween) update(dt float32) {
	if t.done {
		return
	}
	if t.target != nil && t.target.IsFreed() {
		t.done = true
		return
	}

	allDone := true
	for i := 0; i < t.count; i++ {
		val, finished := t.tweens[i].Update(dt)
		*t.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if t.apply != nil {
		t.apply()
	}
	if allDone {
		t.done = true
		t.Finished.Emit()
	}
}

// stepTweens advances every managed tween and compacts the list. Tweens
// started from a Finished observer join the list mid-step and first
// advance on the next Step.
func (w *World) stepTweens(dt float64) {
	n := len(w.tweens)
	for i := 0; i < n; i++ {
		w.tweens[i].update(float32(dt))
	}
	if len(w.tweens) == 0 {
		return
	}
	kept := w.tweens[:0]
	for _, t := range w.tweens {
		if !t.done {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(w.tweens); i++ {
		w.tweens[i] = nil
	}
	w.tweens = kept
}

// TweenFloat animates *field to the target value over duration seconds
// using the easing function. The field may belong to anything; pass the
// address of the value to animate.
func (w *World) TweenFloat(field *float64, to float64, duration float32, fn ease.TweenFunc) *Tween {
	t := newTween(nil, 1)
	t.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	t.fields[0] = field
	w.tweens = append(w.tweens, t)
	return t
}

// requireWorld returns the world managing this node's tree, panicking if
// the node is not on one.
func (n *Node) requireWorld() *World {
	if n.world == nil {
		panic("rowan: node is not on a tree")
	}
	return n.world
}

// TweenPosition animates the node's position to the target over duration
// seconds. The node must be on a tree; its world advances the tween.
func (n *Node) TweenPosition(to Vec2, duration float32, fn ease.TweenFunc) *Tween {
	w := n.requireWorld()
	t := newTween(n, 2)
	t.tweens[0] = gween.New(float32(n.Position.X), float32(to.X), duration, fn)
	t.tweens[1] = gween.New(float32(n.Position.Y), float32(to.Y), duration, fn)
	t.fields[0] = &n.Position.X
	t.fields[1] = &n.Position.Y
	t.apply = n.notifyShapeChanged
	w.tweens = append(w.tweens, t)
	return t
}

// TweenScale animates the node's scale to the target over duration
// seconds. The node must be on a tree.
func (n *Node) TweenScale(to Vec2, duration float32, fn ease.TweenFunc) *Tween {
	w := n.requireWorld()
	t := newTween(n, 2)
	t.tweens[0] = gween.New(float32(n.Scale.X), float32(to.X), duration, fn)
	t.tweens[1] = gween.New(float32(n.Scale.Y), float32(to.Y), duration, fn)
	t.fields[0] = &n.Scale.X
	t.fields[1] = &n.Scale.Y
	t.apply = func() {
		if n.Body != nil {
			n.Body.boundsDirty = true
		}
		n.notifyShapeChanged()
	}
	w.tweens = append(w.tweens, t)
	return t
}

// TweenColor animates all four components of the node's color modulate to
// the target color. The node must be on a tree.
func (n *Node) TweenColor(to Color, duration float32, fn ease.TweenFunc) *Tween {
	w := n.requireWorld()
	t := newTween(n, 4)
	t.tweens[0] = gween.New(float32(n.Color.R), float32(to.R), duration, fn)
	t.tweens[1] = gween.New(float32(n.Color.G), float32(to.G), duration, fn)
	t.tweens[2] = gween.New(float32(n.Color.B), float32(to.B), duration, fn)
	t.tweens[3] = gween.New(float32(n.Color.A), float32(to.A), duration, fn)
	t.fields[0] = &n.Color.R
	t.fields[1] = &n.Color.G
	t.fields[2] = &n.Color.B
	t.fields[3] = &n.Color.A
	w.tweens = append(w.tweens, t)
	return t
}

// TweenAlpha animates the alpha component of the node's color modulate to
// the target value. The node must be on a tree.
func (n *Node) TweenAlpha(to float64, duration float32, fn ease.TweenFunc) *Tween {
	w := n.requireWorld()
	t := newTween(n, 1)
	t.tweens[0] = gween.New(float32(n.Color.A), float32(to), duration, fn)
	t.fields[0] = &n.Color.A
	w.tweens = append(w.tweens, t)
	return t
}
