package rowan

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// CameraData is the payload of a KindCamera node. The world's active
// camera offsets the draw pass: a node at world position p draws at
// p minus the camera offset. The offset is the world position of the
// view's top-left corner.
type CameraData struct {
	// ViewSize is the logical screen size the camera frames targets in.
	ViewSize Vec2

	offset Vec2

	followTarget *Node
	followOffset Vec2
	followLerp   float64

	limitEnabled bool
	limit        Rect

	scroll *scrollAnim
}

// NewCamera creates a camera node framing a view of the given logical
// size. Select it with World.SetActiveCamera to take effect.
func NewCamera(name string, viewSize Vec2) *Node {
	n := &Node{name: name, Kind: KindCamera}
	nodeDefaults(n)
	n.Camera = &CameraData{ViewSize: viewSize, followLerp: 1}
	return n
}

// Follow makes the camera keep a target node centered, displaced by
// offset. A lerp of 1 snaps immediately; lower values trail smoothly.
func (c *CameraData) Follow(target *Node, offset Vec2, lerp float64) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *CameraData) Unfollow() {
	c.followTarget = nil
}

// FollowLimit clamps the visible area to a world-space rectangle. The
// camera stops scrolling at its edges; when the rectangle is smaller than
// the view, the view centers on it.
func (c *CameraData) FollowLimit(limit Rect) {
	c.limitEnabled = true
	c.limit = limit
}

// ClearFollowLimit removes the clamp.
func (c *CameraData) ClearFollowLimit() {
	c.limitEnabled = false
}

// ScrollTo animates the view until it centers the given world position,
// over duration seconds.
func (c *CameraData) ScrollTo(center Vec2, duration float32, easeFn ease.TweenFunc) {
	to := center.Sub(c.ViewSize.Scale(0.5))
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.offset.X), float32(to.X), duration, easeFn),
		tweenY: gween.New(float32(c.offset.Y), float32(to.Y), duration, easeFn),
	}
}

// Offset returns the world position of the view's top-left corner.
func (c *CameraData) Offset() Vec2 { return c.offset }

// SetOffset places the view's top-left corner directly, cancelling any
// scroll animation.
func (c *CameraData) SetOffset(offset Vec2) {
	c.offset = offset
	c.scroll = nil
}

// VisibleRect returns the world-space rectangle the camera currently
// shows.
func (c *CameraData) VisibleRect() Rect {
	return Rect{X: c.offset.X, Y: c.offset.Y, Width: c.ViewSize.X, Height: c.ViewSize.Y}
}

// WorldToScreen converts a world position to screen coordinates.
func (c *CameraData) WorldToScreen(p Vec2) Vec2 { return p.Sub(c.offset) }

// ScreenToWorld converts screen coordinates to a world position.
func (c *CameraData) ScreenToWorld(p Vec2) Vec2 { return p.Add(c.offset) }

// update advances follow, scroll, and limit clamping. Runs during the
// camera node's per-frame processing.
func (c *CameraData) update(dt float64) {
	if c.followTarget != nil && !c.followTarget.IsFreed() {
		target := c.followTarget.globalPosition.Add(c.followOffset).Sub(c.ViewSize.Scale(0.5))
		c.offset.X += (target.X - c.offset.X) * c.followLerp
		c.offset.Y += (target.Y - c.offset.Y) * c.followLerp
	}

	if c.scroll != nil {
		if !c.scroll.doneX {
			val, done := c.scroll.tweenX.Update(float32(dt))
			c.offset.X = float64(val)
			c.scroll.doneX = done
		}
		if !c.scroll.doneY {
			val, done := c.scroll.tweenY.Update(float32(dt))
			c.offset.Y = float64(val)
			c.scroll.doneY = done
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}

	if c.limitEnabled {
		c.clampToLimit()
	}
}

// clampToLimit restricts the offset so the visible area stays within the
// limit rectangle. If the limit is smaller than the view, the view
// centers on it.
func (c *CameraData) clampToLimit() {
	minX := c.limit.X
	maxX := c.limit.X + c.limit.Width - c.ViewSize.X
	minY := c.limit.Y
	maxY := c.limit.Y + c.limit.Height - c.ViewSize.Y

	if minX > maxX {
		c.offset.X = c.limit.X + (c.limit.Width-c.ViewSize.X)/2
	} else {
		c.offset.X = clampFloat(c.offset.X, minX, maxX)
	}
	if minY > maxY {
		c.offset.Y = c.limit.Y + (c.limit.Height-c.ViewSize.Y)/2
	} else {
		c.offset.Y = clampFloat(c.offset.Y, minY, maxY)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CanvasLayerData is the payload of a KindCanvasLayer node. Children of a
// canvas layer draw in screen space, ignoring the active camera, which
// suits HUD and menu trees.
type CanvasLayerData struct {
	// FollowCamera re-applies the camera offset, making the layer behave
	// like a plain container again.
	FollowCamera bool
}

// NewCanvasLayer creates a screen-space layer node.
func NewCanvasLayer(name string) *Node {
	n := &Node{name: name, Kind: KindCanvasLayer}
	nodeDefaults(n)
	n.Canvas = &CanvasLayerData{}
	return n
}
