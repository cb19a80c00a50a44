package rowan

import (
	"errors"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts a rowan Color to a premultiplied color.Color for image.Fill.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Scale returns v with both components multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalized returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	x2 := math.Max(r.X+r.Width, other.X+other.Width)
	y2 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// NodeKind distinguishes per-kind behavior for a Node. Container nodes carry
// no payload; every other kind has a matching data pointer on the Node.
type NodeKind uint8

const (
	KindContainer          NodeKind = iota // group node with no payload
	KindSprite                             // draws a TextureRegion or TextureSequence
	KindShape                              // collision geometry owned by a body
	KindArea                               // overlap-detection body (no motion)
	KindStaticBody                         // immovable collision body
	KindKinematicBody                      // script-driven moving body
	KindCamera                             // scroll/follow viewpoint
	KindCanvasLayer                        // draw layer with its own camera binding
	KindVisibilityNotifier                 // screen enter/exit detector
	KindAudioPlayer                        // sound playback
	KindTileMap                            // sparse tile grid
)

// String returns a short lowercase name for the kind.
func (k NodeKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindSprite:
		return "sprite"
	case KindShape:
		return "shape"
	case KindArea:
		return "area"
	case KindStaticBody:
		return "static_body"
	case KindKinematicBody:
		return "kinematic_body"
	case KindCamera:
		return "camera"
	case KindCanvasLayer:
		return "canvas_layer"
	case KindVisibilityNotifier:
		return "visibility_notifier"
	case KindAudioPlayer:
		return "audio_player"
	case KindTileMap:
		return "tile_map"
	default:
		return "unknown"
	}
}

// isBody reports whether the kind participates in collision detection.
func (k NodeKind) isBody() bool {
	return k == KindArea || k == KindStaticBody || k == KindKinematicBody
}

// PauseMode is a bitmask controlling whether a node keeps processing while
// the tree (or an ancestor) is paused. Flags combine with bitwise OR and
// accumulate down the tree during propagation.
type PauseMode uint8

const (
	PauseInherit    PauseMode = 0 // follow the accumulated ancestor state
	PauseTreePaused PauseMode = 1 // treat this subtree as if the tree were paused
	PauseStop       PauseMode = 2 // never process; overrides PauseContinue
	PauseContinue   PauseMode = 4 // keep processing through a paused tree
	PauseIgnore     PauseMode = 8 // reserved; no effect on accumulation
)

// ShapeKind partitions collision geometry by purpose.
type ShapeKind uint8

const (
	ShapePhysics ShapeKind = 1 // participates in body-vs-body tests
	ShapeArea    ShapeKind = 2 // zone/visibility tests only
)

// CollisionFlags is a bitmask of collision bits. A body's Layer declares
// which bits it presents; its Mask declares which bits it looks for.
type CollisionFlags uint32

// Has reports whether all bits of flag are set.
func (f CollisionFlags) Has(flag CollisionFlags) bool { return f&flag == flag }

// Structural and signal contract violations panic with one of these
// sentinel errors. They are programmer errors: the engine never recovers
// from them on the caller's behalf.
var (
	// ErrEmptyName is panicked when a node is constructed with an empty name.
	ErrEmptyName = errors.New("rowan: node name must not be empty")
	// ErrInvalidChild is panicked when adding nil, self, or an already
	// parented node as a child.
	ErrInvalidChild = errors.New("rowan: node is nil, self, or already has a parent")
	// ErrDuplicatedChild is panicked when a sibling already uses the name.
	ErrDuplicatedChild = errors.New("rowan: a sibling with this name already exists")
	// ErrSignalNotOwner is panicked when a signal operation is attempted by
	// a node other than the signal's declared owner.
	ErrSignalNotOwner = errors.New("rowan: caller does not own this signal")
	// ErrAlreadyConnected is panicked when an observer connects twice to the
	// same signal without disconnecting.
	ErrAlreadyConnected = errors.New("rowan: observer is already connected")
	// ErrNotConnected is panicked when disconnecting an observer that holds
	// no connection.
	ErrNotConnected = errors.New("rowan: observer is not connected")
)
