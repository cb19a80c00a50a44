package rowan

// shapeGeom discriminates the two collision geometries.
type shapeGeom uint8

const (
	geomRect shapeGeom = iota
	geomCircle
)

// ShapeData is the payload of a KindShape node: collision geometry owned by
// a body. Rectangle shapes are anchored by the node's Anchor; circle shapes
// are always centered on the node's position.
//
// Geometry must be mutated through SetBaseSize, SetRadius, SetPosition and
// SetScale so that RectChanged fires; writing the node's fields directly
// bypasses the owning body's bounds invalidation.
type ShapeData struct {
	Kind ShapeKind
	geom shapeGeom

	// BaseSize is the unscaled rectangle extent (geomRect only).
	BaseSize Vec2
	// Radius is the unscaled circle radius (geomCircle only).
	Radius float64

	// RectChanged fires after every geometry mutation: size, radius,
	// position or scale of the shape node.
	RectChanged *Signal
}

// NewRectShape creates a rectangle collision shape of the given unscaled
// size. kind selects whether the shape takes part in body-vs-body tests
// (ShapePhysics) or zone tests only (ShapeArea).
func NewRectShape(name string, kind ShapeKind, size Vec2) *Node {
	n := &Node{name: name, Kind: KindShape}
	nodeDefaults(n)
	n.Shape = &ShapeData{Kind: kind, geom: geomRect, BaseSize: size}
	n.Shape.RectChanged = NewSignal(n, "rect_changed")
	return n
}

// NewCircleShape creates a circle collision shape of the given unscaled
// radius, centered on the node's position.
func NewCircleShape(name string, kind ShapeKind, radius float64) *Node {
	n := &Node{name: name, Kind: KindShape}
	nodeDefaults(n)
	n.Shape = &ShapeData{Kind: kind, geom: geomCircle, Radius: radius}
	n.Shape.RectChanged = NewSignal(n, "rect_changed")
	return n
}

// SetBaseSize sets a rectangle shape's unscaled size and emits RectChanged.
func (n *Node) SetBaseSize(size Vec2) {
	if n.Kind != KindShape {
		panic("rowan: not a shape node")
	}
	if n.Shape.BaseSize == size {
		return
	}
	n.Shape.BaseSize = size
	n.Shape.RectChanged.Emit()
}

// SetRadius sets a circle shape's unscaled radius and emits RectChanged.
func (n *Node) SetRadius(r float64) {
	if n.Kind != KindShape {
		panic("rowan: not a shape node")
	}
	if n.Shape.Radius == r {
		return
	}
	n.Shape.Radius = r
	n.Shape.RectChanged.Emit()
}

// ShapeRect returns the shape's world-space axis-aligned rectangle, derived
// from the global transform caches: the scaled base size anchored on the
// node's position, or the bounding square of the scaled circle.
func (n *Node) ShapeRect() Rect {
	s := n.Shape
	gs := absVec(n.globalScale)
	if s.geom == geomCircle {
		r := s.Radius * gs.X
		return Rect{
			X:      n.globalPosition.X - r,
			Y:      n.globalPosition.Y - r,
			Width:  2 * r,
			Height: 2 * r,
		}
	}
	size := s.BaseSize.Mul(gs)
	return anchoredRect(n.globalPosition, size, n.Anchor)
}

// scaledRadius returns a circle shape's world-space radius. Circles assume
// uniform scale; the X component is used.
func (n *Node) scaledRadius() float64 {
	return n.Shape.Radius * absVec(n.globalScale).X
}

// shapesCollide is the narrow-phase dispatch: each geometry pairing gets
// its own exact test. Touching counts as colliding for every pairing.
func shapesCollide(a, b *Node) bool {
	ag, bg := a.Shape.geom, b.Shape.geom
	switch {
	case ag == geomRect && bg == geomRect:
		return a.ShapeRect().Intersects(b.ShapeRect())
	case ag == geomCircle && bg == geomCircle:
		return circlesCollide(a, b)
	case ag == geomCircle:
		return circleRectCollide(a.globalPosition, a.scaledRadius(), b.ShapeRect())
	default:
		return circleRectCollide(b.globalPosition, b.scaledRadius(), a.ShapeRect())
	}
}

// circlesCollide compares the squared center distance against the squared
// sum of the scaled radii.
func circlesCollide(a, b *Node) bool {
	d := a.globalPosition.Sub(b.globalPosition)
	rr := a.scaledRadius() + b.scaledRadius()
	return d.X*d.X+d.Y*d.Y <= rr*rr
}

// circleRectCollide is the clamp/closest-point test: reject when the
// center-to-center distance exceeds half-extent plus radius on either axis,
// accept when the center is within the half-extent on either axis, and
// otherwise compare the squared corner distance against the squared radius.
func circleRectCollide(center Vec2, radius float64, rect Rect) bool {
	hw := rect.Width / 2
	hh := rect.Height / 2
	dx := center.X - (rect.X + hw)
	dy := center.Y - (rect.Y + hh)
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > hw+radius || dy > hh+radius {
		return false
	}
	if dx <= hw || dy <= hh {
		return true
	}
	cx := dx - hw
	cy := dy - hh
	return cx*cx+cy*cy <= radius*radius
}
