package rowan

// The transform model is deliberately small: a node carries a local
// position and scale, and the tree composes them top-down into the global
// caches. There is no rotation or skew, so composition is a multiply-add
// per axis rather than matrix math.

// LocalToGlobal converts a point in this node's local space to world space
// using the cached global transform. Meaningful only while the node is on
// a tree.
func (n *Node) LocalToGlobal(p Vec2) Vec2 {
	return n.globalPosition.Add(p.Mul(n.globalScale))
}

// GlobalToLocal converts a world-space point into this node's local space.
// Axes with zero global scale map to zero.
func (n *Node) GlobalToLocal(p Vec2) Vec2 {
	d := p.Sub(n.globalPosition)
	if n.globalScale.X != 0 {
		d.X /= n.globalScale.X
	} else {
		d.X = 0
	}
	if n.globalScale.Y != 0 {
		d.Y /= n.globalScale.Y
	} else {
		d.Y = 0
	}
	return d
}

// anchoredRect returns the rectangle of a cell of the given size positioned
// at pos, shifted back by the anchor fraction. An anchor of (0.5, 0.5)
// centers the cell on pos; (0, 0) hangs it down-right.
func anchoredRect(pos, size, anchor Vec2) Rect {
	return Rect{
		X:      pos.X - anchor.X*size.X,
		Y:      pos.Y - anchor.Y*size.Y,
		Width:  size.X,
		Height: size.Y,
	}
}

// absVec returns v with both components made non-negative. Negative scale
// flips drawing but collision extents are magnitudes.
func absVec(v Vec2) Vec2 {
	if v.X < 0 {
		v.X = -v.X
	}
	if v.Y < 0 {
		v.Y = -v.Y
	}
	return v
}
