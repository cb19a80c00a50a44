package rowan

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Debug gizmo colors: shape rects in green, body bounds in red.
var (
	debugShapeColor  = color.RGBA{G: 255, A: 255}
	debugBoundsColor = color.RGBA{R: 255, A: 255}
)

// drawTree walks the tree pre-order, drawing every visible node in child
// order: parents first, children painted over them. view is the world
// position of the screen's top-left corner; an invisible node hides its
// whole subtree.
func drawTree(n *Node, screen *ebiten.Image, view Vec2) {
	if !n.Visible {
		return
	}
	if n.Kind == KindCanvasLayer && n.Canvas != nil && !n.Canvas.FollowCamera {
		view = Vec2{}
	}
	drawNode(n, screen, view)
	for _, c := range n.children {
		drawTree(c, screen, view)
	}
}

// drawNode draws one node's built-in visual, then its OnDraw callback.
func drawNode(n *Node, screen *ebiten.Image, view Vec2) {
	switch n.Kind {
	case KindSprite:
		drawSprite(n, screen, view)
	case KindTileMap:
		n.Tiles.draw(n, screen, view)
	case KindShape:
		if globalDebug {
			outlineRect(screen, offsetRect(n.ShapeRect(), view), debugShapeColor)
		}
	case KindArea, KindStaticBody, KindKinematicBody:
		if globalDebug && n.HasShape() {
			outlineRect(screen, offsetRect(n.Bounds(), view), debugBoundsColor)
		}
	}
	if n.OnDraw != nil {
		n.OnDraw(n, screen, view)
	}
}

// drawSprite blits the sprite's current frame anchored at the node's
// global position, scaled by the global scale and tinted by the node
// color (premultiplied).
func drawSprite(n *Node, screen *ebiten.Image, view Vec2) {
	s := n.Sprite
	img := s.frameImage()
	if img == nil {
		return
	}
	size := s.frameSize()
	gs := absVec(n.globalScale)
	topLeft := n.globalPosition.Sub(view)
	topLeft.X -= size.X * gs.X * n.Anchor.X
	topLeft.Y -= size.Y * gs.Y * n.Anchor.Y

	var op ebiten.DrawImageOptions
	if s.FlipH {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(size.X, 0)
	}
	if s.FlipV {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, size.Y)
	}
	op.GeoM.Scale(gs.X, gs.Y)
	op.GeoM.Translate(topLeft.X, topLeft.Y)

	a := float32(n.Color.A)
	op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)

	screen.DrawImage(img, &op)
}

// offsetRect shifts a world-space rect into screen space.
func offsetRect(r Rect, view Vec2) Rect {
	r.X -= view.X
	r.Y -= view.Y
	return r
}

// outlineRect draws a 1px rectangle outline as four thin strips.
func outlineRect(dst *ebiten.Image, r Rect, clr color.Color) {
	ebitenutil.DrawRect(dst, r.X, r.Y, r.Width, 1, clr)
	ebitenutil.DrawRect(dst, r.X, r.Y+r.Height-1, r.Width, 1, clr)
	ebitenutil.DrawRect(dst, r.X, r.Y, 1, r.Height, clr)
	ebitenutil.DrawRect(dst, r.X+r.Width-1, r.Y, 1, r.Height, clr)
}
