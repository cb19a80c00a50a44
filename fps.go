package rowan

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSWidget creates a new Node that displays the current FPS and TPS.
// The widget is transparently updated every ~0.5 seconds. Add it late in
// the tree (or under a CanvasLayer) so it draws on top.
// It uses a custom internal image and ebitenutil.DebugPrint for rendering.
func NewFPSWidget() *Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)

	node := NewImageSprite("fps_widget", img)
	// keep ticking while the tree is paused
	node.PauseMode = PauseContinue

	var lastUpdate float64

	node.OnProcess = func(n *Node, dt float64) {
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return
		}
		lastUpdate = 0

		img.Clear()
		// Semi-transparent background for readability
		img.Fill(color.RGBA{0, 0, 0, 128})

		fps := ebiten.ActualFPS()
		tps := ebiten.ActualTPS()
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps))
	}

	return node
}
