package rowan

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNewSpriteDefaults(t *testing.T) {
	n := NewSprite("walker", testAtlas(t), "walk")
	assertNodeDefaults(t, n, "walker", KindSprite)

	s := n.Sprite
	if s == nil {
		t.Fatal("Sprite payload is nil")
	}
	if !s.IsPlaying() {
		t.Error("IsPlaying = false, want true")
	}
	if !s.Loop {
		t.Error("Loop = false, want true")
	}
	if s.FPS != defaultAnimationFPS {
		t.Errorf("FPS = %v, want %v", s.FPS, defaultAnimationFPS)
	}
	if s.Frame() != 0 {
		t.Errorf("Frame = %d, want 0", s.Frame())
	}
	if s.SequenceName() != "walk" {
		t.Errorf("SequenceName = %q, want %q", s.SequenceName(), "walk")
	}
	if s.AnimationFinished == nil {
		t.Error("AnimationFinished signal is nil")
	}
}

func TestNewImageSpriteDefaults(t *testing.T) {
	img := ebiten.NewImage(4, 6)
	n := NewImageSprite("panel", img)
	assertNodeDefaults(t, n, "panel", KindSprite)

	s := n.Sprite
	if s.Image != img {
		t.Error("Image not retained")
	}
	// Direct image sprites have nothing to animate until a sequence is
	// assigned, so they start stopped.
	if s.IsPlaying() {
		t.Error("IsPlaying = true, want false")
	}
	if s.SequenceName() != "" {
		t.Errorf("SequenceName = %q, want empty", s.SequenceName())
	}
	assertVec2(t, "frameSize", s.frameSize(), Vec2{X: 4, Y: 6})
}

// --- Advancing ---

func TestSpriteAdvance(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite // 8 frames at 10 FPS

	s.advance(0.05)
	if s.Frame() != 0 {
		t.Errorf("Frame = %d after 0.05s, want 0", s.Frame())
	}
	s.advance(0.05)
	if s.Frame() != 1 {
		t.Errorf("Frame = %d after 0.10s, want 1", s.Frame())
	}
	s.advance(0.25)
	if s.Frame() != 3 {
		t.Errorf("Frame = %d after 0.35s, want 3", s.Frame())
	}
}

func TestSpriteLoopWraps(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite

	s.SetFrame(7)
	s.advance(0.1)
	if s.Frame() != 0 {
		t.Errorf("Frame = %d after wrap, want 0", s.Frame())
	}
	if !s.IsPlaying() {
		t.Error("looping animation stopped")
	}
}

func TestSpritePlayOnceHoldsLastFrame(t *testing.T) {
	n := NewSprite("walker", testAtlas(t), "walk")
	s := n.Sprite

	finished := 0
	var finishedName string
	s.AnimationFinished.Connect(n, "watcher", func(args ...any) {
		finished++
		finishedName = args[0].(string)
	})

	s.PlayOnce("walk")
	if s.Loop {
		t.Error("Loop = true after PlayOnce")
	}

	s.SetFrame(7)
	s.advance(0.1)

	if s.Frame() != 7 {
		t.Errorf("Frame = %d, want held at 7", s.Frame())
	}
	if s.IsPlaying() {
		t.Error("IsPlaying = true after finishing")
	}
	if finished != 1 {
		t.Fatalf("finished = %d, want 1", finished)
	}
	if finishedName != "walk" {
		t.Errorf("finished arg = %q, want %q", finishedName, "walk")
	}

	// A stopped animation never re-fires.
	s.advance(1.0)
	if finished != 1 {
		t.Errorf("finished = %d after extra advance, want 1", finished)
	}
}

func TestSpritePlayResetsToFirstFrame(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite
	s.SetFrame(5)
	s.Stop()

	s.Play("walk")
	if s.Frame() != 0 {
		t.Errorf("Frame = %d after Play, want 0", s.Frame())
	}
	if !s.IsPlaying() || !s.Loop {
		t.Error("Play should loop from the first frame")
	}
}

func TestSpriteStopResume(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite

	s.Stop()
	s.advance(1.0)
	if s.Frame() != 0 {
		t.Errorf("Frame = %d while stopped, want 0", s.Frame())
	}

	s.Resume()
	s.advance(0.1)
	if s.Frame() != 1 {
		t.Errorf("Frame = %d after resume, want 1", s.Frame())
	}
}

func TestSpriteZeroFPSFreezes(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite
	s.FPS = 0
	s.advance(10)
	if s.Frame() != 0 {
		t.Errorf("Frame = %d with zero FPS, want 0", s.Frame())
	}
}

func TestSpriteSingleFrameNeverFinishes(t *testing.T) {
	n := NewSprite("statue", testAtlas(t), "hero") // single frame
	finished := 0
	n.Sprite.AnimationFinished.Connect(n, "watcher", func(args ...any) { finished++ })

	n.Sprite.Loop = false
	n.Sprite.advance(5)

	if n.Sprite.Frame() != 0 {
		t.Errorf("Frame = %d, want 0", n.Sprite.Frame())
	}
	if finished != 0 {
		t.Errorf("finished = %d, want 0", finished)
	}
}

func TestPlayWithoutAtlasIsNoOp(t *testing.T) {
	s := NewImageSprite("panel", ebiten.NewImage(4, 4)).Sprite
	s.Play("walk")
	if s.IsPlaying() {
		t.Error("IsPlaying = true for atlas-less sprite")
	}
	if s.SequenceName() != "" {
		t.Errorf("SequenceName = %q, want empty", s.SequenceName())
	}
}

// --- Frame selection ---

func TestSetFrameClamps(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite

	s.SetFrame(99)
	if s.Frame() != 7 {
		t.Errorf("Frame = %d, want clamped to 7", s.Frame())
	}
	s.SetFrame(-5)
	if s.Frame() != 0 {
		t.Errorf("Frame = %d, want clamped to 0", s.Frame())
	}
}

func TestSetFrameResetsElapsed(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite

	s.advance(0.05)
	s.SetFrame(2)
	s.advance(0.05)
	if s.Frame() != 2 {
		t.Errorf("Frame = %d, want 2 (elapsed reset by SetFrame)", s.Frame())
	}
}

func TestSetFrameWithoutFramesIsNoOp(t *testing.T) {
	s := NewImageSprite("panel", ebiten.NewImage(4, 4)).Sprite
	s.SetFrame(3)
	if s.Frame() != 0 {
		t.Errorf("Frame = %d, want 0", s.Frame())
	}
}

// --- Frame resolution ---

func TestSpriteFrameSize(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite
	assertVec2(t, "frameSize", s.frameSize(), Vec2{X: 16, Y: 16})
}

func TestSpriteFrameImage(t *testing.T) {
	s := NewSprite("walker", testAtlas(t), "walk").Sprite
	img := s.frameImage()
	if img == nil {
		t.Fatal("frameImage returned nil")
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("frame image size = %dx%d, want 16x16", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestSpriteFrameImageMagentaFallback(t *testing.T) {
	s := NewSprite("ghost", testAtlas(t), "missing").Sprite
	if s.frameImage() != ensureMagentaImage() {
		t.Error("missing sequence should draw the magenta placeholder")
	}
}

// --- World-driven animation ---

func TestSpriteAdvancesDuringStep(t *testing.T) {
	w := NewWorld()
	n := NewSprite("walker", testAtlas(t), "walk")
	w.Root().AddChild(n)

	w.Step(0.1)
	if n.Sprite.Frame() != 1 {
		t.Errorf("Frame = %d after one step, want 1", n.Sprite.Frame())
	}

	w.SetPaused(true)
	w.Step(0.1)
	if n.Sprite.Frame() != 1 {
		t.Errorf("Frame = %d while paused, want 1", n.Sprite.Frame())
	}
}

// --- White pixel ---

func TestWhitePixelSingleton(t *testing.T) {
	img1 := WhitePixel()
	img2 := WhitePixel()
	if img1 != img2 {
		t.Error("WhitePixel returned different images")
	}
	if w, h := img1.Bounds().Dx(), img1.Bounds().Dy(); w != 1 || h != 1 {
		t.Errorf("white pixel size = %dx%d, want 1x1", w, h)
	}
}
