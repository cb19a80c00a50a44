package rowan

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultAnimationFPS is the frame rate a sprite animates at until the
// caller sets its own.
const defaultAnimationFPS = 10.0

// SpriteData is the payload of a KindSprite node: either an atlas
// sequence advancing at FPS frames per second, or a direct image.
type SpriteData struct {
	atlas   *Atlas
	seq     TextureSequence
	frame   int
	elapsed float64

	// FPS is the animation rate in frames per second. Zero freezes the
	// current frame.
	FPS float64
	// Loop wraps the animation at the last frame instead of stopping.
	Loop bool

	playing bool

	// Image, when set, is drawn whole and the atlas is ignored.
	Image *ebiten.Image

	// FlipH and FlipV mirror the drawn frame around the node position.
	FlipH, FlipV bool

	// AnimationFinished fires with the sequence name when a non-looping
	// animation passes its last frame.
	AnimationFinished *Signal
}

// NewSprite creates a sprite node playing the named atlas sequence on
// loop at the default rate.
func NewSprite(name string, atlas *Atlas, sequence string) *Node {
	n := &Node{name: name, Kind: KindSprite}
	nodeDefaults(n)
	n.Sprite = &SpriteData{
		atlas:   atlas,
		seq:     atlas.Sequence(sequence),
		FPS:     defaultAnimationFPS,
		Loop:    true,
		playing: true,
	}
	n.Sprite.AnimationFinished = NewSignal(n, "animation_finished")
	return n
}

// NewImageSprite creates a sprite node that draws a whole image directly,
// without an atlas. WhitePixel scaled up makes a solid rectangle.
func NewImageSprite(name string, img *ebiten.Image) *Node {
	n := &Node{name: name, Kind: KindSprite}
	nodeDefaults(n)
	n.Sprite = &SpriteData{Image: img, FPS: defaultAnimationFPS}
	n.Sprite.AnimationFinished = NewSignal(n, "animation_finished")
	return n
}

// Play switches to the named sequence and loops it from the first frame.
func (s *SpriteData) Play(sequence string) {
	s.start(sequence, true)
}

// PlayOnce switches to the named sequence and plays it through a single
// time, then fires AnimationFinished and holds the last frame.
func (s *SpriteData) PlayOnce(sequence string) {
	s.start(sequence, false)
}

func (s *SpriteData) start(sequence string, loop bool) {
	if s.atlas == nil {
		debugLog("sprite has no atlas; cannot play %q", sequence)
		return
	}
	s.seq = s.atlas.Sequence(sequence)
	s.frame = 0
	s.elapsed = 0
	s.Loop = loop
	s.playing = true
}

// Stop freezes the animation on its current frame.
func (s *SpriteData) Stop() { s.playing = false }

// Resume continues a stopped animation from its current frame.
func (s *SpriteData) Resume() { s.playing = true }

// IsPlaying reports whether the animation is advancing.
func (s *SpriteData) IsPlaying() bool { return s.playing }

// SequenceName returns the name of the current sequence, "" for direct
// image sprites.
func (s *SpriteData) SequenceName() string { return s.seq.Name }

// Frame returns the current frame index within the sequence.
func (s *SpriteData) Frame() int { return s.frame }

// SetFrame jumps to a frame index, clamped to the sequence.
func (s *SpriteData) SetFrame(i int) {
	if n := len(s.seq.Frames); n > 0 {
		if i < 0 {
			i = 0
		} else if i >= n {
			i = n - 1
		}
		s.frame = i
		s.elapsed = 0
	}
}

// advance moves the animation clock forward. Runs during the sprite
// node's per-frame processing.
func (s *SpriteData) advance(dt float64) {
	if !s.playing || s.FPS <= 0 || len(s.seq.Frames) < 2 {
		return
	}
	s.elapsed += dt
	step := 1.0 / s.FPS
	for s.elapsed >= step {
		s.elapsed -= step
		s.frame++
		if s.frame < len(s.seq.Frames) {
			continue
		}
		if s.Loop {
			s.frame = 0
			continue
		}
		s.frame = len(s.seq.Frames) - 1
		s.playing = false
		s.AnimationFinished.Emit(s.seq.Name)
		return
	}
}

// frameImage resolves the image to draw for the current frame: the whole
// direct image, or the current region's sub-image from its atlas page.
func (s *SpriteData) frameImage() *ebiten.Image {
	if s.Image != nil {
		return s.Image
	}
	if s.atlas == nil || len(s.seq.Frames) == 0 {
		return nil
	}
	r := s.seq.Frames[s.frame]
	page := s.atlas.pageImage(r)
	if r.Page == magentaPlaceholderPage {
		return page
	}
	return page.SubImage(regionBounds(r)).(*ebiten.Image)
}

// frameSize returns the unscaled pixel size of the current frame.
func (s *SpriteData) frameSize() Vec2 {
	if s.Image != nil {
		b := s.Image.Bounds()
		return Vec2{X: float64(b.Dx()), Y: float64(b.Dy())}
	}
	if len(s.seq.Frames) == 0 {
		return Vec2{}
	}
	r := s.seq.Frames[s.frame]
	return Vec2{X: float64(r.Width), Y: float64(r.Height)}
}

// --- White pixel singleton (no sync.Once; the engine is single-threaded) ---

var whitePixelImage *ebiten.Image

// WhitePixel returns a lazily-initialized shared 1×1 white image. Scale
// it up through an image sprite, tinted by the node color, to draw solid
// rectangles.
func WhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
