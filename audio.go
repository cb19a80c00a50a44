package rowan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
)

const audioSampleRate = 44100

// shared audio context; ebiten allows exactly one per process
var audioContext *audio.Context

func ensureAudioContext() *audio.Context {
	if audioContext == nil {
		audioContext = audio.NewContext(audioSampleRate)
	}
	return audioContext
}

// audioStream is the decoded form a player reads from.
type audioStream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Length() int64
}

// AudioData is the payload of a KindAudioPlayer node: one decoded sound
// with its own player.
type AudioData struct {
	player *audio.Player

	// Autoplay starts playback when the node enters the tree.
	Autoplay bool
}

// NewAudioPlayer creates an audio player node from a sound file. ".mp3"
// and ".ogg" files are supported; loop wraps the sound endlessly. The
// whole file is decoded from memory, so keep streams game-sized.
func NewAudioPlayer(name, path string, loop bool) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rowan: failed to read audio file: %w", err)
	}

	var stream audioStream
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(audioSampleRate, bytes.NewReader(data))
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(audioSampleRate, bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("rowan: unsupported audio format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("rowan: failed to decode audio file: %w", err)
	}

	var player *audio.Player
	if loop {
		player, err = ensureAudioContext().NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	} else {
		player, err = ensureAudioContext().NewPlayer(stream)
	}
	if err != nil {
		return nil, fmt.Errorf("rowan: failed to create audio player: %w", err)
	}

	n := &Node{name: name, Kind: KindAudioPlayer}
	nodeDefaults(n)
	n.Audio = &AudioData{player: player}
	return n, nil
}

// Play starts the sound from the beginning.
func (a *AudioData) Play() {
	if a.player == nil {
		return
	}
	if err := a.player.Rewind(); err != nil {
		debugLog("audio rewind failed: %v", err)
	}
	a.player.Play()
}

// Stop halts playback and rewinds.
func (a *AudioData) Stop() {
	if a.player == nil {
		return
	}
	a.player.Pause()
	if err := a.player.Rewind(); err != nil {
		debugLog("audio rewind failed: %v", err)
	}
}

// Pause halts playback, keeping the position for Resume.
func (a *AudioData) Pause() {
	if a.player != nil {
		a.player.Pause()
	}
}

// Resume continues playback from the paused position.
func (a *AudioData) Resume() {
	if a.player != nil {
		a.player.Play()
	}
}

// IsPlaying reports whether the sound is currently playing.
func (a *AudioData) IsPlaying() bool {
	return a.player != nil && a.player.IsPlaying()
}

// SetVolume sets the playback volume (0 to 1).
func (a *AudioData) SetVolume(volume float64) {
	if a.player != nil {
		a.player.SetVolume(volume)
	}
}

// Volume returns the playback volume.
func (a *AudioData) Volume() float64 {
	if a.player == nil {
		return 0
	}
	return a.player.Volume()
}

// close releases the player when the node is freed.
func (a *AudioData) close() {
	if a.player != nil {
		_ = a.player.Close()
		a.player = nil
	}
}
