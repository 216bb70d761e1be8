// Package tts streams synthesized speech from the backend and hands the
// audio to a host-platform player.
package tts

// Handle identifies one playback started through a Player.
type Handle int

// Player is the host-platform playback capability. Audio codecs and device
// output live behind it; nothing in this package touches them directly.
type Player interface {
	Play(audio []byte) (Handle, error)
	Pause(h Handle) error
	Resume(h Handle) error
	Stop(h Handle) error
}

// NopPlayer discards audio. It backs tests and headless runs where no audio
// device exists.
type NopPlayer struct {
	played int
}

// NewNopPlayer creates a player that swallows everything it is given.
func NewNopPlayer() *NopPlayer {
	return &NopPlayer{}
}

// Play implements Player.
func (p *NopPlayer) Play(audio []byte) (Handle, error) {
	p.played++
	return Handle(p.played), nil
}

// Pause implements Player.
func (p *NopPlayer) Pause(Handle) error { return nil }

// Resume implements Player.
func (p *NopPlayer) Resume(Handle) error { return nil }

// Stop implements Player.
func (p *NopPlayer) Stop(Handle) error { return nil }

var _ Player = (*NopPlayer)(nil)
