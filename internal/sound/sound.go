// Package sound provides the beep hook the sound timer drives. CHIP-8 has
// no notion of pitch or duration beyond "buzzer on while ST > 0"; this
// package reserves the playback hook without committing the interpreter
// core to any particular audio backend.
package sound

import (
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Hook is called once per timer tick (60Hz) with whether the sound timer is
// currently nonzero. Implementations decide how to turn that into audio.
type Hook interface {
	SetBuzzing(on bool)
}

// NoOp is the default Hook: silent, used when no asset is available or
// audio is disabled.
type NoOp struct{}

// SetBuzzing implements Hook.
func (NoOp) SetBuzzing(bool) {}

// Beep plays the mp3 given to NewBeep in a loop while buzzing and silences
// the speaker otherwise. It mirrors the teacher's original
// mp3-decode-and-loop approach, but is driven by SetBuzzing calls rather
// than gated on a dedicated channel consumer goroutine, since the sound
// timer is now just another field Hardware owns.
type Beep struct {
	streamer beep.StreamSeeker
	ctrl     *beep.Ctrl
	loop     beep.Streamer
}

// NewBeep decodes assetPath (an mp3) and initializes the speaker at the
// decoded sample rate. If the asset can't be opened or decoded, it returns
// an error and the caller should fall back to NoOp.
func NewBeep(assetPath string) (*Beep, error) {
	f, err := os.Open(assetPath)
	if err != nil {
		return nil, err
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		return nil, err
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	loop := beep.Loop(-1, streamer)
	ctrl := &beep.Ctrl{Streamer: loop, Paused: true}
	speaker.Play(ctrl)
	return &Beep{streamer: streamer, ctrl: ctrl, loop: loop}, nil
}

// SetBuzzing toggles playback. Paused is only ever flipped here, under the
// speaker's own lock, so it's safe to call from the hardware consumer
// goroutine.
func (b *Beep) SetBuzzing(on bool) {
	speaker.Lock()
	b.ctrl.Paused = !on
	speaker.Unlock()
}
