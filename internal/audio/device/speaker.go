// Package device binds the completion sound to the system speaker.
package device

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Speaker plays through github.com/faiface/beep/speaker.
type Speaker struct{}

func (Speaker) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (Speaker) Play(s beep.Streamer) {
	speaker.Play(s)
}

// Clear stops everything currently playing. speaker.Clear takes the
// speaker lock itself.
func (Speaker) Clear() {
	speaker.Clear()
}
