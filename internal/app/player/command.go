// Package player mounts concrete playback backends for the current item and
// bridges their control handles and progress feedback to the shared playback
// surface.
package player

import "github.com/moshpit-dev/moshpit/internal/domain/moment"

// Op identifies a backend command.
type Op string

const (
	OpLoad            Op = "load" // Mount the item in the client player
	OpPlayPause       Op = "play_pause"
	OpSeek            Op = "seek"
	OpVolume          Op = "volume"
	OpMute            Op = "mute"
	OpEffect          Op = "effect"
	OpEffectIntensity Op = "effect_intensity"
	OpPiP             Op = "pip"
)

// Command is one imperative instruction for the remote playback actuator.
type Command struct {
	Op    Op             `json:"op"`
	Value float64        `json:"value,omitempty"`
	Name  string         `json:"name,omitempty"`
	Item  *moment.Moment `json:"item,omitempty"`
}

// Sink delivers commands to whatever surface actuates them (in production
// the websocket connection of the mounted client).
type Sink interface {
	Send(cmd Command)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(cmd Command)

// Send implements Sink.
func (f SinkFunc) Send(cmd Command) { f(cmd) }
