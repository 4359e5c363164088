package player

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/app/playback"
	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

// mount is the control handle for one mounted item. Native audio/video
// mounts are ready immediately; embedded frame-player mounts gate commands
// until the client reports ready (see Manager's readiness poll).
type mount struct {
	item  moment.Moment
	sink  Sink
	state *playback.Model

	mu       sync.Mutex
	ready    bool
	dead     bool
	teardown func() // Cancels the readiness poll; set by the manager
}

var _ playback.Handle = (*mount)(nil)

func newMount(item moment.Moment, sink Sink, state *playback.Model) *mount {
	return &mount{
		item:  item,
		sink:  sink,
		state: state,
		ready: item.Kind != moment.KindEmbed,
	}
}

// send delivers a command unless the mount is torn down or still waiting on
// the embedded player. Pre-ready commands are dropped, not queued, matching
// the progress throttle's delivery discipline.
func (m *mount) send(cmd Command) {
	m.mu.Lock()
	ready, dead := m.ready, m.dead
	m.mu.Unlock()

	if dead {
		return
	}
	if !ready {
		zlog.Debug().Msgf("player: dropping %s for %s, backend not ready", cmd.Op, m.item.ID)
		return
	}
	m.sink.Send(cmd)
}

// sendLoad bypasses the readiness gate: the load command is what brings the
// embedded player up in the first place.
func (m *mount) sendLoad() {
	m.mu.Lock()
	dead := m.dead
	m.mu.Unlock()
	if dead {
		return
	}

	item := m.item.Clone()
	m.sink.Send(Command{Op: OpLoad, Item: &item})
}

func (m *mount) markReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dead || m.ready {
		return false
	}
	m.ready = true
	return true
}

func (m *mount) isReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready && !m.dead
}

// TogglePlayPause implements playback.Handle.
func (m *mount) TogglePlayPause() {
	m.send(Command{Op: OpPlayPause})
}

// SeekTo implements playback.Handle. The model is updated optimistically on
// this call; the backend's later samples are authoritative.
func (m *mount) SeekTo(seconds float64) {
	m.state.Seek(seconds)
	m.send(Command{Op: OpSeek, Value: seconds})
}

// SetVolume implements playback.Handle.
func (m *mount) SetVolume(volume float64) {
	m.state.SetVolume(volume)
	m.send(Command{Op: OpVolume, Value: m.state.Get().Volume})
}

// ToggleMute implements playback.Handle.
func (m *mount) ToggleMute() {
	muted := !m.state.Get().Muted
	m.state.SetMuted(muted)
	m.send(Command{Op: OpMute, Value: boolValue(muted)})
}

// ToggleEffect implements playback.Handle. Toggling the active effect
// disables it; any other name switches to it.
func (m *mount) ToggleEffect(name string) {
	mode := name
	if m.state.Get().EffectMode == name {
		mode = ""
	}
	m.state.SetEffect(mode)
	m.send(Command{Op: OpEffect, Name: mode})
}

// SetEffectIntensity implements playback.Handle.
func (m *mount) SetEffectIntensity(intensity int) {
	m.state.SetEffectIntensity(intensity)
	m.send(Command{Op: OpEffectIntensity, Value: float64(m.state.Get().EffectIntensity)})
}

// TogglePictureInPicture implements playback.Handle.
func (m *mount) TogglePictureInPicture() {
	pip := !m.state.Get().PiP
	m.state.SetPiP(pip)
	m.send(Command{Op: OpPiP, Value: boolValue(pip)})
}

// Teardown implements playback.Handle. After teardown no command leaves this
// mount, whichever surface still holds a reference.
func (m *mount) Teardown() {
	m.mu.Lock()
	if m.dead {
		m.mu.Unlock()
		return
	}
	m.dead = true
	cancel := m.teardown
	m.teardown = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (m *mount) setTeardown(cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown = cancel
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
