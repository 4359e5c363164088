package player

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/app/playback"
	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

// Manager owns the active backend mount. Switching items tears down the
// previous mount (readiness poll included) before the next one is wired, so
// no timer or command outlives its backend.
type Manager struct {
	controller *playback.Controller
	state      *playback.Model
	sink       Sink
	settings   Settings

	mu         sync.Mutex
	active     *mount
	pollCancel func()
	endedFired bool
	onEnded    func(item moment.Moment)
}

// NewManager creates a mount manager.
func NewManager(controller *playback.Controller, state *playback.Model, sink Sink, settings Settings) *Manager {
	return &Manager{
		controller: controller,
		state:      state,
		sink:       sink,
		settings:   settings,
	}
}

// OnEnded registers the callback invoked when the mounted item finishes
// (natural end or clip end bound reached). Must be set before mounting.
func (p *Manager) OnEnded(fn func(item moment.Moment)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEnded = fn
}

// Mount makes item the playing backend: the state model is reset before the
// new backend can produce a sample, the previous handle is torn down by the
// controller on Register, and the load command goes out. Embedded items get
// a readiness poll that re-sends the load until the client reports ready.
func (p *Manager) Mount(item moment.Moment) {
	m := newMount(item.Clone(), p.sink, p.state)

	p.mu.Lock()
	if p.pollCancel != nil {
		p.pollCancel()
		p.pollCancel = nil
	}
	p.active = m
	p.endedFired = false
	p.mu.Unlock()

	p.state.ResetForItem()
	p.controller.Register(m)
	m.sendLoad()

	if item.Kind == moment.KindEmbed {
		cancel := p.startReadinessPoll(m)
		m.setTeardown(cancel)
		p.mu.Lock()
		p.pollCancel = cancel
		p.mu.Unlock()
	}

	zlog.Info().Msgf("player: mounted %s backend for %s", item.Kind, item.ID)
}

// Unmount tears down the active mount, if any.
func (p *Manager) Unmount() {
	p.mu.Lock()
	m := p.active
	p.active = nil
	if p.pollCancel != nil {
		p.pollCancel()
		p.pollCancel = nil
	}
	p.mu.Unlock()

	if m == nil {
		return
	}
	m.Teardown()
	p.controller.Unregister(m)
	p.state.ResetForItem()
}

// Current returns the mounted item, or nil.
func (p *Manager) Current() *moment.Moment {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		return nil
	}
	item := p.active.item.Clone()
	return &item
}

// ReportProgress feeds a (currentTime, duration) sample from the client into
// the state model. Reaching a clip's end bound counts as the item ending.
func (p *Manager) ReportProgress(currentTime, duration float64) {
	p.state.PublishProgress(currentTime, duration)

	p.mu.Lock()
	m := p.active
	p.mu.Unlock()
	if m == nil {
		return
	}
	if end := m.item.EndSec; end != nil && currentTime >= *end {
		p.fireEnded()
	}
}

// ReportPlaying records whether the client is actually playing.
func (p *Manager) ReportPlaying(playing bool) {
	p.state.SetPlaying(playing)
}

// ReportFullscreen records the client's fullscreen state. Fullscreen is a
// client-local gesture; the engine only mirrors it.
func (p *Manager) ReportFullscreen(active bool) {
	p.state.SetFullscreen(active)
}

// ReportAutoplayBlocked records that an attempted play was refused by the
// platform. The state model flips to paused-awaiting-gesture; nothing errors.
func (p *Manager) ReportAutoplayBlocked() {
	zlog.Debug().Msg("player: autoplay blocked, awaiting user gesture")
	p.state.SetAwaitingGesture(true)
}

// ReportReady marks the embedded backend ready and stops the readiness poll.
func (p *Manager) ReportReady() {
	p.mu.Lock()
	m := p.active
	cancel := p.pollCancel
	p.pollCancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if m != nil && m.markReady() {
		zlog.Debug().Msgf("player: backend ready for %s", m.item.ID)
	}
}

// ReportEnded signals that the client finished the mounted item.
func (p *Manager) ReportEnded() {
	p.fireEnded()
}

func (p *Manager) fireEnded() {
	p.mu.Lock()
	if p.active == nil || p.endedFired {
		p.mu.Unlock()
		return
	}
	p.endedFired = true
	item := p.active.item.Clone()
	fn := p.onEnded
	p.mu.Unlock()

	p.state.SetPlaying(false)
	if fn != nil {
		fn(item)
	}
}

// startReadinessPoll re-sends the load command on an interval until the
// mount reports ready, the timeout passes, or the poll is cancelled.
func (p *Manager) startReadinessPoll(m *mount) func() {
	ctx, cancel := context.WithCancel(context.Background())

	poll := time.Duration(p.settings.ReadyPollMs) * time.Millisecond
	timeout := time.Duration(p.settings.ReadyTimeoutMs) * time.Millisecond

	go func() {
		deadline := time.Now().Add(timeout)
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if m.isReady() {
					return
				}
				if time.Now().After(deadline) {
					zlog.Warn().Msgf("player: embedded backend for %s never reported ready", m.item.ID)
					return
				}
				m.sendLoad()
			}
		}
	}()

	return cancel
}
