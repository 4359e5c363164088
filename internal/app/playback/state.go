package playback

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPublishInterval is the minimum interval between progress
// notifications to observers.
const DefaultPublishInterval = 250 * time.Millisecond

// Snapshot is an immutable copy of the player state.
type Snapshot struct {
	CurrentTime     float64 `json:"currentTime"`
	Duration        float64 `json:"duration"` // 0 means unknown/loading
	Playing         bool    `json:"playing"`
	Muted           bool    `json:"muted"`
	Volume          float64 `json:"volume"` // 0..1
	EffectMode      string  `json:"effectMode"` // "" means no effect
	EffectIntensity int     `json:"effectIntensity"` // 0..100
	Fullscreen      bool    `json:"fullscreen"`
	PiP             bool    `json:"pip"`
	AwaitingGesture bool    `json:"awaitingGesture"` // Autoplay blocked, tap to resume
}

// Model is the shared observable player state. The mounted backend is the
// sole writer of time/duration/playing through PublishProgress; control
// surfaces own the remaining fields through the setters. Progress
// notifications are throttled: samples always update the stored state so
// readers see the latest value, but observer fan-out happens at most once
// per publish interval — extra deliveries are dropped, never queued.
type Model struct {
	mu sync.RWMutex

	snap Snapshot

	publishEvery time.Duration
	lastPublish  time.Time
	now          func() time.Time

	subscribers map[string]func(Snapshot)
}

// NewModel creates a player state model with the default publish interval.
func NewModel() *Model {
	return NewModelWithInterval(DefaultPublishInterval)
}

// NewModelWithInterval creates a model with a custom publish interval.
func NewModelWithInterval(interval time.Duration) *Model {
	return &Model{
		snap:         Snapshot{Volume: 1},
		publishEvery: interval,
		now:          time.Now,
		subscribers:  make(map[string]func(Snapshot)),
	}
}

// SetClock replaces the time source. Intended for tests.
func (m *Model) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Subscribe registers an observer and returns its subscription id. The
// callback runs on the publishing goroutine and must not block.
func (m *Model) Subscribe(fn func(Snapshot)) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscribers[id] = fn
	return id
}

// Unsubscribe removes an observer.
func (m *Model) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, id)
}

// Get returns the current state snapshot.
func (m *Model) Get() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// PublishProgress records a (currentTime, duration) sample from the mounted
// backend. The stored state always takes the sample; observers are notified
// only when the publish interval has elapsed since the last notification.
func (m *Model) PublishProgress(currentTime, duration float64) {
	m.mu.Lock()
	if currentTime < 0 {
		currentTime = 0
	}
	if duration < 0 {
		duration = 0
	}
	m.snap.CurrentTime = currentTime
	m.snap.Duration = duration

	now := m.now()
	if !m.lastPublish.IsZero() && now.Sub(m.lastPublish) < m.publishEvery {
		m.mu.Unlock()
		return
	}
	m.lastPublish = now
	snap, subs := m.snap, m.collectSubscribersLocked()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// ResetForItem zeroes time and duration synchronously before a new backend
// mounts, so observers never show a stale time from the previous item. The
// throttle window is reset so the new backend's first sample publishes
// immediately.
func (m *Model) ResetForItem() {
	m.mu.Lock()
	m.snap.CurrentTime = 0
	m.snap.Duration = 0
	m.snap.Playing = false
	m.snap.AwaitingGesture = false
	m.lastPublish = time.Time{}
	snap, subs := m.snap, m.collectSubscribersLocked()
	m.mu.Unlock()

	m.notify(snap, subs)
}

// Seek optimistically moves the model's current time before the backend's
// asynchronous seek completes; subsequent backend samples are authoritative.
func (m *Model) Seek(seconds float64) {
	m.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	m.snap.CurrentTime = seconds
	snap, subs := m.snap, m.collectSubscribersLocked()
	m.mu.Unlock()

	m.notify(snap, subs)
}

// SetPlaying records the playing flag from the mounted backend.
func (m *Model) SetPlaying(playing bool) {
	m.update(func(s *Snapshot) {
		s.Playing = playing
		if playing {
			s.AwaitingGesture = false
		}
	})
}

// SetAwaitingGesture flags that an attempted play was blocked by autoplay
// policy. Not an error: playback is paused until an explicit user gesture.
func (m *Model) SetAwaitingGesture(blocked bool) {
	m.update(func(s *Snapshot) {
		s.AwaitingGesture = blocked
		if blocked {
			s.Playing = false
		}
	})
}

// SetMuted records the mute flag.
func (m *Model) SetMuted(muted bool) {
	m.update(func(s *Snapshot) { s.Muted = muted })
}

// SetVolume records the volume, clamped to 0..1.
func (m *Model) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	m.update(func(s *Snapshot) { s.Volume = volume })
}

// SetEffect records the active effect mode ("" disables).
func (m *Model) SetEffect(mode string) {
	m.update(func(s *Snapshot) { s.EffectMode = mode })
}

// SetEffectIntensity records the effect intensity, clamped to 0..100.
func (m *Model) SetEffectIntensity(intensity int) {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 100 {
		intensity = 100
	}
	m.update(func(s *Snapshot) { s.EffectIntensity = intensity })
}

// SetFullscreen records the fullscreen flag.
func (m *Model) SetFullscreen(fullscreen bool) {
	m.update(func(s *Snapshot) { s.Fullscreen = fullscreen })
}

// SetPiP records the picture-in-picture flag.
func (m *Model) SetPiP(pip bool) {
	m.update(func(s *Snapshot) { s.PiP = pip })
}

func (m *Model) update(mutate func(*Snapshot)) {
	m.mu.Lock()
	mutate(&m.snap)
	snap, subs := m.snap, m.collectSubscribersLocked()
	m.mu.Unlock()

	m.notify(snap, subs)
}

// collectSubscribersLocked copies the subscriber set so callbacks run
// without holding the lock.
func (m *Model) collectSubscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (m *Model) notify(snap Snapshot, subs []func(Snapshot)) {
	for _, fn := range subs {
		fn(snap)
	}
}
