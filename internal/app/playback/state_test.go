package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time            { return c.t }
func (c *fakeClock) advance(d time.Duration)   { c.t = c.t.Add(d) }

func newThrottledModel() (*Model, *fakeClock) {
	m := NewModel()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m.SetClock(clock.now)
	return m, clock
}

func TestModel_Defaults(t *testing.T) {
	m := NewModel()
	snap := m.Get()

	assert.Zero(t, snap.CurrentTime)
	assert.Zero(t, snap.Duration)
	assert.False(t, snap.Playing)
	assert.Equal(t, 1.0, snap.Volume)
}

func TestModel_ProgressThrottle(t *testing.T) {
	m, clock := newThrottledModel()

	var published []Snapshot
	m.Subscribe(func(s Snapshot) { published = append(published, s) })

	// Burst of samples within one throttle window.
	m.PublishProgress(0.1, 180)
	for i := 2; i <= 10; i++ {
		clock.advance(10 * time.Millisecond)
		m.PublishProgress(float64(i)*0.1, 180)
	}

	// Only the first sample of the burst is delivered...
	require.Len(t, published, 1)
	assert.InDelta(t, 0.1, published[0].CurrentTime, 1e-9)

	// ...but the stored state always retains the last sample.
	assert.InDelta(t, 1.0, m.Get().CurrentTime, 1e-9)

	// After the interval elapses the next sample publishes again.
	clock.advance(DefaultPublishInterval)
	m.PublishProgress(2.0, 180)
	require.Len(t, published, 2)
	assert.InDelta(t, 2.0, published[1].CurrentTime, 1e-9)
}

func TestModel_ResetForItem(t *testing.T) {
	m, clock := newThrottledModel()
	m.PublishProgress(95, 180)
	m.SetPlaying(true)

	m.ResetForItem()

	snap := m.Get()
	assert.Zero(t, snap.CurrentTime)
	assert.Zero(t, snap.Duration)
	assert.False(t, snap.Playing)

	// The throttle window resets: the new backend's first sample must not be
	// swallowed even if it arrives immediately.
	var published []Snapshot
	m.Subscribe(func(s Snapshot) { published = append(published, s) })
	clock.advance(time.Millisecond)
	m.PublishProgress(0.5, 200)
	require.Len(t, published, 1)
	assert.InDelta(t, 0.5, published[0].CurrentTime, 1e-9)
}

func TestModel_OptimisticSeek(t *testing.T) {
	m, _ := newThrottledModel()
	m.PublishProgress(10, 180)

	var published []Snapshot
	m.Subscribe(func(s Snapshot) { published = append(published, s) })

	// Seek bypasses the throttle and lands immediately.
	m.Seek(120)
	assert.InDelta(t, 120.0, m.Get().CurrentTime, 1e-9)
	require.Len(t, published, 1)
	assert.InDelta(t, 120.0, published[0].CurrentTime, 1e-9)

	// Negative seeks clamp to zero.
	m.Seek(-5)
	assert.Zero(t, m.Get().CurrentTime)
}

func TestModel_AwaitingGesture(t *testing.T) {
	m := NewModel()
	m.SetPlaying(true)

	m.SetAwaitingGesture(true)
	snap := m.Get()
	assert.True(t, snap.AwaitingGesture)
	assert.False(t, snap.Playing, "blocked autoplay means paused, not playing")

	// A successful play clears the flag.
	m.SetPlaying(true)
	snap = m.Get()
	assert.True(t, snap.Playing)
	assert.False(t, snap.AwaitingGesture)
}

func TestModel_ClampedSetters(t *testing.T) {
	m := NewModel()

	m.SetVolume(1.7)
	assert.Equal(t, 1.0, m.Get().Volume)
	m.SetVolume(-0.3)
	assert.Equal(t, 0.0, m.Get().Volume)

	m.SetEffectIntensity(250)
	assert.Equal(t, 100, m.Get().EffectIntensity)
	m.SetEffectIntensity(-10)
	assert.Equal(t, 0, m.Get().EffectIntensity)
}

func TestModel_SubscribeUnsubscribe(t *testing.T) {
	m := NewModel()

	calls := 0
	id := m.Subscribe(func(Snapshot) { calls++ })
	m.SetMuted(true)
	assert.Equal(t, 1, calls)

	m.Unsubscribe(id)
	m.SetMuted(false)
	assert.Equal(t, 1, calls)
}

func TestModel_MultipleObserversSeeSameSnapshot(t *testing.T) {
	m := NewModel()

	var a, b Snapshot
	m.Subscribe(func(s Snapshot) { a = s })
	m.Subscribe(func(s Snapshot) { b = s })

	m.SetEffect("ascii")
	assert.Equal(t, a, b)
	assert.Equal(t, "ascii", a.EffectMode)
}
