package queue

import (
	"math/rand"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

// Saver persists queue state after each committed mutation.
type Saver interface {
	SaveQueue(items []moment.Moment, currentIndex int) error
}

// Store owns the ordered queue, the current-position pointer and the
// playing-from-queue flag. It is the single writer for all queue fields.
//
// Invariant: when PlayingFromQueue() is true, the current index is a valid
// position and Current() returns the item at that position.
//
// Shuffle deliberately resets the current position to the new head instead
// of pinning the playing item and shuffling the rest; treat that as a
// product decision, not an accident.
type Store struct {
	mu sync.RWMutex

	items        []moment.Moment
	currentIndex int
	playing      bool

	rng   *rand.Rand
	saver Saver

	eventCh chan Event
}

// NewStore creates an empty queue store. saver may be nil (no persistence).
func NewStore(rng *rand.Rand, saver Saver) *Store {
	return &Store{
		items:        make([]moment.Moment, 0),
		currentIndex: -1,
		rng:          rng,
		saver:        saver,
		eventCh:      make(chan Event, 16),
	}
}

// Events returns the queue event channel. Events are dropped, never queued
// past the buffer, so consumers cannot stall mutations.
func (s *Store) Events() <-chan Event {
	return s.eventCh
}

// Restore replaces queue state from persisted data without emitting events
// or re-persisting. Playback never resumes automatically across restarts.
func (s *Store) Restore(items []moment.Moment, currentIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]moment.Moment, len(items))
	for i, m := range items {
		s.items[i] = m.Clone()
	}
	if currentIndex < -1 || currentIndex >= len(s.items) {
		currentIndex = -1
	}
	s.currentIndex = currentIndex
	s.playing = false
}

// Enqueue appends the item unless an item with the same identity is already
// queued. Returns whether insertion occurred. The current position is never
// affected.
func (s *Store) Enqueue(m moment.Moment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfLocked(m.ID) >= 0 {
		return false
	}

	s.items = append(s.items, m.Clone())
	s.commitLocked()
	item := m.Clone()
	s.sendEventLocked(Event{Type: EventItemEnqueued, Item: &item, Current: s.currentLocked()})
	return true
}

// Dequeue removes the item with the given identity if present. Removing an
// item at or before the current position shifts the current index down so it
// keeps pointing at the same item; removing the current item itself stops
// queue playback.
func (s *Store) Dequeue(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return false
	}

	removed := s.items[idx].Clone()
	wasCurrent := s.playing && idx == s.currentIndex

	s.items = append(s.items[:idx], s.items[idx+1:]...)

	if idx <= s.currentIndex {
		s.currentIndex--
		if s.currentIndex < -1 {
			s.currentIndex = -1
		}
	}
	if wasCurrent {
		s.playing = false
	}

	s.commitLocked()
	s.sendEventLocked(Event{Type: EventItemRemoved, Item: &removed, Current: s.currentLocked()})
	return true
}

// Clear empties the queue and stops queue playback.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.items[:0]
	s.currentIndex = -1
	s.playing = false

	s.commitLocked()
	s.sendEventLocked(Event{Type: EventQueueCleared})
}

// PlayAt clamps index into valid bounds, marks that position current and
// returns the now-current item. Returns nil on an empty queue.
func (s *Store) PlayAt(index int) *moment.Moment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil
	}
	if index < 0 {
		index = 0
	}
	if index >= len(s.items) {
		index = len(s.items) - 1
	}

	s.currentIndex = index
	s.playing = true

	s.commitLocked()
	cur := s.currentLocked()
	s.sendEventLocked(Event{Type: EventCurrentChanged, Item: cur, Current: cur})
	return cur
}

// Advance moves to the next item and returns it. Past the last item the
// queue is finished: the position resets, queue playback stops and nil is
// returned so the caller can fall back to playback outside the queue.
func (s *Store) Advance() *moment.Moment {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.currentIndex + 1
	if next >= 0 && next < len(s.items) {
		s.currentIndex = next
		s.playing = true
		s.commitLocked()
		cur := s.currentLocked()
		s.sendEventLocked(Event{Type: EventCurrentChanged, Item: cur, Current: cur})
		return cur
	}

	s.currentIndex = -1
	s.playing = false
	s.commitLocked()
	s.sendEventLocked(Event{Type: EventQueueFinished})
	return nil
}

// Retreat moves to the previous item and returns it. At or before the head,
// and when not playing from the queue, it returns nil: retreat never wraps
// and never enters the queue from outside — the caller's fallback is to seek
// the current media back to zero.
func (s *Store) Retreat() *moment.Moment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing || s.currentIndex <= 0 {
		return nil
	}

	s.currentIndex--
	s.commitLocked()
	cur := s.currentLocked()
	s.sendEventLocked(Event{Type: EventCurrentChanged, Item: cur, Current: cur})
	return cur
}

// Reorder moves one element from one position to another. Indices are
// clamped into valid bounds. Whatever item was current before the call is
// still current after it, wherever it ended up.
func (s *Store) Reorder(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	if n < 2 {
		return
	}
	from = clamp(from, 0, n-1)
	to = clamp(to, 0, n-1)
	if from == to {
		return
	}

	var currentID string
	if s.playing && s.currentIndex >= 0 {
		currentID = s.items[s.currentIndex].ID
	}

	item := s.items[from]
	s.items = append(s.items[:from], s.items[from+1:]...)
	rest := append(make([]moment.Moment, 0, n), s.items[:to]...)
	rest = append(rest, item)
	s.items = append(rest, s.items[to:]...)

	if currentID != "" {
		s.currentIndex = s.indexOfLocked(currentID)
	}

	s.commitLocked()
	s.sendEventLocked(Event{Type: EventOrderChanged, Current: s.currentLocked()})
}

// Shuffle permutes all elements in place and resets the current position to
// the new head, marking it current. No-op for fewer than two items.
func (s *Store) Shuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) < 2 {
		return
	}

	Shuffle(s.rng, s.items)
	s.currentIndex = 0
	s.playing = true

	s.commitLocked()
	cur := s.currentLocked()
	s.sendEventLocked(Event{Type: EventOrderChanged, Item: cur, Current: cur})
}

// ReplaceAll overwrites the queue with the given items, resets the position
// and stops queue playback. Used by playlist replace-loads.
func (s *Store) ReplaceAll(items []moment.Moment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]moment.Moment, len(items))
	for i, m := range items {
		s.items[i] = m.Clone()
	}
	s.currentIndex = -1
	s.playing = false

	s.commitLocked()
	s.sendEventLocked(Event{Type: EventOrderChanged})
}

// AppendMissing appends items whose identity is not already queued,
// preserving existing order and the current position. Returns how many were
// added.
func (s *Store) AppendMissing(items []moment.Moment) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range items {
		if s.indexOfLocked(m.ID) >= 0 {
			continue
		}
		s.items = append(s.items, m.Clone())
		added++
	}
	if added > 0 {
		s.commitLocked()
		s.sendEventLocked(Event{Type: EventOrderChanged, Current: s.currentLocked()})
	}
	return added
}

// Items returns a copy of the queued items.
func (s *Store) Items() []moment.Moment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]moment.Moment, len(s.items))
	for i, m := range s.items {
		out[i] = m.Clone()
	}
	return out
}

// Current returns the current item, or nil when nothing is playing from the
// queue.
func (s *Store) Current() *moment.Moment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

// CurrentIndex returns the current position (-1 when nothing is selected).
func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentIndex
}

// PlayingFromQueue reports whether playback is driven by the queue.
func (s *Store) PlayingFromQueue() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing
}

// Len returns the number of queued items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Contains reports whether an item with the given identity is queued.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOfLocked(id) >= 0
}

func (s *Store) currentLocked() *moment.Moment {
	if !s.playing || s.currentIndex < 0 || s.currentIndex >= len(s.items) {
		return nil
	}
	m := s.items[s.currentIndex].Clone()
	return &m
}

func (s *Store) indexOfLocked(id string) int {
	for i, m := range s.items {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// commitLocked persists the queue after a committed mutation. Persistence
// failures are logged, never surfaced: the live queue stays authoritative.
func (s *Store) commitLocked() {
	if s.saver == nil {
		return
	}
	items := make([]moment.Moment, len(s.items))
	copy(items, s.items)
	if err := s.saver.SaveQueue(items, s.currentIndex); err != nil {
		zlog.Warn().Msgf("queue: failed to persist state: %v", err)
	}
}

// sendEventLocked sends an event without blocking. Must be called with the
// lock held.
func (s *Store) sendEventLocked(e Event) {
	select {
	case s.eventCh <- e:
	default:
		// Buffer full, drop
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
