// Package session orchestrates the queue, playlists, catalog and the
// mounted playback backend.
package session

import (
	"context"
	"math/rand"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/app/playback"
	"github.com/moshpit-dev/moshpit/internal/app/player"
	"github.com/moshpit-dev/moshpit/internal/app/playlists"
	"github.com/moshpit-dev/moshpit/internal/app/queue"
	"github.com/moshpit-dev/moshpit/internal/domain/moment"
	"github.com/moshpit-dev/moshpit/internal/domain/playlist"
)

// Catalog is the external moments catalog the engine consults for playlist
// import resolution and for random playback once the queue is exhausted.
type Catalog interface {
	ResolveMoment(ctx context.Context, id string) (*moment.Moment, error)
	FetchCatalog(ctx context.Context) ([]moment.Moment, error)
}

// Manager ties the engine together. It is the only component that both
// mutates the queue and mounts backends, so every queue transition that
// changes the current item goes through exactly one mount/teardown cycle.
type Manager struct {
	queue      *queue.Store
	playlists  *playlists.Store
	player     *player.Manager
	controller *playback.Controller
	state      *playback.Model
	catalog    Catalog
	rng        *rand.Rand

	mu         sync.Mutex
	lastPlayed *moment.Moment // Most recently mounted item, queue or not
}

// NewManager wires the session. The player's end-of-item callback advances
// playback automatically.
func NewManager(
	q *queue.Store,
	pl *playlists.Store,
	pm *player.Manager,
	controller *playback.Controller,
	state *playback.Model,
	catalog Catalog,
	rng *rand.Rand,
) *Manager {
	m := &Manager{
		queue:      q,
		playlists:  pl,
		player:     pm,
		controller: controller,
		state:      state,
		catalog:    catalog,
		rng:        rng,
	}
	pm.OnEnded(func(item moment.Moment) {
		if _, err := m.Next(context.Background()); err != nil {
			zlog.Warn().Msgf("session: auto-advance failed: %v", err)
		}
	})
	return m
}

// Queue exposes the queue store for read-only surfaces.
func (m *Manager) Queue() *queue.Store { return m.queue }

// Playlists exposes the playlist store.
func (m *Manager) Playlists() *playlists.Store { return m.playlists }

// Player exposes the mount manager for client feedback surfaces.
func (m *Manager) Player() *player.Manager { return m.player }

// State exposes the observable player state.
func (m *Manager) State() *playback.Model { return m.state }

// Controller exposes the shared control surface.
func (m *Manager) Controller() *playback.Controller { return m.controller }

// Enqueue appends an item to the queue. Reports whether it was inserted.
func (m *Manager) Enqueue(item moment.Moment) bool {
	return m.queue.Enqueue(item)
}

// Dequeue removes an item. Removing the current item stops queue playback
// and tears down its backend.
func (m *Manager) Dequeue(id string) bool {
	cur := m.queue.Current()
	removed := m.queue.Dequeue(id)
	if removed && cur != nil && cur.ID == id {
		m.player.Unmount()
	}
	return removed
}

// Clear empties the queue and tears down any mounted backend.
func (m *Manager) Clear() {
	m.queue.Clear()
	m.player.Unmount()
}

// PlayAt starts queue playback at the given position (clamped) and mounts
// the backend for the now-current item. Nil on an empty queue.
func (m *Manager) PlayAt(index int) *moment.Moment {
	item := m.queue.PlayAt(index)
	if item == nil {
		return nil
	}
	m.mount(*item)
	return item
}

// Next advances the queue. When the queue is exhausted it falls back to a
// random catalog pick, excluding the item that just played so back-to-back
// repeats cannot happen. Returns the item now playing, or nil when there is
// nothing left to play anywhere.
func (m *Manager) Next(ctx context.Context) (*moment.Moment, error) {
	if item := m.queue.Advance(); item != nil {
		m.mount(*item)
		return item, nil
	}

	catalog, err := m.catalog.FetchCatalog(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "random fallback: catalog fetch failed")
	}
	if len(catalog) == 0 {
		m.player.Unmount()
		return nil, nil
	}

	m.mu.Lock()
	exclude := m.lastPlayed
	m.mu.Unlock()

	pick := queue.PickRandom(m.rng, catalog, exclude)
	if pick == nil {
		m.player.Unmount()
		return nil, nil
	}

	zlog.Info().Msgf("session: queue exhausted, random fallback to %s", pick.ID)
	m.mount(*pick)
	return pick, nil
}

// Previous retreats within the queue. At or before the head (or outside the
// queue entirely) it does not change items: the current media seeks back to
// zero instead. Returns the item that is current after the call, or nil when
// only a seek happened.
func (m *Manager) Previous() *moment.Moment {
	if item := m.queue.Retreat(); item != nil {
		m.mount(*item)
		return item
	}

	m.controller.SeekTo(0)
	return nil
}

// Shuffle reshuffles the queue and, for queues of two or more items, mounts
// the new head.
func (m *Manager) Shuffle() *moment.Moment {
	if m.queue.Len() < 2 {
		return nil
	}
	m.queue.Shuffle()
	item := m.queue.Current()
	if item != nil {
		m.mount(*item)
	}
	return item
}

// Reorder moves a queue element; the current item's backend is untouched
// because reorder never changes which item is current.
func (m *Manager) Reorder(from, to int) {
	m.queue.Reorder(from, to)
}

// CreatePlaylist snapshots the queue into a named playlist. Nil when the
// queue is empty or the name is blank.
func (m *Manager) CreatePlaylist(name, description string) *playlist.Playlist {
	return m.playlists.CreateFromQueue(name, description)
}

// LoadPlaylist places a playlist into the queue. Replace-loads clear the
// current selection, so any mounted backend is torn down.
func (m *Manager) LoadPlaylist(id string, mode playlists.LoadMode) (int, error) {
	n, err := m.playlists.Load(id, mode)
	if err != nil {
		return 0, err
	}
	if mode != playlists.LoadAppend {
		m.player.Unmount()
	}
	return n, nil
}

// ImportSharedPlaylist resolves a share token against the catalog and
// replace-loads whatever resolved. The mounted backend is torn down because
// the queue selection resets.
func (m *Manager) ImportSharedPlaylist(ctx context.Context, token string) (playlists.ImportResult, error) {
	result, err := m.playlists.ImportLink(ctx, token, m.catalog.ResolveMoment)
	if err != nil {
		return result, err
	}
	m.player.Unmount()
	return result, nil
}

func (m *Manager) mount(item moment.Moment) {
	m.mu.Lock()
	m.lastPlayed = &item
	m.mu.Unlock()
	m.player.Mount(item)
}
