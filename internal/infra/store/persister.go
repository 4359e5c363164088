package store

import (
	"github.com/moshpit-dev/moshpit/internal/domain/moment"
	"github.com/moshpit-dev/moshpit/internal/domain/playlist"
)

// QueueState is the persisted queue payload.
type QueueState struct {
	Items []moment.Moment `json:"items"`
}

// Persister adapts the key-value store to the queue and playlist saver
// interfaces and restores their state at startup.
type Persister struct {
	kv *Store
}

// NewPersister creates a persister over the given store.
func NewPersister(kv *Store) *Persister {
	return &Persister{kv: kv}
}

// SaveQueue persists the queue items and current index.
func (p *Persister) SaveQueue(items []moment.Moment, currentIndex int) error {
	if err := p.kv.Set(KeyQueue, QueueState{Items: items}); err != nil {
		return err
	}
	return p.kv.Set(KeyCurrentIndex, currentIndex)
}

// SavePlaylists persists the playlist collection.
func (p *Persister) SavePlaylists(playlists []playlist.Playlist) error {
	return p.kv.Set(KeyPlaylists, playlists)
}

// LoadQueue restores the queue items and current index, falling back to an
// empty queue and -1 on absence or corruption.
func (p *Persister) LoadQueue() ([]moment.Moment, int) {
	var state QueueState
	if !p.kv.Get(KeyQueue, &state) || state.Items == nil {
		state.Items = []moment.Moment{}
	}

	index := -1
	if !p.kv.Get(KeyCurrentIndex, &index) {
		index = -1
	}
	if index < -1 || index >= len(state.Items) {
		index = -1
	}
	return state.Items, index
}

// LoadPlaylists restores the playlist collection, falling back to empty.
func (p *Persister) LoadPlaylists() []playlist.Playlist {
	var playlists []playlist.Playlist
	if !p.kv.Get(KeyPlaylists, &playlists) || playlists == nil {
		return []playlist.Playlist{}
	}
	return playlists
}
