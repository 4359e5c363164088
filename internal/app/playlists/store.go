// Package playlists provides the named-playlist store: persisted snapshots
// of queue contents with load, share-link export and import.
package playlists

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
	"github.com/moshpit-dev/moshpit/internal/domain/playlist"
)

// LoadMode selects how a playlist's items enter the live queue.
type LoadMode string

const (
	LoadReplace LoadMode = "replace" // Overwrite the queue, reset position, stop playback
	LoadAppend  LoadMode = "append"  // Add only items not already queued
)

// Queue is the live queue surface the playlist store drives.
type Queue interface {
	Items() []moment.Moment
	ReplaceAll(items []moment.Moment)
	AppendMissing(items []moment.Moment) int
}

// Saver persists the playlist collection after each committed mutation.
type Saver interface {
	SavePlaylists(playlists []playlist.Playlist) error
}

// Resolver resolves an item identity to a full moment. A nil result with a
// nil error means the id no longer resolves.
type Resolver func(ctx context.Context, id string) (*moment.Moment, error)

// ImportResult reports how much of a shared playlist could be recovered.
type ImportResult struct {
	Name      string
	Requested int
	Loaded    int
}

// Store owns the collection of named playlists.
type Store struct {
	mu        sync.RWMutex
	playlists []playlist.Playlist

	queue Queue
	saver Saver
}

// NewStore creates an empty playlist store. saver may be nil.
func NewStore(q Queue, saver Saver) *Store {
	return &Store{
		playlists: make([]playlist.Playlist, 0),
		queue:     q,
		saver:     saver,
	}
}

// Restore replaces the collection from persisted data without re-persisting.
func (s *Store) Restore(playlists []playlist.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlists = make([]playlist.Playlist, len(playlists))
	for i := range playlists {
		s.playlists[i] = playlists[i].Snapshot()
	}
}

// CreateFromQueue snapshots the current queue into a new playlist. Returns
// nil when the queue is empty or the name is blank after trimming.
func (s *Store) CreateFromQueue(name, description string) *playlist.Playlist {
	name = strings.TrimSpace(name)
	items := s.queue.Items()
	if name == "" || len(items) == 0 {
		return nil
	}

	now := time.Now()
	p := playlist.Playlist{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.playlists = append(s.playlists, p)
	s.commitLocked()
	s.mu.Unlock()

	out := p.Snapshot()
	return &out
}

// Get returns a copy of the playlist with the given id, or nil.
func (s *Store) Get(id string) *playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOfLocked(id); i >= 0 {
		out := s.playlists[i].Snapshot()
		return &out
	}
	return nil
}

// List returns copies of all playlists in creation order.
func (s *Store) List() []playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]playlist.Playlist, len(s.playlists))
	for i := range s.playlists {
		out[i] = s.playlists[i].Snapshot()
	}
	return out
}

// Load places a playlist's items into the live queue. Replace mode
// overwrites the queue and stops playback; append mode adds only items not
// already present, leaving order and the current position alone. Returns how
// many items entered the queue.
func (s *Store) Load(id string, mode LoadMode) (int, error) {
	p := s.Get(id)
	if p == nil {
		return 0, errors.Newf("playlist %s not found", id)
	}

	switch mode {
	case LoadAppend:
		return s.queue.AppendMissing(p.Items), nil
	case LoadReplace, "":
		s.queue.ReplaceAll(p.Items)
		return len(p.Items), nil
	default:
		return 0, errors.Newf("unknown load mode %q", mode)
	}
}

// Delete removes a playlist. Queues previously loaded from it are
// unaffected: loaded items are independent snapshots.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return false
	}
	s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
	s.commitLocked()
	return true
}

// UpdatePatch carries optional playlist metadata changes.
type UpdatePatch struct {
	Name        *string
	Description *string
}

// Update applies a metadata patch and refreshes UpdatedAt. A blank name in
// the patch is rejected.
func (s *Store) Update(id string, patch UpdatePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return false
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return false
		}
		s.playlists[i].Name = name
	}
	if patch.Description != nil {
		s.playlists[i].Description = strings.TrimSpace(*patch.Description)
	}
	s.playlists[i].UpdatedAt = time.Now()
	s.commitLocked()
	return true
}

// ExportLink produces the opaque shareable token for a playlist. The token
// carries only the name and item ids; receivers re-resolve the rest.
func (s *Store) ExportLink(id string) (string, error) {
	p := s.Get(id)
	if p == nil {
		return "", errors.Newf("playlist %s not found", id)
	}
	return playlist.EncodeShareLink(p)
}

// ImportLink decodes a share token, resolves each id through the injected
// resolver and replace-loads whatever resolved into the queue. Items that
// fail to resolve are dropped; the import fails only when nothing resolves.
func (s *Store) ImportLink(ctx context.Context, token string, resolve Resolver) (ImportResult, error) {
	link, err := playlist.DecodeShareLink(token)
	if err != nil {
		return ImportResult{}, err
	}

	resolved := make([]moment.Moment, 0, len(link.ItemIDs))
	for _, id := range link.ItemIDs {
		m, err := resolve(ctx, id)
		if err != nil {
			zlog.Warn().Msgf("playlists: import could not resolve %s: %v", id, err)
			continue
		}
		if m == nil {
			zlog.Debug().Msgf("playlists: import dropped unknown item %s", id)
			continue
		}
		resolved = append(resolved, m.Clone())
	}

	result := ImportResult{
		Name:      link.Name,
		Requested: len(link.ItemIDs),
		Loaded:    len(resolved),
	}
	if len(resolved) == 0 {
		return result, errors.Newf("no items of %q could be resolved", link.Name)
	}

	s.queue.ReplaceAll(resolved)
	return result, nil
}

func (s *Store) indexOfLocked(id string) int {
	for i := range s.playlists {
		if s.playlists[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commitLocked() {
	if s.saver == nil {
		return
	}
	out := make([]playlist.Playlist, len(s.playlists))
	for i := range s.playlists {
		out[i] = s.playlists[i].Snapshot()
	}
	if err := s.saver.SavePlaylists(out); err != nil {
		zlog.Warn().Msgf("playlists: failed to persist: %v", err)
	}
}
