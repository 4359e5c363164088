package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
	"github.com/moshpit-dev/moshpit/internal/domain/playlist"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, s.Set("sample", payload{Name: "x", Count: 3}))

	var got payload
	assert.True(t, s.Get("sample", &got))
	assert.Equal(t, payload{Name: "x", Count: 3}, got)
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	got := 42
	assert.False(t, s.Get("absent", &got))
	assert.Equal(t, 42, got, "missing key leaves the value untouched")
}

func TestStore_GetCorrupt(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{not json"), 0o644))

	var got map[string]any
	assert.False(t, s.Get("broken", &got), "corrupt data must fall back, not error")
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("k", 1))
	require.NoError(t, s.Delete("k"))

	var got int
	assert.False(t, s.Get("k", &got))
	assert.NoError(t, s.Delete("k"), "deleting a missing key is fine")
}

func TestPersister_QueueRoundTrip(t *testing.T) {
	p := NewPersister(newTestStore(t))

	items := []moment.Moment{
		{ID: "a", Kind: moment.KindVideo, Title: "One"},
		{ID: "b", Kind: moment.KindEmbed, Source: "yt:xyz"},
	}
	require.NoError(t, p.SaveQueue(items, 1))

	gotItems, gotIndex := p.LoadQueue()
	assert.Equal(t, items, gotItems)
	assert.Equal(t, 1, gotIndex)
}

func TestPersister_LoadQueue_Empty(t *testing.T) {
	p := NewPersister(newTestStore(t))

	items, index := p.LoadQueue()
	assert.Empty(t, items)
	assert.Equal(t, -1, index)
}

func TestPersister_LoadQueue_IndexOutOfRange(t *testing.T) {
	s := newTestStore(t)
	p := NewPersister(s)

	require.NoError(t, p.SaveQueue([]moment.Moment{{ID: "a"}}, 0))
	require.NoError(t, s.Set(KeyCurrentIndex, 9))

	_, index := p.LoadQueue()
	assert.Equal(t, -1, index, "stale index falls back rather than pointing past the queue")
}

func TestPersister_LoadQueue_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	p := NewPersister(s)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), KeyQueue+".json"), []byte("][["), 0o644))

	items, index := p.LoadQueue()
	assert.Empty(t, items)
	assert.Equal(t, -1, index)
}

func TestPersister_PlaylistsRoundTrip(t *testing.T) {
	p := NewPersister(newTestStore(t))

	in := []playlist.Playlist{
		{ID: "pl-1", Name: "Set", Items: []moment.Moment{{ID: "a"}}},
	}
	require.NoError(t, p.SavePlaylists(in))

	got := p.LoadPlaylists()
	require.Len(t, got, 1)
	assert.Equal(t, "pl-1", got[0].ID)
	assert.Equal(t, []string{"a"}, got[0].ItemIDs())
}

func TestPersister_LoadPlaylists_Empty(t *testing.T) {
	p := NewPersister(newTestStore(t))
	assert.Empty(t, p.LoadPlaylists())
}
