package session

import (
	"context"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moshpit-dev/moshpit/internal/app/playback"
	"github.com/moshpit-dev/moshpit/internal/app/player"
	"github.com/moshpit-dev/moshpit/internal/app/playlists"
	"github.com/moshpit-dev/moshpit/internal/app/queue"
	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

type fakeCatalog struct {
	moments []moment.Moment
	fetchErr error
}

func (f *fakeCatalog) ResolveMoment(ctx context.Context, id string) (*moment.Moment, error) {
	for _, m := range f.moments {
		if m.ID == id {
			c := m.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) FetchCatalog(ctx context.Context) ([]moment.Moment, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.moments, nil
}

type nullSink struct{}

func (nullSink) Send(player.Command) {}

func newTestSession(catalog *fakeCatalog) *Manager {
	rng := rand.New(rand.NewSource(1))
	controller := playback.NewController()
	state := playback.NewModel()
	q := queue.NewStore(rng, nil)
	pl := playlists.NewStore(q, nil)
	pm := player.NewManager(controller, state, nullSink{}, player.Settings{ReadyPollMs: 100, ReadyTimeoutMs: 1000})
	return NewManager(q, pl, pm, controller, state, catalog, rng)
}

func enqueueAll(m *Manager, ids ...string) {
	for _, id := range ids {
		m.Enqueue(moment.Moment{ID: id, Kind: moment.KindVideo})
	}
}

func TestPlayAt_MountsCurrent(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b", "c")

	item := m.PlayAt(1)
	require.NotNil(t, item)
	assert.Equal(t, "b", item.ID)
	assert.True(t, m.Controller().Active())
}

func TestPlayAt_EmptyQueue(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	assert.Nil(t, m.PlayAt(0))
	assert.False(t, m.Controller().Active())
}

func TestNext_WithinQueue(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b")
	m.PlayAt(0)

	item, err := m.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "b", item.ID)
}

func TestNext_ExhaustedFallsBackToCatalog(t *testing.T) {
	catalog := &fakeCatalog{moments: []moment.Moment{
		{ID: "cat-1"}, {ID: "cat-2"}, {ID: "cat-3"},
	}}
	m := newTestSession(catalog)
	enqueueAll(m, "a")
	m.PlayAt(0)

	item, err := m.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.NotEqual(t, "a", item.ID, "fallback excludes the just-played item")
	assert.False(t, m.Queue().PlayingFromQueue())
	assert.Equal(t, -1, m.Queue().CurrentIndex())
}

func TestNext_CatalogFetchError(t *testing.T) {
	m := newTestSession(&fakeCatalog{fetchErr: errors.New("down")})

	item, err := m.Next(context.Background())
	assert.Error(t, err)
	assert.Nil(t, item)
}

func TestNext_EmptyCatalog(t *testing.T) {
	m := newTestSession(&fakeCatalog{})

	item, err := m.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.False(t, m.Controller().Active())
}

func TestPrevious_WithinQueue(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b")
	m.PlayAt(1)

	item := m.Previous()
	require.NotNil(t, item)
	assert.Equal(t, "a", item.ID)
}

func TestPrevious_AtHeadSeeksToZero(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b")
	m.PlayAt(0)
	m.State().PublishProgress(42, 180)

	item := m.Previous()
	assert.Nil(t, item)
	assert.Equal(t, 0, m.Queue().CurrentIndex(), "retreat never wraps")
	assert.Zero(t, m.State().Get().CurrentTime, "fallback seeks current media to zero")
}

func TestDequeue_CurrentStopsPlayback(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b")
	m.PlayAt(0)

	assert.True(t, m.Dequeue("a"))
	assert.False(t, m.Controller().Active())
	assert.False(t, m.Queue().PlayingFromQueue())
}

func TestDequeue_OtherKeepsPlayback(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b")
	m.PlayAt(0)

	assert.True(t, m.Dequeue("b"))
	assert.True(t, m.Controller().Active())
}

func TestShuffle_MountsNewHead(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b", "c", "d")
	m.PlayAt(2)

	item := m.Shuffle()
	require.NotNil(t, item)
	assert.Equal(t, 0, m.Queue().CurrentIndex())
	assert.Equal(t, m.Queue().Items()[0].ID, item.ID)
}

func TestShuffle_ShortQueueNoOp(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a")

	assert.Nil(t, m.Shuffle())
	assert.False(t, m.Controller().Active())
}

func TestLoadPlaylist_ReplaceUnmounts(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b")
	p := m.CreatePlaylist("Set", "")
	require.NotNil(t, p)
	m.PlayAt(0)

	n, err := m.LoadPlaylist(p.ID, playlists.LoadReplace)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, m.Controller().Active())
}

func TestLoadPlaylist_AppendKeepsMount(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	enqueueAll(m, "a", "b")
	p := m.CreatePlaylist("Set", "")
	require.NotNil(t, p)
	m.PlayAt(0)

	_, err := m.LoadPlaylist(p.ID, playlists.LoadAppend)
	require.NoError(t, err)
	assert.True(t, m.Controller().Active())
}

func TestImportSharedPlaylist(t *testing.T) {
	catalog := &fakeCatalog{moments: []moment.Moment{{ID: "a"}, {ID: "c"}}}
	m := newTestSession(catalog)
	enqueueAll(m, "a", "b", "c")
	p := m.CreatePlaylist("Set", "")
	require.NotNil(t, p)
	token, err := m.Playlists().ExportLink(p.ID)
	require.NoError(t, err)

	m.Clear()
	result, err := m.ImportSharedPlaylist(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 2, result.Loaded, "unresolvable ids are dropped, not fatal")
	assert.Equal(t, 2, m.Queue().Len())
}

func TestCreatePlaylist_EmptyQueue(t *testing.T) {
	m := newTestSession(&fakeCatalog{})
	assert.Nil(t, m.CreatePlaylist("My Set", ""))
}
