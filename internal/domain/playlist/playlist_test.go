package playlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

func TestPlaylist_ItemIDs(t *testing.T) {
	tests := []struct {
		name     string
		items    []moment.Moment
		expected []string
	}{
		{
			name:     "empty playlist",
			items:    []moment.Moment{},
			expected: []string{},
		},
		{
			name: "single item",
			items: []moment.Moment{
				{ID: "m-1"},
			},
			expected: []string{"m-1"},
		},
		{
			name: "multiple items keep order",
			items: []moment.Moment{
				{ID: "m-1"},
				{ID: "m-2"},
				{ID: "m-3"},
			},
			expected: []string{"m-1", "m-2", "m-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{ID: "pl-1", Items: tt.items}
			assert.Equal(t, tt.expected, p.ItemIDs())
		})
	}
}

func TestPlaylist_TotalClipDuration(t *testing.T) {
	s1, e1 := 0.0, 30.0
	s2, e2 := 10.0, 55.0

	p := &Playlist{
		Items: []moment.Moment{
			{ID: "m-1", StartSec: &s1, EndSec: &e1},
			{ID: "m-2", StartSec: &s2, EndSec: &e2},
			{ID: "m-3"}, // no bounds, contributes 0
		},
	}

	assert.Equal(t, 75.0, p.TotalClipDuration())
}

func TestPlaylist_Snapshot_Independent(t *testing.T) {
	start := 5.0
	p := &Playlist{
		ID:        "pl-1",
		Name:      "Festival set",
		Items:     []moment.Moment{{ID: "m-1", StartSec: &start}},
		CreatedAt: time.Now(),
	}

	snap := p.Snapshot()
	snap.Items[0].ID = "mutated"
	*snap.Items[0].StartSec = 99

	assert.Equal(t, "m-1", p.Items[0].ID)
	assert.Equal(t, 5.0, *p.Items[0].StartSec)
}

func TestShareLink_RoundTrip(t *testing.T) {
	p := &Playlist{
		ID:   "pl-1",
		Name: "My Set",
		Items: []moment.Moment{
			{ID: "m-1", Title: "Opener"},
			{ID: "m-2", Title: "Encore"},
		},
	}

	token, err := EncodeShareLink(p)
	require.NoError(t, err)
	assert.NotContains(t, token, "Opener", "token must not embed item payloads")

	link, err := DecodeShareLink(token)
	require.NoError(t, err)
	assert.Equal(t, "My Set", link.Name)
	assert.Equal(t, []string{"m-1", "m-2"}, link.ItemIDs)
}

func TestDecodeShareLink_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "whitespace", token: "   "},
		{name: "not base64", token: "%%%%"},
		{name: "not json", token: "bm90LWpzb24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeShareLink(tt.token)
			assert.Error(t, err)
		})
	}
}
