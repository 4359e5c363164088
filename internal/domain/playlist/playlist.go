// Package playlist provides the Playlist domain entity.
package playlist

import (
	"time"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

// Playlist represents a named, persisted snapshot of queue items.
// Items are copies, not live references: later changes to the canonical
// moment elsewhere never alter a playlist.
type Playlist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Items       []moment.Moment `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ItemIDs returns all item identities in order.
func (p *Playlist) ItemIDs() []string {
	ids := make([]string, len(p.Items))
	for i, m := range p.Items {
		ids[i] = m.ID
	}
	return ids
}

// TotalClipDuration returns the summed clip duration in seconds for items
// that carry both bounds.
func (p *Playlist) TotalClipDuration() float64 {
	var total float64
	for _, m := range p.Items {
		total += m.ClipDuration()
	}
	return total
}

// Snapshot returns a deep copy of the playlist.
func (p *Playlist) Snapshot() Playlist {
	out := *p
	out.Items = make([]moment.Moment, len(p.Items))
	for i, m := range p.Items {
		out.Items[i] = m.Clone()
	}
	return out
}
