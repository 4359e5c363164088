// Package moment provides the Moment domain entity.
package moment

import "encoding/json"

// Kind represents the playback backend a moment requires.
type Kind int

const (
	KindVideo Kind = iota // Native video element
	KindAudio             // Native audio element
	KindEmbed             // Embedded third-party frame player
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindEmbed:
		return "embed"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind string. Unknown values map to KindVideo.
func ParseKind(s string) Kind {
	switch s {
	case "audio":
		return KindAudio
	case "embed":
		return KindEmbed
	default:
		return KindVideo
	}
}

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseKind(s)
	return nil
}

// Moment represents one playable unit: a clip from a live performance.
// Instances are treated as immutable snapshots; the ID is the only field
// used for identity comparisons.
type Moment struct {
	ID       string   `json:"id"`                 // Stable unique identity
	Source   string   `json:"source"`             // Media URL or provider-native id
	Kind     Kind     `json:"kind"`               // Which backend plays it
	StartSec *float64 `json:"startSec,omitempty"` // Optional clip start within the media
	EndSec   *float64 `json:"endSec,omitempty"`   // Optional clip end within the media
	Title    string   `json:"title"`              // Display only
	Venue    string   `json:"venue,omitempty"`    // Display only
}

// Clone returns a defensive copy of the moment.
func (m Moment) Clone() Moment {
	out := m
	if m.StartSec != nil {
		v := *m.StartSec
		out.StartSec = &v
	}
	if m.EndSec != nil {
		v := *m.EndSec
		out.EndSec = &v
	}
	return out
}

// Same reports whether two moments share an identity.
func (m Moment) Same(other Moment) bool {
	return m.ID == other.ID
}

// ClipDuration returns the clip length in seconds when both bounds are set,
// and 0 otherwise.
func (m Moment) ClipDuration() float64 {
	if m.StartSec == nil || m.EndSec == nil {
		return 0
	}
	d := *m.EndSec - *m.StartSec
	if d < 0 {
		return 0
	}
	return d
}
