package playlist

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ShareLink is the minimal payload carried by a shareable playlist token.
// It intentionally omits item payloads: the receiving side re-resolves each
// id against the catalog.
type ShareLink struct {
	Name    string   `json:"name"`
	ItemIDs []string `json:"itemIds"`
}

// EncodeShareLink produces an opaque, URL-safe token for the playlist.
func EncodeShareLink(p *Playlist) (string, error) {
	link := ShareLink{
		Name:    p.Name,
		ItemIDs: p.ItemIDs(),
	}
	data, err := json.Marshal(link)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode share link")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeShareLink decodes a token produced by EncodeShareLink.
func DecodeShareLink(token string) (*ShareLink, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("empty share token")
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.Wrap(err, "malformed share token")
	}

	var link ShareLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, errors.Wrap(err, "malformed share token payload")
	}
	return &link, nil
}
