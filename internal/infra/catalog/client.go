// Package catalog provides a client for the moments catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

// Client is a moments catalog API client. Resolved moments are cached so
// playlist imports do not re-fetch the same item twice.
type Client struct {
	baseURL    string
	httpClient *http.Client

	cacheMu sync.RWMutex
	cache   map[string]moment.Moment
}

// Config represents catalog client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// momentPayload is the catalog's wire shape for one moment.
type momentPayload struct {
	ID       string   `json:"id"`
	MediaURL string   `json:"mediaUrl"`
	Kind     string   `json:"kind"`
	StartSec *float64 `json:"startSec"`
	EndSec   *float64 `json:"endSec"`
	Title    string   `json:"title"`
	Venue    string   `json:"venue"`
}

func (p momentPayload) toDomain() moment.Moment {
	return moment.Moment{
		ID:       p.ID,
		Source:   p.MediaURL,
		Kind:     moment.ParseKind(p.Kind),
		StartSec: p.StartSec,
		EndSec:   p.EndSec,
		Title:    p.Title,
		Venue:    p.Venue,
	}
}

// New creates a catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[string]moment.Moment),
	}, nil
}

// ResolveMoment fetches one moment by id. A missing id returns (nil, nil):
// per-item resolution failures are not errors to the engine.
func (c *Client) ResolveMoment(ctx context.Context, id string) (*moment.Moment, error) {
	if id == "" {
		return nil, nil
	}

	c.cacheMu.RLock()
	if m, ok := c.cache[id]; ok {
		c.cacheMu.RUnlock()
		out := m.Clone()
		return &out, nil
	}
	c.cacheMu.RUnlock()

	var payload momentPayload
	status, err := c.getJSON(ctx, "/moments/"+url.PathEscape(id), &payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve moment %s", id)
	}
	if status == http.StatusNotFound {
		zlog.Debug().Msgf("catalog: moment %s not found", id)
		return nil, nil
	}

	m := payload.toDomain()
	c.cacheMu.Lock()
	c.cache[id] = m
	c.cacheMu.Unlock()

	out := m.Clone()
	return &out, nil
}

// FetchCatalog fetches the approved moments catalog.
func (c *Client) FetchCatalog(ctx context.Context) ([]moment.Moment, error) {
	var payloads []momentPayload
	status, err := c.getJSON(ctx, "/moments", &payloads)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch catalog")
	}
	if status == http.StatusNotFound {
		return []moment.Moment{}, nil
	}

	out := make([]moment.Moment, len(payloads))
	for i, p := range payloads {
		out[i] = p.toDomain()
	}
	return out, nil
}

// getJSON performs a GET and decodes the body into v. 404 is reported via
// the status without decoding; other non-2xx statuses are errors.
func (c *Client) getJSON(ctx context.Context, path string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, errors.Newf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
