package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
catalog:
  base_url: "https://catalog.example.com/api"
playback:
  publish_interval_ms: 500
player:
  settings:
    ready_poll_ms: 2000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://catalog.example.com/api", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout(), "timeout defaults")
	assert.Equal(t, 500*time.Millisecond, cfg.Playback.PublishInterval())
	assert.Equal(t, 2000, cfg.Player.Settings["ready_poll_ms"])
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
catalog:
  base_url: "http://localhost:7000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Playback.PublishInterval())
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "http://override:7000")
	t.Setenv("MOSHPIT_ADDR", ":7777")

	path := writeConfig(t, `
server:
  addr: ":9090"
catalog:
  base_url: "http://file:7000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:7000", cfg.Catalog.BaseURL)
	assert.Equal(t, ":7777", cfg.Server.Addr)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: Config{
				Catalog:  CatalogConfig{BaseURL: "http://localhost:7000", TimeoutMs: 5000},
				Playback: PlaybackConfig{PublishIntervalMs: 250},
			},
			wantErr: false,
		},
		{
			name: "missing catalog base url",
			config: Config{
				Catalog:  CatalogConfig{TimeoutMs: 5000},
				Playback: PlaybackConfig{PublishIntervalMs: 250},
			},
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name: "catalog base url not a url",
			config: Config{
				Catalog:  CatalogConfig{BaseURL: "not a url", TimeoutMs: 5000},
				Playback: PlaybackConfig{PublishIntervalMs: 250},
			},
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name: "publish interval too small",
			config: Config{
				Catalog:  CatalogConfig{BaseURL: "http://localhost:7000", TimeoutMs: 5000},
				Playback: PlaybackConfig{PublishIntervalMs: 10},
			},
			wantErr: true,
			errMsg:  "PublishIntervalMs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}
