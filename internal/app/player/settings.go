package player

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Settings controls mount behavior, mainly the embedded player's readiness
// lifecycle.
type Settings struct {
	ReadyPollMs    int `mapstructure:"ready_poll_ms" default:"1000" validate:"gte=100,lte=10000"`
	ReadyTimeoutMs int `mapstructure:"ready_timeout_ms" default:"15000" validate:"gte=1000,lte=120000"`
}

// DecodeSettings decodes raw settings, applies defaults and validates.
func DecodeSettings(raw map[string]any) (Settings, error) {
	var s Settings
	if err := mapstructure.Decode(raw, &s); err != nil {
		return Settings{}, errors.Wrap(err, "failed to decode player settings")
	}
	if err := defaults.Set(&s); err != nil {
		return Settings{}, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(s); err != nil {
		return Settings{}, errors.Wrap(err, "player settings validation failed")
	}
	return s, nil
}
