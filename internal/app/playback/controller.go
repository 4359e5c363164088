package playback

import (
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// Controller is a single-slot registry for the active backend's control
// handle. Control surfaces call the forwarding methods and never touch a
// concrete backend; every forward is a safe no-op while no handle is
// registered, so secondary surfaces render fine before any media mounts.
type Controller struct {
	mu     sync.Mutex
	active Handle
}

// NewController creates an empty controller.
func NewController() *Controller {
	return &Controller{}
}

// Register installs a new active handle. Any previous handle is torn down
// first so no command can be delivered to a stale backend.
func (c *Controller) Register(h Handle) {
	c.mu.Lock()
	prev := c.active
	c.active = h
	c.mu.Unlock()

	if prev != nil {
		zlog.Debug().Msg("playback: tearing down previous handle before install")
		prev.Teardown()
	}
}

// Unregister clears the slot only when h is the active handle. A backend
// torn down late cannot clobber a newer registration racing on teardown.
func (c *Controller) Unregister(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == h {
		c.active = nil
	}
}

// Active reports whether a handle is currently registered.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

func (c *Controller) handle() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// TogglePlayPause forwards to the active handle.
func (c *Controller) TogglePlayPause() {
	if h := c.handle(); h != nil {
		h.TogglePlayPause()
	}
}

// SeekTo forwards to the active handle.
func (c *Controller) SeekTo(seconds float64) {
	if h := c.handle(); h != nil {
		h.SeekTo(seconds)
	}
}

// SetVolume forwards to the active handle.
func (c *Controller) SetVolume(volume float64) {
	if h := c.handle(); h != nil {
		h.SetVolume(volume)
	}
}

// ToggleMute forwards to the active handle.
func (c *Controller) ToggleMute() {
	if h := c.handle(); h != nil {
		h.ToggleMute()
	}
}

// ToggleEffect forwards to the active handle.
func (c *Controller) ToggleEffect(name string) {
	if h := c.handle(); h != nil {
		h.ToggleEffect(name)
	}
}

// SetEffectIntensity forwards to the active handle.
func (c *Controller) SetEffectIntensity(intensity int) {
	if h := c.handle(); h != nil {
		h.SetEffectIntensity(intensity)
	}
}

// TogglePictureInPicture forwards to the active handle.
func (c *Controller) TogglePictureInPicture() {
	if h := c.handle(); h != nil {
		h.TogglePictureInPicture()
	}
}
