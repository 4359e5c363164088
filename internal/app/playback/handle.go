// Package playback provides the shared control surface and observable
// player state that sit between control UIs and whichever concrete backend
// is mounted.
package playback

// Handle is the set of imperative commands a mounted backend exposes.
// Exactly one handle is active at a time; see Controller.
type Handle interface {
	TogglePlayPause()
	SeekTo(seconds float64)
	SetVolume(volume float64)
	ToggleMute()
	ToggleEffect(name string)
	SetEffectIntensity(intensity int)
	TogglePictureInPicture()

	// Teardown releases backend resources: timers, polling loops, the
	// transport binding. Called before a replacement handle is installed.
	Teardown()
}
