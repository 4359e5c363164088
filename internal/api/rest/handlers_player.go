package rest

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

func (s *Server) handlePlayPause(w http.ResponseWriter, r *http.Request) {
	s.session.Controller().TogglePlayPause()
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Seconds float64 `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.session.Controller().SeekTo(body.Seconds)
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Volume float64 `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.session.Controller().SetVolume(body.Volume)
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

func (s *Server) handleMute(w http.ResponseWriter, r *http.Request) {
	s.session.Controller().ToggleMute()
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

func (s *Server) handleEffect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "effect name is required")
		return
	}

	s.session.Controller().ToggleEffect(body.Name)
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

func (s *Server) handleEffectIntensity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Intensity int `json:"intensity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.session.Controller().SetEffectIntensity(body.Intensity)
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

func (s *Server) handlePiP(w http.ResponseWriter, r *http.Request) {
	s.session.Controller().TogglePictureInPicture()
	writeJSON(w, http.StatusOK, s.session.State().Get())
}

// feedbackBody is what the actuating client reports back about the media it
// is playing.
type feedbackBody struct {
	Type        string  `json:"type"` // progress, playing, fullscreen, ready, blocked, ended
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Playing     bool    `json:"playing"`
	Active      bool    `json:"active"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var body feedbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pm := s.session.Player()
	switch body.Type {
	case "progress":
		pm.ReportProgress(body.CurrentTime, body.Duration)
	case "playing":
		pm.ReportPlaying(body.Playing)
	case "fullscreen":
		pm.ReportFullscreen(body.Active)
	case "ready":
		pm.ReportReady()
	case "blocked":
		pm.ReportAutoplayBlocked()
	case "ended":
		pm.ReportEnded()
	default:
		writeError(w, http.StatusBadRequest, "unknown feedback type")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
