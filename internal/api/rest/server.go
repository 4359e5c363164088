// Package rest exposes the engine over an HTTP JSON API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moshpit-dev/moshpit/internal/app/session"
)

// Server handles the REST surface. All state lives in the session manager;
// handlers translate HTTP to engine calls and back.
type Server struct {
	session *session.Manager
}

// NewServer creates a REST server over the session manager.
func NewServer(sm *session.Manager) *Server {
	return &Server{session: sm}
}

// Router builds the chi router for the API.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/queue", func(r chi.Router) {
		r.Get("/", s.handleGetQueue)
		r.Post("/items", s.handleEnqueue)
		r.Delete("/items/{id}", s.handleDequeue)
		r.Post("/clear", s.handleClearQueue)
		r.Post("/play/{index}", s.handlePlayAt)
		r.Post("/next", s.handleNext)
		r.Post("/previous", s.handlePrevious)
		r.Post("/reorder", s.handleReorder)
		r.Post("/shuffle", s.handleShuffle)
	})

	r.Route("/playlists", func(r chi.Router) {
		r.Get("/", s.handleListPlaylists)
		r.Post("/from-queue", s.handleCreatePlaylist)
		r.Post("/import", s.handleImportPlaylist)
		r.Get("/{id}", s.handleGetPlaylist)
		r.Patch("/{id}", s.handlePatchPlaylist)
		r.Delete("/{id}", s.handleDeletePlaylist)
		r.Post("/{id}/load", s.handleLoadPlaylist)
		r.Get("/{id}/link", s.handleExportLink)
	})

	r.Route("/player", func(r chi.Router) {
		r.Get("/state", s.handlePlayerState)
		r.Post("/play-pause", s.handlePlayPause)
		r.Post("/seek", s.handleSeek)
		r.Post("/volume", s.handleVolume)
		r.Post("/mute", s.handleMute)
		r.Post("/effect", s.handleEffect)
		r.Post("/effect-intensity", s.handleEffectIntensity)
		r.Post("/pip", s.handlePiP)
		r.Post("/feedback", s.handleFeedback)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "moshpit",
	})
}
