package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/moshpit-dev/moshpit/internal/app/playlists"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Playlists().List())
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	p := s.session.Playlists().Get(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	p := s.session.CreatePlaylist(body.Name, body.Description)
	if p == nil {
		writeError(w, http.StatusConflict, "queue is empty")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePatchPlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	store := s.session.Playlists()
	if !store.Update(id, playlists.UpdatePatch{Name: body.Name, Description: body.Description}) {
		if store.Get(id) == nil {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		writeError(w, http.StatusBadRequest, "name must not be blank")
		return
	}
	writeJSON(w, http.StatusOK, store.Get(id))
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if !s.session.Playlists().Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadPlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	n, err := s.session.LoadPlaylist(chi.URLParam(r, "id"), playlists.LoadMode(body.Mode))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"loaded": n})
}

func (s *Server) handleExportLink(w http.ResponseWriter, r *http.Request) {
	token, err := s.session.Playlists().ExportLink(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleImportPlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	result, err := s.session.ImportSharedPlaylist(r.Context(), body.Token)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      result.Name,
		"requested": result.Requested,
		"loaded":    result.Loaded,
	})
}
