package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

type queueView struct {
	Items            []moment.Moment `json:"items"`
	CurrentIndex     int             `json:"currentIndex"`
	PlayingFromQueue bool            `json:"playingFromQueue"`
	Current          *moment.Moment  `json:"current"`
}

func (s *Server) queueView() queueView {
	q := s.session.Queue()
	return queueView{
		Items:            q.Items(),
		CurrentIndex:     q.CurrentIndex(),
		PlayingFromQueue: q.PlayingFromQueue(),
		Current:          q.Current(),
	}
}

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.queueView())
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var item moment.Moment
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if item.ID == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}

	if !s.session.Enqueue(item) {
		writeError(w, http.StatusConflict, "item already queued")
		return
	}
	writeJSON(w, http.StatusCreated, s.queueView())
}

func (s *Server) handleDequeue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.session.Dequeue(id) {
		writeError(w, http.StatusNotFound, "item not queued")
		return
	}
	writeJSON(w, http.StatusOK, s.queueView())
}

func (s *Server) handleClearQueue(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlayAt(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	item := s.session.PlayAt(index)
	if item == nil {
		writeError(w, http.StatusConflict, "queue is empty")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	item, err := s.session.Next(r.Context())
	if err != nil {
		zlog.Warn().Msgf("rest: next failed: %v", err)
		writeError(w, http.StatusBadGateway, "could not pick the next item")
		return
	}
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	item := s.session.Previous()
	if item == nil {
		// No item change: the current media was seeked back to zero.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.session.Reorder(body.From, body.To)
	writeJSON(w, http.StatusOK, s.queueView())
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	item := s.session.Shuffle()
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, s.queueView())
}
