package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/app/playback"
	"github.com/moshpit-dev/moshpit/internal/app/session"
)

var upgrader = websocket.Upgrader{
	// The engine fronts a trusted local UI; origin checks stay open.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes the realtime surface: state snapshots and queue changes
// stream out, playback control and feedback stream in.
type Server struct {
	hub     *Hub
	session *session.Manager
}

// NewServer creates the websocket server over the session manager.
func NewServer(hub *Hub, sm *session.Manager) *Server {
	return &Server{hub: hub, session: sm}
}

// Router builds the chi router for the realtime endpoint.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/ws", s.handleWS)

	return r
}

// Run wires engine observers into the hub and services it until ctx is
// cancelled. Every state change and queue event reaches all clients.
func (s *Server) Run(ctx context.Context) {
	subID := s.session.State().Subscribe(func(snap playback.Snapshot) {
		s.hub.Broadcast("state", snap)
	})
	defer s.session.State().Unsubscribe(subID)

	go s.pumpQueueEvents(ctx)
	s.hub.Run(ctx)
}

func (s *Server) pumpQueueEvents(ctx context.Context) {
	events := s.session.Queue().Events()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			s.hub.Broadcast("queue", map[string]any{
				"event":   e.Type.String(),
				"item":    e.Item,
				"current": e.Current,
			})
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zlog.Warn().Msgf("ws: upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       s.hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		onMessage: s.dispatch,
	}
	s.hub.register <- client

	// New clients get the full picture immediately.
	if b, err := json.Marshal(map[string]any{
		"type": "welcome",
		"payload": map[string]any{
			"state":   s.session.State().Get(),
			"queue":   s.session.Queue().Items(),
			"current": s.session.Queue().Current(),
		},
	}); err == nil {
		client.send <- b
	}

	go client.writePump()
	go client.readPump()
}

// inbound is the envelope clients send: playback controls and media feedback.
type inbound struct {
	Type    string `json:"type"`
	Payload struct {
		Op          string  `json:"op"`
		Value       float64 `json:"value"`
		Name        string  `json:"name"`
		Kind        string  `json:"kind"`
		CurrentTime float64 `json:"currentTime"`
		Duration    float64 `json:"duration"`
		Playing     bool    `json:"playing"`
		Active      bool    `json:"active"`
	} `json:"payload"`
}

func (s *Server) dispatch(data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		zlog.Debug().Msgf("ws: dropping malformed message: %v", err)
		return
	}

	switch msg.Type {
	case "control":
		s.dispatchControl(msg)
	case "feedback":
		s.dispatchFeedback(msg)
	default:
		zlog.Debug().Msgf("ws: unknown message type %q", msg.Type)
	}
}

func (s *Server) dispatchControl(msg inbound) {
	c := s.session.Controller()
	switch msg.Payload.Op {
	case "play_pause":
		c.TogglePlayPause()
	case "seek":
		c.SeekTo(msg.Payload.Value)
	case "volume":
		c.SetVolume(msg.Payload.Value)
	case "mute":
		c.ToggleMute()
	case "effect":
		c.ToggleEffect(msg.Payload.Name)
	case "effect_intensity":
		c.SetEffectIntensity(int(msg.Payload.Value))
	case "pip":
		c.TogglePictureInPicture()
	default:
		zlog.Debug().Msgf("ws: unknown control op %q", msg.Payload.Op)
	}
}

func (s *Server) dispatchFeedback(msg inbound) {
	pm := s.session.Player()
	switch msg.Payload.Kind {
	case "progress":
		pm.ReportProgress(msg.Payload.CurrentTime, msg.Payload.Duration)
	case "playing":
		pm.ReportPlaying(msg.Payload.Playing)
	case "fullscreen":
		pm.ReportFullscreen(msg.Payload.Active)
	case "ready":
		pm.ReportReady()
	case "blocked":
		pm.ReportAutoplayBlocked()
	case "ended":
		pm.ReportEnded()
	default:
		zlog.Debug().Msgf("ws: unknown feedback kind %q", msg.Payload.Kind)
	}
}
