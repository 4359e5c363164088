// Package ws pushes engine state to connected clients over websockets and
// receives playback commands and feedback on the same connections.
package ws

import (
	"context"
	"encoding/json"

	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/app/player"
)

// Hub owns the set of connected clients and broadcasts messages to all of
// them. It also acts as the command sink: backend commands go out as
// broadcast messages for the actuating client to pick up.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run services the hub until ctx is cancelled. Clients that cannot keep up
// with the broadcast rate are dropped.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
				_ = client.conn.Close()
			}
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				_ = client.conn.Close()
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
					_ = client.conn.Close()
				}
			}
		}
	}
}

// Broadcast queues a typed message for all clients. Messages are dropped
// when the hub is saturated so publishers never stall.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := json.Marshal(map[string]any{
		"type":    msgType,
		"payload": payload,
	})
	if err != nil {
		zlog.Warn().Msgf("ws: failed to encode %s broadcast: %v", msgType, err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		zlog.Debug().Msgf("ws: dropping %s broadcast, hub saturated", msgType)
	}
}

// Send implements player.Sink: backend commands reach the actuating client
// as command broadcasts.
func (h *Hub) Send(cmd player.Command) {
	h.Broadcast("command", cmd)
}

var _ player.Sink = (*Hub)(nil)
