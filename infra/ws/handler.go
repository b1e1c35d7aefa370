package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kilianp07/evfleet/core/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests and registers the connection on the hub.
type Handler struct {
	hub *Hub
}

// NewHandler returns an http.Handler serving the live feed.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Errorf("websocket upgrade error: %v", err)
		return
	}
	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.hub.Register(client)
	go client.writePump()
	h.readPump(client)
}

// readPump drains client frames until the connection closes. The feed is
// one-way, so payloads are discarded.
func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.hub.log.Warnf("websocket read error: %v", err)
			}
			return
		}
	}
}

// Forward broadcasts every event received on sub as JSON until ctx is done
// or sub is closed.
func (h *Hub) Forward(ctx context.Context, sub <-chan events.RunEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			msg, err := json.Marshal(ev)
			if err != nil {
				h.log.Errorf("marshal event: %v", err)
				continue
			}
			h.Broadcast(msg)
		}
	}
}
