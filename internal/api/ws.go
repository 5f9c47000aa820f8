package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"recallgo/pkg/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local single-user app; the SPA and the API share an origin but the
	// GUI shell connects with a file origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

// WSHandler bridges the studio and the SPA over one websocket: studio
// notices flow out, scroll and mute frames flow in.
type WSHandler struct {
	studio *session.Studio
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(studio *session.Studio) *WSHandler {
	return &WSHandler{studio: studio}
}

// wsInbound is the client-to-server frame envelope.
type wsInbound struct {
	Type   string      `json:"type"` // "scroll", "mute"
	Scroll ScrollFrame `json:"scroll,omitempty"`
	Muted  bool        `json:"muted,omitempty"`
}

// wsOutbound is the server-to-client frame envelope.
type wsOutbound struct {
	Type   string         `json:"type"` // "notice", "player"
	Notice session.Notice `json:"notice,omitempty"`
	Player any            `json:"player,omitempty"`
	Studio any            `json:"studio,omitempty"`
}

// Handle upgrades the connection and pumps frames both ways until the
// client goes away.
// GET /ws
func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	notices, unsubscribe := h.studio.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go h.readPump(conn, done)

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-notices:
			if !ok {
				return
			}
			out := wsOutbound{Type: "notice", Notice: n}
			if n.Kind == "player" {
				if p := h.studio.Player(); p != nil {
					out.Player = p.Status()
				}
			}
			if n.Kind == "premiere" {
				out.Studio = h.studio.Status()
			}
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(out); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readPump consumes inbound frames and feeds them to the player.
func (h *WSHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("WebSocket read error", "error", err)
			}
			return
		}

		p := h.studio.Player()
		if p == nil {
			continue
		}
		switch in.Type {
		case "scroll":
			p.HandleScroll(in.Scroll.ScrollTop, in.Scroll.ScrollHeight, in.Scroll.ClientHeight, in.Scroll.ViewportHeight)
		case "mute":
			p.SetMuted(in.Muted)
		}
	}
}
