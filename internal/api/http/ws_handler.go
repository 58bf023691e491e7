package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"rentalfleet-backend/internal/logger"
	"rentalfleet-backend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is handled upstream; the bearer token is the gate here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades operator sessions onto the tenant's realtime channel.
type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(r.Context(), "websocket upgrade failed",
			"tenant_id", p.TenantID, "error", err)
		return
	}

	unregister := h.hub.Register(p.TenantID, conn)
	defer unregister()
	defer conn.Close()

	// The connection is write-only from the server side; reading drains
	// control frames and detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
