package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/castle-games/chat-server/internal/websocket"
)

type WSHandler struct {
	hub *websocket.Hub
}

func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Establish the real-time connection. The token is resolved against the identity service; channels is a JSON-encoded array of channels to join at connect
// @Tags websocket
// @Param token query string true "Opaque auth token"
// @Param channels query string false "JSON array of initial channels"
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	h.hub.HandleConnection(c.Writer, c.Request)
}
