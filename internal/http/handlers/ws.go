package handlers

import (
	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/ws"
)

// WS upgrades the connection and attaches it to the snapshot hub.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return ws.HandleWS(hub)
}
