package controller

import (
	"net/http"

	"github.com/cixi/storefront-backend/internal/middleware"
	ws "github.com/cixi/storefront-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type CatalogWSController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewCatalogWSController(hub *ws.Hub, allowedOrigins []string) *CatalogWSController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &CatalogWSController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Subscribe upgrades to a websocket that receives catalog events
// GET /api/v1/ws/catalog
func (ctrl *CatalogWSController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn})
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
