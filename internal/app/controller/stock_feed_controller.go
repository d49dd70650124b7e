package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
	ws "github.com/sibors/sibors-backend/internal/websocket"
)

// clientSendBuffer is the per-connection event queue
const clientSendBuffer = 256

type StockFeedController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewStockFeedController accepts browser connections only from
// allowedOrigins. Requests without an Origin header are accepted.
func NewStockFeedController(hub *ws.Hub, allowedOrigins []string) *StockFeedController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &StockFeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
	}
}

// Connect upgrades the request and streams committed stock movements
// GET /api/v1/ws/stock
func (ctrl *StockFeedController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID, clientSendBuffer)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Stock feed connection established", map[string]interface{}{
		"user_id": userID,
	})
}
