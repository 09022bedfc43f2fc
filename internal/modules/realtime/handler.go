package realtime

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	jwtsvc "spacebook/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are filtered by the CORS layer; the token check
	// below is what gates the socket.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub *Hub
	jwt *jwtsvc.Service
}

func NewHandler(hub *Hub, jwt *jwtsvc.Service) *Handler {
	return &Handler{hub: hub, jwt: jwt}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades GET /ws?token=JWT into a push connection.
// Websocket clients cannot set headers, so the token travels as a query
// parameter.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "UNAUTHORIZED", "message": "Token is required"},
		})
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(claims.UserID, conn)
	log.Printf("realtime: user id=%s connected, online=%d", claims.UserID, h.hub.OnlineCount())
	defer h.hub.Unregister(claims.UserID)

	// The connection is push-only; the read loop just waits for the
	// client to go away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
