package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	"comichub/internal/microservices/http-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// originAllowed accepts requests without an Origin header (non-browser
// clients) and browser requests whose Origin is on the allow list.
func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// ServeWS upgrades an authenticated request to a websocket connection and
// attaches it to the hub. Caller identity comes from the auth middleware,
// never from the request body. Browsers do not apply CORS to websocket
// handshakes, so Origin is checked here against the same allow list the
// HTTP CORS middleware uses.
func ServeWS(hub *Hub, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(allowedOrigins, r.Header.Get("Origin"))
		},
	}

	return func(c *gin.Context) {
		userIDValue, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}
		userID, ok := userIDValue.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}
		role, _ := c.Get("role")
		isAdmin := role == models.RoleAdmin

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("ws upgrade failed", "user_id", userID, "error", err)
			return
		}

		client := NewClient(userID, isAdmin, conn, hub)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
