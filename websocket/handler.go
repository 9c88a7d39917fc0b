package websocket

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// ServeWS returns a gin handler that upgrades requests to websocket
// connections registered with the given hub. The relay performs no
// authentication; the optional user_id query parameter only labels the
// connection for logging.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint
		if userIDStr := c.Query("user_id"); userIDStr != "" {
			id, err := strconv.ParseUint(userIDStr, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
				return
			}
			userID = uint(id)
		}

		// Upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("error upgrading connection: %v", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, 256),
			userID: userID,
			rooms:  make(map[string]bool),
		}

		client.hub.register <- client

		// Start goroutines for reading and writing
		go client.readPump()
		go client.writePump()
	}
}
