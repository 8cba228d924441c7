package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, workspaceID string) {
	client := NewClient(hub, c, workspaceID)
	hub.register <- client

	go client.writePump()
	client.readPump()
}
