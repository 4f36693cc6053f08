package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"task-manager/internal/middleware"
	taskws "task-manager/internal/websocket"
)

// TaskEvents handles GET /ws/tasks. After the upgrade the socket receives a
// JSON event for every change to the caller's tasks; incoming frames are
// read and discarded until the client disconnects.
func TaskEvents(hub *taskws.Hub) fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalsUserID).(string)
		client := &taskws.Client{Conn: conn, UserID: userID}
		if !hub.Register(client) {
			return
		}
		defer hub.Unregister(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
