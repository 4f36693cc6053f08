package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"task-manager/internal/models"
	"task-manager/pkg/logger"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client is one websocket session of an authenticated user.
type Client struct {
	Conn   Conn
	UserID string
}

// writeWait bounds a single write so a stalled socket cannot hold up delivery.
const writeWait = 5 * time.Second

type message struct {
	userID  string
	payload []byte
}

// Hub fans task events out to the sessions of the task's owner. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Notify queues event for userID's sessions. It never blocks; events are
// dropped when the queue is full.
func (h *Hub) Notify(userID string, event models.TaskEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.ErrorLogger.Error("Error encoding task event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message{userID: userID, payload: payload}:
	default:
		logger.ErrorLogger.Warn("Task event dropped, hub queue full", zap.String("user_id", userID))
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Conn.Close()
	}
}

// Run manages register, unregister and delivery until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			close(h.done)
			return
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			h.drop(c)
		case msg := <-h.broadcast:
			for c := range h.clients {
				if c.UserID != msg.userID {
					continue
				}
				err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err == nil {
					err = c.Conn.WriteMessage(websocket.TextMessage, msg.payload)
				}
				if err != nil {
					h.drop(c)
				}
			}
		}
	}
}
