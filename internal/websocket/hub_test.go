package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/models"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failing  bool
	deadline time.Time
}

func (c *fakeConn) SetWriteDeadline(d time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = d
	return nil
}

func (c *fakeConn) writeDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestNotifyReachesOnlyOwner(t *testing.T) {
	hub, _ := startHub(t)

	alice := &fakeConn{}
	bob := &fakeConn{}
	require.True(t, hub.Register(&Client{Conn: alice, UserID: "alice"}))
	require.True(t, hub.Register(&Client{Conn: bob, UserID: "bob"}))

	hub.Notify("alice", models.TaskEvent{Type: models.EventTaskCreated, TaskID: "t1"})

	assert.Eventually(t, func() bool { return len(alice.received()) == 1 }, time.Second, 10*time.Millisecond)
	var event models.TaskEvent
	require.NoError(t, json.Unmarshal(alice.received()[0], &event))
	assert.Equal(t, models.EventTaskCreated, event.Type)
	assert.Equal(t, "t1", event.TaskID)
	assert.Empty(t, bob.received())
}

func TestDeliveryBoundsEachWrite(t *testing.T) {
	hub, _ := startHub(t)

	conn := &fakeConn{}
	require.True(t, hub.Register(&Client{Conn: conn, UserID: "alice"}))

	before := time.Now()
	hub.Notify("alice", models.TaskEvent{Type: models.EventTaskUpdated, TaskID: "t1"})

	assert.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 10*time.Millisecond)
	deadline := conn.writeDeadline()
	assert.False(t, deadline.Before(before.Add(writeWait)))
	assert.True(t, deadline.Before(time.Now().Add(writeWait+time.Second)))
}

func TestFailingClientIsDropped(t *testing.T) {
	hub, _ := startHub(t)

	conn := &fakeConn{failing: true}
	require.True(t, hub.Register(&Client{Conn: conn, UserID: "alice"}))

	hub.Notify("alice", models.TaskEvent{Type: models.EventTaskDeleted, TaskID: "t1"})

	assert.Eventually(t, conn.isClosed, time.Second, 10*time.Millisecond)
}

func TestUnregisterClosesConn(t *testing.T) {
	hub, _ := startHub(t)

	conn := &fakeConn{}
	client := &Client{Conn: conn, UserID: "alice"}
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	assert.Eventually(t, conn.isClosed, time.Second, 10*time.Millisecond)
}

func TestStoppedHubDoesNotBlock(t *testing.T) {
	hub, cancel := startHub(t)
	conn := &fakeConn{}
	require.True(t, hub.Register(&Client{Conn: conn, UserID: "alice"}))

	cancel()

	assert.Eventually(t, conn.isClosed, time.Second, 10*time.Millisecond)
	assert.False(t, hub.Register(&Client{Conn: &fakeConn{}, UserID: "bob"}))
	hub.Unregister(&Client{Conn: &fakeConn{}, UserID: "bob"})
}
