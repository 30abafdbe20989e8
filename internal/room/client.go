package room

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	sendBuffer = 64
)

// Client is one live websocket connection. It may sit in any number of
// rooms at once; the joined map remembers which, and under what display
// name, so a dropped connection can be announced out of every room it
// was in.
type Client struct {
	conn *websocket.Conn
	addr string
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}

	mu     sync.Mutex
	joined map[uint]string
}

func NewClient(conn *websocket.Conn, addr string) *Client {
	return &Client{
		conn:   conn,
		addr:   addr,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		joined: make(map[uint]string),
	}
}

// Emit sends an event to this connection only. It reports false when the
// send buffer is full or the connection is closing.
func (c *Client) Emit(event string, payload any) bool {
	msg, err := marshalEvent(event, payload)
	if err != nil {
		return false
	}
	return c.enqueue(msg)
}

func (c *Client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) trackJoin(groupID uint, username string) {
	c.mu.Lock()
	c.joined[groupID] = username
	c.mu.Unlock()
}

func (c *Client) trackLeave(groupID uint) {
	c.mu.Lock()
	delete(c.joined, groupID)
	c.mu.Unlock()
}

// joinedRooms snapshots the rooms this connection is currently in.
func (c *Client) joinedRooms() map[uint]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms := make(map[uint]string, len(c.joined))
	for id, name := range c.joined {
		rooms[id] = name
	}
	return rooms
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// ReadPump reads envelopes off the wire and hands them to handle until
// the connection drops. It blocks; run it on the connection's goroutine.
// The returned error is nil for a normal disconnect.
func (c *Client) ReadPump(handle func(*Client, Envelope)) error {
	defer c.close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if isExpectedCloseError(err) {
				return nil
			}
			return err
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.Emit(EventError, ErrorPayload{Msg: "malformed event payload"})
			continue
		}
		handle(c, env)
	}
}

// WritePump drains the send buffer onto the wire and keeps the
// connection alive with pings. Run it on its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isExpectedCloseError reports whether err is part of a normal
// disconnect rather than something worth logging.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
