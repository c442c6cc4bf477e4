package server

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 2 * time.Second
	maxMessageSize = 512
	sendBuffer     = 4
)

type client struct {
	id      int
	conn    *websocket.Conn
	send    chan []byte
	dropped int
}

type clientEvent struct {
	c  *client
	ev Event
}

func newClient(id int, conn *websocket.Conn) *client {
	return &client{id: id, conn: conn, send: make(chan []byte, sendBuffer)}
}

// writePump drains send until the loop closes it, then closes the socket so
// the reader unblocks.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump forwards decoded events until the connection fails or the server
// loop stops.
func (c *client) readPump(events chan<- clientEvent, quit <-chan struct{}) {
	c.conn.SetReadLimit(maxMessageSize)
	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			return
		}
		select {
		case events <- clientEvent{c: c, ev: ev}:
		case <-quit:
			return
		}
	}
}
