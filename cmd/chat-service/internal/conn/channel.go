package conn

import (
	"sync"

	"github.com/gorilla/websocket"
)

// WSChannel adapts a gorilla websocket connection to the Channel interface.
// gorilla allows only one concurrent writer, so writes are mutex-guarded.
type WSChannel struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func NewWSChannel(ws *websocket.Conn) *WSChannel {
	return &WSChannel{ws: ws}
}

func (c *WSChannel) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *WSChannel) Close() error {
	return c.ws.Close()
}
