package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

type Client struct {
	PlayerID int64
	Conn     *websocket.Conn
	Send     chan []byte

	Hub  *Hub
	Done chan struct{}
}

func NewClient(playerID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, 64),
		Hub:      hub,
		Done:     make(chan struct{}),
	}
}

func (c *Client) Run() {
	go c.writePump()
	c.Hub.Register(c)
	c.readPump()
}

// read: клиент шлёт только ping, остальное игнорируем
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		close(c.Done)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Client.writePump: player=%d write error: %v", c.PlayerID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
