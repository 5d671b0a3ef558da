package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// WebSocketConfig contains configuration for WebSocket connections.
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration
}

// DefaultWebSocketConfig returns the default WebSocket configuration.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: (60 * time.Second * 9) / 10,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// trendWebSocketClient forwards trend events from NATS to one peer.
type trendWebSocketClient struct {
	conn *websocket.Conn
	send chan []byte
	sub  *nats.Subscription
}

// TrendWebSocketHandler upgrades the connection and streams every
// trend event the extraction runs publish.
func TrendWebSocketHandler(natsConn *nats.Conn, eventsTopic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if natsConn == nil {
			http.Error(w, "Event stream not available", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[ws] failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &trendWebSocketClient{
			conn: conn,
			send: make(chan []byte, 256),
		}

		sub, err := natsConn.Subscribe(eventsTopic+".detected", func(msg *nats.Msg) {
			select {
			case client.send <- msg.Data:
			default:
				// Slow consumer: drop rather than block the bus.
			}
		})
		if err != nil {
			log.Printf("[ws] failed to subscribe to trend events: %v", err)
			conn.Close()
			return
		}
		client.sub = sub

		go client.writePump()
		go client.readPump()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "welcome",
			"time": time.Now().UTC(),
		})
		client.send <- welcome
	}
}

// writePump pumps events to the WebSocket connection and keeps the
// peer alive with pings.
func (c *trendWebSocketClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)

	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pongs and close frames are
// processed; clients do not send data on this stream.
func (c *trendWebSocketClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.close()

	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *trendWebSocketClient) close() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.conn.Close()
}
