package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// connection adapts a websocket to gateway.Conn
type connection struct {
	id     string
	socket *websocket.Conn
	send   chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func (c *connection) ID() string {
	return c.id
}

// Send queues a frame, dropping it when the connection is closed or its buffer is full
func (c *connection) Send(frame []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.socket.Close()
	})
}

// readPump forwards every frame to the hub until the socket fails
func (c *connection) readPump(hub Hub, logger *zap.Logger) {
	defer c.close()

	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("read failed", zap.Error(err))
			}
			return
		}

		if err := hub.Dispatch(c, frame); err != nil {
			logger.Warn("dispatch failed", zap.Error(err))
			return
		}
	}
}

// writePump owns all writes to the socket
func (c *connection) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.closed:
			return

		case frame := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Debug("write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}
