package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// DefaultBuffer is the number of undelivered messages a client holds before dropping
	DefaultBuffer = 64

	// DefaultWriteTimeout bounds a single frame write
	DefaultWriteTimeout = 5 * time.Second
)

// Config holds configuration for the websocket relay client
type Config struct {
	// URL of the relay websocket endpoint, e.g. ws://localhost:8080/ws
	URL string

	// Dialer defaults to websocket.DefaultDialer
	Dialer *websocket.Dialer

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	Buffer       int
	WriteTimeout time.Duration
}

// Client is a Channel over a gorilla websocket connection
type Client struct {
	url          string
	dialer       *websocket.Dialer
	logger       *zap.Logger
	writeTimeout time.Duration
	messages     chan Message

	mu   sync.Mutex
	conn *websocket.Conn
	done chan struct{}

	writeMu sync.Mutex
}

// compile-time check
var _ Channel = (*Client)(nil)

// NewClient creates a relay client. It does not connect.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	return &Client{
		url:          cfg.URL,
		dialer:       dialer,
		logger:       logger.With(zap.String("relay", cfg.URL)),
		writeTimeout: writeTimeout,
		messages:     make(chan Message, buffer),
	}, nil
}

// Connect dials the relay and starts delivering messages
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial relay: %w", err)
	}

	c.conn = conn
	c.done = make(chan struct{})
	go c.readPump(conn, c.done)

	c.logger.Info("relay connected")
	return nil
}

// Disconnect closes the connection and waits for the reader to stop
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	conn, done := c.conn, c.done
	c.conn, c.done = nil, nil

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(c.writeTimeout)); err != nil {
		c.logger.Debug("close handshake failed", zap.Error(err))
	}

	err := conn.Close()
	<-done

	c.logger.Info("relay disconnected")
	return err
}

// Publish encodes and writes a message
func (c *Client) Publish(ctx context.Context, msg Message) error {
	frame, err := Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Type(), err)
	}

	return nil
}

// Messages delivers decoded messages from the relay
func (c *Client) Messages() <-chan Message {
	return c.messages
}

// readPump decodes frames until the connection closes. Frames that fail to decode
// and messages that do not fit in the buffer are dropped.
func (c *Client) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("relay connection lost", zap.Error(err))
			}
			return
		}

		msg, err := Decode(frame)
		if err != nil {
			c.logger.Debug("dropping relay frame", zap.Error(err))
			continue
		}

		select {
		case c.messages <- msg:
		default:
			c.logger.Warn("relay buffer full, dropping message",
				zap.String("type", string(msg.Type())),
				zap.Uint64("room_id", msg.Room()),
			)
		}
	}
}
