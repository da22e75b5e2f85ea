package websocket

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrSlowClient is returned by Send when the client's queue is full.
// The client is closed when this happens.
var ErrSlowClient = errors.New("client send queue is full")

// inboundReadLimit caps control frames and anything a peer sends anyway
const inboundReadLimit = 512

// StreamConfig tunes a client's change stream
type StreamConfig struct {
	// SendBuffer is the number of events queued per connection
	SendBuffer int
	// PingInterval is how often the server pings; a peer that stays silent
	// for two intervals is dropped
	PingInterval time.Duration
	// WriteTimeout bounds each frame write
	WriteTimeout time.Duration
}

// DefaultStreamConfig is used for zero fields of a StreamConfig
var DefaultStreamConfig = StreamConfig{
	SendBuffer:   64,
	PingInterval: 30 * time.Second,
	WriteTimeout: 10 * time.Second,
}

func (c StreamConfig) withDefaults() StreamConfig {
	if c.SendBuffer <= 0 {
		c.SendBuffer = DefaultStreamConfig.SendBuffer
	}
	if c.PingInterval <= 0 {
		c.PingInterval = DefaultStreamConfig.PingInterval
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultStreamConfig.WriteTimeout
	}
	return c
}

// Client is one owner's server-to-client event stream over a WebSocket.
// Frames sent by the peer are read only to keep pongs and close frames
// flowing; their payload is discarded.
type Client struct {
	id      string
	ownerID uuid.UUID
	conn    *websocket.Conn
	cfg     StreamConfig
	queue   chan []byte
	done    chan struct{}
	once    sync.Once
}

// NewClient wraps an upgraded connection for ownerID
func NewClient(conn *websocket.Conn, ownerID uuid.UUID, cfg StreamConfig) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		id:      uuid.NewString(),
		ownerID: ownerID,
		conn:    conn,
		cfg:     cfg,
		queue:   make(chan []byte, cfg.SendBuffer),
		done:    make(chan struct{}),
	}
}

// ID returns the connection's unique identifier
func (c *Client) ID() string {
	return c.id
}

// OwnerID returns the user the stream belongs to
func (c *Client) OwnerID() uuid.UUID {
	return c.ownerID
}

// Send queues an encoded event. A full queue closes the client rather than
// blocking the publisher.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.queue <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		c.Close()
		return ErrSlowClient
	}
}

// Close stops the stream and closes the connection. It is idempotent.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// Serve registers the client with hub and streams events until the peer
// goes away, a write fails, or ctx is cancelled. It always unregisters
// and closes the client before returning.
func (c *Client) Serve(ctx context.Context, hub *Hub) {
	hub.Register(c)
	defer func() {
		hub.Unregister(c)
		c.Close()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer c.Close()
		return c.discardInbound()
	})
	g.Go(func() error {
		defer c.Close()
		return c.writeLoop(gctx)
	})

	if err := g.Wait(); err != nil && !isExpectedClose(err) {
		log.Warn().
			Err(err).
			Str("client_id", c.id).
			Str("owner_id", c.ownerID.String()).
			Msg("WebSocket stream ended")
	}
}

func (c *Client) discardInbound() error {
	readWait := 2 * c.cfg.PingInterval
	c.conn.SetReadLimit(inboundReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return err
		}
		log.Debug().Str("client_id", c.id).Msg("Dropped inbound WebSocket frame")
	}
}

func (c *Client) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.queue:
			if err := c.write(websocket.TextMessage, data); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-c.done:
			return nil
		case <-ctx.Done():
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return nil
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(messageType, data)
}

func isExpectedClose(err error) bool {
	// a local Close unblocks the reader with net.ErrClosed
	return errors.Is(err, net.ErrClosed) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
