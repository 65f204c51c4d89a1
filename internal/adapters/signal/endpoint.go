package signal

import (
	"sync"
	"time"

	"github.com/dkeye/Vibesync/internal/core"
	"github.com/gorilla/websocket"
)

// Options tune one websocket connection.
type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int

	AllowedOrigins []string
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32 << 10
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 5 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	return o
}

// wsEndpoint is a core.Endpoint over a gorilla connection. Frames are queued
// on send and written by writePump; Close hands the close code to writePump so
// queued frames go out before the close frame.
type wsEndpoint struct {
	id   string
	conn *websocket.Conn
	opts Options
	send chan core.Frame
	done chan struct{}

	mu          sync.RWMutex
	closed      bool
	closeCode   core.CloseCode
	closeReason string
}

func newWSEndpoint(id string, conn *websocket.Conn, opts Options) *wsEndpoint {
	return &wsEndpoint{
		id:   id,
		conn: conn,
		opts: opts,
		send: make(chan core.Frame, opts.SendBuffer),
		done: make(chan struct{}),
	}
}

func (c *wsEndpoint) ID() string { return c.id }

func (c *wsEndpoint) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrEndpointClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *wsEndpoint) Close(code core.CloseCode, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.closeCode = code
	c.closeReason = reason
	close(c.send)
}

// Done is closed once the writer has shut the connection down.
func (c *wsEndpoint) Done() <-chan struct{} { return c.done }
