package signal

import (
	"time"

	"github.com/dkeye/Vibesync/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writePump is the only writer of the connection. It exits when the endpoint
// is closed or a write fails, and always closes the network connection.
func (c *wsEndpoint) writePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.writeClose()
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("ep", c.id).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("ep", c.id).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.opts.WriteWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("ep", c.id).Msg("writePump ping error")
				return
			}
		}
	}
}

func (c *wsEndpoint) writeClose() {
	c.mu.RLock()
	code, reason := c.closeCode, c.closeReason
	c.mu.RUnlock()
	writeCloseFrame(c.conn, code, reason, c.opts.WriteWait)
}

func writeCloseFrame(conn *websocket.Conn, code core.CloseCode, reason string, wait time.Duration) {
	msg := websocket.FormatCloseMessage(int(code), reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wait)); err != nil {
		log.Debug().Err(err).Str("module", "signal").Int("code", int(code)).Msg("close frame not written")
	}
}

// readPump feeds inbound frames to handle until the connection fails and
// returns the close code the session should end with.
func (c *wsEndpoint) readPump(handle func(core.Frame)) core.CloseCode {
	c.conn.SetReadLimit(c.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			code := closeCodeFor(err)
			log.Info().Err(err).Str("module", "signal").Str("ep", c.id).Int("code", int(code)).Msg("readPump closing")
			return code
		}
		handle(core.Frame(data))
	}
}
