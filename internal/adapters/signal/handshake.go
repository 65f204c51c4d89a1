package signal

import (
	"fmt"
	"net/http"

	"github.com/dkeye/Vibesync/internal/core"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// wsHandshake defers the websocket upgrade until the session decided whether
// the connection is accepted.
type wsHandshake struct {
	w        http.ResponseWriter
	r        *http.Request
	upgrader *websocket.Upgrader
	opts     Options

	ep *wsEndpoint
}

func (h *wsHandshake) Accept() (core.Endpoint, error) {
	conn, err := h.upgrader.Upgrade(h.w, h.r, nil)
	if err != nil {
		return nil, fmt.Errorf("ws upgrade: %w", err)
	}
	h.ep = newWSEndpoint(uuid.NewString(), conn, h.opts)
	go h.ep.writePump()
	return h.ep, nil
}

// Refuse completes the upgrade only to deliver the close code, so browsers
// can tell an auth failure from a network error.
func (h *wsHandshake) Refuse(code core.CloseCode, reason string) {
	conn, err := h.upgrader.Upgrade(h.w, h.r, nil)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("refuse: ws upgrade")
		return
	}
	writeCloseFrame(conn, code, reason, h.opts.WriteWait)
	_ = conn.Close()
}
