package signal

import (
	"errors"

	"github.com/dkeye/Vibesync/internal/core"
	"github.com/gorilla/websocket"
)

// closeCodeFor maps a read error to the code the session closes with.
func closeCodeFor(err error) core.CloseCode {
	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		return core.CloseNormal
	case errors.Is(err, websocket.ErrReadLimit), websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseUnsupportedData):
		return core.CloseProtocolError
	default:
		return core.CloseGoingAway
	}
}
