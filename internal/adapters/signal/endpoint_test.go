package signal

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dkeye/Vibesync/internal/core"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_TrySend(t *testing.T) {
	ep := newWSEndpoint("ep-1", nil, Options{SendBuffer: 2}.withDefaults())

	require.NoError(t, ep.TrySend(core.Frame("a")))
	require.NoError(t, ep.TrySend(core.Frame("b")))
	assert.ErrorIs(t, ep.TrySend(core.Frame("c")), core.ErrBackpressure)

	ep.Close(core.CloseTryAgainLater, "slow")
	ep.Close(core.CloseNormal, "")
	assert.ErrorIs(t, ep.TrySend(core.Frame("d")), core.ErrEndpointClosed)
	assert.Equal(t, core.CloseTryAgainLater, ep.closeCode)

	var got []string
	for f := range ep.send {
		got = append(got, string(f))
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{PingPeriod: time.Minute, PongWait: 30 * time.Second}.withDefaults()
	assert.Equal(t, 27*time.Second, o.PingPeriod)
	assert.Equal(t, int64(32<<10), o.ReadLimit)
	assert.Equal(t, 64, o.SendBuffer)
	assert.Equal(t, 5*time.Second, o.WriteWait)
}

func TestCloseCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want core.CloseCode
	}{
		{&websocket.CloseError{Code: websocket.CloseNormalClosure}, core.CloseNormal},
		{&websocket.CloseError{Code: websocket.CloseGoingAway}, core.CloseNormal},
		{&websocket.CloseError{Code: websocket.CloseProtocolError}, core.CloseProtocolError},
		{fmt.Errorf("read: %w", websocket.ErrReadLimit), core.CloseProtocolError},
		{&websocket.CloseError{Code: websocket.CloseAbnormalClosure}, core.CloseGoingAway},
		{errors.New("i/o timeout"), core.CloseGoingAway},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, closeCodeFor(tt.err))
		})
	}
}
