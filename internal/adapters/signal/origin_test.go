package signal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://app.example/", "http://localhost:3000"}
	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "no origin", origin: "", want: true},
		{name: "same host", origin: "http://vibesync.test:8080", want: true},
		{name: "allow list", origin: "https://app.example", want: true},
		{name: "allow list case", origin: "HTTP://LOCALHOST:3000", want: true},
		{name: "foreign", origin: "https://evil.example", want: false},
		{name: "scheme matters", origin: "http://app.example", want: false},
		{name: "garbage", origin: "::not a url", want: false},
		{name: "null", origin: "null", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://vibesync.test:8080/ws/room/R1", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originAllowed(r, allowed))
		})
	}
}

func TestControllerWait(t *testing.T) {
	ctl := NewRoomWSController(nil, Options{})
	require.True(t, ctl.track())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ctl.Wait(ctx), context.DeadlineExceeded)
	assert.False(t, ctl.track(), "no new sessions while draining")

	ctl.live.Done()
	assert.NoError(t, ctl.Wait(context.Background()))
}
