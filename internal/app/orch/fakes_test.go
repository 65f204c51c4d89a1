package orch

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Vibesync/internal/app"
	"github.com/dkeye/Vibesync/internal/core"
	"github.com/dkeye/Vibesync/internal/core/mocks"
	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeEndpoint struct {
	id     string
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	code   core.CloseCode
}

func (f *fakeEndpoint) ID() string { return f.id }

func (f *fakeEndpoint) TrySend(frame core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrEndpointClosed
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeEndpoint) Close(code core.CloseCode, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.code = code
}

// messages decodes every received frame.
func (f *fakeEndpoint) messages(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, frame := range f.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(frame, &m))
		out = append(out, m)
	}
	return out
}

// ofType returns the received messages of one type, in order.
func (f *fakeEndpoint) ofType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, m := range f.messages(t) {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeEndpoint) closeCode() (bool, core.CloseCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed, f.code
}

type fakeHandshake struct {
	ep        *fakeEndpoint
	acceptErr error

	accepted bool
	refused  bool
	code     core.CloseCode
}

func (h *fakeHandshake) Accept() (core.Endpoint, error) {
	if h.acceptErr != nil {
		return nil, h.acceptErr
	}
	h.accepted = true
	return h.ep, nil
}

func (h *fakeHandshake) Refuse(code core.CloseCode, _ string) {
	h.refused = true
	h.code = code
}

type harness struct {
	orch      *Orchestrator
	validator *mocks.MockTokenValidator
	conns     int
}

func newHarness(t *testing.T, heartbeat time.Duration) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	validator := mocks.NewMockTokenValidator(ctrl)
	group := app.NewGroup(app.SimplePolicy{})
	o := &Orchestrator{
		Presence:          app.NewPresence(),
		Group:             group,
		Validator:         validator,
		Dispatcher:        &Dispatcher{Group: group},
		HeartbeatInterval: heartbeat,
	}
	return &harness{orch: o, validator: validator}
}

// join connects a session for username with token "tok-<username>".
func (h *harness) join(t *testing.T, room domain.RoomID, username string) (*Session, *fakeEndpoint) {
	t.Helper()
	token := "tok-" + username
	h.validator.EXPECT().Validate(gomock.Any(), token).Return(&domain.User{ID: domain.UserID("id-" + username), Username: username}, nil)
	h.conns++
	ep := &fakeEndpoint{id: fmt.Sprintf("ep-%s-%d", username, h.conns)}
	s := h.orch.NewSession(room)
	require.NoError(t, s.Connect(t.Context(), &fakeHandshake{ep: ep}, token))
	t.Cleanup(func() { s.Disconnect(core.CloseNormal) })
	return s, ep
}
