package app

import (
	"sync"

	"github.com/dkeye/Vibesync/internal/core"
)

type mockEndpoint struct {
	id      string
	mu      sync.Mutex
	frames  []core.Frame
	sendErr error
	closed  bool
	code    core.CloseCode
}

func (m *mockEndpoint) ID() string { return m.id }

func (m *mockEndpoint) TrySend(f core.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.frames = append(m.frames, f)
	return nil
}

func (m *mockEndpoint) Close(code core.CloseCode, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.code = code
}

func (m *mockEndpoint) received() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.frames))
	for i, f := range m.frames {
		out[i] = string(f)
	}
	return out
}

func (m *mockEndpoint) isClosed() (bool, core.CloseCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed, m.code
}
