package orch

import (
	"time"

	"github.com/dkeye/Vibesync/internal/app"
	"github.com/dkeye/Vibesync/internal/core"
	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/google/uuid"
)

const DefaultHeartbeatInterval = 60 * time.Second

// Orchestrator holds the shared room state and the collaborators every
// session needs. One per process.
type Orchestrator struct {
	Presence   *app.Presence
	Group      *app.Group
	Validator  core.TokenValidator
	Directory  core.RoomDirectory
	Dispatcher *Dispatcher

	HeartbeatInterval time.Duration
}

// NewSession creates a session for a connection that asked to join room.
func (o *Orchestrator) NewSession(room domain.RoomID) *Session {
	return &Session{
		id:    uuid.NewString(),
		room:  room,
		orch:  o,
		state: StateConnecting,
	}
}

func (o *Orchestrator) heartbeatInterval() time.Duration {
	if o.HeartbeatInterval <= 0 {
		return DefaultHeartbeatInterval
	}
	return o.HeartbeatInterval
}
