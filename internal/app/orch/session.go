package orch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dkeye/Vibesync/internal/app"
	"github.com/dkeye/Vibesync/internal/core"
	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/rs/zerolog/log"
)

type State int

const (
	StateConnecting State = iota
	StateAuthenticating
	StateJoined
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateJoined:
		return "joined"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the server side of one connection. It is driven by the
// connection's handler goroutine: Connect, then Receive per frame, then
// Disconnect.
type Session struct {
	id   string
	room domain.RoomID
	orch *Orchestrator

	mu    sync.Mutex
	state State
	user  *domain.User
	ep    core.Endpoint
	hb    *app.Heartbeat
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Room() domain.RoomID { return s.room }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the bound identity, nil before authentication succeeded.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Connect authenticates token and, on success, accepts the handshake and
// joins the room. On failure the handshake is refused with the matching
// close code and the session ends up closed.
func (s *Session) Connect(ctx context.Context, hs core.Handshake, token string) error {
	s.mu.Lock()
	if s.state != StateConnecting {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("connect in state %s", state)
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	logger := log.With().Str("module", "orch.session").Str("sid", s.id).Str("room", string(s.room)).Logger()

	token = strings.TrimSpace(token)
	if token == "" {
		logger.Warn().Msg("connection without token")
		s.refuse(hs, core.CloseAuthMissing, "auth token missing")
		return core.ErrAuthMissing
	}

	user, err := s.orch.Validator.Validate(ctx, token)
	if err != nil || user == nil {
		logger.Warn().Err(err).Msg("token rejected")
		s.refuse(hs, core.CloseAuthRejected, "auth token rejected")
		if err == nil {
			return core.ErrAuthRejected
		}
		return fmt.Errorf("%w: %w", core.ErrAuthRejected, err)
	}

	s.checkRoom(ctx)

	ep, err := hs.Accept()
	if err != nil {
		logger.Error().Err(err).Msg("accept failed")
		s.setState(StateClosed)
		return fmt.Errorf("accept: %w", err)
	}

	users := s.orch.Presence.Join(s.room, user.Username)
	s.orch.Group.AddMember(s.room, ep)

	s.mu.Lock()
	s.user = user
	s.ep = ep
	s.hb = app.StartHeartbeat(ctx, s.orch.heartbeatInterval(), s.keepAlive)
	s.state = StateJoined
	s.mu.Unlock()

	logger.Info().Str("user", user.Username).Msg("joined")
	s.orch.Group.Send(s.room, core.NewPresence(core.ActionJoin, users, user.Username))
	return nil
}

// Receive handles one inbound frame. Frames are only processed once joined.
func (s *Session) Receive(ctx context.Context, frame core.Frame) error {
	s.mu.Lock()
	state, user, ep := s.state, s.user, s.ep
	s.mu.Unlock()

	if state != StateJoined {
		log.Warn().Str("module", "orch.session").Str("sid", s.id).Stringer("state", state).Msg("unauthorized frame")
		if ep != nil {
			_ = s.orch.Group.SendTo(ep, core.NewError("unauthorized"))
		}
		return core.ErrUnauthorized
	}
	return s.orch.Dispatcher.Dispatch(ctx, Sender{Room: s.room, User: user, Endpoint: ep}, frame)
}

// Disconnect tears the session down and closes the endpoint with code.
// Only the first call has an effect.
func (s *Session) Disconnect(code core.CloseCode) {
	s.mu.Lock()
	if s.state == StateClosing || s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	joined := s.state == StateJoined
	s.state = StateClosing
	hb, ep, user := s.hb, s.ep, s.user
	s.hb = nil
	s.mu.Unlock()

	hb.Stop()

	if joined {
		users := s.orch.Presence.Leave(s.room, user.Username)
		s.orch.Group.RemoveMember(s.room, ep)
		s.orch.Group.Send(s.room, core.NewPresence(core.ActionLeave, users, user.Username))
		// The limiter is keyed by username across rooms.
		if !s.orch.Presence.Present(user.Username) && s.orch.Dispatcher != nil {
			s.orch.Dispatcher.Limiter.Forget(user.Username)
		}
		log.Info().Str("module", "orch.session").Str("sid", s.id).Str("room", string(s.room)).Str("user", user.Username).Int("code", int(code)).Msg("left")
	}

	if ep != nil {
		ep.Close(code, "")
	}
	s.setState(StateClosed)
}

func (s *Session) refuse(hs core.Handshake, code core.CloseCode, reason string) {
	s.setState(StateClosing)
	hs.Refuse(code, reason)
	s.setState(StateClosed)
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) keepAlive() {
	s.orch.Group.Send(s.room, core.NewKeepAlive())
}

// checkRoom only logs: joining a room without a directory record is allowed.
func (s *Session) checkRoom(ctx context.Context) {
	if s.orch.Directory == nil {
		return
	}
	ok, err := s.orch.Directory.Exists(ctx, s.room)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch.session").Str("room", string(s.room)).Msg("room lookup failed")
		return
	}
	if !ok {
		log.Info().Str("module", "orch.session").Str("room", string(s.room)).Msg("joining room without a directory record")
	}
}
