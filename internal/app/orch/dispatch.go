package orch

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Vibesync/internal/app"
	"github.com/dkeye/Vibesync/internal/core"
	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/rs/zerolog/log"
)

const defaultStoreTimeout = 2 * time.Second

// Sender is the authenticated origin of an inbound frame.
type Sender struct {
	Room     domain.RoomID
	User     *domain.User
	Endpoint core.Endpoint
}

// Dispatcher decodes inbound frames and routes them by type.
type Dispatcher struct {
	Group   *app.Group
	Limiter *app.RateLimiter
	// Playback is optional; when set, playback changes are persisted.
	Playback     core.PlaybackStore
	StoreTimeout time.Duration
}

// Dispatch handles one frame from an authenticated sender. Malformed and
// unknown frames are logged and dropped; the returned error only tells the
// caller what happened and never means the connection should close.
func (d *Dispatcher) Dispatch(ctx context.Context, from Sender, frame core.Frame) error {
	logger := log.With().Str("module", "orch.dispatch").Str("room", string(from.Room)).Str("user", from.User.Username).Logger()

	in, err := core.DecodeInbound(frame)
	if err != nil {
		if errors.Is(err, core.ErrUnknownMessageType) {
			logger.Warn().Err(err).Msg("unknown message type dropped")
		} else {
			logger.Warn().Err(err).Msg("malformed frame dropped")
		}
		return err
	}

	if !d.Limiter.Allow(from.User.Username) {
		logger.Warn().Str("type", string(in.Type())).Msg("rate limited")
		_ = d.Group.SendTo(from.Endpoint, core.NewError("rate_limited"))
		return core.ErrRateLimited
	}

	if _, ok := in.(core.PingMessage); ok {
		if err := d.Group.SendTo(from.Endpoint, core.PongEnvelope{Type: core.TypePong}); err != nil {
			logger.Debug().Err(err).Msg("pong not delivered")
		}
		return nil
	}

	env, ok := core.Stamp(in, from.User.Username)
	if !ok {
		return nil
	}
	res := d.Group.Send(from.Room, env)
	logger.Debug().Str("type", string(in.Type())).Int("sent_to", res.SentTo).Msg("relayed")

	d.record(ctx, from.Room, in)
	return nil
}

func (d *Dispatcher) record(ctx context.Context, room domain.RoomID, in core.Inbound) {
	if d.Playback == nil {
		return
	}
	timeout := d.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var err error
	switch m := in.(type) {
	case core.ShareVideoMessage:
		if m.VideoURL == "" {
			return
		}
		err = d.Playback.SetVideoURL(ctx, room, m.VideoURL)
	case core.VideoControlMessage:
		var playing *bool
		switch m.Action {
		case "play":
			playing = boolPtr(true)
		case "pause":
			playing = boolPtr(false)
		case "seek":
		default:
			return
		}
		if m.Timestamp == nil && playing == nil {
			return
		}
		err = d.Playback.SetPlayback(ctx, room, m.Timestamp, playing)
	default:
		return
	}
	if err != nil {
		log.Debug().Err(err).Str("module", "orch.dispatch").Str("room", string(room)).Msg("playback not recorded")
	}
}

func boolPtr(v bool) *bool { return &v }
