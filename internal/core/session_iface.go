package core

//go:generate mockgen -source=session_iface.go -destination=mocks/session_iface_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/Vibesync/internal/domain"
)

// TokenValidator resolves a bearer token to the user it was issued for.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.User, error)
}

// RoomDirectory answers whether a room record exists.
type RoomDirectory interface {
	Exists(ctx context.Context, id domain.RoomID) (bool, error)
}

// PlaybackStore keeps the last player state of a room. A nil position or
// playing flag leaves the stored value unchanged.
type PlaybackStore interface {
	SetVideoURL(ctx context.Context, id domain.RoomID, videoURL string) error
	SetPlayback(ctx context.Context, id domain.RoomID, position *float64, playing *bool) error
}
