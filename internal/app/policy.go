package app

import (
	"errors"

	"github.com/dkeye/Vibesync/internal/core"
	"github.com/dkeye/Vibesync/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what to do with an endpoint that could not take a frame.
type Policy interface {
	OnBackPressure(room domain.RoomID, ep core.Endpoint, err error) BackpressureAction
}

// SimplePolicy kicks members whose send buffer is full and ignores
// endpoints that are already closing.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ domain.RoomID, _ core.Endpoint, err error) BackpressureAction {
	if errors.Is(err, core.ErrBackpressure) {
		return KickMember
	}
	return NoAction
}
