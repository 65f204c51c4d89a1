package core

import "errors"

var (
	ErrAuthMissing        = errors.New("auth token missing")
	ErrAuthRejected       = errors.New("auth token rejected")
	ErrMalformedFrame     = errors.New("malformed frame")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDeliveryFailure    = errors.New("delivery failure")
	ErrBackpressure       = errors.New("backpressure")
	ErrEndpointClosed     = errors.New("endpoint closed")
	ErrRateLimited        = errors.New("rate limited")
)
