package core

// Frame is one encoded message on the wire.
type Frame []byte

// CloseCode is the status sent in the transport close frame.
type CloseCode int

const (
	CloseNormal        CloseCode = 1000
	CloseGoingAway     CloseCode = 1001
	CloseProtocolError CloseCode = 1002
	CloseTryAgainLater CloseCode = 1013
	CloseAuthMissing   CloseCode = 4001
	CloseAuthRejected  CloseCode = 4002
)

// Endpoint abstracts one accepted delivery endpoint of a system messaging transport.
// Owned by the adapter; TrySend must never block.
type Endpoint interface {
	ID() string
	TrySend(Frame) error
	Close(code CloseCode, reason string)
}

// Handshake is a connection that has not been accepted yet.
// Exactly one of Accept or Refuse is called by the session.
type Handshake interface {
	Accept() (Endpoint, error)
	Refuse(code CloseCode, reason string)
}
