package core

import (
	"fmt"

	"github.com/goccy/go-json"
)

type MessageType string

const (
	TypePing         MessageType = "ping"
	TypePong         MessageType = "pong"
	TypeChat         MessageType = "chat"
	TypeVideoControl MessageType = "video_control"
	TypeShareVideo   MessageType = "share_video"
	TypeVideoShare   MessageType = "video_share"
	TypeSignal       MessageType = "signal"
	TypePresence     MessageType = "presence"
	TypeError        MessageType = "error"
)

type PresenceAction string

const (
	ActionJoin  PresenceAction = "join"
	ActionLeave PresenceAction = "leave"
)

const KeepAliveMessage = "keep-alive"

// Inbound is a decoded client frame. The set of implementations is closed.
type Inbound interface {
	Type() MessageType
}

type PingMessage struct{}

type ChatMessage struct {
	Message string
}

// VideoControlMessage keeps absent fields absent: a nil Timestamp is not
// a seek to zero.
type VideoControlMessage struct {
	Action    string
	Timestamp *float64
	VideoURL  string
}

type ShareVideoMessage struct {
	VideoURL string
}

// SignalMessage carries peer negotiation data the server never looks into.
type SignalMessage struct {
	Payload json.RawMessage
}

func (PingMessage) Type() MessageType         { return TypePing }
func (ChatMessage) Type() MessageType         { return TypeChat }
func (VideoControlMessage) Type() MessageType { return TypeVideoControl }
func (ShareVideoMessage) Type() MessageType   { return TypeShareVideo }
func (SignalMessage) Type() MessageType       { return TypeSignal }

// inboundFrame is the union of every inbound field. It has no sender field:
// a client supplied username is dropped here.
type inboundFrame struct {
	Type          MessageType     `json:"type"`
	Message       string          `json:"message"`
	Action        string          `json:"action"`
	Timestamp     *float64        `json:"timestamp"`
	VideoURL      string          `json:"video_url"`
	VideoURLCamel string          `json:"videoUrl"`
	Signal        json.RawMessage `json:"signal"`
}

func (f inboundFrame) videoURL() string {
	if f.VideoURL != "" {
		return f.VideoURL
	}
	return f.VideoURLCamel
}

// DecodeInbound parses a client frame into its typed variant.
func DecodeInbound(frame Frame) (Inbound, error) {
	var raw inboundFrame
	if err := json.Unmarshal(frame, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	switch raw.Type {
	case TypePing:
		return PingMessage{}, nil
	case TypeChat:
		return ChatMessage{Message: raw.Message}, nil
	case TypeVideoControl:
		return VideoControlMessage{Action: raw.Action, Timestamp: raw.Timestamp, VideoURL: raw.videoURL()}, nil
	case TypeShareVideo:
		return ShareVideoMessage{VideoURL: raw.videoURL()}, nil
	case TypeSignal:
		return SignalMessage{Payload: raw.Signal}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, raw.Type)
	}
}

type PresenceEnvelope struct {
	Type     MessageType    `json:"type"`
	Users    []string       `json:"users"`
	Action   PresenceAction `json:"action"`
	Username string         `json:"username"`
}

type ChatEnvelope struct {
	Type     MessageType `json:"type"`
	Message  string      `json:"message"`
	Username string      `json:"username"`
}

type VideoControlEnvelope struct {
	Type      MessageType `json:"type"`
	Action    string      `json:"action"`
	Timestamp *float64    `json:"timestamp,omitempty"`
	VideoURL  string      `json:"video_url,omitempty"`
	Username  string      `json:"username"`
}

type VideoShareEnvelope struct {
	Type     MessageType `json:"type"`
	VideoURL string      `json:"video_url"`
	Username string      `json:"username"`
}

type SignalEnvelope struct {
	Type     MessageType     `json:"type"`
	Signal   json.RawMessage `json:"signal"`
	Username string          `json:"username"`
}

type PingEnvelope struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

type PongEnvelope struct {
	Type MessageType `json:"type"`
}

type ErrorEnvelope struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error"`
}

func NewPresence(action PresenceAction, users []string, username string) PresenceEnvelope {
	if users == nil {
		users = []string{}
	}
	return PresenceEnvelope{Type: TypePresence, Users: users, Action: action, Username: username}
}

func NewKeepAlive() PingEnvelope {
	return PingEnvelope{Type: TypePing, Message: KeepAliveMessage}
}

func NewError(reason string) ErrorEnvelope {
	return ErrorEnvelope{Type: TypeError, Error: reason}
}

// Stamp turns an inbound message into the envelope relayed to the room,
// with the sender set to the authenticated username. Ping has no relay form.
func Stamp(in Inbound, username string) (any, bool) {
	switch m := in.(type) {
	case ChatMessage:
		return ChatEnvelope{Type: TypeChat, Message: m.Message, Username: username}, true
	case VideoControlMessage:
		return VideoControlEnvelope{
			Type:      TypeVideoControl,
			Action:    m.Action,
			Timestamp: m.Timestamp,
			VideoURL:  m.VideoURL,
			Username:  username,
		}, true
	case ShareVideoMessage:
		return VideoShareEnvelope{Type: TypeVideoShare, VideoURL: m.VideoURL, Username: username}, true
	case SignalMessage:
		payload := m.Payload
		if len(payload) == 0 {
			payload = json.RawMessage("null")
		}
		return SignalEnvelope{Type: TypeSignal, Signal: payload, Username: username}, true
	default:
		return nil, false
	}
}

// Encode marshals an outbound envelope into a frame.
func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return Frame(b), nil
}
