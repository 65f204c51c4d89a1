package domain

import (
	"errors"
	"time"
)

const RoomIDLen = 10

var ErrRoomIDEmpty = errors.New("room id empty")

type RoomID string

// Room is the persisted room record. Sessions only need the ID.
type Room struct {
	ID               RoomID    `json:"room_id"`
	HostUser         UserID    `json:"host_user"`
	CreatedAt        time.Time `json:"created_at"`
	VideoURL         string    `json:"video_url,omitempty"`
	CurrentVideoTime float64   `json:"current_video_time"`
	IsPlaying        bool      `json:"is_playing"`
	VideoQuality     string    `json:"video_quality,omitempty"`
}
