package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/dkeye/Vibesync/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserKey is the gin context key holding the authenticated *domain.User.
const UserKey = "user"

type RoomStore interface {
	CreateRoom(ctx context.Context, host domain.UserID) (domain.Room, error)
	GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error)
	SetVideoURL(ctx context.Context, id domain.RoomID, videoURL string) error
}

type PresenceView interface {
	Members(room domain.RoomID) []string
	Rooms() map[domain.RoomID]int
}

type SetVideoRequest struct {
	VideoURL string `json:"video_url" binding:"required,url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PresenceResponse struct {
	Room  domain.RoomID `json:"room"`
	Users []string      `json:"users"`
}

type HealthResponse struct {
	Rooms   int `json:"rooms"`
	Members int `json:"members"`
}

type Handlers struct {
	Rooms    RoomStore
	Presence PresenceView
}

func (h *Handlers) CreateRoom(c *gin.Context) {
	user, ok := c.MustGet(UserKey).(*domain.User)
	if !ok || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	room, err := h.Rooms.CreateRoom(c.Request.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "transport.http").Str("user", string(user.ID)).Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}
	log.Info().Str("module", "transport.http").Str("room", string(room.ID)).Str("user", string(user.ID)).Msg("room created")
	c.JSON(http.StatusCreated, room)
}

func (h *Handlers) GetRoom(c *gin.Context) {
	room, err := h.Rooms.GetRoom(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handlers) SetVideoURL(c *gin.Context) {
	id := domain.RoomID(c.Param("id"))
	if _, err := h.Rooms.GetRoom(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}

	var req SetVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid video_url"})
		return
	}
	if err := h.Rooms.SetVideoURL(c.Request.Context(), id, req.VideoURL); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Video URL updated successfully."})
}

func (h *Handlers) RoomPresence(c *gin.Context) {
	id := domain.RoomID(c.Param("id"))
	c.JSON(http.StatusOK, PresenceResponse{Room: id, Users: h.Presence.Members(id)})
}

func (h *Handlers) Health(c *gin.Context) {
	rooms := h.Presence.Rooms()
	resp := HealthResponse{Rooms: len(rooms)}
	for _, n := range rooms {
		resp.Members += n
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) storeError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	log.Error().Err(err).Str("module", "transport.http").Str("room", c.Param("id")).Msg("room store")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
