package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/dkeye/Vibesync/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRooms struct {
	rooms map[domain.RoomID]domain.Room
	err   error
}

func (f *fakeRooms) CreateRoom(_ context.Context, host domain.UserID) (domain.Room, error) {
	if f.err != nil {
		return domain.Room{}, f.err
	}
	room := domain.Room{ID: "ABCDEFGHIJ", HostUser: host}
	f.rooms[room.ID] = room
	return room, nil
}

func (f *fakeRooms) GetRoom(_ context.Context, id domain.RoomID) (domain.Room, error) {
	if f.err != nil {
		return domain.Room{}, f.err
	}
	room, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, storage.ErrNotFound
	}
	return room, nil
}

func (f *fakeRooms) SetVideoURL(_ context.Context, id domain.RoomID, videoURL string) error {
	room := f.rooms[id]
	room.VideoURL = videoURL
	f.rooms[id] = room
	return nil
}

type fakePresence map[domain.RoomID][]string

func (p fakePresence) Members(room domain.RoomID) []string {
	if users, ok := p[room]; ok {
		return users
	}
	return []string{}
}

func (p fakePresence) Rooms() map[domain.RoomID]int {
	out := map[domain.RoomID]int{}
	for room, users := range p {
		out[room] = len(users)
	}
	return out
}

func newTestRouter(h *Handlers, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(UserKey, user)
		c.Next()
	})
	r.POST("/rooms", h.CreateRoom)
	r.GET("/rooms/:id", h.GetRoom)
	r.POST("/rooms/:id/video", h.SetVideoURL)
	r.GET("/rooms/:id/presence", h.RoomPresence)
	r.GET("/healthz", h.Health)
	return r
}

func TestHandlers(t *testing.T) {
	rooms := &fakeRooms{rooms: map[domain.RoomID]domain.Room{"ROOM000001": {ID: "ROOM000001", HostUser: "7"}}}
	h := &Handlers{Rooms: rooms, Presence: fakePresence{"ROOM000001": {"alice", "bob"}, "ROOM000002": {"carol"}}}
	r := newTestRouter(h, &domain.User{ID: "7", Username: "alice"})

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{"create", http.MethodPost, "/rooms", "", http.StatusCreated, `"host_user":"7"`},
		{"get", http.MethodGet, "/rooms/ROOM000001", "", http.StatusOK, `"room_id":"ROOM000001"`},
		{"get missing", http.MethodGet, "/rooms/MISSING", "", http.StatusNotFound, `{"error":"Room not found"}`},
		{"video missing field", http.MethodPost, "/rooms/ROOM000001/video", `{}`, http.StatusBadRequest, `"error"`},
		{"video bad url", http.MethodPost, "/rooms/ROOM000001/video", `{"video_url":"nope"}`, http.StatusBadRequest, `"error"`},
		{"video", http.MethodPost, "/rooms/ROOM000001/video", `{"video_url":"https://example.com/x"}`, http.StatusOK, `{"message":"Video URL updated successfully."}`},
		{"presence", http.MethodGet, "/rooms/ROOM000001/presence", "", http.StatusOK, `{"room":"ROOM000001","users":["alice","bob"]}`},
		{"presence empty", http.MethodGet, "/rooms/EMPTY/presence", "", http.StatusOK, `{"room":"EMPTY","users":[]}`},
		{"health", http.MethodGet, "/healthz", "", http.StatusOK, `{"rooms":2,"members":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
	assert.Equal(t, "https://example.com/x", rooms.rooms["ROOM000001"].VideoURL)
}

func TestHandlers_StoreFailure(t *testing.T) {
	h := &Handlers{Rooms: &fakeRooms{err: errors.New("disk full")}, Presence: fakePresence{}}
	r := newTestRouter(h, &domain.User{ID: "7", Username: "alice"})

	for _, path := range []string{"/rooms", "/rooms/ROOM000001"} {
		method := http.MethodGet
		if path == "/rooms" {
			method = http.MethodPost
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}
