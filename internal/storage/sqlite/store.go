// Package sqlite provides the SQLite-backed room directory.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/dkeye/Vibesync/internal/storage"
	"github.com/dkeye/Vibesync/internal/storage/sqlite/migrations"
)

const (
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomIDAttempts = 5
)

// Store persists rooms and users in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateRoom inserts a room hosted by host under a fresh random id.
func (s *Store) CreateRoom(ctx context.Context, host domain.UserID) (domain.Room, error) {
	if strings.TrimSpace(string(host)) == "" {
		return domain.Room{}, fmt.Errorf("host user is required")
	}
	room := domain.Room{HostUser: host, CreatedAt: s.now().UTC().Truncate(time.Millisecond)}
	for attempt := 0; attempt < roomIDAttempts; attempt++ {
		id, err := newRoomID()
		if err != nil {
			return domain.Room{}, err
		}
		room.ID = id
		_, err = s.sqlDB.ExecContext(ctx,
			`INSERT INTO rooms (room_id, host_user, created_at) VALUES (?, ?, ?)`,
			string(room.ID), string(room.HostUser), toMillis(room.CreatedAt),
		)
		if err == nil {
			return room, nil
		}
		if !isUniqueViolation(err) {
			return domain.Room{}, fmt.Errorf("create room: %w", err)
		}
	}
	return domain.Room{}, fmt.Errorf("create room: %w", storage.ErrAlreadyExists)
}

// GetRoom returns one room by id.
func (s *Store) GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error) {
	var (
		room      domain.Room
		createdAt int64
		playing   int
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT room_id, host_user, created_at, video_url, current_video_time, is_playing, video_quality
		   FROM rooms WHERE room_id = ?`,
		string(id),
	).Scan(&room.ID, &room.HostUser, &createdAt, &room.VideoURL, &room.CurrentVideoTime, &playing, &room.VideoQuality)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	room.CreatedAt = fromMillis(createdAt)
	room.IsPlaying = playing != 0
	return room, nil
}

// Exists reports whether a room record exists.
func (s *Store) Exists(ctx context.Context, id domain.RoomID) (bool, error) {
	var found int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE room_id = ?`, string(id)).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("room exists: %w", err)
	}
	return true, nil
}

// SetVideoURL stores the video shown in a room.
func (s *Store) SetVideoURL(ctx context.Context, id domain.RoomID, videoURL string) error {
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE rooms SET video_url = ? WHERE room_id = ?`, videoURL, string(id))
	if err != nil {
		return fmt.Errorf("set video url: %w", err)
	}
	return requireRow(res)
}

// SetPlayback stores the player position and playing flag; nil values keep
// the stored ones.
func (s *Store) SetPlayback(ctx context.Context, id domain.RoomID, position *float64, playing *bool) error {
	var pos, flag any
	if position != nil {
		pos = *position
	}
	if playing != nil {
		flag = boolToInt(*playing)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE rooms SET current_video_time = COALESCE(?, current_video_time), is_playing = COALESCE(?, is_playing) WHERE room_id = ?`,
		pos, flag, string(id),
	)
	if err != nil {
		return fmt.Errorf("set playback: %w", err)
	}
	return requireRow(res)
}

// PutUser inserts or renames a user.
func (s *Store) PutUser(ctx context.Context, user domain.User) error {
	if _, err := domain.NewUser(user.ID, user.Username); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET username = excluded.username`,
		string(user.ID), user.Username, toMillis(s.now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// Username returns the username of a user id.
func (s *Store) Username(ctx context.Context, id domain.UserID) (string, error) {
	var name string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT username FROM users WHERE id = ?`, string(id)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get username: %w", err)
	}
	return name, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func newRoomID() (domain.RoomID, error) {
	buf := make([]byte, domain.RoomIDLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("room id: %w", err)
	}
	for i, b := range buf {
		buf[i] = roomIDAlphabet[int(b)%len(roomIDAlphabet)]
	}
	return domain.RoomID(buf), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
