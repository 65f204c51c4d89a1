package sqlite

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/dkeye/Vibesync/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "vibesync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)
}

func TestOpenTwiceAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibesync.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestCreateGetRoomRoundTrip(t *testing.T) {
	store := openTempStore(t)
	now := time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	room, err := store.CreateRoom(ctx, "7")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{10}$`), string(room.ID))

	got, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	assert.Equal(t, domain.UserID("7"), got.HostUser)
	assert.Equal(t, now, got.CreatedAt)
	assert.Empty(t, got.VideoURL)
	assert.False(t, got.IsPlaying)

	ok, err := store.Exists(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateRoomRequiresHost(t *testing.T) {
	_, err := openTempStore(t).CreateRoom(context.Background(), "")
	assert.Error(t, err)
}

func TestGetRoomNotFound(t *testing.T) {
	store := openTempStore(t)

	_, err := store.GetRoom(context.Background(), "NOPE")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ok, err := store.Exists(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetVideoURLAndPlayback(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	room, err := store.CreateRoom(ctx, "7")
	require.NoError(t, err)

	require.NoError(t, store.SetVideoURL(ctx, room.ID, "https://example.com/v.mp4"))
	playing, paused := true, false
	start, seek := 12.5, 40.0
	require.NoError(t, store.SetPlayback(ctx, room.ID, &start, &playing))
	require.NoError(t, store.SetPlayback(ctx, room.ID, &seek, nil))

	got, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v.mp4", got.VideoURL)
	assert.Equal(t, 40.0, got.CurrentVideoTime)
	assert.True(t, got.IsPlaying, "seek keeps playing flag")

	require.NoError(t, store.SetPlayback(ctx, room.ID, nil, &paused))
	got, err = store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.CurrentVideoTime, "pause without position keeps position")
	assert.False(t, got.IsPlaying)

	assert.ErrorIs(t, store.SetVideoURL(ctx, "NOPE", "https://x"), storage.ErrNotFound)
	assert.ErrorIs(t, store.SetPlayback(ctx, "NOPE", &start, nil), storage.ErrNotFound)
}

func TestUsers(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutUser(ctx, domain.User{ID: "1", Username: "alice"}))
	require.NoError(t, store.PutUser(ctx, domain.User{ID: "1", Username: "alicia"}))
	require.NoError(t, store.PutUser(ctx, domain.User{ID: "2", Username: "bob"}))

	name, err := store.Username(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "alicia", name)

	err = store.PutUser(ctx, domain.User{ID: "3", Username: "bob"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = store.Username(ctx, "404")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, store.PutUser(ctx, domain.User{ID: "4"}), domain.ErrUsernameEmpty)
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nCREATE x;\n", upSection("-- +migrate Up\nCREATE x;\n-- +migrate Down\nDROP x;"))
	assert.Equal(t, "CREATE y;", upSection("CREATE y;"))
}
