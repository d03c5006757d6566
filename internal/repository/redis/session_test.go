package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pulse-server/internal/mocks"
	"github.com/dtroode/pulse-server/internal/model"
	"github.com/dtroode/pulse-server/internal/testutil"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestSessionStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	store := NewSessionStore(rdb, time.Hour)
	userID := uuid.New()

	digest, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, digest)

	require.NoError(t, store.Set(ctx, userID, []byte{0x00, 0xff, 0x10}))
	digest, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0x10}, digest)

	require.NoError(t, store.Clear(ctx, userID))
	require.NoError(t, store.Clear(ctx, userID))

	digest, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, digest)
}

func TestSessionStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	store := NewSessionStore(rdb, time.Hour)
	userID := uuid.New()

	require.NoError(t, store.Set(ctx, userID, []byte("device-a")))
	require.NoError(t, store.Set(ctx, userID, []byte("device-b")))

	digest, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []byte("device-b"), digest)
}

func TestSessionStore_Swap(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	store := NewSessionStore(rdb, time.Hour)
	userID := uuid.New()

	require.ErrorIs(t, store.Swap(ctx, userID, []byte("old"), []byte("new")), model.ErrSessionMismatch)

	require.NoError(t, store.Set(ctx, userID, []byte("old")))
	require.ErrorIs(t, store.Swap(ctx, userID, []byte("other"), []byte("new")), model.ErrSessionMismatch)
	require.NoError(t, store.Swap(ctx, userID, []byte("old"), []byte("new")))
	require.ErrorIs(t, store.Swap(ctx, userID, []byte("old"), []byte("newer")), model.ErrSessionMismatch)
	require.ErrorIs(t, store.Swap(ctx, userID, nil, []byte("newer")), model.ErrSessionMismatch)

	digest, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), digest)
}

func TestSessionStore_KeysExpireWithRefreshTTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := NewSessionStore(rdb, time.Minute)
	userID := uuid.New()

	require.NoError(t, store.Set(ctx, userID, []byte("a")))
	assert.Equal(t, time.Minute, mr.TTL(key(userID)))

	require.NoError(t, store.Swap(ctx, userID, []byte("a"), []byte("b")))
	assert.Equal(t, time.Minute, mr.TTL(key(userID)))

	mr.FastForward(2 * time.Minute)

	digest, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, digest)
}

func TestSessionStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := NewSessionStore(rdb, time.Hour)
	mr.Close()

	_, err := store.Get(ctx, uuid.New())
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrSessionMismatch)
}

func TestSessionStore_WithUsers_RemovedPrincipal(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	users := testutil.NewMemoryStore()
	store := NewSessionStore(rdb, time.Hour, WithUsers(users))

	user, err := users.Create(ctx, model.User{ID: uuid.New(), Email: "user@example.com", Role: model.RoleUser})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, user.ID, []byte("digest")))

	digest, err := store.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("digest"), digest)

	// A key left behind by a principal that no longer exists.
	removed := uuid.New()
	require.NoError(t, store.Set(ctx, removed, []byte("stale")))

	_, err = store.Get(ctx, removed)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, mr.Exists(key(removed)))
}

func TestSessionStore_WithUsers_LookupError(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	userID := uuid.New()

	users := mocks.NewUserStore(t)
	users.On("GetByID", ctx, userID).Return(model.User{}, assert.AnError).Once()
	store := NewSessionStore(rdb, time.Hour, WithUsers(users))
	require.NoError(t, store.Set(ctx, userID, []byte("digest")))

	_, err := store.Get(ctx, userID)
	require.ErrorIs(t, err, assert.AnError)
	require.NotErrorIs(t, err, model.ErrNotFound)
	assert.True(t, mr.Exists(key(userID)))
}
