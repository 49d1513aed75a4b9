package browse

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/ormchart/internal/window"
	ormtesting "github.com/2beens/ormchart/pkg/testing"
)

func testSession() Session {
	return Session{
		ID:       "b3c2f2a4-0000-4000-8000-000000000001",
		Exercise: "Squat",
		State: window.State{
			Unit:         window.Month,
			DataLower:    time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			DataUpper:    time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			CurrentLower: time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
			CurrentUpper: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		UpdatedAt: time.Date(2024, time.March, 16, 9, 30, 0, 0, time.UTC),
	}
}

func TestRedisSessionStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ttl := 30 * time.Minute
	store := NewRedisSessionStore(db, ttl)
	ctx := context.Background()

	session := testSession()
	sessionJson, err := json.Marshal(session)
	require.NoError(t, err)
	key := sessionKeyPrefix + session.ID

	mock.ExpectSet(key, string(sessionJson), ttl).SetVal("OK")
	require.NoError(t, store.Save(ctx, session))

	mock.ExpectGet(key).SetVal(string(sessionJson))
	mock.ExpectExpire(key, ttl).SetVal(true)
	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Exercise, got.Exercise)
	assert.True(t, session.State.CurrentLower.Equal(got.State.CurrentLower))
	assert.Equal(t, window.Month, got.State.Unit)

	mock.ExpectGet(sessionKeyPrefix + "missing").SetErr(redis.Nil)
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	mock.ExpectGet(sessionKeyPrefix + "broken").SetVal("{not json")
	_, err = store.Get(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, store.Delete(ctx, session.ID))

	mock.ExpectDel(key).SetVal(0)
	assert.ErrorIs(t, store.Delete(ctx, session.ID), ErrSessionNotFound)

	connErr := errors.New("connection refused")
	mock.ExpectSet(key, string(sessionJson), ttl).SetErr(connErr)
	err = store.Save(ctx, session)
	assert.ErrorIs(t, err, connErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionStore_RealRedis(t *testing.T) {
	ctx, rdb := ormtesting.GetRedisClientAndCtx(t)
	store := NewRedisSessionStore(rdb, time.Minute)

	session := testSession()
	session.ID = "integration-" + session.ID
	require.NoError(t, store.Save(ctx, session))
	t.Cleanup(func() {
		_ = store.Delete(context.Background(), session.ID)
	})

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Exercise, got.Exercise)

	ttl, err := rdb.TTL(ctx, sessionKeyPrefix+session.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
