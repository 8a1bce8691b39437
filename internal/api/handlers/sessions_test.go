package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/internal/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestSessionStoreResolveKnownToken(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(clock)

	store.Put(types.Session{Token: "tok_1", UserID: "u_1", ExpiresAt: clock.now.Add(time.Hour)})

	sess, err := store.ResolveToken(context.Background(), "tok_1")
	require.NoError(t, err)
	assert.Equal(t, "u_1", sess.UserID)
}

func TestSessionStoreUnknownToken(t *testing.T) {
	store := NewSessionStore(nil)

	_, err := store.ResolveToken(context.Background(), "tok_missing")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeAuthTokenInvalid, appErr.Code)
}

func TestSessionStoreExpiredTokenEvicted(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(clock)

	store.Put(types.Session{Token: "tok_old", ExpiresAt: clock.now.Add(-time.Minute)})

	_, err := store.ResolveToken(context.Background(), "tok_old")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeAuthSessionExpired, appErr.Code)

	// The expired entry is gone; a second resolve reports it as unknown.
	_, err = store.ResolveToken(context.Background(), "tok_old")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeAuthTokenInvalid, appErr.Code)
}

func TestSessionStoreDeleteIdempotent(t *testing.T) {
	store := NewSessionStore(nil)
	store.Put(types.Session{Token: "tok_1", ExpiresAt: time.Now().Add(time.Hour)})

	store.Delete("tok_1")
	store.Delete("tok_1")

	_, err := store.ResolveToken(context.Background(), "tok_1")
	assert.Error(t, err)
}

func TestSessionStoreZeroExpiryNeverExpires(t *testing.T) {
	store := NewSessionStore(fixedClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)})
	store.Put(types.Session{Token: "tok_forever"})

	_, err := store.ResolveToken(context.Background(), "tok_forever")
	assert.NoError(t, err)
}
