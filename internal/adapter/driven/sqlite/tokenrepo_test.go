package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepo_RevokeAndIsRevoked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	jti := uuid.NewString()

	revoked, err := repo.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, jti, time.Now().UTC().Add(time.Hour)))

	revoked, err = repo.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTokenRepo_RevokeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	jti := uuid.NewString()
	expiresAt := time.Now().UTC().Add(time.Hour)

	require.NoError(t, repo.Revoke(ctx, jti, expiresAt))
	require.NoError(t, repo.Revoke(ctx, jti, expiresAt))

	revoked, err := repo.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTokenRepo_PurgeExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	now := time.Now().UTC()
	expired := uuid.NewString()
	live := uuid.NewString()

	require.NoError(t, repo.Revoke(ctx, expired, now.Add(-time.Hour)))
	require.NoError(t, repo.Revoke(ctx, live, now.Add(time.Hour)))

	purged, err := repo.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	// The purged entry no longer counts as revoked.
	revoked, err := repo.IsRevoked(ctx, expired)
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRevoked(ctx, live)
	require.NoError(t, err)
	assert.True(t, revoked)
}
