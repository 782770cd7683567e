package driven

import (
	"context"
	"time"
)

// TokenStore defines the driven port for the refresh-token blacklist.
// Revoked token IDs are kept until their natural expiry; PurgeExpired
// reclaims rows whose tokens could no longer validate anyway.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
