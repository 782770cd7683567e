package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TokenStore = (*TokenRepo)(nil)

// TokenRepo is the SQLite implementation of the TokenStore port interface.
// It backs the refresh-token blacklist used by logout.
type TokenRepo struct {
	db *DB
}

// NewTokenRepo creates a new TokenRepo backed by the given DB.
func NewTokenRepo(db *DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Revoke records a token ID as revoked until its expiry. Revoking the same
// ID twice is a no-op.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	const query = `INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, jti, formatTime(expiresAt))
	if err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}

	return nil
}

// IsRevoked reports whether the token ID has been revoked.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `SELECT COUNT(1) FROM revoked_tokens WHERE jti = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, jti).Scan(&count); err != nil {
		return false, fmt.Errorf("check token %s: %w", jti, err)
	}

	return count > 0, nil
}

// PurgeExpired deletes blacklist rows whose tokens have expired anyway.
// Returns the number of rows removed.
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < ?`

	result, err := r.db.Writer.ExecContext(ctx, query, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}

	return rows, nil
}
