package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SubscriberStore = (*SubscriberRepo)(nil)

// SubscriberRepo is the SQLite implementation of the SubscriberStore port interface.
type SubscriberRepo struct {
	db *DB
}

// NewSubscriberRepo creates a new SubscriberRepo backed by the given DB.
func NewSubscriberRepo(db *DB) *SubscriberRepo {
	return &SubscriberRepo{db: db}
}

// Create inserts a new subscription. An email with an active subscription
// returns ErrAlreadySubscribed; a deactivated one is reactivated in place,
// keeping its original subscription date.
func (r *SubscriberRepo) Create(ctx context.Context, subscriber model.Subscriber) error {
	existing, err := r.GetByEmail(ctx, subscriber.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Active {
			return fmt.Errorf("subscribe %s: %w", subscriber.Email, driven.ErrAlreadySubscribed)
		}
		const reactivate = `UPDATE subscribers SET active = 1, name = ? WHERE email = ?`
		if _, err := r.db.Writer.ExecContext(ctx, reactivate, subscriber.Name, subscriber.Email); err != nil {
			return fmt.Errorf("resubscribe %s: %w", subscriber.Email, err)
		}
		return nil
	}

	subscribedAt := subscriber.SubscribedAt
	if subscribedAt.IsZero() {
		subscribedAt = time.Now().UTC()
	}

	const query = `INSERT INTO subscribers (id, email, name, active, subscribed_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.Writer.ExecContext(ctx, query,
		subscriber.ID, subscriber.Email, subscriber.Name, subscriber.Active,
		formatTime(subscribedAt), formatTimePtr(subscriber.ConfirmedAt),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subscriber.Email, err)
	}

	return nil
}

// GetByEmail retrieves a subscription by email. Returns nil, nil if no
// subscription matches.
func (r *SubscriberRepo) GetByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	const query = `SELECT id, email, name, active, subscribed_at, confirmed_at
		FROM subscribers WHERE email = ?`

	subscriber, err := scanSubscriber(r.db.Reader.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriber %s: %w", email, err)
	}

	return subscriber, nil
}

// Confirm stamps the double opt-in confirmation time. Confirming twice keeps
// the first timestamp.
func (r *SubscriberRepo) Confirm(ctx context.Context, email string) error {
	const query = `UPDATE subscribers SET confirmed_at = ? WHERE email = ? AND confirmed_at IS NULL`

	result, err := r.db.Writer.ExecContext(ctx, query, formatTime(time.Now()), email)
	if err != nil {
		return fmt.Errorf("confirm subscriber %s: %w", email, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		// Either unknown email or already confirmed; only the former is an error.
		existing, err := r.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("confirm subscriber %s: %w", email, driven.ErrSubscriberNotFound)
		}
	}

	return nil
}

// Deactivate flips the subscription off without deleting the row.
func (r *SubscriberRepo) Deactivate(ctx context.Context, email string) error {
	const query = `UPDATE subscribers SET active = 0 WHERE email = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("deactivate subscriber %s: %w", email, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("deactivate subscriber %s: %w", email, driven.ErrSubscriberNotFound)
	}

	return nil
}

// ListAll returns subscriptions newest first. With activeOnly set,
// deactivated subscriptions are skipped.
func (r *SubscriberRepo) ListAll(ctx context.Context, activeOnly bool) ([]model.Subscriber, error) {
	query := `SELECT id, email, name, active, subscribed_at, confirmed_at FROM subscribers`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY subscribed_at DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []model.Subscriber
	for rows.Next() {
		subscriber, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, *subscriber)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subscribers, nil
}

func scanSubscriber(s scanner) (*model.Subscriber, error) {
	var subscriber model.Subscriber
	var subscribedAt string
	var confirmedAt sql.NullString

	err := s.Scan(
		&subscriber.ID, &subscriber.Email, &subscriber.Name,
		&subscriber.Active, &subscribedAt, &confirmedAt,
	)
	if err != nil {
		return nil, err
	}

	if subscriber.SubscribedAt, err = parseTime(subscribedAt); err != nil {
		return nil, fmt.Errorf("parse subscribed_at: %w", err)
	}
	if subscriber.ConfirmedAt, err = parseTimePtr(confirmedAt); err != nil {
		return nil, fmt.Errorf("parse confirmed_at: %w", err)
	}

	return &subscriber, nil
}
