package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// Default and maximum page sizes for event listings.
const (
	defaultEventPageSize = 10
	maxEventPageSize     = 100
)

// Compile-time interface satisfaction check.
var _ driven.EventStore = (*EventRepo)(nil)

// EventRepo is the SQLite implementation of the EventStore port interface.
type EventRepo struct {
	db *DB
}

// NewEventRepo creates a new EventRepo backed by the given DB.
func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `id, title, slug, description, starts_at, ends_at, venue,
	category_id, kind, scope, status, cover_image_url, featured, created_at, updated_at`

// Create inserts a new event.
func (r *EventRepo) Create(ctx context.Context, event model.Event) error {
	const query = `INSERT INTO events (id, title, slug, description, starts_at, ends_at, venue,
		category_id, kind, scope, status, cover_image_url, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := event.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		event.ID, event.Title, event.Slug, event.Description,
		formatTime(event.StartsAt), formatTimePtr(event.EndsAt), event.Venue,
		event.CategoryID, string(event.Kind), string(event.Scope), string(event.Status),
		event.CoverImageURL, event.Featured, formatTime(createdAt), formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event %s: %w", event.Title, err)
	}

	return nil
}

// GetByID retrieves an event by ID. Returns nil, nil if no event matches.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetBySlug retrieves an event by slug. Returns nil, nil if no event matches.
func (r *EventRepo) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return r.getOne(ctx, `WHERE slug = ?`, slug)
}

func (r *EventRepo) getOne(ctx context.Context, where string, arg any) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ` + where

	event, err := scanEvent(r.db.Reader.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return event, nil
}

// List returns the page of events matching the filter ordered by start date
// descending, plus the total match count.
func (r *EventRepo) List(ctx context.Context, filter driven.EventFilter) ([]model.Event, int, error) {
	where, args := buildEventWhere(filter)

	var total int
	countQuery := `SELECT COUNT(1) FROM events` + where
	if err := r.db.Reader.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultEventPageSize
	}
	if pageSize > maxEventPageSize {
		pageSize = maxEventPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	query := `SELECT ` + eventColumns + ` FROM events` + where +
		` ORDER BY starts_at DESC LIMIT ? OFFSET ?`
	listArgs := append(append([]any{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.Reader.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}

	return events, total, nil
}

// buildEventWhere translates an EventFilter into a WHERE clause and its args.
func buildEventWhere(filter driven.EventFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.CategoryID != "" {
		clauses = append(clauses, `category_id = ?`)
		args = append(args, filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		clauses = append(clauses, `category_id IN (SELECT id FROM categories WHERE slug = ?)`)
		args = append(args, filter.CategorySlug)
	}
	if filter.Kind != "" {
		clauses = append(clauses, `kind = ?`)
		args = append(args, string(filter.Kind))
	}
	if filter.Status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.Scope != "" {
		clauses = append(clauses, `scope = ?`)
		args = append(args, string(filter.Scope))
	}
	if filter.StartsAfter != nil {
		clauses = append(clauses, `starts_at >= ?`)
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.StartsBefore != nil {
		clauses = append(clauses, `starts_at < ?`)
		args = append(args, formatTime(*filter.StartsBefore))
	}
	if filter.Featured != nil {
		clauses = append(clauses, `featured = ?`)
		args = append(args, *filter.Featured)
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		clauses = append(clauses, `(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue) LIKE ?)`)
		args = append(args, needle, needle, needle)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(clauses, ` AND `), args
}

// Update rewrites an event's mutable fields and stamps updated_at.
// Returns ErrEventNotFound when the event does not exist.
func (r *EventRepo) Update(ctx context.Context, event model.Event) error {
	const query = `UPDATE events SET title = ?, description = ?, starts_at = ?, ends_at = ?,
		venue = ?, category_id = ?, kind = ?, scope = ?, status = ?, cover_image_url = ?,
		featured = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		event.Title, event.Description,
		formatTime(event.StartsAt), formatTimePtr(event.EndsAt),
		event.Venue, event.CategoryID, string(event.Kind), string(event.Scope),
		string(event.Status), event.CoverImageURL, event.Featured,
		formatTime(time.Now()), event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event %s: %w", event.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update event %s: %w", event.ID, driven.ErrEventNotFound)
	}

	return nil
}

// Delete removes an event. Partner links cascade. Returns ErrEventNotFound
// when the event does not exist.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete event %s: %w", id, driven.ErrEventNotFound)
	}

	return nil
}

// SlugExists reports whether an event with this slug exists.
func (r *EventRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT COUNT(1) FROM events WHERE slug = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, slug).Scan(&count); err != nil {
		return false, fmt.Errorf("check event slug %s: %w", slug, err)
	}

	return count > 0, nil
}

// AddPartner credits a partner on an event. Returns ErrPartnerAlreadyLinked
// when the credit already exists.
func (r *EventRepo) AddPartner(ctx context.Context, link model.EventPartner) error {
	const query = `INSERT INTO event_partners (event_id, partner_id, note) VALUES (?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, link.EventID, link.PartnerID, link.Note)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("link partner %s to event %s: %w", link.PartnerID, link.EventID, driven.ErrPartnerAlreadyLinked)
		}
		return fmt.Errorf("link partner %s to event %s: %w", link.PartnerID, link.EventID, err)
	}

	return nil
}

// RemovePartner removes a partner credit from an event.
func (r *EventRepo) RemovePartner(ctx context.Context, eventID, partnerID string) error {
	const query = `DELETE FROM event_partners WHERE event_id = ? AND partner_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, eventID, partnerID)
	if err != nil {
		return fmt.Errorf("unlink partner %s from event %s: %w", partnerID, eventID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("unlink partner %s from event %s: %w", partnerID, eventID, driven.ErrPartnerNotFound)
	}

	return nil
}

// ListPartners returns the partners credited on an event with their notes,
// ordered by partner name.
func (r *EventRepo) ListPartners(ctx context.Context, eventID string) ([]driven.PartnerCredit, error) {
	const query = `SELECT p.id, p.name, p.kind, p.logo_url, p.website, p.description, p.active, p.created_at, ep.note
		FROM partners p
		JOIN event_partners ep ON ep.partner_id = p.id
		WHERE ep.event_id = ?
		ORDER BY p.name`

	rows, err := r.db.Reader.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list partners for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var credits []driven.PartnerCredit
	for rows.Next() {
		var credit driven.PartnerCredit
		var kind, createdAt string

		err := rows.Scan(
			&credit.Partner.ID, &credit.Partner.Name, &kind,
			&credit.Partner.LogoURL, &credit.Partner.Website, &credit.Partner.Description,
			&credit.Partner.Active, &createdAt, &credit.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("scan partner credit: %w", err)
		}

		credit.Partner.Kind = model.PartnerKind(kind)
		credit.Partner.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		credits = append(credits, credit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partner credits: %w", err)
	}

	return credits, nil
}

func scanEvent(s scanner) (*model.Event, error) {
	var event model.Event
	var kind, scope, status string
	var startsAt, createdAt, updatedAt string
	var endsAt sql.NullString

	err := s.Scan(
		&event.ID, &event.Title, &event.Slug, &event.Description,
		&startsAt, &endsAt, &event.Venue,
		&event.CategoryID, &kind, &scope, &status,
		&event.CoverImageURL, &event.Featured, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Kind = model.EventKind(kind)
	event.Scope = model.EventScope(scope)
	event.Status = model.EventStatus(status)

	if event.StartsAt, err = parseTime(startsAt); err != nil {
		return nil, fmt.Errorf("parse starts_at: %w", err)
	}
	if event.EndsAt, err = parseTimePtr(endsAt); err != nil {
		return nil, fmt.Errorf("parse ends_at: %w", err)
	}
	if event.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if event.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &event, nil
}
