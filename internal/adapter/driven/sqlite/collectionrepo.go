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

// Compile-time interface satisfaction check.
var _ driven.CollectionStore = (*CollectionRepo)(nil)

// CollectionRepo is the SQLite implementation of the CollectionStore port interface.
type CollectionRepo struct {
	db *DB
}

// NewCollectionRepo creates a new CollectionRepo backed by the given DB.
func NewCollectionRepo(db *DB) *CollectionRepo {
	return &CollectionRepo{db: db}
}

const collectionColumns = `id, title, slug, description, kind, produced_on,
	featured, event_id, cosplayer_id, created_at, updated_at`

// Create inserts a new collection.
func (r *CollectionRepo) Create(ctx context.Context, collection model.Collection) error {
	const query = `INSERT INTO collections (id, title, slug, description, kind, produced_on,
		featured, event_id, cosplayer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	createdAt := collection.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := collection.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		collection.ID, collection.Title, collection.Slug, collection.Description,
		string(collection.Kind), formatTimePtr(collection.ProducedOn),
		collection.Featured, nullString(collection.EventID), nullString(collection.CosplayerID),
		formatTime(createdAt), formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("create collection %s: %w", collection.Title, err)
	}

	return nil
}

// GetByID retrieves a collection by ID. Returns nil, nil if no collection matches.
func (r *CollectionRepo) GetByID(ctx context.Context, id string) (*model.Collection, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetBySlug retrieves a collection by slug. Returns nil, nil if no collection matches.
func (r *CollectionRepo) GetBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	return r.getOne(ctx, `WHERE slug = ?`, slug)
}

func (r *CollectionRepo) getOne(ctx context.Context, where string, arg any) (*model.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections ` + where

	collection, err := scanCollection(r.db.Reader.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	return collection, nil
}

// List returns collections matching the filter ordered by creation date descending.
func (r *CollectionRepo) List(ctx context.Context, filter driven.CollectionFilter) ([]model.Collection, error) {
	var clauses []string
	var args []any

	if filter.Kind != "" {
		clauses = append(clauses, `kind = ?`)
		args = append(args, string(filter.Kind))
	}
	if filter.Featured != nil {
		clauses = append(clauses, `featured = ?`)
		args = append(args, *filter.Featured)
	}
	if filter.EventID != "" {
		clauses = append(clauses, `event_id = ?`)
		args = append(args, filter.EventID)
	}
	if filter.CosplayerID != "" {
		clauses = append(clauses, `cosplayer_id = ?`)
		args = append(args, filter.CosplayerID)
	}

	query := `SELECT ` + collectionColumns + ` FROM collections`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []model.Collection
	for rows.Next() {
		collection, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, *collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

// Update rewrites a collection's mutable fields and stamps updated_at.
// Returns ErrCollectionNotFound when the collection does not exist.
func (r *CollectionRepo) Update(ctx context.Context, collection model.Collection) error {
	const query = `UPDATE collections SET title = ?, description = ?, kind = ?, produced_on = ?,
		featured = ?, event_id = ?, cosplayer_id = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		collection.Title, collection.Description, string(collection.Kind),
		formatTimePtr(collection.ProducedOn), collection.Featured,
		nullString(collection.EventID), nullString(collection.CosplayerID),
		formatTime(time.Now()), collection.ID,
	)
	if err != nil {
		return fmt.Errorf("update collection %s: %w", collection.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update collection %s: %w", collection.ID, driven.ErrCollectionNotFound)
	}

	return nil
}

// Delete removes a collection. Media links cascade; media files stay.
// Returns ErrCollectionNotFound when the collection does not exist.
func (r *CollectionRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM collections WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete collection %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete collection %s: %w", id, driven.ErrCollectionNotFound)
	}

	return nil
}

// SlugExists reports whether a collection with this slug exists.
func (r *CollectionRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT COUNT(1) FROM collections WHERE slug = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, slug).Scan(&count); err != nil {
		return false, fmt.Errorf("check collection slug %s: %w", slug, err)
	}

	return count > 0, nil
}

// AttachMedia adds a media file to a collection at the given position.
// Returns ErrMediaAlreadyAttached when the file is already in the collection.
func (r *CollectionRepo) AttachMedia(ctx context.Context, link model.CollectionMedia) error {
	const query = `INSERT INTO collection_media (collection_id, media_id, position, context_note, created_at)
		VALUES (?, ?, ?, ?, ?)`

	createdAt := link.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		link.CollectionID, link.MediaID, link.Position, link.ContextNote, formatTime(createdAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("attach media %s to collection %s: %w", link.MediaID, link.CollectionID, driven.ErrMediaAlreadyAttached)
		}
		return fmt.Errorf("attach media %s to collection %s: %w", link.MediaID, link.CollectionID, err)
	}

	return nil
}

// DetachMedia removes a media file from a collection.
func (r *CollectionRepo) DetachMedia(ctx context.Context, collectionID, mediaID string) error {
	const query = `DELETE FROM collection_media WHERE collection_id = ? AND media_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, collectionID, mediaID)
	if err != nil {
		return fmt.Errorf("detach media %s from collection %s: %w", mediaID, collectionID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("detach media %s from collection %s: %w", mediaID, collectionID, driven.ErrMediaNotFound)
	}

	return nil
}

// ListMedia returns the media files in a collection ordered by position.
func (r *CollectionRepo) ListMedia(ctx context.Context, collectionID string) ([]driven.CollectionItem, error) {
	const query = `SELECT m.id, m.title, m.description, m.file_url, m.kind, m.format,
		m.size_kb, m.width, m.height, m.photographer_credit, m.captured_on, m.featured, m.created_at,
		cm.position, cm.context_note
		FROM media m
		JOIN collection_media cm ON cm.media_id = m.id
		WHERE cm.collection_id = ?
		ORDER BY cm.position, cm.created_at`

	rows, err := r.db.Reader.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list media for collection %s: %w", collectionID, err)
	}
	defer rows.Close()

	var items []driven.CollectionItem
	for rows.Next() {
		var item driven.CollectionItem
		var kind, createdAt string
		var capturedOn sql.NullString

		err := rows.Scan(
			&item.Media.ID, &item.Media.Title, &item.Media.Description, &item.Media.FileURL,
			&kind, &item.Media.Format, &item.Media.SizeKB, &item.Media.Width, &item.Media.Height,
			&item.Media.PhotographerCredit, &capturedOn, &item.Media.Featured, &createdAt,
			&item.Position, &item.ContextNote,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collection item: %w", err)
		}

		item.Media.Kind = model.MediaKind(kind)
		if item.Media.CapturedOn, err = parseTimePtr(capturedOn); err != nil {
			return nil, fmt.Errorf("parse captured_on: %w", err)
		}
		if item.Media.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection items: %w", err)
	}

	return items, nil
}

// nullString maps "" to SQL NULL for optional foreign keys.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanCollection(s scanner) (*model.Collection, error) {
	var collection model.Collection
	var kind, createdAt, updatedAt string
	var producedOn, eventID, cosplayerID sql.NullString

	err := s.Scan(
		&collection.ID, &collection.Title, &collection.Slug, &collection.Description,
		&kind, &producedOn, &collection.Featured, &eventID, &cosplayerID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	collection.Kind = model.CollectionKind(kind)
	collection.EventID = eventID.String
	collection.CosplayerID = cosplayerID.String

	if collection.ProducedOn, err = parseTimePtr(producedOn); err != nil {
		return nil, fmt.Errorf("parse produced_on: %w", err)
	}
	if collection.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if collection.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &collection, nil
}
