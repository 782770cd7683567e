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
var _ driven.MediaStore = (*MediaRepo)(nil)

// MediaRepo is the SQLite implementation of the MediaStore port interface.
type MediaRepo struct {
	db *DB
}

// NewMediaRepo creates a new MediaRepo backed by the given DB.
func NewMediaRepo(db *DB) *MediaRepo {
	return &MediaRepo{db: db}
}

const mediaColumns = `id, title, description, file_url, kind, format, size_kb,
	width, height, photographer_credit, captured_on, featured, created_at`

// Create inserts a new media record.
func (r *MediaRepo) Create(ctx context.Context, media model.Media) error {
	const query = `INSERT INTO media (id, title, description, file_url, kind, format, size_kb,
		width, height, photographer_credit, captured_on, featured, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := media.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		media.ID, media.Title, media.Description, media.FileURL,
		string(media.Kind), media.Format, media.SizeKB,
		media.Width, media.Height, media.PhotographerCredit,
		formatTimePtr(media.CapturedOn), media.Featured, formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("create media %s: %w", media.ID, err)
	}

	return nil
}

// GetByID retrieves a media record by ID. Returns nil, nil if no media matches.
func (r *MediaRepo) GetByID(ctx context.Context, id string) (*model.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = ?`

	media, err := scanMedia(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media %s: %w", id, err)
	}

	return media, nil
}

// List returns media matching the filter ordered by creation date descending.
func (r *MediaRepo) List(ctx context.Context, filter driven.MediaFilter) ([]model.Media, error) {
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

	query := `SELECT ` + mediaColumns + ` FROM media`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var files []model.Media
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		files = append(files, *media)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}

	return files, nil
}

// Update rewrites a media record's mutable fields. Returns ErrMediaNotFound
// when the record does not exist.
func (r *MediaRepo) Update(ctx context.Context, media model.Media) error {
	const query = `UPDATE media SET title = ?, description = ?, photographer_credit = ?,
		captured_on = ?, featured = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		media.Title, media.Description, media.PhotographerCredit,
		formatTimePtr(media.CapturedOn), media.Featured, media.ID,
	)
	if err != nil {
		return fmt.Errorf("update media %s: %w", media.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update media %s: %w", media.ID, driven.ErrMediaNotFound)
	}

	return nil
}

// Delete removes a media record. Collection links cascade. Returns
// ErrMediaNotFound when the record does not exist.
func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM media WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete media %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete media %s: %w", id, driven.ErrMediaNotFound)
	}

	return nil
}

func scanMedia(s scanner) (*model.Media, error) {
	var media model.Media
	var kind, createdAt string
	var capturedOn sql.NullString

	err := s.Scan(
		&media.ID, &media.Title, &media.Description, &media.FileURL,
		&kind, &media.Format, &media.SizeKB, &media.Width, &media.Height,
		&media.PhotographerCredit, &capturedOn, &media.Featured, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	media.Kind = model.MediaKind(kind)
	if media.CapturedOn, err = parseTimePtr(capturedOn); err != nil {
		return nil, fmt.Errorf("parse captured_on: %w", err)
	}
	if media.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &media, nil
}
