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
var _ driven.CosplayerStore = (*CosplayerRepo)(nil)

// CosplayerRepo is the SQLite implementation of the CosplayerStore port interface.
type CosplayerRepo struct {
	db *DB
}

// NewCosplayerRepo creates a new CosplayerRepo backed by the given DB.
func NewCosplayerRepo(db *DB) *CosplayerRepo {
	return &CosplayerRepo{db: db}
}

const cosplayerColumns = `id, name, stage_name, slug, bio, avatar_url,
	instagram, facebook, tiktok, created_at, updated_at`

// Create inserts a new cosplayer profile.
func (r *CosplayerRepo) Create(ctx context.Context, cosplayer model.Cosplayer) error {
	const query = `INSERT INTO cosplayers (id, name, stage_name, slug, bio, avatar_url,
		instagram, facebook, tiktok, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	createdAt := cosplayer.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := cosplayer.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		cosplayer.ID, cosplayer.Name, cosplayer.StageName, cosplayer.Slug,
		cosplayer.Bio, cosplayer.AvatarURL,
		cosplayer.Instagram, cosplayer.Facebook, cosplayer.TikTok,
		formatTime(createdAt), formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("create cosplayer %s: %w", cosplayer.Name, err)
	}

	return nil
}

// GetByID retrieves a cosplayer by ID. Returns nil, nil if no cosplayer matches.
func (r *CosplayerRepo) GetByID(ctx context.Context, id string) (*model.Cosplayer, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetBySlug retrieves a cosplayer by slug. Returns nil, nil if no cosplayer matches.
func (r *CosplayerRepo) GetBySlug(ctx context.Context, slug string) (*model.Cosplayer, error) {
	return r.getOne(ctx, `WHERE slug = ?`, slug)
}

func (r *CosplayerRepo) getOne(ctx context.Context, where string, arg any) (*model.Cosplayer, error) {
	query := `SELECT ` + cosplayerColumns + ` FROM cosplayers ` + where

	cosplayer, err := scanCosplayer(r.db.Reader.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cosplayer: %w", err)
	}

	return cosplayer, nil
}

// ListAll returns all cosplayers ordered by real name.
func (r *CosplayerRepo) ListAll(ctx context.Context) ([]model.Cosplayer, error) {
	query := `SELECT ` + cosplayerColumns + ` FROM cosplayers ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cosplayers: %w", err)
	}
	defer rows.Close()

	var cosplayers []model.Cosplayer
	for rows.Next() {
		cosplayer, err := scanCosplayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cosplayer: %w", err)
		}
		cosplayers = append(cosplayers, *cosplayer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cosplayers: %w", err)
	}

	return cosplayers, nil
}

// Update rewrites a cosplayer's mutable fields and stamps updated_at.
// Returns ErrCosplayerNotFound when the cosplayer does not exist.
func (r *CosplayerRepo) Update(ctx context.Context, cosplayer model.Cosplayer) error {
	const query = `UPDATE cosplayers SET name = ?, stage_name = ?, bio = ?, avatar_url = ?,
		instagram = ?, facebook = ?, tiktok = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		cosplayer.Name, cosplayer.StageName, cosplayer.Bio, cosplayer.AvatarURL,
		cosplayer.Instagram, cosplayer.Facebook, cosplayer.TikTok,
		formatTime(time.Now()), cosplayer.ID,
	)
	if err != nil {
		return fmt.Errorf("update cosplayer %s: %w", cosplayer.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update cosplayer %s: %w", cosplayer.ID, driven.ErrCosplayerNotFound)
	}

	return nil
}

// Delete removes a cosplayer profile. Collections linked to the cosplayer
// keep existing with the link cleared. Returns ErrCosplayerNotFound when the
// cosplayer does not exist.
func (r *CosplayerRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM cosplayers WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete cosplayer %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete cosplayer %s: %w", id, driven.ErrCosplayerNotFound)
	}

	return nil
}

// SlugExists reports whether a cosplayer with this slug exists.
func (r *CosplayerRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT COUNT(1) FROM cosplayers WHERE slug = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, slug).Scan(&count); err != nil {
		return false, fmt.Errorf("check cosplayer slug %s: %w", slug, err)
	}

	return count > 0, nil
}

func scanCosplayer(s scanner) (*model.Cosplayer, error) {
	var cosplayer model.Cosplayer
	var createdAt, updatedAt string

	err := s.Scan(
		&cosplayer.ID, &cosplayer.Name, &cosplayer.StageName, &cosplayer.Slug,
		&cosplayer.Bio, &cosplayer.AvatarURL,
		&cosplayer.Instagram, &cosplayer.Facebook, &cosplayer.TikTok,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cosplayer.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if cosplayer.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &cosplayer, nil
}
