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
var _ driven.PartnerStore = (*PartnerRepo)(nil)

// PartnerRepo is the SQLite implementation of the PartnerStore port interface.
type PartnerRepo struct {
	db *DB
}

// NewPartnerRepo creates a new PartnerRepo backed by the given DB.
func NewPartnerRepo(db *DB) *PartnerRepo {
	return &PartnerRepo{db: db}
}

// Create inserts a new partner.
func (r *PartnerRepo) Create(ctx context.Context, partner model.Partner) error {
	const query = `INSERT INTO partners (id, name, kind, logo_url, website, description, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := partner.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		partner.ID, partner.Name, string(partner.Kind), partner.LogoURL,
		partner.Website, partner.Description, partner.Active, formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("create partner %s: %w", partner.Name, err)
	}

	return nil
}

// GetByID retrieves a partner by ID. Returns nil, nil if no partner matches.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*model.Partner, error) {
	const query = `SELECT id, name, kind, logo_url, website, description, active, created_at
		FROM partners WHERE id = ?`

	partner, err := scanPartner(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get partner %s: %w", id, err)
	}

	return partner, nil
}

// ListAll returns partners ordered by name. With activeOnly set, deactivated
// partners are skipped.
func (r *PartnerRepo) ListAll(ctx context.Context, activeOnly bool) ([]model.Partner, error) {
	query := `SELECT id, name, kind, logo_url, website, description, active, created_at FROM partners`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []model.Partner
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, *partner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}

	return partners, nil
}

// Update rewrites a partner's mutable fields. Returns ErrPartnerNotFound when
// the partner does not exist.
func (r *PartnerRepo) Update(ctx context.Context, partner model.Partner) error {
	const query = `UPDATE partners SET name = ?, kind = ?, logo_url = ?, website = ?,
		description = ?, active = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		partner.Name, string(partner.Kind), partner.LogoURL, partner.Website,
		partner.Description, partner.Active, partner.ID,
	)
	if err != nil {
		return fmt.Errorf("update partner %s: %w", partner.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update partner %s: %w", partner.ID, driven.ErrPartnerNotFound)
	}

	return nil
}

// Delete removes a partner. Event credits cascade. Returns ErrPartnerNotFound
// when the partner does not exist.
func (r *PartnerRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM partners WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete partner %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete partner %s: %w", id, driven.ErrPartnerNotFound)
	}

	return nil
}

func scanPartner(s scanner) (*model.Partner, error) {
	var partner model.Partner
	var kind, createdAt string

	err := s.Scan(
		&partner.ID, &partner.Name, &kind, &partner.LogoURL,
		&partner.Website, &partner.Description, &partner.Active, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	partner.Kind = model.PartnerKind(kind)
	partner.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &partner, nil
}
