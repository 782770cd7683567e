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
var _ driven.CategoryStore = (*CategoryRepo)(nil)

// CategoryRepo is the SQLite implementation of the CategoryStore port interface.
type CategoryRepo struct {
	db *DB
}

// NewCategoryRepo creates a new CategoryRepo backed by the given DB.
func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, category model.Category) error {
	const query = `INSERT INTO categories (id, name, slug, description, kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	createdAt := category.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		category.ID, category.Name, category.Slug, category.Description,
		string(category.Kind), formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("create category %s: %w", category.Name, err)
	}

	return nil
}

// GetByID retrieves a category by ID. Returns nil, nil if no category matches.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetBySlug retrieves a category by slug. Returns nil, nil if no category matches.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.getOne(ctx, `WHERE slug = ?`, slug)
}

func (r *CategoryRepo) getOne(ctx context.Context, where string, arg any) (*model.Category, error) {
	query := `SELECT id, name, slug, description, kind, created_at FROM categories ` + where

	category, err := scanCategory(r.db.Reader.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return category, nil
}

// ListAll returns categories ordered by name, optionally filtered by kind.
func (r *CategoryRepo) ListAll(ctx context.Context, kind model.CategoryKind) ([]model.Category, error) {
	query := `SELECT id, name, slug, description, kind, created_at FROM categories`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Update rewrites a category's mutable fields. Returns ErrCategoryNotFound
// when the category does not exist.
func (r *CategoryRepo) Update(ctx context.Context, category model.Category) error {
	const query = `UPDATE categories SET name = ?, description = ?, kind = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		category.Name, category.Description, string(category.Kind), category.ID,
	)
	if err != nil {
		return fmt.Errorf("update category %s: %w", category.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update category %s: %w", category.ID, driven.ErrCategoryNotFound)
	}

	return nil
}

// Delete removes a category. Returns ErrCategoryInUse when events still
// reference it and ErrCategoryNotFound when it does not exist.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint") {
			return fmt.Errorf("delete category %s: %w", id, driven.ErrCategoryInUse)
		}
		return fmt.Errorf("delete category %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete category %s: %w", id, driven.ErrCategoryNotFound)
	}

	return nil
}

// SlugExists reports whether a category with this slug exists.
func (r *CategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT COUNT(1) FROM categories WHERE slug = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, slug).Scan(&count); err != nil {
		return false, fmt.Errorf("check category slug %s: %w", slug, err)
	}

	return count > 0, nil
}

func scanCategory(s scanner) (*model.Category, error) {
	var category model.Category
	var kind string
	var createdAt string

	err := s.Scan(&category.ID, &category.Name, &category.Slug, &category.Description, &kind, &createdAt)
	if err != nil {
		return nil, err
	}

	category.Kind = model.CategoryKind(kind)
	category.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &category, nil
}
