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
var _ driven.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of the AccountStore port interface.
type AccountRepo struct {
	db *DB
}

// NewAccountRepo creates a new AccountRepo backed by the given DB.
func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create inserts a new account. Returns ErrAccountAlreadyExists if an account
// with the same username already exists.
func (r *AccountRepo) Create(ctx context.Context, account model.Account) error {
	const query = `INSERT INTO accounts (id, username, email, password_hash, is_superuser, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.IsSuperuser,
		formatTime(createdAt),
		formatTimePtr(account.LastLogin),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("create account %s: %w", account.Username, driven.ErrAccountAlreadyExists)
		}
		return fmt.Errorf("create account %s: %w", account.Username, err)
	}

	return nil
}

// GetByUsername retrieves an account by username. Returns nil, nil if no
// account matches.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	const query = `SELECT id, username, email, password_hash, is_superuser, created_at, last_login
		FROM accounts WHERE username = ?`

	account, err := scanAccount(r.db.Reader.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", username, err)
	}

	return account, nil
}

// GetByID retrieves an account by ID. Returns nil, nil if no account matches.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	const query = `SELECT id, username, email, password_hash, is_superuser, created_at, last_login
		FROM accounts WHERE id = ?`

	account, err := scanAccount(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account by id %s: %w", id, err)
	}

	return account, nil
}

// TouchLastLogin stamps the account's last_login with the current time.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE accounts SET last_login = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("touch last login for %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("touch last login for %s: %w", id, driven.ErrAccountNotFound)
	}

	return nil
}

func scanAccount(s scanner) (*model.Account, error) {
	var account model.Account
	var createdAt string
	var lastLogin sql.NullString

	err := s.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.IsSuperuser,
		&createdAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}

	account.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	account.LastLogin, err = parseTimePtr(lastLogin)
	if err != nil {
		return nil, fmt.Errorf("parse last_login: %w", err)
	}

	return &account, nil
}
