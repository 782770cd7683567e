package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// ProvisionOutcome is the terminal result of a provisioning run.
type ProvisionOutcome int

const (
	// ProvisionSkipped means username or password was missing, so no
	// account was attempted.
	ProvisionSkipped ProvisionOutcome = iota
	// ProvisionAlreadyExists means an account with the configured username
	// was already present and was left untouched.
	ProvisionAlreadyExists
	// ProvisionCreated means a new superuser account was created.
	ProvisionCreated
	// ProvisionFailed means the lookup, hash or insert failed. The error is
	// logged and suppressed so a bootstrap hiccup never blocks deploys.
	ProvisionFailed
)

// String returns the outcome name for logs.
func (o ProvisionOutcome) String() string {
	switch o {
	case ProvisionSkipped:
		return "skipped"
	case ProvisionAlreadyExists:
		return "already_exists"
	case ProvisionCreated:
		return "created"
	case ProvisionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AdminCredentials is the bootstrap input, usually sourced from environment
// variables. Email is optional and defaults to empty.
type AdminCredentials struct {
	Username string
	Email    string
	Password string
}

// ProvisionAdmin idempotently ensures a superuser account exists. It is safe
// to run on every deploy: a missing username or password skips the run, an
// existing account is left as-is, and any failure is logged and swallowed.
// The outcome is always terminal; callers never retry.
func ProvisionAdmin(ctx context.Context, store driven.AccountStore, creds AdminCredentials, logger *slog.Logger) ProvisionOutcome {
	if creds.Username == "" || creds.Password == "" {
		logger.Info("admin provisioning skipped, credentials not configured")
		return ProvisionSkipped
	}

	existing, err := store.GetByUsername(ctx, creds.Username)
	if err != nil {
		logger.Error("admin provisioning failed", "stage", "lookup", "username", creds.Username, "error", err)
		return ProvisionFailed
	}
	if existing != nil {
		logger.Info("admin account already exists", "username", creds.Username)
		return ProvisionAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("admin provisioning failed", "stage", "hash", "username", creds.Username, "error", err)
		return ProvisionFailed
	}

	account := model.Account{
		ID:           uuid.NewString(),
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: string(hash),
		IsSuperuser:  true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.Create(ctx, account); err != nil {
		logger.Error("admin provisioning failed", "stage", "create", "username", creds.Username, "error", err)
		return ProvisionFailed
	}

	logger.Info("admin account created", "username", creds.Username)
	return ProvisionCreated
}
