package driven

import (
	"context"
	"errors"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// Sentinel errors returned by AccountStore implementations.
var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists indicates an account with the same username
	// already exists.
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// AccountStore defines the driven port for account persistence.
// Create returns ErrAccountAlreadyExists when the username is taken.
// GetByUsername and GetByID return nil, nil when no account matches.
type AccountStore interface {
	Create(ctx context.Context, account model.Account) error
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	TouchLastLogin(ctx context.Context, id string) error
}
