package driven

import (
	"context"
	"errors"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// Sentinel errors returned by CategoryStore implementations.
var (
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryInUse indicates the category still has events attached and
	// cannot be deleted.
	ErrCategoryInUse = errors.New("category has events attached")
)

// CategoryStore defines the driven port for category persistence.
// Delete returns ErrCategoryInUse when events still reference the category.
type CategoryStore interface {
	Create(ctx context.Context, category model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	ListAll(ctx context.Context, kind model.CategoryKind) ([]model.Category, error)
	Update(ctx context.Context, category model.Category) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}
