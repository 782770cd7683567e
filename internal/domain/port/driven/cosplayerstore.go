package driven

import (
	"context"
	"errors"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// ErrCosplayerNotFound indicates the requested cosplayer does not exist.
var ErrCosplayerNotFound = errors.New("cosplayer not found")

// CosplayerStore defines the driven port for cosplayer persistence.
// ListAll returns cosplayers ordered by real name.
type CosplayerStore interface {
	Create(ctx context.Context, cosplayer model.Cosplayer) error
	GetByID(ctx context.Context, id string) (*model.Cosplayer, error)
	GetBySlug(ctx context.Context, slug string) (*model.Cosplayer, error)
	ListAll(ctx context.Context) ([]model.Cosplayer, error)
	Update(ctx context.Context, cosplayer model.Cosplayer) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}
