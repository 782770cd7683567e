package driven

import (
	"context"
	"errors"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// ErrMediaNotFound indicates the requested media file does not exist.
var ErrMediaNotFound = errors.New("media not found")

// MediaFilter narrows a media listing. Zero values mean "no constraint".
type MediaFilter struct {
	Kind     model.MediaKind
	Featured *bool
}

// MediaStore defines the driven port for media persistence.
// List returns media ordered by creation date descending.
type MediaStore interface {
	Create(ctx context.Context, media model.Media) error
	GetByID(ctx context.Context, id string) (*model.Media, error)
	List(ctx context.Context, filter MediaFilter) ([]model.Media, error)
	Update(ctx context.Context, media model.Media) error
	Delete(ctx context.Context, id string) error
}
