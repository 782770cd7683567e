package driven

import (
	"context"
	"errors"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// Sentinel errors returned by CollectionStore implementations.
var (
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrMediaAlreadyAttached indicates the media file is already part of
	// the collection.
	ErrMediaAlreadyAttached = errors.New("media already attached to collection")
)

// CollectionFilter narrows a collection listing. Zero values mean "no constraint".
type CollectionFilter struct {
	Kind        model.CollectionKind
	Featured    *bool
	EventID     string
	CosplayerID string
}

// CollectionItem is a media file together with its position and context note
// inside a collection.
type CollectionItem struct {
	Media       model.Media
	Position    int
	ContextNote string
}

// CollectionStore defines the driven port for collection persistence.
// List returns collections ordered by creation date descending.
// ListMedia returns attached media ordered by position.
type CollectionStore interface {
	Create(ctx context.Context, collection model.Collection) error
	GetByID(ctx context.Context, id string) (*model.Collection, error)
	GetBySlug(ctx context.Context, slug string) (*model.Collection, error)
	List(ctx context.Context, filter CollectionFilter) ([]model.Collection, error)
	Update(ctx context.Context, collection model.Collection) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	AttachMedia(ctx context.Context, link model.CollectionMedia) error
	DetachMedia(ctx context.Context, collectionID, mediaID string) error
	ListMedia(ctx context.Context, collectionID string) ([]CollectionItem, error)
}
