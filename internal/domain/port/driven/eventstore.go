package driven

import (
	"context"
	"errors"
	"time"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// Sentinel errors returned by EventStore implementations.
var (
	ErrEventNotFound = errors.New("event not found")

	// ErrPartnerAlreadyLinked indicates the partner is already credited on
	// the event.
	ErrPartnerAlreadyLinked = errors.New("partner already linked to event")
)

// EventFilter narrows an event listing. Zero values mean "no constraint".
type EventFilter struct {
	CategoryID   string
	CategorySlug string
	Kind         model.EventKind
	Status       model.EventStatus
	Scope        model.EventScope
	StartsAfter  *time.Time
	StartsBefore *time.Time
	Featured     *bool
	Search       string // Case-insensitive match over title, description, venue.

	// Page is 1-based. PageSize 0 falls back to the implementation default.
	Page     int
	PageSize int
}

// PartnerCredit is a partner together with its per-event sponsorship note.
type PartnerCredit struct {
	Partner model.Partner
	Note    string
}

// EventStore defines the driven port for event persistence.
// List returns the page of events matching the filter ordered by start date
// descending, plus the total match count for pagination.
type EventStore interface {
	Create(ctx context.Context, event model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	List(ctx context.Context, filter EventFilter) ([]model.Event, int, error)
	Update(ctx context.Context, event model.Event) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	AddPartner(ctx context.Context, link model.EventPartner) error
	RemovePartner(ctx context.Context, eventID, partnerID string) error
	ListPartners(ctx context.Context, eventID string) ([]PartnerCredit, error)
}
