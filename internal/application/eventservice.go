package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// ErrValidation wraps input problems the caller should report as a bad
// request rather than a server fault.
var ErrValidation = errors.New("validation failed")

// Page sizes for event listings. The store applies the same bounds.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// EventInput carries the writable fields of an event for create and update.
type EventInput struct {
	Title         string
	Description   string
	StartsAt      time.Time
	EndsAt        *time.Time
	Venue         string
	CategoryID    string
	Kind          model.EventKind
	Scope         model.EventScope
	Status        model.EventStatus
	CoverImageURL string
	Featured      bool
}

// EventPage is one page of an event listing with the numbers the pagination
// envelope needs.
type EventPage struct {
	Events   []model.Event
	Total    int
	Page     int
	PageSize int
}

// TotalPages returns the page count for the envelope, at least 1.
func (p *EventPage) TotalPages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// EventDetail is an event enriched with its category and partner credits for
// the detail endpoint.
type EventDetail struct {
	Event    model.Event
	Category model.Category
	Partners []driven.PartnerCredit
}

// EventService implements event catalog use cases on top of the store ports.
// Public listings only ever see published events; admin listings pass their
// own status filter.
type EventService struct {
	events     driven.EventStore
	categories driven.CategoryStore

	now func() time.Time // Injectable for tests.
}

// NewEventService creates a new EventService with the required dependencies.
func NewEventService(events driven.EventStore, categories driven.CategoryStore) *EventService {
	return &EventService{
		events:     events,
		categories: categories,
		now:        time.Now,
	}
}

// List returns a page of events matching the filter. Page and page size are
// normalized so the returned EventPage reflects what was actually queried.
func (s *EventService) List(ctx context.Context, filter driven.EventFilter) (*EventPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &EventPage{
		Events:   events,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Upcoming returns published events starting from now, soonest last as per
// the store's descending order.
func (s *EventService) Upcoming(ctx context.Context, page, pageSize int) (*EventPage, error) {
	now := s.now().UTC()
	return s.List(ctx, driven.EventFilter{
		Status:      model.EventStatusPublished,
		StartsAfter: &now,
		Page:        page,
		PageSize:    pageSize,
	})
}

// Past returns published events that already started, newest first.
func (s *EventService) Past(ctx context.Context, page, pageSize int) (*EventPage, error) {
	now := s.now().UTC()
	return s.List(ctx, driven.EventFilter{
		Status:       model.EventStatusPublished,
		StartsBefore: &now,
		Page:         page,
		PageSize:     pageSize,
	})
}

// Featured returns published events flagged for the highlight rail.
func (s *EventService) Featured(ctx context.Context, page, pageSize int) (*EventPage, error) {
	featured := true
	return s.List(ctx, driven.EventFilter{
		Status:   model.EventStatusPublished,
		Featured: &featured,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetBySlug assembles the detail view: the event, its category and its
// partner credits. Returns ErrEventNotFound when the slug is unknown.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*EventDetail, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, driven.ErrEventNotFound
	}

	category, err := s.categories.GetByID(ctx, event.CategoryID)
	if err != nil {
		return nil, err
	}

	partners, err := s.events.ListPartners(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{Event: *event, Partners: partners}
	if category != nil {
		detail.Category = *category
	}
	return detail, nil
}

// Related returns published events sharing the given event's category,
// excluding the event itself.
func (s *EventService) Related(ctx context.Context, slug string, limit int) ([]model.Event, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, driven.ErrEventNotFound
	}

	if limit <= 0 {
		limit = 4
	}

	// One extra row so the event itself can be dropped from the page.
	page, err := s.List(ctx, driven.EventFilter{
		CategoryID: event.CategoryID,
		Status:     model.EventStatusPublished,
		PageSize:   limit + 1,
	})
	if err != nil {
		return nil, err
	}

	related := make([]model.Event, 0, limit)
	for _, candidate := range page.Events {
		if candidate.ID == event.ID {
			continue
		}
		related = append(related, candidate)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// Create validates the input, derives a unique slug and inserts the event.
func (s *EventService) Create(ctx context.Context, input EventInput) (*model.Event, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	slug, err := UniqueSlug(ctx, input.Title, s.events.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now().UTC()
	event := model.Event{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Slug:          slug,
		Description:   input.Description,
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		Venue:         input.Venue,
		CategoryID:    input.CategoryID,
		Kind:          input.Kind,
		Scope:         input.Scope,
		Status:        input.Status,
		CoverImageURL: input.CoverImageURL,
		Featured:      input.Featured,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update validates the input and rewrites the event's mutable fields. The
// slug is stable across title edits, keeping published URLs alive.
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*model.Event, error) {
	existing, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, driven.ErrEventNotFound
	}

	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	event := *existing
	event.Title = input.Title
	event.Description = input.Description
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	event.Venue = input.Venue
	event.CategoryID = input.CategoryID
	event.Kind = input.Kind
	event.Scope = input.Scope
	event.Status = input.Status
	event.CoverImageURL = input.CoverImageURL
	event.Featured = input.Featured

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes an event and its partner links.
func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

// CreditPartner links a partner to an event with a sponsorship note.
func (s *EventService) CreditPartner(ctx context.Context, eventID, partnerID, note string) error {
	return s.events.AddPartner(ctx, model.EventPartner{
		EventID:   eventID,
		PartnerID: partnerID,
		Note:      note,
	})
}

// RemovePartner drops a partner credit from an event.
func (s *EventService) RemovePartner(ctx context.Context, eventID, partnerID string) error {
	return s.events.RemovePartner(ctx, eventID, partnerID)
}

func (s *EventService) validate(ctx context.Context, input EventInput) error {
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.StartsAt.IsZero() {
		return fmt.Errorf("%w: starts_at is required", ErrValidation)
	}
	if input.EndsAt != nil && input.EndsAt.Before(input.StartsAt) {
		return fmt.Errorf("%w: ends_at precedes starts_at", ErrValidation)
	}
	if !input.Kind.Valid() {
		return fmt.Errorf("%w: unknown event kind %q", ErrValidation, input.Kind)
	}
	if !input.Scope.Valid() {
		return fmt.Errorf("%w: unknown event scope %q", ErrValidation, input.Scope)
	}
	if !input.Status.Valid() {
		return fmt.Errorf("%w: unknown event status %q", ErrValidation, input.Status)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, input.CategoryID)
	}
	if category.Kind != model.CategoryKindEvent {
		return fmt.Errorf("%w: category %q does not classify events", ErrValidation, category.Slug)
	}
	return nil
}
