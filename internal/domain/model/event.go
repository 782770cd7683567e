package model

import "time"

// Event is an event covered by the archive: a contest, exhibition, workshop
// or external coverage.
type Event struct {
	ID            string
	Title         string
	Slug          string
	Description   string
	StartsAt      time.Time
	EndsAt        *time.Time // nil for single-day events
	Venue         string
	CategoryID    string
	Kind          EventKind
	Scope         EventScope
	Status        EventStatus
	CoverImageURL string
	Featured      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsUpcoming reports whether the event starts after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}

// DaysUntil returns the number of whole days between now and the event start.
// Negative when the event has already started.
func (e *Event) DaysUntil(now time.Time) int {
	return int(e.StartsAt.Sub(now).Hours() / 24)
}

// EventPartner links a partner to an event with an optional sponsorship note
// ("gold sponsor", "media support", ...).
type EventPartner struct {
	EventID   string
	PartnerID string
	Note      string
}
