package model

import "time"

// Collection is a photo or video collection produced by the team. It may be
// tied to an event (coverage), to a cosplayer (photo shoot), or stand alone
// as a themed collection.
type Collection struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Kind        CollectionKind
	ProducedOn  *time.Time // Date the shoot happened, optional.
	Featured    bool
	EventID     string // Optional link, empty when not event coverage.
	CosplayerID string // Optional link, empty when not an individual shoot.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CollectionMedia is the pivot between collections and media files. Position
// drives display order inside the collection.
type CollectionMedia struct {
	CollectionID string
	MediaID      string
	Position     int
	ContextNote  string
	CreatedAt    time.Time
}
