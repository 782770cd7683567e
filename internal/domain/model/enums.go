package model

// CategoryKind says whether a category classifies events or collections.
type CategoryKind string

const (
	CategoryKindEvent      CategoryKind = "event"
	CategoryKindCollection CategoryKind = "collection"
)

// EventKind represents the type of a covered event.
type EventKind string

const (
	EventKindContest    EventKind = "contest"
	EventKindExhibition EventKind = "exhibition"
	EventKindWorkshop   EventKind = "workshop"
	EventKindCoverage   EventKind = "coverage"
)

// EventScope represents the reach of an event.
type EventScope string

const (
	EventScopeNational      EventScope = "national"
	EventScopeInternational EventScope = "international"
)

// EventStatus represents the publication state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

// PartnerKind represents the type of partnership.
type PartnerKind string

const (
	PartnerKindSponsor       PartnerKind = "sponsor"
	PartnerKindSupport       PartnerKind = "support"
	PartnerKindMedia         PartnerKind = "media"
	PartnerKindInstitutional PartnerKind = "institutional"
)

// CollectionKind distinguishes the three kinds of photo collections.
type CollectionKind string

const (
	CollectionKindCosplayer CollectionKind = "cosplayer" // Individual photo shoot.
	CollectionKindEvent     CollectionKind = "event"     // Event coverage.
	CollectionKindThemed    CollectionKind = "themed"    // Cross-event theme.
)

// MediaKind represents the type of a media file.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Valid reports whether the value is one of the known category kinds.
func (k CategoryKind) Valid() bool {
	return k == CategoryKindEvent || k == CategoryKindCollection
}

// Valid reports whether the value is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventKindContest, EventKindExhibition, EventKindWorkshop, EventKindCoverage:
		return true
	}
	return false
}

// Valid reports whether the value is one of the known event scopes.
func (s EventScope) Valid() bool {
	return s == EventScopeNational || s == EventScopeInternational
}

// Valid reports whether the value is one of the known event statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusArchived:
		return true
	}
	return false
}

// Valid reports whether the value is one of the known partner kinds.
func (k PartnerKind) Valid() bool {
	switch k {
	case PartnerKindSponsor, PartnerKindSupport, PartnerKindMedia, PartnerKindInstitutional:
		return true
	}
	return false
}

// Valid reports whether the value is one of the known collection kinds.
func (k CollectionKind) Valid() bool {
	switch k {
	case CollectionKindCosplayer, CollectionKindEvent, CollectionKindThemed:
		return true
	}
	return false
}

// Valid reports whether the value is one of the known media kinds.
func (k MediaKind) Valid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}
