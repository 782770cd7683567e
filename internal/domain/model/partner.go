package model

import "time"

// Partner is a sponsor, supporter or media partner credited on events.
// Inactive partners stay in the archive but are hidden from public listings.
type Partner struct {
	ID          string
	Name        string
	Kind        PartnerKind
	LogoURL     string
	Website     string
	Description string
	Active      bool
	CreatedAt   time.Time
}
