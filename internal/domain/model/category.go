package model

import "time"

// Category classifies events or collections ("Cosplay Contest",
// "Themed Exhibition", "Workshop", ...).
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Kind        CategoryKind
	CreatedAt   time.Time
}
