package model

import "time"

// Account is an API user. Superuser accounts may mutate catalog resources;
// everyone else gets read-only access.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}
