package model

import "time"

// Subscriber is a newsletter subscription. Unsubscribing flips Active off
// instead of deleting the row, so a later resubscribe keeps history.
type Subscriber struct {
	ID           string
	Email        string
	Name         string
	Active       bool
	SubscribedAt time.Time
	ConfirmedAt  *time.Time // Set on double opt-in confirmation.
}

// IsConfirmed reports whether the double opt-in confirmation happened.
func (s *Subscriber) IsConfirmed() bool {
	return s.ConfirmedAt != nil
}
