package driven

import (
	"context"
	"errors"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// Sentinel errors returned by SubscriberStore implementations.
var (
	ErrSubscriberNotFound = errors.New("subscriber not found")

	// ErrAlreadySubscribed indicates an active subscription already exists
	// for the email.
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

// SubscriberStore defines the driven port for newsletter subscriptions.
// Create returns ErrAlreadySubscribed for an email with an active
// subscription; resubscribing a deactivated email reactivates it in place.
type SubscriberStore interface {
	Create(ctx context.Context, subscriber model.Subscriber) error
	GetByEmail(ctx context.Context, email string) (*model.Subscriber, error)
	Confirm(ctx context.Context, email string) error
	Deactivate(ctx context.Context, email string) error
	ListAll(ctx context.Context, activeOnly bool) ([]model.Subscriber, error)
}
