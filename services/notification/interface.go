package notification

import (
	"context"
	"errors"

	"maideasy/models"
)

var ErrNoDeviceToken = errors.New("user has no registered device")

// Notifier delivers a user-facing notification. Callers treat delivery as
// fire-and-forget: a failure is logged, never propagated into the flow that
// triggered it.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// UserLookup resolves the device token for a user.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}
