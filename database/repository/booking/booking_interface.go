package bookingRepo

import (
	"context"
	"errors"

	"maideasy/models"
)

var ErrNotFound = errors.New("booking not found")

// BookingRepository defines methods for submitted bookings.
type BookingRepository interface {
	// Create inserts a booking record.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListByUser returns a user's bookings, newest first. An empty status
	// list returns every booking.
	ListByUser(ctx context.Context, userID string, statuses []models.BookingStatus) ([]models.Booking, error)
	// UpdateStatus moves a booking to a new status.
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
}
