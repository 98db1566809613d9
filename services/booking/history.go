package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "maideasy/database/repository/booking"
	"maideasy/models"

	"go.uber.org/zap"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("booking cannot move to that status")
)

// allowedTransitions lists the statuses each status may move to.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:    {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed:  {models.BookingStatusInProgress, models.BookingStatusCancelled},
	models.BookingStatusInProgress: {models.BookingStatusCompleted},
}

func canTransition(from, to models.BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *DefaultBookingSessionService) ListUserBookings(ctx context.Context, userID string, statuses []models.BookingStatus) ([]models.Booking, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, invalid("status", ErrInvalidStatus)
		}
	}
	bookings, err := s.Bookings.ListByUser(ctx, userID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking returns a booking owned by userID.
func (s *DefaultBookingSessionService) GetBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	if IsPlaceholderID(bookingID) {
		return s.getPlaceholder(ctx, bookingID, userID)
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *DefaultBookingSessionService) getPlaceholder(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	b, err := s.Sessions.LoadPlaceholder(ctx, bookingID)
	if errors.Is(err, ErrBookingNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// UpdateStatus moves a booking along its lifecycle. Completed and cancelled
// bookings are final.
func (s *DefaultBookingSessionService) UpdateStatus(ctx context.Context, bookingID, userID string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, invalid("status", ErrInvalidStatus)
	}
	b, err := s.GetBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if b.Status == status {
		return b, nil
	}
	if IsPlaceholderID(bookingID) {
		return nil, fmt.Errorf("%w: placeholder bookings cannot change status", ErrInvalidTransition)
	}
	if !canTransition(b.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, b.Status, status)
	}
	if err := s.Bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	b.Status = status
	b.UpdatedAt = s.now()
	s.Logger.Info("booking status updated", zap.String("booking", bookingID), zap.String("status", string(status)))

	if status == models.BookingStatusCancelled || status == models.BookingStatusCompleted {
		s.cancelReminder(ctx, bookingID)
	}
	return b, nil
}

func (s *DefaultBookingSessionService) cancelReminder(ctx context.Context, bookingID string) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.CancelReminder(ctx, bookingID); err != nil {
		s.Logger.Warn("failed to cancel reminder", zap.String("booking", bookingID), zap.Error(err))
	}
}
