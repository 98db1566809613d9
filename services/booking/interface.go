package booking

import (
	"context"
	"time"

	bookingRepo "maideasy/database/repository/booking"
	"maideasy/models"
	"maideasy/services/notification"

	"go.uber.org/zap"
)

// BookingSessionService walks a customer through building and submitting
// a booking. Sessions are scoped to the user that started them.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, userID string) (*Session, error)
	GetSession(ctx context.Context, sessionID, userID string) (*Session, error)
	SelectService(ctx context.Context, sessionID, userID, serviceID string) (*Session, error)
	SelectProvider(ctx context.Context, sessionID, userID, providerID string) (*Session, error)
	SetDateTime(ctx context.Context, sessionID, userID, date, clock string) (*Session, error)
	SetAddress(ctx context.Context, sessionID, userID, address, notes string) (*Session, error)
	Quote(ctx context.Context, sessionID, userID string) (models.PaymentBreakdown, error)
	ConfirmBooking(ctx context.Context, sessionID, userID string, method models.PaymentMethod) (*models.BookingReceipt, error)
	CancelSession(ctx context.Context, sessionID, userID string) error
}

// BookingHistoryService serves submitted bookings.
type BookingHistoryService interface {
	ListUserBookings(ctx context.Context, userID string, statuses []models.BookingStatus) ([]models.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, userID string, status models.BookingStatus) (*models.Booking, error)
}

// Catalog is the read side of the service and maid listings.
type Catalog interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
}

// ReminderScheduler queues the pre-booking reminder and withdraws it when
// the booking ends early.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b models.Booking) error
	CancelReminder(ctx context.Context, bookingID string) error
}

// DefaultBookingSessionService implements BookingSessionService and
// BookingHistoryService.
type DefaultBookingSessionService struct {
	Sessions  SessionStore
	Catalog   Catalog
	Bookings  bookingRepo.BookingRepository
	Payments  PaymentHandler
	Notifier  notification.Notifier
	Reminders ReminderScheduler
	Logger    *zap.Logger

	// OptimisticSuccess keeps the customer flow moving when the booking
	// record cannot be written: the receipt carries a placeholder id.
	OptimisticSuccess bool
	Currency          string
	Now               func() time.Time
}

func (s *DefaultBookingSessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
