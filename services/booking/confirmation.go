package booking

import (
	"context"
	"fmt"
	"strings"

	"maideasy/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const placeholderPrefix = "demo_"

// IsPlaceholderID reports whether id was issued without a stored booking.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

// ConfirmBooking submits the session's booking, takes payment and resets
// the session. Cash bookings are confirmed on the spot; every other method
// leaves the booking pending. Only one submission per session runs at a
// time.
func (s *DefaultBookingSessionService) ConfirmBooking(ctx context.Context, sessionID, userID string, method models.PaymentMethod) (*models.BookingReceipt, error) {
	if !method.Valid() {
		return nil, invalid("paymentMethod", ErrInvalidMethod)
	}
	token, ok, err := s.Sessions.Claim(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmissionInProgress
	}
	defer func() {
		if err := s.Sessions.Release(ctx, sessionID, token); err != nil {
			s.Logger.Warn("failed to release booking session", zap.String("session", sessionID), zap.Error(err))
		}
	}()

	session, err := s.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	st := session.State
	if err := st.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteBooking, err)
	}
	breakdown, err := Quote(&st)
	if err != nil {
		return nil, err
	}

	status := models.BookingStatusPending
	if method == models.PaymentCOD {
		status = models.BookingStatusConfirmed
	}
	now := s.now()
	b := models.Booking{
		ID:            uuid.New().String(),
		UserID:        userID,
		ServiceID:     st.Service.ID,
		ServiceName:   st.Service.Name,
		ProviderID:    st.Provider.ID,
		ProviderName:  st.Provider.Name,
		Date:          st.Date,
		Time:          st.Time,
		Duration:      st.DurationMinutes,
		Address:       st.Address,
		Notes:         st.Notes,
		TotalPrice:    breakdown.Total,
		PaymentMethod: method,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	receipt := &models.BookingReceipt{
		Status:        status,
		ServiceName:   b.ServiceName,
		ProviderName:  b.ProviderName,
		Date:          b.Date,
		Time:          b.Time,
		PaymentMethod: method,
		Breakdown:     breakdown,
	}

	if err := s.Bookings.Create(ctx, &b); err != nil {
		if !s.OptimisticSuccess {
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
		s.Logger.Warn("booking submission failed, issuing placeholder", zap.String("session", sessionID), zap.Error(err))
		receipt.BookingID = s.issuePlaceholder(ctx, b)
		receipt.Placeholder = true
	} else {
		receipt.BookingID = b.ID
		invoice, err := s.Payments.ProcessPayment(ctx, models.PaymentRequest{
			UserID:      userID,
			Amount:      breakdown.Total,
			Method:      method,
			Currency:    s.currency(),
			Idempotency: sessionID,
			Metadata:    map[string]string{"bookingId": b.ID},
			Description: fmt.Sprintf("%s with %s on %s %s", b.ServiceName, b.ProviderName, b.Date, b.Time),
		})
		if err != nil {
			if uerr := s.Bookings.UpdateStatus(ctx, b.ID, models.BookingStatusCancelled); uerr != nil {
				s.Logger.Error("failed to cancel unpaid booking", zap.String("booking", b.ID), zap.Error(uerr))
			}
			return nil, fmt.Errorf("payment failed: %w", err)
		}
		receipt.Invoice = invoice
		s.scheduleReminder(ctx, b)
	}

	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to clear booking session", zap.String("session", sessionID), zap.Error(err))
	}
	s.notifyConfirmed(ctx, userID, receipt)

	s.Logger.Info("booking submitted",
		zap.String("booking", receipt.BookingID),
		zap.String("user", userID),
		zap.String("status", string(status)),
		zap.Bool("placeholder", receipt.Placeholder),
	)
	return receipt, nil
}

// issuePlaceholder records b under a fresh demo_<unix ms> id so the owner can
// still look it up and track it.
func (s *DefaultBookingSessionService) issuePlaceholder(ctx context.Context, b models.Booking) string {
	base := b.CreatedAt.UnixMilli()
	var id string
	for i := int64(0); i < 3; i++ {
		id = fmt.Sprintf("%s%d", placeholderPrefix, base+i)
		b.ID = id
		ok, err := s.Sessions.SavePlaceholder(ctx, &b)
		if err != nil {
			s.Logger.Warn("failed to record placeholder booking", zap.String("booking", id), zap.Error(err))
			return id
		}
		if ok {
			return id
		}
	}
	s.Logger.Warn("placeholder ids exhausted", zap.String("booking", id))
	return id
}

func (s *DefaultBookingSessionService) currency() string {
	if s.Currency == "" {
		return "inr"
	}
	return s.Currency
}

func (s *DefaultBookingSessionService) scheduleReminder(ctx context.Context, b models.Booking) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.ScheduleReminder(ctx, b); err != nil {
		s.Logger.Warn("failed to schedule reminder", zap.String("booking", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingSessionService) notifyConfirmed(ctx context.Context, userID string, r *models.BookingReceipt) {
	if s.Notifier == nil {
		return
	}
	n := models.Notification{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   models.NotificationBookingConfirmed,
		Title:  "Booking placed",
		Body:   fmt.Sprintf("%s with %s on %s at %s.", r.ServiceName, r.ProviderName, r.Date, r.Time),
		Data: map[string]string{
			"bookingId": r.BookingID,
			"status":    string(r.Status),
		},
		CreatedAt: s.now(),
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		s.Logger.Warn("booking notification failed", zap.String("booking", r.BookingID), zap.Error(err))
	}
}
