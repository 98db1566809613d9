package booking

import (
	"context"
	"errors"
	"fmt"

	"maideasy/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InitiateSession creates an empty booking session for the user.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, userID string) (*Session, error) {
	now := s.now()
	session := &Session{
		SessionID:     uuid.New().String(),
		UserID:        userID,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.Logger.Debug("booking session started", zap.String("session", session.SessionID), zap.String("user", userID))
	return session, nil
}

// GetSession loads a session owned by userID.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID, userID string) (*Session, error) {
	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionForbidden
	}
	return session, nil
}

// mutate loads the session, applies fn to its state and saves the result.
// A failed fn leaves the stored session untouched.
func (s *DefaultBookingSessionService) mutate(ctx context.Context, sessionID, userID string, fn func(*State) error) (*Session, error) {
	session, err := s.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	next := session.State
	if err := fn(&next); err != nil {
		return nil, err
	}
	session.State = next
	session.LastUpdatedAt = s.now()
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultBookingSessionService) SelectService(ctx context.Context, sessionID, userID, serviceID string) (*Session, error) {
	svc, err := s.Catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, userID, func(st *State) error {
		return st.SelectService(svc)
	})
}

func (s *DefaultBookingSessionService) SelectProvider(ctx context.Context, sessionID, userID, providerID string) (*Session, error) {
	p, err := s.Catalog.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, userID, func(st *State) error {
		return st.SelectProvider(p)
	})
}

// SetDateTime accepts only dates inside the booking window and offered slots.
func (s *DefaultBookingSessionService) SetDateTime(ctx context.Context, sessionID, userID, date, clock string) (*Session, error) {
	return s.mutate(ctx, sessionID, userID, func(st *State) error {
		if err := st.SetDateTime(date, clock); err != nil {
			return err
		}
		return ValidateSlot(s.now(), date, clock)
	})
}

func (s *DefaultBookingSessionService) SetAddress(ctx context.Context, sessionID, userID, address, notes string) (*Session, error) {
	return s.mutate(ctx, sessionID, userID, func(st *State) error {
		return st.SetAddress(address, notes)
	})
}

func (s *DefaultBookingSessionService) Quote(ctx context.Context, sessionID, userID string) (models.PaymentBreakdown, error) {
	session, err := s.GetSession(ctx, sessionID, userID)
	if err != nil {
		return models.PaymentBreakdown{}, err
	}
	return Quote(&session.State)
}

// CancelSession drops the session. Cancelling twice is not an error.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID, userID string) error {
	if _, err := s.GetSession(ctx, sessionID, userID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}
