package user

import (
	"context"
	"errors"
	"fmt"

	userRepo "maideasy/database/repository/user"
	"maideasy/models"
	"maideasy/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DemoOTP is accepted for every identifier when demo mode is enabled.
const DemoOTP = "000000"

const (
	sessionStatusVerified = "otp_verified"
	sessionStatusComplete = "complete"
)

// SendOTP issues a fresh code for identifier and returns the normalised
// identifier the client should verify against.
func (s *DefaultUserService) SendOTP(ctx context.Context, identifier, channel string) (string, error) {
	id, err := NormalizeIdentifier(identifier, channel)
	if err != nil {
		return "", err
	}

	code, err := utils.GenerateNumericOTP(utils.OTPLength)
	if err != nil {
		s.logger().Error("Failed to generate OTP", zap.Error(err))
		return "", fmt.Errorf("failed to send OTP")
	}
	if err := utils.StoreOTP(ctx, s.OTPCache, id, code); err != nil {
		return "", err
	}
	if err := s.Sender.SendOTP(ctx, channel, id, code); err != nil {
		s.logger().Error("Failed to deliver OTP", zap.String("channel", channel), zap.Error(err))
		return "", fmt.Errorf("failed to send OTP")
	}
	return id, nil
}

// VerifyOTP checks code, creates the account on first sign-in and opens an
// auth session.
func (s *DefaultUserService) VerifyOTP(ctx context.Context, identifier, channel, code string) (*AuthResponse, error) {
	id, err := NormalizeIdentifier(identifier, channel)
	if err != nil {
		return nil, err
	}
	if err := s.checkCode(ctx, id, code); err != nil {
		return nil, err
	}

	user, isNew, err := s.findOrCreate(ctx, id, channel)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, id, utils.AuthTokenTTL)
	if err != nil {
		s.logger().Error("Failed to generate auth token", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	status := sessionStatusVerified
	if user.IsProfileComplete() {
		status = sessionStatusComplete
	}
	session := utils.AuthSession{
		UserID:     user.ID,
		Identifier: id,
		Channel:    channel,
		Status:     status,
		TokenHash:  utils.HashToken(token),
		CreatedAt:  s.now(),
	}
	if err := utils.SaveAuthSession(ctx, s.AuthCache, session.TokenHash, session, utils.AuthTokenTTL); err != nil {
		s.logger().Error("Failed to save auth session", zap.String("userID", user.ID), zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	s.cacheProfile(ctx, user)

	s.logger().Info("User signed in", zap.String("userID", user.ID), zap.Bool("newUser", isNew))
	return &AuthResponse{ID: user.ID, Token: token, IsNewUser: isNew, User: user}, nil
}

func (s *DefaultUserService) checkCode(ctx context.Context, identifier, code string) error {
	if s.DemoMode && code == DemoOTP {
		return nil
	}
	err := utils.VerifyOTPRecord(ctx, s.OTPCache, identifier, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, utils.ErrOTPNotFound):
		return ErrOTPExpired
	case errors.Is(err, utils.ErrOTPMismatch):
		return ErrInvalidOTP
	default:
		return err
	}
}

func (s *DefaultUserService) findOrCreate(ctx context.Context, identifier, channel string) (*models.User, bool, error) {
	var (
		existing *models.User
		err      error
	)
	if channel == ChannelPhone {
		existing, err = s.Repo.GetByPhone(ctx, identifier)
	} else {
		existing, err = s.Repo.GetByEmail(ctx, identifier)
	}
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, userRepo.ErrNotFound) {
		s.logger().Error("Failed to look up user", zap.Error(err))
		return nil, false, fmt.Errorf("authentication failed, please try again")
	}

	user := &models.User{
		ID:         uuid.New().String(),
		Role:       "customer",
		IsVerified: true,
	}
	if channel == ChannelPhone {
		user.Phone = identifier
	} else {
		user.Email = identifier
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		s.logger().Error("Failed to create user", zap.Error(err))
		return nil, false, fmt.Errorf("authentication failed, please try again")
	}
	return user, true, nil
}

// ValidateSession resolves a bearer token to its live auth session.
func (s *DefaultUserService) ValidateSession(ctx context.Context, token string) (*utils.AuthSession, error) {
	subject, err := utils.ExtractIDFromToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	session, err := utils.GetAuthSession(ctx, s.AuthCache, utils.HashToken(token))
	if err != nil {
		if errors.Is(err, utils.ErrAuthSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if session.UserID != subject {
		return nil, ErrInvalidSession
	}
	return session, nil
}

// SignOut revokes the session behind token and drops the cached profile.
// Signing out twice is not an error.
func (s *DefaultUserService) SignOut(ctx context.Context, token string) error {
	hash := utils.HashToken(token)
	session, err := utils.GetAuthSession(ctx, s.AuthCache, hash)
	if err != nil {
		if errors.Is(err, utils.ErrAuthSessionNotFound) {
			return nil
		}
		return err
	}
	if err := utils.DeleteAuthSession(ctx, s.AuthCache, hash); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	if err := s.AuthCache.Del(ctx, profileKey(session.UserID)).Err(); err != nil {
		s.logger().Warn("Failed to clear cached profile", zap.String("userID", session.UserID), zap.Error(err))
	}
	return nil
}
