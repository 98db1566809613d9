package user

import (
	"context"
	"io"
	"time"

	userRepo "maideasy/database/repository/user"
	"maideasy/models"
	"maideasy/services/storage"
	"maideasy/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type UserService interface {
	// Authentication
	SendOTP(ctx context.Context, identifier, channel string) (string, error)
	VerifyOTP(ctx context.Context, identifier, channel, code string) (*AuthResponse, error)
	ValidateSession(ctx context.Context, token string) (*utils.AuthSession, error)
	SignOut(ctx context.Context, token string) error

	// Profile
	GetUser(ctx context.Context, userID string) (*models.User, error)
	CompleteProfile(ctx context.Context, userID string, input ProfileInput) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error)
	UploadAvatar(ctx context.Context, userID string, file io.Reader) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository

	// OTPCache holds pending codes, AuthCache holds auth sessions and cached
	// profiles.
	OTPCache  *redis.Client
	AuthCache *redis.Client

	Storage storage.StorageService
	Sender  OTPSender

	// DemoMode accepts DemoOTP for every identifier.
	DemoMode bool
	Logger   *zap.Logger
	Now      func() time.Time
}

// AuthResponse is returned by a successful OTP verification.
type AuthResponse struct {
	ID        string       `json:"id"`
	Token     string       `json:"token"`
	IsNewUser bool         `json:"isNewUser"`
	User      *models.User `json:"user"`
}

// ProfileInput is the payload of the profile completion step.
type ProfileInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	Pincode string `json:"pincode"`
}

func (s *DefaultUserService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultUserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
