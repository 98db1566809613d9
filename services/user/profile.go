package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	userRepo "maideasy/database/repository/user"
	"maideasy/models"
	"maideasy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const minNameLength = 2

func profileKey(userID string) string {
	return utils.AuthCachePrefix + userID
}

// GetUser returns the profile, served from the auth cache when present.
func (s *DefaultUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if data, err := s.AuthCache.Get(ctx, profileKey(userID)).Bytes(); err == nil {
		var cached models.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		s.logger().Warn("Discarding unreadable cached profile", zap.String("userID", userID))
	}
	return s.refresh(ctx, userID)
}

// CompleteProfile fills in the fields a new account is created without.
func (s *DefaultUserService) CompleteProfile(ctx context.Context, userID string, input ProfileInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, ErrInvalidName
	}
	phone, err := NormalizeIdentifier(input.Phone, ChannelPhone)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, fmt.Errorf("%w: address", ErrMissingField)
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, fmt.Errorf("%w: city", ErrMissingField)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == "" && strings.TrimSpace(input.Email) != "" {
		email, err := NormalizeIdentifier(input.Email, ChannelEmail)
		if err != nil {
			return nil, err
		}
		if err := s.ensureUnclaimed(ctx, userID, ChannelEmail, email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if err := s.ensureUnclaimed(ctx, userID, ChannelPhone, phone); err != nil {
		return nil, err
	}

	user.Name = name
	user.Phone = phone
	user.Address = address
	user.City = city
	user.Pincode = strings.TrimSpace(input.Pincode)
	if err := s.Repo.Update(ctx, user); err != nil {
		s.logger().Error("Failed to save profile", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	s.cacheProfile(ctx, user)
	return user, nil
}

// UpdateUser applies the non-nil fields of update.
func (s *DefaultUserService) UpdateUser(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	fields := bson.M{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if utf8.RuneCountInString(name) < minNameLength {
			return nil, ErrInvalidName
		}
		fields["name"] = name
	}
	if update.Phone != nil {
		phone, err := NormalizeIdentifier(*update.Phone, ChannelPhone)
		if err != nil {
			return nil, err
		}
		if err := s.ensureUnclaimed(ctx, userID, ChannelPhone, phone); err != nil {
			return nil, err
		}
		fields["phone"] = phone
	}
	if update.Email != nil {
		email, err := NormalizeIdentifier(*update.Email, ChannelEmail)
		if err != nil {
			return nil, err
		}
		if err := s.ensureUnclaimed(ctx, userID, ChannelEmail, email); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if update.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*update.AvatarURL)
	}
	if update.Address != nil {
		fields["address"] = strings.TrimSpace(*update.Address)
	}
	if update.City != nil {
		fields["city"] = strings.TrimSpace(*update.City)
	}
	if update.Pincode != nil {
		fields["pincode"] = strings.TrimSpace(*update.Pincode)
	}
	if update.FCMToken != nil {
		fields["fcm_token"] = *update.FCMToken
	}
	if len(fields) == 0 {
		return s.GetUser(ctx, userID)
	}
	return s.patch(ctx, userID, fields)
}

// UploadAvatar stores the picture and records its URL on the profile.
func (s *DefaultUserService) UploadAvatar(ctx context.Context, userID string, file io.Reader) (*models.User, error) {
	if s.Storage == nil {
		return nil, fmt.Errorf("media storage is not configured")
	}
	url, err := s.Storage.UploadAvatar(ctx, userID, file)
	if err != nil {
		return nil, err
	}
	return s.patch(ctx, userID, bson.M{"avatar_url": url})
}

func (s *DefaultUserService) patch(ctx context.Context, userID string, fields bson.M) (*models.User, error) {
	if err := s.Repo.UpdateSetDocument(ctx, userID, fields); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger().Error("Failed to update user", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.refresh(ctx, userID)
}

func (s *DefaultUserService) ensureUnclaimed(ctx context.Context, userID, channel, identifier string) error {
	var (
		other *models.User
		err   error
	)
	if channel == ChannelPhone {
		other, err = s.Repo.GetByPhone(ctx, identifier)
	} else {
		other, err = s.Repo.GetByEmail(ctx, identifier)
	}
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", channel, err)
	}
	if other.ID != userID {
		return ErrIdentifierInUse
	}
	return nil
}

func (s *DefaultUserService) load(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *DefaultUserService) refresh(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, user)
	return user, nil
}

func (s *DefaultUserService) cacheProfile(ctx context.Context, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger().Warn("Failed to encode profile for cache", zap.Error(err))
		return
	}
	if err := s.AuthCache.Set(ctx, profileKey(user.ID), data, utils.AuthCacheTTL).Err(); err != nil {
		s.logger().Warn("Failed to cache profile", zap.String("userID", user.ID), zap.Error(err))
	}
}
