package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOTPNotFound = errors.New("OTP not found or expired")
	ErrOTPMismatch = errors.New("OTP does not match")
)

// GenerateNumericOTP returns a uniformly random string of length decimal digits.
func GenerateNumericOTP(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

func otpKey(identifier string) string {
	return OTPPrefix + identifier
}

// StoreOTP caches a bcrypt hash of code for identifier with OTPTTL. A newer
// code replaces any pending one.
func StoreOTP(ctx context.Context, client *redis.Client, identifier, code string) error {
	if client == nil {
		return fmt.Errorf("OTP cache client not initialized")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash OTP: %w", err)
	}
	if err := client.Set(ctx, otpKey(identifier), hash, OTPTTL).Err(); err != nil {
		GetLogger().Error("Failed to cache OTP", zap.Error(err))
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	return nil
}

// VerifyOTPRecord compares code against the pending record for identifier
// and deletes the record once it matches.
func VerifyOTPRecord(ctx context.Context, client *redis.Client, identifier, code string) error {
	if client == nil {
		return fmt.Errorf("OTP cache client not initialized")
	}

	stored, err := client.Get(ctx, otpKey(identifier)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(stored, []byte(code)); err != nil {
		return ErrOTPMismatch
	}

	if err := client.Del(ctx, otpKey(identifier)).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}
