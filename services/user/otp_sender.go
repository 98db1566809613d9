package user

import (
	"context"

	"maideasy/config"

	"go.uber.org/zap"
)

// OTPSender delivers a one-time code over SMS or email.
type OTPSender interface {
	SendOTP(ctx context.Context, channel, identifier, code string) error
}

// LogOTPSender writes codes to the log. The code itself is only logged
// outside production.
type LogOTPSender struct {
	Logger *zap.Logger
}

func (l LogOTPSender) SendOTP(_ context.Context, channel, identifier, code string) error {
	fields := []zap.Field{zap.String("channel", channel), zap.String("identifier", identifier)}
	if !config.IsProduction() {
		fields = append(fields, zap.String("code", code))
	}
	l.Logger.Info("OTP issued", fields...)
	return nil
}
