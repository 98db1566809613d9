package notification

import (
	"context"

	"maideasy/models"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log. Used when push delivery is
// not configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(_ context.Context, n models.Notification) error {
	l.Logger.Info("notification",
		zap.String("user", n.UserID),
		zap.String("type", n.Type),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	)
	return nil
}
