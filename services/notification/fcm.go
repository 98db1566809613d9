package notification

import (
	"context"
	"fmt"

	"maideasy/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Sender is the subset of *messaging.Client used for pushes.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier pushes notifications to the user's device through Firebase.
type FCMNotifier struct {
	Client Sender
	Users  UserLookup
	Logger *zap.Logger
}

func NewFCMNotifier(client Sender, users UserLookup, logger *zap.Logger) *FCMNotifier {
	return &FCMNotifier{Client: client, Users: users, Logger: logger}
}

func (f *FCMNotifier) Notify(ctx context.Context, n models.Notification) error {
	u, err := f.Users.GetByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("could not find user %s: %w", n.UserID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("user %s: %w", n.UserID, ErrNoDeviceToken)
	}

	msg := buildMessage(u.FCMToken, n)
	response, err := f.Client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	f.Logger.Debug("push sent", zap.String("user", n.UserID), zap.String("type", n.Type), zap.String("response", response))
	return nil
}

func buildMessage(token string, n models.Notification) *messaging.Message {
	data := map[string]string{"type": n.Type}
	for k, v := range n.Data {
		data[k] = v
	}
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}
