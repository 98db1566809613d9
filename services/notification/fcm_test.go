package notification

import (
	"context"
	"errors"
	"testing"

	"maideasy/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/test/messages/1", nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func TestFCMNotifier_SendsToDeviceToken(t *testing.T) {
	sender := &fakeSender{}
	n := NewFCMNotifier(sender, fakeUsers{"u1": {ID: "u1", FCMToken: "tok-1"}}, zap.NewNop())

	err := n.Notify(context.Background(), models.Notification{
		UserID: "u1",
		Type:   models.NotificationProviderArrived,
		Title:  "Maid has arrived",
		Body:   "Your maid is at the door",
		Data:   map[string]string{"bookingId": "b1"},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "tok-1", msg.Token)
	assert.Equal(t, "Maid has arrived", msg.Notification.Title)
	assert.Equal(t, models.NotificationProviderArrived, msg.Data["type"])
	assert.Equal(t, "b1", msg.Data["bookingId"])
}

func TestFCMNotifier_NoToken(t *testing.T) {
	sender := &fakeSender{}
	n := NewFCMNotifier(sender, fakeUsers{"u1": {ID: "u1"}}, zap.NewNop())

	err := n.Notify(context.Background(), models.Notification{UserID: "u1"})
	assert.ErrorIs(t, err, ErrNoDeviceToken)
	assert.Empty(t, sender.sent)
}

func TestFCMNotifier_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("unavailable")}
	n := NewFCMNotifier(sender, fakeUsers{"u1": {ID: "u1", FCMToken: "tok"}}, zap.NewNop())

	err := n.Notify(context.Background(), models.Notification{UserID: "u1"})
	assert.Error(t, err)
}
