package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "maideasy/database/repository/booking"
	"maideasy/models"
	"maideasy/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeSendReminder = "reminder:send"
	DefaultQueue     = "default"
)

// ReminderTaskID is the queue id of a booking's reminder. One booking has at
// most one reminder queued.
func ReminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.BookingID)),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// Enqueuer is the subset of *asynq.Client used to queue reminders.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskDeleter is the subset of *asynq.Inspector used to withdraw reminders.
type TaskDeleter interface {
	DeleteTask(queue, id string) error
}

// BookingLookup reads the current booking when a reminder fires.
type BookingLookup interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// ReminderScheduler queues a push reminder ahead of each booking.
type ReminderScheduler struct {
	Client   Enqueuer
	Queue    string
	Lead     time.Duration
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger

	// Tasks withdraws queued reminders. Without it CancelReminder is a no-op.
	Tasks TaskDeleter
}

func NewReminderScheduler(client Enqueuer, lead time.Duration, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		Client:   client,
		Queue:    DefaultQueue,
		Lead:     lead,
		Location: time.Local,
		Now:      time.Now,
		Logger:   logger,
	}
}

// ScheduleReminder queues the reminder Lead before the booking starts. A
// booking that already started gets none; one starting within Lead is
// reminded right away.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, b models.Booking) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.Time, s.Location)
	if err != nil {
		return fmt.Errorf("invalid booking start: %w", err)
	}
	now := s.Now()
	if !start.After(now) {
		return nil
	}
	fireAt := start.Add(-s.Lead)
	if fireAt.Before(now) {
		fireAt = now
	}

	payload := models.ReminderPayload{
		UserID:    b.UserID,
		BookingID: b.ID,
		Title:     "Upcoming booking",
		Body:      fmt.Sprintf("%s with %s starts at %s.", b.ServiceName, b.ProviderName, b.Time),
		FireDate:  fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	s.Logger.Debug("reminder queued", zap.String("booking", b.ID), zap.String("task", info.ID), zap.Time("fireAt", fireAt))
	return nil
}

// CancelReminder removes the booking's queued reminder. A reminder that was
// never queued, or already ran, is not an error.
func (s *ReminderScheduler) CancelReminder(_ context.Context, bookingID string) error {
	if s.Tasks == nil {
		return nil
	}
	queue := s.Queue
	if queue == "" {
		queue = DefaultQueue
	}
	err := s.Tasks.DeleteTask(queue, ReminderTaskID(bookingID))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	s.Logger.Debug("reminder withdrawn", zap.String("booking", bookingID))
	return nil
}

// HandleReminderTask delivers a queued reminder through the notifier. When
// bookings is set, reminders for bookings that no longer exist or have
// ended are dropped.
func HandleReminderTask(notifier notification.Notifier, bookings BookingLookup, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		if bookings != nil {
			b, err := bookings.GetByID(ctx, p.BookingID)
			if errors.Is(err, bookingRepo.ErrNotFound) {
				logger.Info("dropping reminder for missing booking", zap.String("booking", p.BookingID))
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load booking for reminder: %w", err)
			}
			if b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusCompleted {
				logger.Info("dropping reminder for ended booking",
					zap.String("booking", p.BookingID),
					zap.String("status", string(b.Status)),
				)
				return nil
			}
		}

		logger.Info("sending booking reminder", zap.String("user", p.UserID), zap.String("booking", p.BookingID))
		err := notifier.Notify(ctx, models.Notification{
			UserID: p.UserID,
			Type:   models.NotificationBookingReminder,
			Title:  p.Title,
			Body:   p.Body,
			Data: map[string]string{
				"bookingId": p.BookingID,
				"fireDate":  p.FireDate,
			},
			CreatedAt: time.Now(),
		})
		if err != nil {
			logger.Warn("reminder delivery failed", zap.String("booking", p.BookingID), zap.Error(err))
		}
		return err
	}
}
