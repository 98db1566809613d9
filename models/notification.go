package models

import "time"

// Notification is a user-facing message delivered through the notifier.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

const (
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingReminder  = "booking_reminder"
	NotificationProviderArrived  = "maid_arrived"
	NotificationPayment          = "payment_confirmation"
)
