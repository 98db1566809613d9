package models

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking represents a submitted booking record.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	UserID        string        `bson:"user_id" json:"user_id"`
	ServiceID     string        `bson:"service_id" json:"service_id"`
	ServiceName   string        `bson:"service_name" json:"service_name"`
	ProviderID    string        `bson:"maid_id,omitempty" json:"maid_id,omitempty"`
	ProviderName  string        `bson:"maid_name,omitempty" json:"maid_name,omitempty"`
	Date          string        `bson:"booking_date" json:"booking_date"` // YYYY-MM-DD
	Time          string        `bson:"booking_time" json:"booking_time"` // HH:MM
	Duration      int           `bson:"duration" json:"duration"`         // minutes
	Address       string        `bson:"address" json:"address"`
	Notes         string        `bson:"notes" json:"notes"`
	TotalPrice    float64       `bson:"total_price" json:"total_price"`
	PaymentMethod PaymentMethod `bson:"payment_method" json:"payment_method"`
	Status        BookingStatus `bson:"status" json:"status"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// BookingReceipt is what the client needs for the success screen.
type BookingReceipt struct {
	BookingID     string           `json:"bookingId"`
	Status        BookingStatus    `json:"status"`
	Placeholder   bool             `json:"placeholder,omitempty"`
	ServiceName   string           `json:"serviceName"`
	ProviderName  string           `json:"maidName"`
	Date          string           `json:"bookingDate"`
	Time          string           `json:"bookingTime"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	Breakdown     PaymentBreakdown `json:"breakdown"`
	Invoice       *Invoice         `json:"invoice,omitempty"`
}
