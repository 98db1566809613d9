package models

import "time"

type PaymentMethod string

const (
	PaymentUPI    PaymentMethod = "upi"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
	PaymentCOD    PaymentMethod = "cod"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCard, PaymentWallet, PaymentCOD:
		return true
	}
	return false
}

// PaymentBreakdown is the itemised amount shown on the payment screen.
type PaymentBreakdown struct {
	ServicePrice float64 `json:"servicePrice"`
	ProviderCost float64 `json:"maidCost"`
	ServiceFee   float64 `json:"serviceFee"`
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

// --- PaymentRequest & Invoice ---
type PaymentRequest struct {
	UserID      string
	Amount      float64
	Method      PaymentMethod
	Currency    string
	Idempotency string
	Metadata    map[string]string
	Description string
}

type Invoice struct {
	InvoiceID string        `json:"invoiceId"`
	UserID    string        `json:"userId"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency"`
	Status    string        `json:"status"`
	Method    PaymentMethod `json:"method"`
	PaymentID string        `json:"paymentId,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
