package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maideasy/models"
	"maideasy/services/notification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// --- Interfaces ---
type PaymentHandler interface {
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error)
}

// IntentCreator opens a Stripe PaymentIntent.
type IntentCreator func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)

// --- PaymentHandler Implementation ---
type UnifiedPaymentHandler struct {
	logger   *zap.Logger
	notifier notification.Notifier

	// UseStripe routes card payments through Stripe; otherwise every
	// non-cash method is simulated.
	UseStripe    bool
	CreateIntent IntentCreator
	Now          func() time.Time
}

// --- NewPaymentHandler Constructor ---
func NewPaymentHandler(logger *zap.Logger, notifier notification.Notifier, useStripe bool) *UnifiedPaymentHandler {
	return &UnifiedPaymentHandler{
		logger:       logger,
		notifier:     notifier,
		UseStripe:    useStripe,
		CreateIntent: paymentintent.New,
		Now:          time.Now,
	}
}

// --- ProcessPayment Entry Point ---
func (h *UnifiedPaymentHandler) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	now := h.Now()
	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		UserID:    req.UserID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.Method,
		Status:    "pending",
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	switch {
	case req.Method == models.PaymentCOD:
		h.processCashPayment(inv)
	case req.Method == models.PaymentCard && h.UseStripe:
		err = h.processStripePayment(ctx, req, inv)
	default:
		h.processSimulatedPayment(inv)
	}
	if err != nil {
		return nil, err
	}

	h.notifyPayment(ctx, inv)
	return inv, nil
}

// --- Stripe Card Processing ---
func (h *UnifiedPaymentHandler) processStripePayment(ctx context.Context, req models.PaymentRequest, inv *models.Invoice) error {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(minorUnits(req.Amount)),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Idempotency != "" {
		params.SetIdempotencyKey(req.Idempotency)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := h.CreateIntent(params)
	if err != nil {
		h.logger.Error("Stripe payment intent failed", zap.String("invoice", inv.InvoiceID), zap.Error(err))
		return fmt.Errorf("failed to create payment intent: %w", err)
	}

	inv.PaymentID = intent.ID
	inv.Status = string(intent.Status)
	inv.UpdatedAt = h.Now()
	h.logger.Info("Stripe payment intent created", zap.String("invoice", inv.InvoiceID), zap.String("intent", intent.ID))
	return nil
}

// --- Simulated UPI / Card / Wallet Processing ---
func (h *UnifiedPaymentHandler) processSimulatedPayment(inv *models.Invoice) {
	inv.PaymentID = "pay_" + uuid.New().String()
	inv.Status = "paid"
	inv.UpdatedAt = h.Now()
	h.logger.Info("Payment successful", zap.String("invoice", inv.InvoiceID), zap.String("method", string(inv.Method)))
}

// --- Cash Payment Processing ---
func (h *UnifiedPaymentHandler) processCashPayment(inv *models.Invoice) {
	// Cash is collected at the door, so the invoice stays pending.
	inv.UpdatedAt = h.Now()
	h.logger.Info("Cash payment recorded", zap.String("invoice", inv.InvoiceID))
}

func (h *UnifiedPaymentHandler) notifyPayment(ctx context.Context, inv *models.Invoice) {
	if h.notifier == nil {
		return
	}
	n := models.Notification{
		ID:     uuid.New().String(),
		UserID: inv.UserID,
		Type:   models.NotificationPayment,
		Title:  "Payment update",
		Body:   fmt.Sprintf("Payment of %s %.2f via %s is %s.", inv.Currency, inv.Amount, inv.Method, inv.Status),
		Data: map[string]string{
			"invoiceId": inv.InvoiceID,
			"method":    string(inv.Method),
			"status":    inv.Status,
		},
		CreatedAt: h.Now(),
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.Warn("payment notification failed", zap.String("invoice", inv.InvoiceID), zap.Error(err))
	}
}

// --- Validator ---
func validateRequest(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.UserID == "" {
		return errors.New("missing user ID")
	}
	if !req.Method.Valid() {
		return ErrInvalidMethod
	}
	return nil
}

// minorUnits converts rupees to paise for Stripe.
func minorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}
