package booking

import (
	"maideasy/models"

	"github.com/shopspring/decimal"
)

const (
	// ServiceFee is the flat platform fee added to every booking.
	ServiceFee = 10
	// defaultBillableMinutes applies when neither the booking nor the
	// service carries a duration.
	defaultBillableMinutes = 60
)

// gstRate is the 18% GST applied to the subtotal.
var gstRate = decimal.NewFromInt(18).Div(decimal.NewFromInt(100))

// Quote itemises what the customer pays for the booking.
func Quote(s *State) (models.PaymentBreakdown, error) {
	if s.Service == nil {
		return models.PaymentBreakdown{}, invalid("service", ErrServiceRequired)
	}

	servicePrice := decimal.NewFromInt(s.Service.Price)
	maidCost := decimal.Zero
	if s.Provider != nil {
		minutes := s.DurationMinutes
		if minutes == 0 {
			minutes = defaultBillableMinutes
		}
		maidCost = providerCost(s.Provider.HourlyRate, minutes).Round(2)
	}
	fee := decimal.NewFromInt(ServiceFee)
	subtotal := servicePrice.Add(maidCost).Add(fee).Round(2)
	tax := subtotal.Mul(gstRate).Round(2)

	return models.PaymentBreakdown{
		ServicePrice: toAmount(servicePrice),
		ProviderCost: toAmount(maidCost),
		ServiceFee:   toAmount(fee),
		Subtotal:     toAmount(subtotal),
		Tax:          toAmount(tax),
		Total:        toAmount(subtotal.Add(tax)),
	}, nil
}
