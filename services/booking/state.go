package booking

import (
	"strings"
	"time"
	"unicode/utf8"

	"maideasy/models"

	"github.com/shopspring/decimal"
)

// MinAddressLength is the minimum trimmed length of a service address.
const MinAddressLength = 10

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// State is the in-progress booking a customer builds across screens.
// Every mutator either applies fully or returns an error and leaves the
// state untouched.
type State struct {
	Service         *models.Service  `json:"service"`
	Provider        *models.Provider `json:"maid"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	DurationMinutes int              `json:"duration"`
	Address         string           `json:"address"`
	Notes           string           `json:"notes"`
	TotalPrice      float64          `json:"totalPrice"`
}

// NewState returns an empty booking.
func NewState() *State {
	return &State{}
}

// SelectService picks the service to book. Duration follows the service.
func (s *State) SelectService(svc *models.Service) error {
	if svc == nil {
		return invalid("service", ErrServiceRequired)
	}
	if svc.Duration < 0 {
		return invalid("service.duration", ErrNegativeDuration)
	}
	if svc.Price < 0 {
		return invalid("service.price", ErrNegativePrice)
	}
	picked := *svc
	s.Service = &picked
	s.DurationMinutes = picked.Duration
	s.TotalPrice = s.ComputeTotal()
	return nil
}

// SelectProvider picks the maid. Without a service the stored total falls
// back to the maid's hourly rate, which is what the mobile client shows.
func (s *State) SelectProvider(p *models.Provider) error {
	if p == nil {
		return invalid("maid", ErrProviderRequired)
	}
	if p.HourlyRate < 0 {
		return invalid("maid.hourly_rate", ErrNegativeRate)
	}
	picked := *p
	s.Provider = &picked
	if s.Service == nil {
		s.TotalPrice = float64(picked.HourlyRate)
		return nil
	}
	s.TotalPrice = s.ComputeTotal()
	return nil
}

// SetDuration overrides the booked duration in minutes.
func (s *State) SetDuration(minutes int) error {
	if minutes < 0 {
		return invalid("duration", ErrNegativeDuration)
	}
	s.DurationMinutes = minutes
	if s.Service != nil {
		s.TotalPrice = s.ComputeTotal()
	}
	return nil
}

// SetDateTime stores the chosen date (YYYY-MM-DD) and time (HH:MM) verbatim.
func (s *State) SetDateTime(date, clock string) error {
	if date == "" || clock == "" {
		return invalid("date", ErrDateTimeRequired)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return invalid("date", ErrInvalidDateTime)
	}
	if _, err := time.Parse(timeLayout, clock); err != nil {
		return invalid("time", ErrInvalidDateTime)
	}
	s.Date = date
	s.Time = clock
	return nil
}

// SetAddress stores the address and free-text notes verbatim.
func (s *State) SetAddress(address, notes string) error {
	if utf8.RuneCountInString(strings.TrimSpace(address)) < MinAddressLength {
		return invalid("address", ErrAddressTooShort)
	}
	s.Address = address
	s.Notes = notes
	return nil
}

// Clear resets the booking to its empty value.
func (s *State) Clear() {
	*s = State{}
}

// IsEmpty reports whether nothing has been picked yet.
func (s *State) IsEmpty() bool {
	return *s == State{}
}

// ComputeTotal is service price plus the maid's rate for the booked
// duration, rounded half-up to two decimals. Zero without a service.
func (s *State) ComputeTotal() float64 {
	if s.Service == nil {
		return 0
	}
	total := decimal.NewFromInt(s.Service.Price)
	if s.Provider != nil {
		total = total.Add(providerCost(s.Provider.HourlyRate, s.DurationMinutes))
	}
	return toAmount(total)
}

// Ready checks that the booking carries everything needed for submission.
func (s *State) Ready() error {
	switch {
	case s.Service == nil:
		return invalid("service", ErrServiceRequired)
	case s.Provider == nil:
		return invalid("maid", ErrProviderRequired)
	case s.Date == "" || s.Time == "":
		return invalid("date", ErrDateTimeRequired)
	case utf8.RuneCountInString(strings.TrimSpace(s.Address)) < MinAddressLength:
		return invalid("address", ErrAddressTooShort)
	}
	return nil
}

func providerCost(rate int64, minutes int) decimal.Decimal {
	return decimal.NewFromInt(rate).
		Mul(decimal.NewFromInt(int64(minutes))).
		Div(decimal.NewFromInt(60))
}

func toAmount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
