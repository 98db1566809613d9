package booking

import (
	"fmt"
	"time"
)

const (
	// BookingWindowDays is how many days, today included, can be booked.
	BookingWindowDays = 7

	firstSlotHour = 8
	lastSlotHour  = 20
	slotStep      = 30 * time.Minute
)

// DateOption is one selectable day on the schedule screen.
type DateOption struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Day     int    `json:"day"`
	Month   string `json:"month"`
	IsToday bool   `json:"isToday"`
}

// AvailableDates lists today and the following six days.
func AvailableDates(now time.Time) []DateOption {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dates := make([]DateOption, 0, BookingWindowDays)
	for i := 0; i < BookingWindowDays; i++ {
		d := start.AddDate(0, 0, i)
		dates = append(dates, DateOption{
			Date:    d.Format(dateLayout),
			Weekday: d.Weekday().String()[:3],
			Day:     d.Day(),
			Month:   d.Month().String()[:3],
			IsToday: i == 0,
		})
	}
	return dates
}

// TimeSlots lists the bookable start times, 08:00 through 20:30.
func TimeSlots() []string {
	var slots []string
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		for m := 0; m < 60; m += int(slotStep / time.Minute) {
			slots = append(slots, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return slots
}

// ValidateSlot checks the date falls inside the booking window relative to
// now and that the time is an offered slot.
func ValidateSlot(now time.Time, date, clock string) error {
	inWindow := false
	for _, d := range AvailableDates(now) {
		if d.Date == date {
			inWindow = true
			break
		}
	}
	if !inWindow {
		return invalid("date", ErrDateOutOfRange)
	}
	for _, slot := range TimeSlots() {
		if slot == clock {
			return nil
		}
	}
	return invalid("time", ErrUnknownTimeSlot)
}

// StartTime resolves a booked date and time in loc.
func StartTime(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse booking start: %w", err)
	}
	return t, nil
}
