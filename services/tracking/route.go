package tracking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidRoute = errors.New("invalid tracking route")

// Waypoint is one scripted position on the maid's way to the customer.
// Distance and Speed are display labels such as "2.8 km" and "4 km/h";
// a distance that does not start with a number (the final "Arrived")
// carries no ETA.
type Waypoint struct {
	Location  string `json:"location"`
	TimeLabel string `json:"time"`
	Distance  string `json:"distance"`
	Speed     string `json:"speed"`
	Icon      string `json:"icon"`
	Status    string `json:"status"`
}

// DistanceKm parses the distance label.
func (w Waypoint) DistanceKm() (float64, bool) {
	return leadingNumber(w.Distance)
}

// SpeedKmh parses the speed label. Unparsable speeds read as zero.
func (w Waypoint) SpeedKmh() float64 {
	v, _ := leadingNumber(w.Speed)
	return v
}

func leadingNumber(label string) (float64, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Stage is one of the coarse journey steps shown to the customer.
type Stage struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const (
	StageOnTheWay = 4
	StageNearby   = 5
	StageArrived  = 6
)

var stages = []Stage{
	{ID: 1, Title: "Booking Confirmed", Description: "Your booking has been confirmed"},
	{ID: 2, Title: "Maid Assigned", Description: "Your maid has been assigned to your booking"},
	{ID: 3, Title: "Getting Ready", Description: "Maid is preparing to leave"},
	{ID: 4, Title: "On the Way", Description: "Maid is traveling to your location"},
	{ID: 5, Title: "Nearby", Description: "Maid is very close to your location"},
	{ID: 6, Title: "Arrived", Description: "Maid has reached your location"},
}

// Stages returns the six journey stages in order.
func Stages() []Stage {
	return append([]Stage(nil), stages...)
}

var referenceRoute = []Waypoint{
	{Location: "Started from Bandra Station", TimeLabel: "12 min ago", Distance: "3.2 km", Speed: "0 km/h", Icon: "🚌", Status: "boarding"},
	{Location: "Walking on SV Road", TimeLabel: "10 min ago", Distance: "2.8 km", Speed: "4 km/h", Icon: "🚶‍♀️", Status: "walking"},
	{Location: "Waiting at Linking Road Signal", TimeLabel: "8 min ago", Distance: "2.3 km", Speed: "0 km/h", Icon: "🚦", Status: "waiting"},
	{Location: "Crossing Linking Road Junction", TimeLabel: "6 min ago", Distance: "1.9 km", Speed: "5 km/h", Icon: "🚶‍♀️", Status: "walking"},
	{Location: "Near Shoppers Stop, Bandra", TimeLabel: "4 min ago", Distance: "1.4 km", Speed: "3 km/h", Icon: "🏪", Status: "walking"},
	{Location: "Entering Hill Road", TimeLabel: "2 min ago", Distance: "0.8 km", Speed: "4 km/h", Icon: "🚶‍♀️", Status: "walking"},
	{Location: "Near your building complex", TimeLabel: "1 min ago", Distance: "0.3 km", Speed: "2 km/h", Icon: "🏢", Status: "approaching"},
	{Location: "At your building entrance", TimeLabel: "Just now", Distance: "0.1 km", Speed: "1 km/h", Icon: "🚪", Status: "arriving"},
	{Location: "At your doorstep", TimeLabel: "Now", Distance: "Arrived", Speed: "0 km/h", Icon: "🎯", Status: "arrived"},
}

// ReferenceRoute returns the scripted Bandra route, station to doorstep.
func ReferenceRoute() []Waypoint {
	return append([]Waypoint(nil), referenceRoute...)
}

func validateRoute(route []Waypoint) error {
	if len(route) == 0 {
		return fmt.Errorf("%w: no waypoints", ErrInvalidRoute)
	}
	for i, w := range route {
		if km, ok := w.DistanceKm(); ok && km < 0 {
			return fmt.Errorf("%w: waypoint %d has negative distance %q", ErrInvalidRoute, i, w.Distance)
		}
		if w.SpeedKmh() < 0 {
			return fmt.Errorf("%w: waypoint %d has negative speed %q", ErrInvalidRoute, i, w.Speed)
		}
	}
	return nil
}
