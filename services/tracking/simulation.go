package tracking

import (
	"fmt"
	"math"
	"time"
)

const (
	initialETAMinutes = 15
	initialBattery    = 85.0
	minBattery        = 20.0
	recentUpdateCount = 4

	// moveThreshold: a draw above it advances the maid.
	moveThreshold = 0.2
	// stopThreshold: after a failed move draw, a second draw above it
	// is a full stop. Anything else still advances.
	stopThreshold = 0.5
)

// TickOutcome reports what a tick did.
type TickOutcome int

const (
	TickNoop TickOutcome = iota
	TickStopped
	TickAdvanced
	TickArrived
)

func (o TickOutcome) String() string {
	switch o {
	case TickNoop:
		return "noop"
	case TickStopped:
		return "stopped"
	case TickAdvanced:
		return "advanced"
	case TickArrived:
		return "arrived"
	}
	return fmt.Sprintf("TickOutcome(%d)", int(o))
}

// Simulation is a scripted maid journey along a fixed route. It is not
// safe for concurrent use; Runner serialises access.
type Simulation struct {
	route []Waypoint
	rng   Rand

	routeIndex int
	stageID    int
	isMoving   bool
	etaMinutes int
	hasArrived bool
	location   string
	distance   string
	speed      string
	status     string
	battery    float64
}

// NewSimulation starts a journey at the first waypoint of route.
func NewSimulation(route []Waypoint, rng Rand) (*Simulation, error) {
	if err := validateRoute(route); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("tracking: nil random source")
	}
	first := route[0]
	s := &Simulation{
		route:      append([]Waypoint(nil), route...),
		rng:        rng,
		isMoving:   true,
		etaMinutes: initialETAMinutes,
		location:   first.Location,
		distance:   first.Distance,
		speed:      first.Speed,
		battery:    initialBattery,
	}
	s.updateStage()
	if s.hasArrived {
		s.etaMinutes = 0
	}
	return s, nil
}

func (s *Simulation) lastIndex() int { return len(s.route) - 1 }

// Tick advances the journey by one GPS update.
func (s *Simulation) Tick() TickOutcome {
	if s.hasArrived || s.routeIndex >= s.lastIndex() {
		return TickNoop
	}

	shouldMove := s.rng.Float64() > moveThreshold
	if !shouldMove && s.rng.Float64() > stopThreshold {
		s.isMoving = false
		s.speed = "0 km/h"
		return TickStopped
	}

	s.isMoving = true
	next := s.routeIndex + 1
	if next > s.lastIndex() {
		next = s.lastIndex()
	}
	wp := s.route[next]
	s.routeIndex = next
	s.location = wp.Location
	s.distance = wp.Distance
	s.speed = wp.Speed
	s.battery = math.Max(minBattery, s.battery-s.rng.Float64()*2)

	if km, ok := wp.DistanceKm(); ok {
		s.etaMinutes = etaMinutes(km, wp.SpeedKmh())
	}

	s.updateStage()
	if s.hasArrived {
		s.etaMinutes = 0
		return TickArrived
	}
	return TickAdvanced
}

// etaMinutes is the whole-minute travel time, never below one minute.
// Speeds under 1 km/h count as 1 km/h.
func etaMinutes(distanceKm, speedKmh float64) int {
	speed := math.Max(speedKmh, 1)
	eta := int(math.Round(distanceKm / speed * 60))
	if eta < 1 {
		return 1
	}
	return eta
}

// Progress is the share of the route covered, 0 to 100.
func (s *Simulation) Progress() float64 {
	if s.lastIndex() == 0 {
		return 100
	}
	return float64(s.routeIndex) / float64(s.lastIndex()) * 100
}

func (s *Simulation) updateStage() {
	progress := s.Progress()
	switch {
	case progress >= 100:
		s.stageID = StageArrived
		s.status = "🎉 Maid has arrived at your location!"
	case progress >= 80:
		s.stageID = StageNearby
		s.status = "Almost at your doorstep - can see your building!"
	case progress >= 60:
		s.stageID = StageNearby
		s.status = "Very close to your location"
	case progress >= 40:
		s.stageID = StageOnTheWay
		s.status = "Halfway there - making good progress"
	default:
		s.stageID = StageOnTheWay
		s.status = "On the way to your location"
	}
	s.hasArrived = s.routeIndex == s.lastIndex()
}

func (s *Simulation) RouteIndex() int {
	return s.routeIndex
}

func (s *Simulation) StageID() int {
	return s.stageID
}

func (s *Simulation) HasArrived() bool {
	return s.hasArrived
}

// RecentUpdates returns up to the last four waypoints reached, most recent
// first.
func (s *Simulation) RecentUpdates() []Waypoint {
	end := s.routeIndex + 1
	start := end - recentUpdateCount
	if start < 0 {
		start = 0
	}
	out := make([]Waypoint, 0, end-start)
	for i := end - 1; i >= start; i-- {
		out = append(out, s.route[i])
	}
	return out
}

// StageView is a stage with its progress flags for display.
type StageView struct {
	Stage
	Completed bool `json:"completed"`
	Active    bool `json:"active"`
}

// Snapshot is the customer-facing view of the journey.
type Snapshot struct {
	RouteIndex    int         `json:"routeIndex"`
	Progress      int         `json:"progress"`
	CurrentStage  int         `json:"currentStage"`
	Stages        []StageView `json:"stages"`
	IsMoving      bool        `json:"isMoving"`
	ETAMinutes    int         `json:"estimatedTime"`
	HasArrived    bool        `json:"hasArrived"`
	Location      string      `json:"currentLocation"`
	Distance      string      `json:"distance"`
	Speed         string      `json:"currentSpeed"`
	Status        string      `json:"maidStatus"`
	BatteryLevel  int         `json:"batteryLevel"`
	RecentUpdates []Waypoint  `json:"recentUpdates"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Snapshot captures the current view, stamped with at.
func (s *Simulation) Snapshot(at time.Time) Snapshot {
	views := make([]StageView, len(stages))
	for i, st := range stages {
		views[i] = StageView{
			Stage:     st,
			Completed: st.ID <= s.stageID,
			Active:    st.ID == s.stageID,
		}
	}
	return Snapshot{
		RouteIndex:    s.routeIndex,
		Progress:      int(math.Round(s.Progress())),
		CurrentStage:  s.stageID,
		Stages:        views,
		IsMoving:      s.isMoving,
		ETAMinutes:    s.etaMinutes,
		HasArrived:    s.hasArrived,
		Location:      s.location,
		Distance:      s.distance,
		Speed:         s.speed,
		Status:        s.status,
		BatteryLevel:  int(math.Round(s.battery)),
		RecentUpdates: s.RecentUpdates(),
		UpdatedAt:     at,
	}
}
