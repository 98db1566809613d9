package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"maideasy/models"
	"maideasy/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTrackingNotFound = errors.New("no live tracking for this booking")
	ErrTooManyJourneys  = errors.New("too many journeys in progress")
)

const (
	// DefaultRetention is how long an arrived journey stays readable.
	DefaultRetention  = 10 * time.Minute
	DefaultMaxPerUser = 3
)

type entry struct {
	runner  *Runner
	userID  string
	arrived bool
	evict   Timer
}

// Registry keeps one live journey per booking. Arrived journeys are
// dropped Retention after arrival.
type Registry struct {
	mu      sync.Mutex
	runners map[string]*entry

	Route    []Waypoint
	Clock    Clock
	MinDelay time.Duration
	MaxDelay time.Duration
	Notifier notification.Notifier
	Logger   *zap.Logger
	// NewRand seeds the random source of each new journey.
	NewRand func() Rand

	Retention time.Duration

	// MaxPerUser caps the journeys a user may have in progress at once.
	MaxPerUser int
}

func NewRegistry(clock Clock, minDelay, maxDelay time.Duration, notifier notification.Notifier, logger *zap.Logger) *Registry {
	return &Registry{
		runners:  make(map[string]*entry),
		Route:    ReferenceRoute(),
		Clock:    clock,
		MinDelay: minDelay,
		MaxDelay: maxDelay,
		Notifier: notifier,
		Logger:   logger,
		NewRand: func() Rand {
			return NewRand(time.Now().UnixNano())
		},
		Retention:  DefaultRetention,
		MaxPerUser: DefaultMaxPerUser,
	}
}

func (r *Registry) inProgressLocked(userID string) int {
	n := 0
	for _, e := range r.runners {
		if e.userID == userID && !e.arrived {
			n++
		}
	}
	return n
}

// Start begins tracking for a booking, or returns the journey already in
// progress.
func (r *Registry) Start(bookingID, userID string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.runners[bookingID]; ok {
		if e.userID != userID {
			return Snapshot{}, ErrTrackingNotFound
		}
		return e.runner.Snapshot(), nil
	}
	if r.MaxPerUser > 0 && r.inProgressLocked(userID) >= r.MaxPerUser {
		return Snapshot{}, ErrTooManyJourneys
	}

	rng := r.NewRand()
	sim, err := NewSimulation(r.Route, rng)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to start tracking: %w", err)
	}
	e := &entry{userID: userID}
	e.runner = NewRunner(sim, RunnerConfig{
		Clock:    r.Clock,
		Rand:     rng,
		MinDelay: r.MinDelay,
		MaxDelay: r.MaxDelay,
		OnArrive: func(s Snapshot) { r.arrived(bookingID, e, s) },
	})
	r.runners[bookingID] = e
	e.runner.Start()

	r.Logger.Debug("tracking started", zap.String("booking", bookingID))
	return e.runner.Snapshot(), nil
}

// Get returns the live view for a booking owned by userID.
func (r *Registry) Get(bookingID, userID string) (Snapshot, error) {
	r.mu.Lock()
	e, ok := r.runners[bookingID]
	r.mu.Unlock()
	if !ok || e.userID != userID {
		return Snapshot{}, ErrTrackingNotFound
	}
	return e.runner.Snapshot(), nil
}

// Stop disposes the journey. No tick runs for it afterwards.
func (r *Registry) Stop(bookingID, userID string) error {
	r.mu.Lock()
	e, ok := r.runners[bookingID]
	if !ok || e.userID != userID {
		r.mu.Unlock()
		return ErrTrackingNotFound
	}
	delete(r.runners, bookingID)
	r.mu.Unlock()

	e.dispose()
	r.Logger.Debug("tracking stopped", zap.String("booking", bookingID))
	return nil
}

// Shutdown disposes every journey.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	runners := r.runners
	r.runners = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range runners {
		e.dispose()
	}
}

func (e *entry) dispose() {
	e.runner.Dispose()
	if e.evict != nil {
		e.evict.Stop()
	}
}

func (r *Registry) retention() time.Duration {
	if r.Retention <= 0 {
		return DefaultRetention
	}
	return r.Retention
}

// evict drops e if it is still the journey registered for bookingID.
func (r *Registry) evict(bookingID string, e *entry) {
	r.mu.Lock()
	if cur, ok := r.runners[bookingID]; !ok || cur != e {
		r.mu.Unlock()
		return
	}
	delete(r.runners, bookingID)
	r.mu.Unlock()

	e.runner.Dispose()
	r.Logger.Debug("tracking evicted", zap.String("booking", bookingID))
}

func (r *Registry) arrived(bookingID string, e *entry, s Snapshot) {
	r.mu.Lock()
	if cur, ok := r.runners[bookingID]; ok && cur == e {
		e.arrived = true
		e.evict = r.Clock.AfterFunc(r.retention(), func() { r.evict(bookingID, e) })
	}
	userID := e.userID
	r.mu.Unlock()

	r.Logger.Info("maid arrived", zap.String("booking", bookingID))
	if r.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := r.Notifier.Notify(ctx, models.Notification{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   models.NotificationProviderArrived,
		Title:  "Maid has arrived",
		Body:   s.Status,
		Data: map[string]string{
			"bookingId": bookingID,
			"location":  s.Location,
		},
		CreatedAt: s.UpdatedAt,
	})
	if err != nil {
		r.Logger.Warn("arrival notification failed", zap.String("booking", bookingID), zap.Error(err))
	}
}
