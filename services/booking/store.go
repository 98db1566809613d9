package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maideasy/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	bookingSessionPrefix = "bookingSession:"
	submitLockPrefix     = "bookingSubmit:"
	placeholderKeyPrefix = "bookingPlaceholder:"

	DefaultSubmitLockTTL  = 30 * time.Second
	DefaultPlaceholderTTL = 24 * time.Hour
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Session is one customer's booking in progress.
type Session struct {
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId"`
	State         State     `json:"state"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// SessionStore persists booking sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error

	// Claim takes the submit lock of a session. ok is false while another
	// submission holds it. The token releases the lock.
	Claim(ctx context.Context, sessionID string) (token string, ok bool, err error)
	Release(ctx context.Context, sessionID, token string) error

	// SavePlaceholder records a booking that was issued a placeholder id. It
	// reports false when the id is already taken.
	SavePlaceholder(ctx context.Context, b *models.Booking) (bool, error)
	LoadPlaceholder(ctx context.Context, bookingID string) (*models.Booking, error)
}

// RedisSessionStore keeps sessions as JSON under a sliding TTL.
type RedisSessionStore struct {
	Client         *redis.Client
	TTL            time.Duration
	LockTTL        time.Duration
	PlaceholderTTL time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		Client:         client,
		TTL:            ttl,
		LockTTL:        DefaultSubmitLockTTL,
		PlaceholderTTL: DefaultPlaceholderTTL,
	}
}

func (r *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := r.Client.Set(ctx, bookingSessionPrefix+session.SessionID, data, r.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := r.Client.Get(ctx, bookingSessionPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode booking session: %w", err)
	}
	return &session, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.Client.Del(ctx, bookingSessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Claim(ctx context.Context, sessionID string) (string, bool, error) {
	token := uuid.New().String()
	ok, err := r.Client.SetNX(ctx, submitLockPrefix+sessionID, token, r.LockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to lock booking session: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (r *RedisSessionStore) Release(ctx context.Context, sessionID, token string) error {
	if err := releaseScript.Run(ctx, r.Client, []string{submitLockPrefix + sessionID}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to unlock booking session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) SavePlaceholder(ctx context.Context, b *models.Booking) (bool, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("failed to marshal placeholder booking: %w", err)
	}
	ok, err := r.Client.SetNX(ctx, placeholderKeyPrefix+b.ID, data, r.PlaceholderTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store placeholder booking: %w", err)
	}
	return ok, nil
}

func (r *RedisSessionStore) LoadPlaceholder(ctx context.Context, bookingID string) (*models.Booking, error) {
	raw, err := r.Client.Get(ctx, placeholderKeyPrefix+bookingID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load placeholder booking: %w", err)
	}
	var b models.Booking
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to decode placeholder booking: %w", err)
	}
	return &b, nil
}
