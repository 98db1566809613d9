package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	bookingRepo "maideasy/database/repository/booking"
	"maideasy/handlers"
	"maideasy/models"
	"maideasy/routes"
	"maideasy/services/booking"
	"maideasy/services/catalog"
	"maideasy/services/tracking"
	"maideasy/services/user"
	"maideasy/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type tokenSessions map[string]string

func (s tokenSessions) ValidateSession(_ context.Context, token string) (*utils.AuthSession, error) {
	if id, ok := s[token]; ok {
		return &utils.AuthSession{UserID: id}, nil
	}
	return nil, user.ErrInvalidSession
}

type stubCatalog struct{}

func (stubCatalog) ListServices(_ context.Context, category models.ServiceCategory) ([]models.Service, error) {
	if category != "" && !category.Valid() {
		return nil, catalog.ErrInvalidCategory
	}
	return []models.Service{{ID: "s1", Name: "Deep Cleaning", Category: models.CategoryHousekeeping, Price: 500, Duration: 120, IsActive: true}}, nil
}

func (stubCatalog) ListProviders(_ context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	if filter.City != "Mumbai" {
		return nil, nil
	}
	return []models.Provider{{ID: "m1", Name: "Priya Sharma", Rating: 4.8, HourlyRate: 100, City: "Mumbai", IsActive: true}}, nil
}

func (c stubCatalog) GetService(ctx context.Context, id string) (*models.Service, error) {
	services, _ := c.ListServices(ctx, "")
	for _, s := range services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, catalog.ErrServiceNotFound
}

func (c stubCatalog) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	providers, _ := c.ListProviders(ctx, models.ProviderFilter{City: "Mumbai"})
	for _, p := range providers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrProviderNotFound
}

type memBookings struct {
	mu    sync.Mutex
	items map[string]models.Booking
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (m *memBookings) ListByUser(_ context.Context, userID string, statuses []models.BookingStatus) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.items {
		if b.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				match = match || s == b.Status
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.Status = status
	m.items[id] = b
	return nil
}

type stubTracker struct {
	started map[string]string
	err     error
}

func (s *stubTracker) Start(bookingID, userID string) (tracking.Snapshot, error) {
	if s.err != nil {
		return tracking.Snapshot{}, s.err
	}
	s.started[bookingID] = userID
	return tracking.Snapshot{RouteIndex: 0, CurrentStage: tracking.StageOnTheWay, ETAMinutes: 15}, nil
}

func (s *stubTracker) Get(bookingID, userID string) (tracking.Snapshot, error) {
	if s.started[bookingID] != userID {
		return tracking.Snapshot{}, tracking.ErrTrackingNotFound
	}
	return tracking.Snapshot{RouteIndex: 3, CurrentStage: tracking.StageOnTheWay}, nil
}

func (s *stubTracker) Stop(bookingID, userID string) error {
	if s.started[bookingID] != userID {
		return tracking.ErrTrackingNotFound
	}
	delete(s.started, bookingID)
	return nil
}

type stubUsers struct {
	user.UserService
	profile *models.User
	avatar  string
}

func (s *stubUsers) SendOTP(_ context.Context, identifier, channel string) (string, error) {
	return user.NormalizeIdentifier(identifier, channel)
}

func (s *stubUsers) VerifyOTP(_ context.Context, identifier, channel, code string) (*user.AuthResponse, error) {
	if code != "123456" {
		return nil, user.ErrInvalidOTP
	}
	id, err := user.NormalizeIdentifier(identifier, channel)
	if err != nil {
		return nil, err
	}
	return &user.AuthResponse{ID: "u1", Token: "tok-u1", IsNewUser: true, User: &models.User{ID: "u1", Phone: id}}, nil
}

func (s *stubUsers) SignOut(context.Context, string) error { return nil }

func (s *stubUsers) GetUser(_ context.Context, userID string) (*models.User, error) {
	if s.profile == nil || s.profile.ID != userID {
		return nil, user.ErrUserNotFound
	}
	return s.profile, nil
}

func (s *stubUsers) UploadAvatar(_ context.Context, userID string, file io.Reader) (*models.User, error) {
	data, _ := io.ReadAll(file)
	s.avatar = string(data)
	s.profile.AvatarURL = "https://cdn.example.com/" + userID + ".jpg"
	return s.profile, nil
}

type testServer struct {
	router   *gin.Engine
	store    *booking.RedisSessionStore
	bookings *memBookings
	tracker  *stubTracker
	users    *stubUsers
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	payments := booking.NewPaymentHandler(zap.NewNop(), nil, false)
	ts := &testServer{
		store:    booking.NewRedisSessionStore(client, 30*time.Minute),
		bookings: &memBookings{items: map[string]models.Booking{}},
		tracker:  &stubTracker{started: map[string]string{}},
		users:    &stubUsers{profile: &models.User{ID: "u1", Name: "Asha"}},
	}
	svc := &booking.DefaultBookingSessionService{
		Sessions: ts.store,
		Catalog:  stubCatalog{},
		Bookings: ts.bookings,
		Payments: payments,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return fixedNow },
	}
	catalogHandler := handlers.NewCatalogHandler(stubCatalog{})
	catalogHandler.Now = func() time.Time { return fixedNow }

	hb := &handlers.HandlerBundle{
		Sessions: tokenSessions{"tok-u1": "u1", "tok-u2": "u2"},
		Auth:     handlers.NewAuthHandler(ts.users),
		Profile:  handlers.NewProfileHandler(ts.users),
		Catalog:  catalogHandler,
		Booking:  handlers.NewBookingHandler(svc, svc),
		Tracking: handlers.NewTrackingHandler(ts.tracker, svc),
	}
	ts.router = gin.New()
	routes.RegisterRoutes(ts.router, hb)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/auth/otp", "", gin.H{"identifier": "9876543210", "channel": "phone"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+919876543210", decode[map[string]string](t, w)["identifier"])

	w = ts.do(t, http.MethodPost, "/api/auth/otp", "", gin.H{"identifier": "9876543210", "channel": "fax"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/otp", "", gin.H{"channel": "phone"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/verify", "", gin.H{"identifier": "9876543210", "channel": "phone", "code": "000001"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/verify", "", gin.H{"identifier": "9876543210", "channel": "phone", "code": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[user.AuthResponse](t, w)
	assert.True(t, resp.IsNewUser)
	assert.Equal(t, "tok-u1", resp.Token)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/auth/signout", "", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/auth/signout", "tok-u1", nil).Code)
}

func TestProfileEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/users/me", "tok-u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isProfileComplete":false`)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/users/me", "tok-u2", nil).Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "me.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/me/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer tok-u1")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", ts.users.avatar)
	assert.Contains(t, rec.Body.String(), "https://cdn.example.com/u1.jpg")
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deep Cleaning")

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/services?category=gardening", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/services/nope", "", nil).Code)

	w = ts.do(t, http.MethodGet, "/api/maids?city=Mumbai&limit=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Priya Sharma")
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/maids?limit=-1", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/maids?verified=maybe", "", nil).Code)

	w = ts.do(t, http.MethodGet, "/api/schedule", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	schedule := decode[struct {
		Dates     []booking.DateOption `json:"dates"`
		TimeSlots []string             `json:"timeSlots"`
	}](t, w)
	require.Len(t, schedule.Dates, booking.BookingWindowDays)
	assert.Equal(t, "2024-03-10", schedule.Dates[0].Date)
	assert.Len(t, schedule.TimeSlots, 26)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/booking/session", "", nil).Code)

	w := ts.do(t, http.MethodPost, "/api/booking/session", "tok-u1", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	session := decode[booking.Session](t, w)
	base := "/api/booking/session/" + session.SessionID

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, base, "tok-u2", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPut, base+"/service", "tok-u1", gin.H{"serviceId": "nope"}).Code)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, base+"/service", "tok-u1", gin.H{"serviceId": "s1"}).Code)
	w = ts.do(t, http.MethodPut, base+"/maid", "tok-u1", gin.H{"maidId": "m1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 700.0, decode[booking.Session](t, w).State.TotalPrice)

	w = ts.do(t, http.MethodPost, base+"/confirm", "tok-u1", gin.H{"paymentMethod": "cod"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "incomplete booking")

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPut, base+"/schedule", "tok-u1", gin.H{"date": "2024-04-01", "time": "10:30"}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, base+"/schedule", "tok-u1", gin.H{"date": "2024-03-12", "time": "10:30"}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPut, base+"/address", "tok-u1", gin.H{"address": "short"}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, base+"/address", "tok-u1", gin.H{"address": "12 Hill Road, Bandra West"}).Code)

	w = ts.do(t, http.MethodGet, base+"/quote", "tok-u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	quote := decode[models.PaymentBreakdown](t, w)
	assert.Equal(t, 837.8, quote.Total)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, base+"/confirm", "tok-u1", gin.H{"paymentMethod": "cheque"}).Code)

	w = ts.do(t, http.MethodPost, base+"/confirm", "tok-u1", gin.H{"paymentMethod": "cod"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decode[models.BookingReceipt](t, w)
	assert.Equal(t, models.BookingStatusConfirmed, receipt.Status)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, base, "tok-u1", nil).Code, "session is cleared after submission")

	w = ts.do(t, http.MethodGet, "/api/bookings?status=confirmed", "tok-u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Bookings []models.Booking `json:"bookings"`
	}](t, w)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, receipt.BookingID, list.Bookings[0].ID)

	w = ts.do(t, http.MethodGet, "/api/bookings", "tok-u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookings":[]}`, w.Body.String())

	bookingPath := "/api/bookings/" + receipt.BookingID
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, bookingPath, "tok-u2", nil).Code)
	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPatch, bookingPath+"/status", "tok-u1", gin.H{"status": "completed"}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, bookingPath+"/status", "tok-u1", gin.H{"status": "lost"}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPatch, bookingPath+"/status", "tok-u1", gin.H{"status": "in_progress"}).Code)
}

func TestCancelSessionOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/api/booking/session", "tok-u1", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/booking/session/" + decode[booking.Session](t, w).SessionID

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, base, "tok-u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, base, "tok-u1", nil).Code)
}

func TestTrackingEndpoints(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.bookings.Create(context.Background(), &models.Booking{ID: "b1", UserID: "u1", Status: models.BookingStatusConfirmed}))
	require.NoError(t, ts.bookings.Create(context.Background(), &models.Booking{ID: "b2", UserID: "u1", Status: models.BookingStatusCancelled}))

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/tracking/b1", "tok-u2", nil).Code)
	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/api/tracking/b2", "tok-u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/tracking/missing", "tok-u1", nil).Code)

	w := ts.do(t, http.MethodPost, "/api/tracking/b1", "tok-u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[tracking.Snapshot](t, w)
	assert.Equal(t, tracking.StageOnTheWay, snap.CurrentStage)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/tracking/demo_1710061200000", "tok-u1", nil).Code,
		"placeholder ids the server never issued are unknown")
	ok, err := ts.store.SavePlaceholder(context.Background(), &models.Booking{ID: "demo_1710061200000", UserID: "u1", Status: models.BookingStatusConfirmed})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/tracking/demo_1710061200000", "tok-u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/tracking/demo_1710061200000", "tok-u2", nil).Code)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/tracking/b1", "tok-u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/tracking/b1", "tok-u2", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, "/api/tracking/b1", "tok-u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/tracking/b1", "tok-u1", nil).Code)
}

func TestErrorsDoNotLeakInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hb := &handlers.HandlerBundle{
		Sessions: tokenSessions{"tok-u1": "u1"},
		Booking:  handlers.NewBookingHandler(failingSessions{}, nil),
		Auth:     handlers.NewAuthHandler(&stubUsers{}),
		Profile:  handlers.NewProfileHandler(&stubUsers{}),
		Catalog:  handlers.NewCatalogHandler(stubCatalog{}),
		Tracking: handlers.NewTrackingHandler(&stubTracker{}, nil),
	}
	routes.RegisterRoutes(r, hb)

	req := httptest.NewRequest(http.MethodPost, "/api/booking/session", nil)
	req.Header.Set("Authorization", "Bearer tok-u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "redis is on fire")
}

type failingSessions struct {
	booking.BookingSessionService
}

func (failingSessions) InitiateSession(context.Context, string) (*booking.Session, error) {
	return nil, errors.New("redis is on fire")
}

func TestTrackingJourneyCap(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.bookings.Create(context.Background(), &models.Booking{ID: "b1", UserID: "u1", Status: models.BookingStatusConfirmed}))
	ts.tracker.err = tracking.ErrTooManyJourneys

	w := ts.do(t, http.MethodPost, "/api/tracking/b1", "tok-u1", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestErrorBodiesShareOneShape(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.bookings.Create(context.Background(), &models.Booking{ID: "b2", UserID: "u1", Status: models.BookingStatusCancelled}))

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"missing token", http.MethodGet, "/api/users/me", "", nil, http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/users/me", "tok-nobody", nil, http.StatusUnauthorized},
		{"bad json", http.MethodPost, "/api/auth/otp", "", gin.H{"channel": "phone"}, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/maids?limit=zero", "", nil, http.StatusBadRequest},
		{"service error", http.MethodGet, "/api/booking/session/nope", "tok-u1", nil, http.StatusNotFound},
		{"ended booking", http.MethodPost, "/api/tracking/b2", "tok-u1", nil, http.StatusConflict},
		{"avatar without file", http.MethodPost, "/api/users/me/avatar", "tok-u1", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, tc.method, tc.path, tc.token, tc.body)
			require.Equal(t, tc.status, w.Code)

			body := decode[map[string]any](t, w)
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body, "message")
		})
	}
}
