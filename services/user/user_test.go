package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	userRepo "maideasy/database/repository/user"
	"maideasy/models"
	"maideasy/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email != "" && u.Email == email })
}

func (r *memUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Phone != "" && u.Phone == phone })
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return userRepo.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) UpdateSetDocument(_ context.Context, id string, fields bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "name":
			u.Name = s
		case "email":
			u.Email = s
		case "phone":
			u.Phone = s
		case "avatar_url":
			u.AvatarURL = s
		case "address":
			u.Address = s
		case "city":
			u.City = s
		case "pincode":
			u.Pincode = s
		case "fcm_token":
			u.FCMToken = s
		}
	}
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type capturingSender struct {
	codes map[string]string
	err   error
}

func (c *capturingSender) SendOTP(_ context.Context, _, identifier, code string) error {
	if c.err != nil {
		return c.err
	}
	c.codes[identifier] = code
	return nil
}

type fakeStorage struct {
	uploaded string
}

func (f *fakeStorage) UploadAvatar(_ context.Context, userID string, file io.Reader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.uploaded = string(data)
	return "https://cdn.example.com/avatars/" + userID + ".jpg", nil
}

func (f *fakeStorage) DeleteFile(context.Context, string) error { return nil }

type harness struct {
	svc    *DefaultUserService
	repo   *memUserRepo
	sender *capturingSender
	mr     *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := &harness{
		repo:   newMemUserRepo(),
		sender: &capturingSender{codes: map[string]string{}},
		mr:     mr,
	}
	h.svc = &DefaultUserService{
		Repo:      h.repo,
		OTPCache:  client,
		AuthCache: client,
		Storage:   &fakeStorage{},
		Sender:    h.sender,
		Logger:    zap.NewNop(),
	}
	return h
}

func (h *harness) signIn(t *testing.T, identifier, channel string) *AuthResponse {
	t.Helper()
	ctx := context.Background()
	id, err := h.svc.SendOTP(ctx, identifier, channel)
	require.NoError(t, err)
	resp, err := h.svc.VerifyOTP(ctx, identifier, channel, h.sender.codes[id])
	require.NoError(t, err)
	return resp
}

func TestNormalizeIdentifier(t *testing.T) {
	cases := []struct {
		in, channel, want string
		err               error
	}{
		{"9876543210", ChannelPhone, "+919876543210", nil},
		{"+91 98765-43210", ChannelPhone, "+919876543210", nil},
		{"12345", ChannelPhone, "", ErrInvalidIdentifier},
		{"  Asha@Example.COM ", ChannelEmail, "asha@example.com", nil},
		{"not-an-email", ChannelEmail, "", ErrInvalidIdentifier},
		{"asha", "pigeon", "", ErrInvalidChannel},
	}
	for _, tc := range cases {
		got, err := NormalizeIdentifier(tc.in, tc.channel)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestSignIn_NewThenReturningUser(t *testing.T) {
	h := newHarness(t)

	first := h.signIn(t, "9876543210", ChannelPhone)
	assert.True(t, first.IsNewUser)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "+919876543210", first.User.Phone)
	assert.Equal(t, "customer", first.User.Role)
	assert.True(t, first.User.IsVerified)

	second := h.signIn(t, "+919876543210", ChannelPhone)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.ID, second.ID)
}

func TestVerifyOTP_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.VerifyOTP(ctx, "asha@example.com", ChannelEmail, "123456")
	assert.ErrorIs(t, err, ErrOTPExpired)

	id, err := h.svc.SendOTP(ctx, "asha@example.com", ChannelEmail)
	require.NoError(t, err)
	wrong := "111111"
	if h.sender.codes[id] == wrong {
		wrong = "222222"
	}
	_, err = h.svc.VerifyOTP(ctx, "asha@example.com", ChannelEmail, wrong)
	assert.ErrorIs(t, err, ErrInvalidOTP)

	h.mr.FastForward(utils.OTPTTL + time.Second)
	_, err = h.svc.VerifyOTP(ctx, "asha@example.com", ChannelEmail, h.sender.codes[id])
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyOTP_DemoCodeOnlyInDemoMode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.VerifyOTP(ctx, "9876543210", ChannelPhone, DemoOTP)
	assert.Error(t, err)

	h.svc.DemoMode = true
	resp, err := h.svc.VerifyOTP(ctx, "9876543210", ChannelPhone, DemoOTP)
	require.NoError(t, err)
	assert.True(t, resp.IsNewUser)
}

func TestSendOTP_DeliveryFailure(t *testing.T) {
	h := newHarness(t)
	h.sender.err = errors.New("gateway down")

	_, err := h.svc.SendOTP(context.Background(), "9876543210", ChannelPhone)
	assert.Error(t, err)
}

func TestValidateSessionAndSignOut(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	resp := h.signIn(t, "asha@example.com", ChannelEmail)

	session, err := h.svc.ValidateSession(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, session.UserID)
	assert.Equal(t, "asha@example.com", session.Identifier)
	assert.Equal(t, sessionStatusVerified, session.Status)
	assert.True(t, h.mr.Exists(profileKey(resp.ID)))

	require.NoError(t, h.svc.SignOut(ctx, resp.Token))
	_, err = h.svc.ValidateSession(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.False(t, h.mr.Exists(profileKey(resp.ID)))

	require.NoError(t, h.svc.SignOut(ctx, resp.Token))

	_, err = h.svc.ValidateSession(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestCompleteProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	resp := h.signIn(t, "Asha@Example.com", ChannelEmail)

	_, err := h.svc.CompleteProfile(ctx, resp.ID, ProfileInput{Name: " A ", Phone: "9876543210", Address: "12 Hill Road", City: "Mumbai"})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = h.svc.CompleteProfile(ctx, resp.ID, ProfileInput{Name: "Asha", Phone: "9876543210", Address: "  ", City: "Mumbai"})
	assert.ErrorIs(t, err, ErrMissingField)

	u, err := h.svc.CompleteProfile(ctx, resp.ID, ProfileInput{
		Name:    " Asha Rao ",
		Email:   "other@example.com",
		Phone:   "98765 43210",
		Address: "12 Hill Road, Bandra West",
		City:    "Mumbai",
		Pincode: "400050",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", u.Name)
	assert.Equal(t, "asha@example.com", u.Email, "sign-in email is kept")
	assert.Equal(t, "+919876543210", u.Phone)
	assert.True(t, u.IsProfileComplete())

	cached, err := h.svc.GetUser(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", cached.Name)
}

func TestCompleteProfile_PhoneClaimedByAnotherUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, "9876543210", ChannelPhone)
	resp := h.signIn(t, "asha@example.com", ChannelEmail)

	_, err := h.svc.CompleteProfile(ctx, resp.ID, ProfileInput{Name: "Asha", Phone: "9876543210", Address: "12 Hill Road", City: "Mumbai"})
	assert.ErrorIs(t, err, ErrIdentifierInUse)
}

func TestUpdateUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	resp := h.signIn(t, "9876543210", ChannelPhone)

	city := " Pune "
	name := "Meera"
	u, err := h.svc.UpdateUser(ctx, resp.ID, models.ProfileUpdate{City: &city, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pune", u.City)
	assert.Equal(t, "Meera", u.Name)

	short := "M"
	_, err = h.svc.UpdateUser(ctx, resp.ID, models.ProfileUpdate{Name: &short})
	assert.ErrorIs(t, err, ErrInvalidName)

	same, err := h.svc.UpdateUser(ctx, resp.ID, models.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Meera", same.Name)

	_, err = h.svc.UpdateUser(ctx, "missing", models.ProfileUpdate{City: &city})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUser_CacheMissFallsBackToRepo(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	resp := h.signIn(t, "9876543210", ChannelPhone)

	h.mr.Del(profileKey(resp.ID))
	u, err := h.svc.GetUser(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, u.ID)
	assert.True(t, h.mr.Exists(profileKey(resp.ID)))

	_, err = h.svc.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUploadAvatar(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	resp := h.signIn(t, "9876543210", ChannelPhone)

	u, err := h.svc.UploadAvatar(ctx, resp.ID, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/"+resp.ID+".jpg", u.AvatarURL)
	assert.Equal(t, "jpeg-bytes", h.svc.Storage.(*fakeStorage).uploaded)
}
