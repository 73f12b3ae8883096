package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serverless-user-api/internal/auth"
	"serverless-user-api/internal/dispatch"
	"serverless-user-api/internal/store"
	"serverless-user-api/pkg/lambda"
)

type fakeUserStore struct {
	users map[string]*store.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*store.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *store.User) error {
	if _, exists := f.users[user.Email]; exists {
		return store.ErrDuplicateEmail
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func testAuthService() *auth.Service {
	return auth.NewService(&auth.Config{
		JWTSecret:     "test-secret",
		TokenDuration: time.Hour,
	})
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func seedUser(t *testing.T, users *fakeUserStore, email, password string) *store.User {
	t.Helper()
	hash, err := store.HashPassword(password)
	require.NoError(t, err)
	user := &store.User{ID: "user-1", Email: email, Name: "Test User", PasswordHash: hash}
	require.NoError(t, users.CreateUser(context.Background(), user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserStore()
	seedUser(t, users, "test@gmail.com", "strongpassword")
	ctrl := NewLoginController(users, testAuthService(), testLogger())

	result, err := ctrl.Execute(context.Background(), &lambda.Request{}, map[string]interface{}{
		"email":    "test@gmail.com",
		"password": "strongpassword",
	})
	require.NoError(t, err)

	body, ok := result.Body.(LoginResponse)
	require.True(t, ok)
	assert.Equal(t, "Login successful!", body.Message)
	assert.NotEmpty(t, body.Token)

	claims, err := testAuthService().ValidateToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "test@gmail.com", claims.Email)
}

func TestLoginWrongCredentials(t *testing.T) {
	users := newFakeUserStore()
	seedUser(t, users, "test@gmail.com", "strongpassword")
	ctrl := NewLoginController(users, testAuthService(), testLogger())

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{name: "wrong password", payload: map[string]interface{}{"email": "test@gmail.com", "password": "nope"}},
		{name: "unknown user", payload: map[string]interface{}{"email": "other@gmail.com", "password": "strongpassword"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctrl.Execute(context.Background(), &lambda.Request{}, tt.payload)
			var domainErr *dispatch.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusForbidden, domainErr.Status)
			assert.Equal(t, "Either email or password is incorrect!", domainErr.Message)
		})
	}
}

func TestLoginEmptyPayloadProbe(t *testing.T) {
	ctrl := NewLoginController(newFakeUserStore(), testAuthService(), testLogger())

	result, err := ctrl.Execute(context.Background(), &lambda.Request{Method: "GET"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Status, "probe responds with the default status")
}

func TestSignupCreatesUser(t *testing.T) {
	users := newFakeUserStore()
	ctrl := NewSignupController(users, testLogger())

	result, err := ctrl.Execute(context.Background(), &lambda.Request{}, map[string]interface{}{
		"email":    "new@gmail.com",
		"password": "strongpassword",
		"name":     "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, result.Status)

	stored, err := users.GetByEmail(context.Background(), "new@gmail.com")
	require.NoError(t, err)
	assert.NotEqual(t, "strongpassword", stored.PasswordHash, "password must be stored hashed")
	assert.True(t, store.CheckPassword(stored.PasswordHash, "strongpassword"))
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	seedUser(t, users, "taken@gmail.com", "strongpassword")
	ctrl := NewSignupController(users, testLogger())

	_, err := ctrl.Execute(context.Background(), &lambda.Request{}, map[string]interface{}{
		"email":    "taken@gmail.com",
		"password": "strongpassword",
	})
	var domainErr *dispatch.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusConflict, domainErr.Status)
}

func TestProfileReturnsClaims(t *testing.T) {
	authService := testAuthService()
	token, _, err := authService.GenerateToken("user-1", "test@gmail.com", "Test User")
	require.NoError(t, err)

	ctrl := NewProfileController(authService, testLogger())
	req := lambda.NewHTTPRequest("GET", "/user/me/", map[string]string{"Authorization": "Bearer " + token}, nil, nil)

	result, err := ctrl.Execute(context.Background(), req, nil)
	require.NoError(t, err)

	info, ok := result.Body.(UserInfo)
	require.True(t, ok)
	assert.Equal(t, "user-1", info.ID)
	assert.Equal(t, "test@gmail.com", info.Email)
}

func TestProfileRejectsBadTokens(t *testing.T) {
	ctrl := NewProfileController(testAuthService(), testLogger())

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			req := lambda.NewHTTPRequest("GET", "/user/me/", headers, nil, nil)

			_, err := ctrl.Execute(context.Background(), req, nil)
			var domainErr *dispatch.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusUnauthorized, domainErr.Status)
		})
	}
}

type failingMailer struct {
	err error
}

func (m *failingMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.err
}

func TestWelcomeEmailSends(t *testing.T) {
	ctrl := NewWelcomeEmailController(nil, testLogger())

	result, err := ctrl.Execute(context.Background(), &lambda.Request{}, map[string]interface{}{
		"email": "new@gmail.com",
		"name":  "New User",
	})
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestWelcomeEmailDeliveryFailurePropagates(t *testing.T) {
	ctrl := NewWelcomeEmailController(&failingMailer{err: errors.New("smtp timeout")}, testLogger())

	_, err := ctrl.Execute(context.Background(), &lambda.Request{}, map[string]interface{}{
		"email": "new@gmail.com",
	})
	require.Error(t, err)
	var domainErr *dispatch.DomainError
	assert.False(t, errors.As(err, &domainErr), "delivery failures are transient, not domain errors")
}

func TestHealthController(t *testing.T) {
	result, err := Health("serverless-user-api", "1.0.0")(context.Background(), &lambda.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.Status)
}
