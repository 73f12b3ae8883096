package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"serverless-user-api/internal/auth"
	"serverless-user-api/internal/dispatch"
	"serverless-user-api/internal/store"
	"serverless-user-api/pkg/lambda"
)

// LoginController authenticates credentials against the user store and
// issues a JWT on success.
type LoginController struct {
	users  UserStore
	auth   *auth.Service
	logger *logrus.Logger
}

// NewLoginController creates a new login controller.
func NewLoginController(users UserStore, authService *auth.Service, logger *logrus.Logger) *LoginController {
	if logger == nil {
		logger = logrus.New()
	}
	return &LoginController{users: users, auth: authService, logger: logger}
}

// LoginResponse is the success body returned after authentication.
type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Execute handles both the bodyless probe (GET) and credential submission
// (POST, schema-validated before this point).
// @Summary Login
// @Description Authenticate with email and password and receive a JWT token
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body object true "Login credentials (email, password)"
// @Success 200 {object} LoginResponse
// @Failure 403 {object} dispatch.ErrorResponse
// @Failure 422 {object} dispatch.ErrorResponse
// @Router /user/login/ [post]
func (c *LoginController) Execute(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*dispatch.Result, error) {
	if len(payload) == 0 {
		return &dispatch.Result{
			Body: map[string]string{"message": "Login requires email and password."},
		}, nil
	}

	email, _ := payload["email"].(string)
	password, _ := payload["password"].(string)

	user, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.logger.WithField("email", email).Info("Login attempt for unknown user")
			return nil, dispatch.NewDomainError(http.StatusForbidden, "Either email or password is incorrect!")
		}
		return nil, err
	}

	if !store.CheckPassword(user.PasswordHash, password) {
		c.logger.WithField("user_id", user.ID).Info("Login attempt with wrong password")
		return nil, dispatch.NewDomainError(http.StatusForbidden, "Either email or password is incorrect!")
	}

	token, expiresAt, err := c.auth.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("user_id", user.ID).Info("Login successful")
	return &dispatch.Result{
		Body: LoginResponse{
			Message:   "Login successful!",
			Token:     token,
			ExpiresAt: expiresAt,
		},
	}, nil
}
