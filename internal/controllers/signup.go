package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"serverless-user-api/internal/dispatch"
	"serverless-user-api/internal/store"
	"serverless-user-api/pkg/lambda"
)

// SignupController registers a new user account.
type SignupController struct {
	users  UserStore
	logger *logrus.Logger
}

// NewSignupController creates a new signup controller.
func NewSignupController(users UserStore, logger *logrus.Logger) *SignupController {
	if logger == nil {
		logger = logrus.New()
	}
	return &SignupController{users: users, logger: logger}
}

// SignupResponse is the success body returned after registration.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// Execute creates the user. The signup schema guarantees email and
// password are present and well-formed by the time this runs.
// @Summary Sign up
// @Description Register a new user account
// @Tags users
// @Accept json
// @Produce json
// @Param account body object true "Account details (email, password, name)"
// @Success 201 {object} SignupResponse
// @Failure 409 {object} dispatch.ErrorResponse
// @Failure 422 {object} dispatch.ErrorResponse
// @Router /user/signup/ [post]
func (c *SignupController) Execute(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*dispatch.Result, error) {
	email, _ := payload["email"].(string)
	password, _ := payload["password"].(string)
	name, _ := payload["name"].(string)

	hash, err := store.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	if err := c.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, dispatch.NewDomainError(http.StatusConflict, "A user with this email already exists!")
		}
		return nil, err
	}

	c.logger.WithField("user_id", user.ID).Info("Signup successful")
	return &dispatch.Result{
		Status: http.StatusCreated,
		Body: SignupResponse{
			Message: "Signup successful!",
			UserID:  user.ID,
		},
	}, nil
}
