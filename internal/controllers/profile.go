package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"serverless-user-api/internal/auth"
	"serverless-user-api/internal/dispatch"
	"serverless-user-api/pkg/lambda"
)

// ProfileController returns the identity encoded in the caller's bearer
// token.
type ProfileController struct {
	auth   *auth.Service
	logger *logrus.Logger
}

// NewProfileController creates a new profile controller.
func NewProfileController(authService *auth.Service, logger *logrus.Logger) *ProfileController {
	if logger == nil {
		logger = logrus.New()
	}
	return &ProfileController{auth: authService, logger: logger}
}

// UserInfo is the profile body returned for a valid token.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Execute returns the profile encoded in the bearer token.
// @Summary Current user
// @Description Return the identity encoded in the caller's bearer token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfo
// @Failure 401 {object} dispatch.ErrorResponse
// @Router /user/me/ [get]
func (c *ProfileController) Execute(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*dispatch.Result, error) {
	authHeader := req.Header("Authorization")
	if authHeader == "" {
		return nil, dispatch.NewDomainError(http.StatusUnauthorized, "Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, dispatch.NewDomainError(http.StatusUnauthorized, "Invalid authorization header format. Expected: Bearer <token>")
	}

	claims, err := c.auth.ValidateToken(parts[1])
	if err != nil {
		c.logger.WithError(err).Info("Token validation failed")
		return nil, dispatch.NewDomainError(http.StatusUnauthorized, "Invalid or expired token")
	}

	return &dispatch.Result{
		Body: UserInfo{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  claims.Name,
		},
	}, nil
}
