// Package controllers holds the business logic units invoked by the
// dispatcher after routing and validation. Controllers never see transport
// envelopes, only normalized requests and coerced payloads.
package controllers

import (
	"context"
	"net/http"

	"serverless-user-api/internal/dispatch"
	"serverless-user-api/internal/store"
	"serverless-user-api/pkg/lambda"
)

// UserStore is the user repository contract the auth controllers need.
type UserStore interface {
	CreateUser(ctx context.Context, user *store.User) error
	GetByEmail(ctx context.Context, email string) (*store.User, error)
}

// Health returns a controller serving liveness probes.
// @Summary Health check
// @Description Report service liveness and version
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(service, version string) dispatch.ControllerFunc {
	return func(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*dispatch.Result, error) {
		return &dispatch.Result{
			Status: http.StatusOK,
			Body: map[string]string{
				"status":  "healthy",
				"service": service,
				"version": version,
			},
		}, nil
	}
}
