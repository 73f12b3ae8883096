package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"serverless-user-api/internal/schema"
	"serverless-user-api/pkg/lambda"
)

// Dispatcher routes normalized requests to controllers. One instance is
// built at cold start and serves every invocation; it holds no mutable
// state, so warm-process reuse with concurrent invocations is safe.
type Dispatcher struct {
	routes  *Table
	schemas *schema.Registry
	logger  *logrus.Logger
}

// New creates a Dispatcher over an assembled route table and schema
// registry.
func New(routes *Table, schemas *schema.Registry, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{routes: routes, schemas: schemas, logger: logger}
}

// ErrorResponse is the standard error body returned to HTTP clients.
type ErrorResponse struct {
	Error            string              `json:"error"`
	Message          string              `json:"message,omitempty"`
	ValidationErrors []schema.FieldError `json:"validation_errors,omitempty"`
	RequestID        string              `json:"request_id,omitempty"`
}

// Dispatch resolves, validates, and executes one HTTP-sourced request and
// always produces a response. Controller errors never escape: domain
// errors map to their declared status, everything else to a generic 500
// with the detail kept in the logs.
func (d *Dispatcher) Dispatch(ctx context.Context, req *lambda.Request) *lambda.Response {
	requestID := uuid.New().String()
	log := d.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     req.Method,
		"path":       req.Path,
	})
	log.Info("Dispatching request")

	route, err := d.routes.Resolve(req.Method, req.Path)
	if err != nil {
		log.Info("No route matched")
		return lambda.JSON(http.StatusNotFound, ErrorResponse{
			Error:     "Resource not found!",
			RequestID: requestID,
		})
	}

	payload, errResp := d.validatePayload(route, req, requestID, log)
	if errResp != nil {
		return errResp
	}

	result, err := d.execute(ctx, route, req, payload)
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			log.WithError(err).Info("Controller returned domain error")
			return lambda.JSON(domainErr.Status, ErrorResponse{
				Error:     domainErr.Message,
				RequestID: requestID,
			})
		}
		log.WithError(err).Error("Unhandled error during dispatch")
		return lambda.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "Internal server error",
			RequestID: requestID,
		})
	}

	status := result.Status
	if status == 0 {
		status = http.StatusOK
	}
	log.WithField("status_code", status).Info("Request completed")
	return lambda.JSON(status, result.Body)
}

// DispatchRecord processes one queue-sourced record. It returns nil when
// the record was processed or permanently dropped, and a retryable error
// when the record should be redelivered. Structurally invalid or
// unroutable records are dropped: retrying them cannot help.
func (d *Dispatcher) DispatchRecord(ctx context.Context, req *lambda.Request) error {
	log := d.logger.WithFields(logrus.Fields{
		"message_id": req.MessageID,
		"source":     req.SourceARN,
		"path":       req.Path,
	})
	log.Info("Dispatching queue record")

	route, err := d.routes.Resolve(req.Method, req.Path)
	if err != nil {
		log.Warn("No route for queue record, dropping")
		return nil
	}

	payload := req.Payload
	if route.Schema != "" {
		if req.BodyParseFailed {
			log.Error("Queue record body is not valid JSON, dropping")
			return nil
		}
		payload, err = d.schemas.Validate(route.Schema, req.Payload)
		if err != nil {
			log.WithError(err).Error("Queue record failed validation, dropping")
			return nil
		}
	}

	if _, err := d.execute(ctx, route, req, payload); err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			log.WithError(err).Warn("Queue record rejected by controller, dropping")
			return nil
		}
		log.WithError(err).Error("Queue record processing failed, leaving for redelivery")
		if IsRetryable(err) {
			return err
		}
		return Retryable(err)
	}

	log.Info("Queue record processed")
	return nil
}

func (d *Dispatcher) validatePayload(route *Route, req *lambda.Request, requestID string, log *logrus.Entry) (map[string]interface{}, *lambda.Response) {
	if route.Schema == "" {
		return req.Payload, nil
	}

	if req.BodyParseFailed {
		log.Info("Request body is not valid JSON")
		return nil, lambda.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body",
			Message:   "Request body must be a JSON object",
			RequestID: requestID,
		})
	}

	payload, err := d.schemas.Validate(route.Schema, req.Payload)
	if err != nil {
		var valErr *schema.ValidationError
		if errors.As(err, &valErr) {
			log.WithField("fields", len(valErr.Fields)).Info("Payload failed validation")
			return nil, lambda.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:            "Validation failed",
				Message:          valErr.Error(),
				ValidationErrors: valErr.Fields,
				RequestID:        requestID,
			})
		}
		log.WithError(err).Error("Schema lookup failed")
		return nil, lambda.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "Internal server error",
			RequestID: requestID,
		})
	}
	return payload, nil
}

// execute invokes the controller, converting panics into errors so nothing
// escapes to the hosting runtime.
func (d *Dispatcher) execute(ctx context.Context, route *Route, req *lambda.Request, payload map[string]interface{}) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("controller panic: %v", r)
		}
	}()

	result, err = route.Controller.Execute(ctx, req, payload)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &Result{}
	}
	return result, nil
}
