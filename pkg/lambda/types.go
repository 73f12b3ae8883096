package lambda

import (
	"encoding/json"
	"strings"
)

// TriggerType identifies the transport that produced an inbound event.
type TriggerType string

const (
	TriggerHTTP    TriggerType = "http"
	TriggerQueue   TriggerType = "queue"
	TriggerUnknown TriggerType = "unknown"
)

// MethodQueue is the pseudo HTTP method assigned to queue-sourced requests
// so that queue routes share the same route table as HTTP routes.
const MethodQueue = "QUEUE"

// Request represents a generic inbound request for serverless functions,
// normalized from the transport-specific event envelope.
type Request struct {
	Trigger     TriggerType       `json:"trigger"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`

	// Payload is the body parsed as a JSON object. It is nil when the body
	// is empty or not a JSON object; BodyParseFailed distinguishes the two.
	Payload         map[string]interface{} `json:"payload,omitempty"`
	BodyParseFailed bool                   `json:"body_parse_failed,omitempty"`

	// Queue record metadata, empty for HTTP requests.
	SourceARN string `json:"source_arn,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// Header returns a header value by name, case-insensitively. Normalized
// requests store header keys lower-cased.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// Response represents a generic HTTP response for serverless functions.
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// JSON builds a Response with a JSON-encoded body and content type set.
func JSON(status int, v interface{}) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return &Response{
			StatusCode: 500,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       []byte(`{"error":"Internal server error"}`),
		}
	}
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}
