package lambda

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// MalformedEventError indicates an inbound event whose envelope is missing
// required transport fields. It is a permanent failure: retrying the same
// event cannot succeed.
type MalformedEventError struct {
	Reason string
}

func (e *MalformedEventError) Error() string {
	return "malformed event: " + e.Reason
}

// FromAPIGateway normalizes an API Gateway proxy event into a Request.
// Events missing a method or path fail with a MalformedEventError.
func FromAPIGateway(event events.APIGatewayProxyRequest) (*Request, error) {
	if event.HTTPMethod == "" {
		return nil, &MalformedEventError{Reason: "event has no httpMethod"}
	}
	if event.Path == "" {
		return nil, &MalformedEventError{Reason: "event has no path"}
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, &MalformedEventError{Reason: "body is not valid base64"}
		}
		body = decoded
	}

	return NewHTTPRequest(event.HTTPMethod, event.Path, event.Headers, event.QueryStringParameters, body), nil
}

// NewHTTPRequest builds a normalized HTTP request. It is shared by the
// API Gateway normalizer and the local development server bridge. Header
// keys are lower-cased and the body is parsed as JSON where possible.
func NewHTTPRequest(method, path string, headers, query map[string]string, body []byte) *Request {
	normalized := make(map[string]string, len(headers))
	for k, v := range headers {
		normalized[strings.ToLower(k)] = v
	}

	req := &Request{
		Trigger:     TriggerHTTP,
		Method:      strings.ToUpper(method),
		Path:        path,
		Headers:     normalized,
		QueryParams: query,
		Body:        body,
	}
	parseBody(req)
	return req
}

// FromSQSRecord normalizes a single SQS message record into a Request.
// The record routes by a pseudo path derived from its source queue name,
// with MethodQueue as the method. Records without a source ARN fail with
// a MalformedEventError and must not be retried.
func FromSQSRecord(record events.SQSMessage) (*Request, error) {
	if record.EventSourceARN == "" {
		return nil, &MalformedEventError{Reason: "record has no eventSourceARN"}
	}

	req := &Request{
		Trigger:   TriggerQueue,
		Method:    MethodQueue,
		Path:      QueuePath(record.EventSourceARN),
		Headers:   map[string]string{},
		Body:      []byte(record.Body),
		SourceARN: record.EventSourceARN,
		MessageID: record.MessageId,
	}
	parseBody(req)

	return req, nil
}

// QueuePath synthesizes the routing path for a queue source ARN. The queue
// name is the last ARN segment, e.g. arn:aws:sqs:us-east-1:123:user-signups
// routes as /queue/user-signups.
func QueuePath(sourceARN string) string {
	name := sourceARN
	if idx := strings.LastIndex(sourceARN, ":"); idx >= 0 {
		name = sourceARN[idx+1:]
	}
	return "/queue/" + name
}

// parseBody attempts to parse the request body as a JSON object. A body
// that fails to parse is kept raw with BodyParseFailed set, so routes
// without a schema can still consume it.
func parseBody(req *Request) {
	trimmed := strings.TrimSpace(string(req.Body))
	if trimmed == "" {
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		req.BodyParseFailed = true
		return
	}
	req.Payload = payload
}
