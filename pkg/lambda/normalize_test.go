package lambda

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestFromAPIGateway(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod: "post",
		Path:       "/user/login/",
		Headers: map[string]string{
			"Origin":       "https://example.com/",
			"Content-Type": "application/json",
		},
		QueryStringParameters: map[string]string{"next": "/home"},
		Body:                  `{"email":"test@example.com","password":"strongpassword"}`,
	}

	req, err := FromAPIGateway(event)
	if err != nil {
		t.Fatalf("FromAPIGateway returned error: %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("expected method POST, got %s", req.Method)
	}
	if req.Path != "/user/login/" {
		t.Errorf("expected path /user/login/, got %s", req.Path)
	}
	if req.Trigger != TriggerHTTP {
		t.Errorf("expected HTTP trigger, got %s", req.Trigger)
	}
	if req.Header("origin") != "https://example.com/" {
		t.Errorf("expected lower-cased origin header, got %q", req.Header("origin"))
	}
	if req.Header("Origin") != "https://example.com/" {
		t.Errorf("expected case-insensitive header lookup")
	}
	if req.QueryParams["next"] != "/home" {
		t.Errorf("expected query param to survive normalization")
	}
	if req.Payload["email"] != "test@example.com" {
		t.Errorf("expected parsed body payload, got %v", req.Payload)
	}
	if req.BodyParseFailed {
		t.Error("expected BodyParseFailed to be false for JSON body")
	}
}

func TestFromAPIGatewayMissingEnvelopeFields(t *testing.T) {
	tests := []struct {
		name  string
		event events.APIGatewayProxyRequest
	}{
		{name: "no method", event: events.APIGatewayProxyRequest{Path: "/user/login/"}},
		{name: "no path", event: events.APIGatewayProxyRequest{HTTPMethod: "GET"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAPIGateway(tt.event)
			var malformed *MalformedEventError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedEventError, got %v", err)
			}
		})
	}
}

func TestFromAPIGatewayBase64Body(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"email":"a@b.co"}`))
	event := events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Path:            "/user/login/",
		Body:            encoded,
		IsBase64Encoded: true,
	}

	req, err := FromAPIGateway(event)
	if err != nil {
		t.Fatalf("FromAPIGateway returned error: %v", err)
	}
	if req.Payload["email"] != "a@b.co" {
		t.Errorf("expected decoded payload, got %v", req.Payload)
	}
}

func TestFromAPIGatewayUnparsableBody(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Path:       "/user/login/",
		Body:       "this is not json",
	}

	req, err := FromAPIGateway(event)
	if err != nil {
		t.Fatalf("FromAPIGateway returned error: %v", err)
	}
	if !req.BodyParseFailed {
		t.Error("expected BodyParseFailed for non-JSON body")
	}
	if string(req.Body) != "this is not json" {
		t.Errorf("expected raw body to be preserved, got %q", req.Body)
	}
	if req.Payload != nil {
		t.Errorf("expected nil payload, got %v", req.Payload)
	}
}

func TestFromSQSRecord(t *testing.T) {
	record := events.SQSMessage{
		MessageId:      "msg-1",
		Body:           `{"email":"new@example.com","name":"New User"}`,
		EventSourceARN: "arn:aws:sqs:us-east-1:123456789012:user-signup-events",
	}

	req, err := FromSQSRecord(record)
	if err != nil {
		t.Fatalf("FromSQSRecord returned error: %v", err)
	}

	if req.Trigger != TriggerQueue {
		t.Errorf("expected queue trigger, got %s", req.Trigger)
	}
	if req.Method != MethodQueue {
		t.Errorf("expected pseudo method %s, got %s", MethodQueue, req.Method)
	}
	if req.Path != "/queue/user-signup-events" {
		t.Errorf("expected synthesized queue path, got %s", req.Path)
	}
	if req.MessageID != "msg-1" {
		t.Errorf("expected message id to survive normalization")
	}
	if req.Payload["email"] != "new@example.com" {
		t.Errorf("expected parsed record body, got %v", req.Payload)
	}
}

func TestFromSQSRecordMissingSource(t *testing.T) {
	_, err := FromSQSRecord(events.SQSMessage{MessageId: "msg-2", Body: "{}"})
	var malformed *MalformedEventError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedEventError, got %v", err)
	}
}

func TestQueuePath(t *testing.T) {
	tests := []struct {
		arn  string
		want string
	}{
		{"arn:aws:sqs:us-east-1:123456789012:user-signup-events", "/queue/user-signup-events"},
		{"bare-queue-name", "/queue/bare-queue-name"},
	}

	for _, tt := range tests {
		if got := QueuePath(tt.arn); got != tt.want {
			t.Errorf("QueuePath(%q) = %q, want %q", tt.arn, got, tt.want)
		}
	}
}
