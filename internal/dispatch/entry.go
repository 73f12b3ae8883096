package dispatch

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"serverless-user-api/pkg/lambda"
)

// HandleRaw is the single external entry point invoked by the hosting
// runtime. It detects the trigger type of the raw event, normalizes it,
// and dispatches. HTTP events always produce an APIGatewayProxyResponse;
// SQS events produce an SQSEventResponse whose item failures mark records
// for redelivery.
func (d *Dispatcher) HandleRaw(ctx context.Context, raw []byte) (interface{}, error) {
	switch lambda.DetectTrigger(raw) {
	case lambda.TriggerHTTP:
		return d.handleHTTP(ctx, raw), nil
	case lambda.TriggerQueue:
		return d.handleQueue(ctx, raw), nil
	default:
		d.logger.Error("Unrecognized event envelope")
		return proxyResponse(lambda.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Malformed event",
			Message: "Unrecognized event envelope",
		})), nil
	}
}

func (d *Dispatcher) handleHTTP(ctx context.Context, raw []byte) events.APIGatewayProxyResponse {
	var event events.APIGatewayProxyRequest
	if err := json.Unmarshal(raw, &event); err != nil {
		d.logger.WithError(err).Error("Failed to decode API Gateway event")
		return proxyResponse(lambda.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Malformed event",
		}))
	}

	req, err := lambda.FromAPIGateway(event)
	if err != nil {
		d.logger.WithError(err).Error("Malformed API Gateway event")
		return proxyResponse(lambda.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Malformed event",
			Message: err.Error(),
		}))
	}

	return proxyResponse(d.Dispatch(ctx, req))
}

func (d *Dispatcher) handleQueue(ctx context.Context, raw []byte) events.SQSEventResponse {
	var event events.SQSEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		// The batch envelope itself is broken; nothing can be retried.
		d.logger.WithError(err).Error("Failed to decode SQS event, dropping batch")
		return events.SQSEventResponse{}
	}

	var failures []events.SQSBatchItemFailure
	for _, record := range event.Records {
		req, err := lambda.FromSQSRecord(record)
		if err != nil {
			d.logger.WithError(err).WithField("message_id", record.MessageId).
				Error("Malformed queue record, dropping")
			continue
		}
		if err := d.DispatchRecord(ctx, req); err != nil {
			failures = append(failures, events.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}
}

func proxyResponse(resp *lambda.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}
