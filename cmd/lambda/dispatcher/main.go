package main

import (
	"context"
	"encoding/json"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"serverless-user-api/internal/config"
	"serverless-user-api/pkg/server"
)

var container *server.Container

// init runs once per cold start. A configuration error here must fail the
// deployment loudly rather than let the function serve broken routes.
func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

// handler receives the raw event so one function can serve both the API
// Gateway and SQS triggers; the dispatcher detects the envelope itself.
func handler(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	return container.Dispatcher.HandleRaw(ctx, raw)
}

func main() {
	awslambda.Start(handler)
}
