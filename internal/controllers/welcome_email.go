package controllers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"serverless-user-api/internal/dispatch"
	"serverless-user-api/pkg/lambda"
)

// Mailer sends outbound mail. Delivery failures are treated as transient
// by the queue dispatch path, so the record is redelivered.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer is the default Mailer; it only logs the send. Real delivery
// is wired in by deployments that configure SMTP.
type LogMailer struct {
	Logger *logrus.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Mail send (log only)")
	return nil
}

// WelcomeEmailController consumes signup events from the queue and sends
// the welcome mail.
type WelcomeEmailController struct {
	mailer Mailer
	logger *logrus.Logger
}

// NewWelcomeEmailController creates a new welcome email controller.
func NewWelcomeEmailController(mailer Mailer, logger *logrus.Logger) *WelcomeEmailController {
	if logger == nil {
		logger = logrus.New()
	}
	if mailer == nil {
		mailer = &LogMailer{Logger: logger}
	}
	return &WelcomeEmailController{mailer: mailer, logger: logger}
}

func (c *WelcomeEmailController) Execute(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*dispatch.Result, error) {
	email, _ := payload["email"].(string)
	name, _ := payload["name"].(string)
	if name == "" {
		name = "there"
	}

	body := fmt.Sprintf("Hi %s, welcome aboard!", name)
	if err := c.mailer.Send(ctx, email, "Welcome!", body); err != nil {
		return nil, fmt.Errorf("failed to send welcome email to %s: %w", email, err)
	}

	c.logger.WithField("email", email).Info("Welcome email sent")
	return &dispatch.Result{Body: map[string]string{"message": "Welcome email sent"}}, nil
}
