package server

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"serverless-user-api/internal/auth"
	"serverless-user-api/internal/config"
	"serverless-user-api/internal/controllers"
	"serverless-user-api/internal/dispatch"
	"serverless-user-api/internal/schema"
	"serverless-user-api/internal/store"
)

// ServiceName identifies this service in health responses and logs.
const ServiceName = "serverless-user-api"

// Version is the service version reported by the health endpoint.
const Version = "1.0.0"

// Container holds all application dependencies. It is built exactly once
// at cold start; every field is read-only afterwards, so a warm process
// can serve concurrent invocations from the same container.
type Container struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Users      *store.UserStore
	Auth       *auth.Service
	Dispatcher *dispatch.Dispatcher
}

// NewContainer creates a new dependency injection container. A non-nil
// error here is a ConfigurationError: callers must fail loudly instead of
// serving traffic.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := newLogger(cfg)

	users, err := store.Open(cfg.Database.ConnectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}

	authService := auth.NewService(&auth.Config{
		JWTSecret:     cfg.JWT.Secret,
		TokenDuration: time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		Issuer:        cfg.JWT.Issuer,
	})

	schemas := schema.NewRegistry()
	if err := registerSchemas(schemas); err != nil {
		users.Close()
		return nil, &dispatch.ConfigurationError{Reason: err.Error()}
	}

	routes := dispatch.NewTable()
	if err := registerRoutes(routes, cfg, users, authService, logger); err != nil {
		users.Close()
		return nil, err
	}

	if err := checkSchemaWiring(routes, schemas); err != nil {
		users.Close()
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Users:      users,
		Auth:       authService,
		Dispatcher: dispatch.New(routes, schemas, logger),
	}, nil
}

// Close cleans up all resources.
func (c *Container) Close() error {
	if c.Users != nil {
		if err := c.Users.Close(); err != nil {
			return fmt.Errorf("failed to close user store: %w", err)
		}
	}
	return nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if config.IsServerlessMode() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// registerSchemas declares the request shapes once at cold start.
func registerSchemas(reg *schema.Registry) error {
	declarations := []*schema.Schema{
		{
			Name: "login",
			Fields: []schema.Field{
				{Name: "email", Type: schema.TypeString, Required: true, Format: "email"},
				{Name: "password", Type: schema.TypeString, Required: true},
			},
		},
		{
			Name: "signup",
			Fields: []schema.Field{
				{Name: "email", Type: schema.TypeString, Required: true, Format: "email"},
				{Name: "password", Type: schema.TypeString, Required: true, MinLen: 8},
				{Name: "name", Type: schema.TypeString, MaxLen: 100},
			},
		},
		{
			Name: "welcome-email",
			Fields: []schema.Field{
				{Name: "email", Type: schema.TypeString, Required: true, Format: "email"},
				{Name: "name", Type: schema.TypeString},
			},
		},
	}

	for _, s := range declarations {
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// registerRoutes binds the static route declarations to their controllers.
func registerRoutes(table *dispatch.Table, cfg *config.Config, users *store.UserStore, authService *auth.Service, logger *logrus.Logger) error {
	login := controllers.NewLoginController(users, authService, logger)
	signup := controllers.NewSignupController(users, logger)
	profile := controllers.NewProfileController(authService, logger)
	welcome := controllers.NewWelcomeEmailController(nil, logger)

	routes := []dispatch.Route{
		{Matcher: dispatch.Exact("GET", "/health"), Controller: controllers.Health(ServiceName, Version)},
		{Matcher: dispatch.Exact("GET", "/user/login/"), Controller: login},
		{Matcher: dispatch.Exact("POST", "/user/login/"), Controller: login, Schema: "login"},
		{Matcher: dispatch.Exact("POST", "/user/signup/"), Controller: signup, Schema: "signup"},
		{Matcher: dispatch.Exact("GET", "/user/me/"), Controller: profile},
		{Matcher: dispatch.QueueSource(cfg.Queue.SignupEvents), Controller: welcome, Schema: "welcome-email"},
	}

	for _, route := range routes {
		if err := table.Register(route); err != nil {
			return err
		}
	}
	return nil
}

// checkSchemaWiring verifies the assembled route table and schema registry
// against each other: every sub-schema reference and every route schema
// must resolve. Misconfiguration here must fail the cold start instead of
// serving broken routes.
func checkSchemaWiring(routes *dispatch.Table, schemas *schema.Registry) error {
	if err := schemas.CheckReferences(); err != nil {
		return &dispatch.ConfigurationError{Reason: err.Error()}
	}
	for _, ref := range routes.SchemaRefs() {
		if _, ok := schemas.Lookup(ref); !ok {
			return &dispatch.ConfigurationError{Reason: fmt.Sprintf("route schema %q is not registered", ref)}
		}
	}
	return nil
}
