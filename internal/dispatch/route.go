package dispatch

import (
	"context"
	"fmt"
	"strings"

	"serverless-user-api/pkg/lambda"
)

// Result is what a controller returns on success. A zero Status maps to
// 200; Body is JSON-serialized into the response.
type Result struct {
	Status int
	Body   interface{}
}

// Controller is the invocation contract for business logic units. The
// payload is the schema-coerced body for routes with a schema, otherwise
// the raw parsed body (possibly nil).
type Controller interface {
	Execute(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*Result, error)
}

// ControllerFunc adapts a function to the Controller interface.
type ControllerFunc func(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*Result, error)

func (f ControllerFunc) Execute(ctx context.Context, req *lambda.Request, payload map[string]interface{}) (*Result, error) {
	return f(ctx, req, payload)
}

// Matcher decides whether a route matches a normalized (method, path) pair.
// Key must be unique across the table; duplicate keys fail registration.
type Matcher interface {
	Match(method, path string) bool
	Key() string
}

// ExactMatcher matches on exact method and path equality.
type ExactMatcher struct {
	Method string
	Path   string
}

// Exact builds an ExactMatcher for the given method and path.
func Exact(method, path string) ExactMatcher {
	return ExactMatcher{Method: strings.ToUpper(method), Path: path}
}

func (m ExactMatcher) Match(method, path string) bool {
	return m.Method == method && m.Path == path
}

func (m ExactMatcher) Key() string {
	return m.Method + " " + m.Path
}

// PrefixMatcher matches any path under a prefix. Not used by the default
// routes but pluggable without touching the Dispatcher.
type PrefixMatcher struct {
	Method string
	Prefix string
}

// Prefix builds a PrefixMatcher for the given method and path prefix.
func Prefix(method, prefix string) PrefixMatcher {
	return PrefixMatcher{Method: strings.ToUpper(method), Prefix: prefix}
}

func (m PrefixMatcher) Match(method, path string) bool {
	return m.Method == method && strings.HasPrefix(path, m.Prefix)
}

func (m PrefixMatcher) Key() string {
	return m.Method + " " + m.Prefix + "*"
}

// QueueSource builds a matcher for records arriving from the named queue.
func QueueSource(queue string) ExactMatcher {
	return ExactMatcher{Method: lambda.MethodQueue, Path: "/queue/" + queue}
}

// Route binds a matcher to a controller and an optional schema reference.
// An empty Schema skips payload validation.
type Route struct {
	Matcher    Matcher
	Controller Controller
	Schema     string
}

// Table is the static route table. It is assembled once at cold start and
// immutable afterwards; lookups are then safe for concurrent use.
type Table struct {
	routes []Route
	keys   map[string]struct{}
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{keys: make(map[string]struct{})}
}

// Register adds a route. Duplicate matcher keys and incomplete routes fail
// with a ConfigurationError so that misconfiguration is caught at cold
// start instead of serving broken routes.
func (t *Table) Register(route Route) error {
	if route.Matcher == nil {
		return &ConfigurationError{Reason: "route has no matcher"}
	}
	if route.Controller == nil {
		return &ConfigurationError{Reason: fmt.Sprintf("route %q has no controller", route.Matcher.Key())}
	}
	key := route.Matcher.Key()
	if _, exists := t.keys[key]; exists {
		return &ConfigurationError{Reason: fmt.Sprintf("duplicate route %q", key)}
	}
	t.keys[key] = struct{}{}
	t.routes = append(t.routes, route)
	return nil
}

// SchemaRefs returns the distinct schema references declared by the
// registered routes, so callers can verify each one is actually
// registered before serving traffic.
func (t *Table) SchemaRefs() []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, route := range t.routes {
		if route.Schema == "" {
			continue
		}
		if _, ok := seen[route.Schema]; ok {
			continue
		}
		seen[route.Schema] = struct{}{}
		refs = append(refs, route.Schema)
	}
	return refs
}

// Resolve returns the route matching the given method and path, in
// registration order, or a RouteNotFoundError.
func (t *Table) Resolve(method, path string) (*Route, error) {
	for i := range t.routes {
		if t.routes[i].Matcher.Match(method, path) {
			return &t.routes[i], nil
		}
	}
	return nil, &RouteNotFoundError{Method: method, Path: path}
}
