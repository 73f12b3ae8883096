package schema

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Registry holds the declared schemas. It is built once at cold start and
// must not be mutated afterwards; reads are then safe for concurrent use.
type Registry struct {
	schemas  map[string]*Schema
	validate *validator.Validate
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:  make(map[string]*Schema),
		validate: validator.New(),
	}
}

// Register adds a schema under its name. Duplicate names and malformed
// field declarations are registration errors so that misconfiguration
// surfaces at cold start rather than on the first request. Sub-schema
// references may point at schemas registered later; CheckReferences
// resolves them once registration is complete.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("schema must have a name")
	}
	if _, exists := r.schemas[s.Name]; exists {
		return fmt.Errorf("schema %q already registered", s.Name)
	}
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %q has a field without a name", s.Name)
		}
		if f.Type == TypeObject && f.Schema == "" {
			return fmt.Errorf("schema %q field %q is an object without a sub-schema", s.Name, f.Name)
		}
		if f.Type != TypeObject && f.Schema != "" {
			return fmt.Errorf("schema %q field %q references a sub-schema but is not an object", s.Name, f.Name)
		}
	}
	r.schemas[s.Name] = s
	return nil
}

// CheckReferences verifies that every object field points at a registered
// sub-schema. Call it once after all schemas are registered: a dangling
// reference is a configuration defect and must fail the cold start, not
// surface as a per-request validation error.
func (r *Registry) CheckReferences() error {
	for name, s := range r.schemas {
		for _, f := range s.Fields {
			if f.Type != TypeObject {
				continue
			}
			if _, ok := r.schemas[f.Schema]; !ok {
				return fmt.Errorf("schema %q field %q references unregistered schema %q", name, f.Name, f.Schema)
			}
		}
	}
	return nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}
