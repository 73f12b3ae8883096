package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldError describes a single violated field. Field is the dotted path
// into the payload, e.g. "address.postcode".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field of one payload, in schema
// declaration order, so a client can fix all of them in one round trip.
type ValidationError struct {
	Schema string       `json:"schema"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("payload failed %q validation: %s", e.Schema, strings.Join(names, ", "))
}

// Validate checks payload against the schema registered under ref. On
// success it returns a coerced copy of the payload with every declared
// field converted to its declared type. On failure it returns a
// *ValidationError listing all violated fields.
//
// A nil payload is validated as an empty object, so schemas consisting of
// optional fields accept bodyless requests.
func (r *Registry) Validate(ref string, payload map[string]interface{}) (map[string]interface{}, error) {
	s, ok := r.schemas[ref]
	if !ok {
		return nil, fmt.Errorf("schema %q is not registered", ref)
	}

	coerced, fieldErrs := r.validateObject(s, payload, "")
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Schema: ref, Fields: fieldErrs}
	}
	return coerced, nil
}

func (r *Registry) validateObject(s *Schema, payload map[string]interface{}, prefix string) (map[string]interface{}, []FieldError) {
	out := make(map[string]interface{}, len(s.Fields))
	var errs []FieldError

	for _, f := range s.Fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		raw, present := payload[f.Name]
		if !present || raw == nil {
			if f.Required {
				errs = append(errs, FieldError{Field: path, Message: "is required"})
			}
			continue
		}

		value, fieldErrs := r.validateField(f, raw, path)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		out[f.Name] = value
	}

	return out, errs
}

func (r *Registry) validateField(f Field, raw interface{}, path string) (interface{}, []FieldError) {
	switch f.Type {
	case TypeString, "":
		return r.validateString(f, raw, path)
	case TypeInteger:
		return coerceInteger(raw, path)
	case TypeNumber:
		return coerceNumber(raw, path)
	case TypeBoolean:
		return coerceBoolean(raw, path)
	case TypeObject:
		sub, ok := r.schemas[f.Schema]
		if !ok {
			return nil, []FieldError{{Field: path, Message: fmt.Sprintf("references unknown schema %q", f.Schema)}}
		}
		nested, ok := raw.(map[string]interface{})
		if !ok {
			return nil, []FieldError{{Field: path, Message: "must be an object"}}
		}
		return r.validateObject(sub, nested, path)
	default:
		return nil, []FieldError{{Field: path, Message: fmt.Sprintf("has unsupported type %q", f.Type)}}
	}
}

func (r *Registry) validateString(f Field, raw interface{}, path string) (interface{}, []FieldError) {
	value, ok := raw.(string)
	if !ok {
		return nil, []FieldError{{Field: path, Message: "must be a string"}}
	}

	var errs []FieldError

	if f.Required && strings.TrimSpace(value) == "" {
		return nil, []FieldError{{Field: path, Message: "is required"}}
	}
	if f.MinLen > 0 && len(value) < f.MinLen {
		errs = append(errs, FieldError{Field: path, Message: fmt.Sprintf("must be at least %d characters", f.MinLen)})
	}
	if f.MaxLen > 0 && len(value) > f.MaxLen {
		errs = append(errs, FieldError{Field: path, Message: fmt.Sprintf("must be at most %d characters", f.MaxLen)})
	}
	if f.Format != "" {
		if err := r.validate.Var(value, f.Format); err != nil {
			errs = append(errs, FieldError{Field: path, Message: fmt.Sprintf("must be a valid %s", f.Format)})
		}
	}
	if len(f.Enum) > 0 {
		if err := r.validate.Var(value, "oneof="+strings.Join(f.Enum, " ")); err != nil {
			errs = append(errs, FieldError{Field: path, Message: fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", "))})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return value, nil
}

func coerceInteger(raw interface{}, path string) (interface{}, []FieldError) {
	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) {
			return nil, []FieldError{{Field: path, Message: "must be an integer"}}
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, []FieldError{{Field: path, Message: "must be an integer"}}
		}
		return n, nil
	default:
		return nil, []FieldError{{Field: path, Message: "must be an integer"}}
	}
}

func coerceNumber(raw interface{}, path string) (interface{}, []FieldError) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, []FieldError{{Field: path, Message: "must be a number"}}
		}
		return n, nil
	default:
		return nil, []FieldError{{Field: path, Message: "must be a number"}}
	}
}

func coerceBoolean(raw interface{}, path string) (interface{}, []FieldError) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, []FieldError{{Field: path, Message: "must be a boolean"}}
		}
		return b, nil
	default:
		return nil, []FieldError{{Field: path, Message: "must be a boolean"}}
	}
}
