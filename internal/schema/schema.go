package schema

// FieldType is the declared type of a payload field. Values of other JSON
// types are coerced where possible (e.g. numeric strings for TypeInteger).
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
)

// Field declares the validation rules for a single payload field.
type Field struct {
	Name     string
	Type     FieldType
	Required bool

	// Format is a validator tag fragment applied to string values,
	// e.g. "email" or "uuid4".
	Format string

	// Enum restricts string values to the listed members.
	Enum []string

	// MinLen/MaxLen bound string length. Zero means unset.
	MinLen int
	MaxLen int

	// Schema references a registered sub-schema for TypeObject fields.
	Schema string
}

// Schema declares the expected shape of a request payload. Fields are
// validated in declaration order so error lists are deterministic.
type Schema struct {
	Name   string
	Fields []Field
}
