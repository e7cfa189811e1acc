// Package schema turns typed request-body definitions into compiled JSON Schema
// validators and exposes them as HTTP middleware.
//
// A Schema is closed by default: fields it does not declare are rejected.
// Validators are built once at route registration and are safe for concurrent use.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
)

type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

type Format string

const (
	FormatURI      Format = "uri"
	FormatEmail    Format = "email"
	FormatDate     Format = "date"
	FormatDateTime Format = "date-time"
	FormatUUID     Format = "uuid"
)

var (
	knownTypes   = map[Type]bool{TypeString: true, TypeInteger: true, TypeNumber: true, TypeBoolean: true}
	knownFormats = map[Format]bool{FormatURI: true, FormatEmail: true, FormatDate: true, FormatDateTime: true, FormatUUID: true}
)

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Field describes one property of a request body. Bounds are nil when unset.
type Field struct {
	Name      string
	Type      Type
	Format    Format
	Required  bool
	MinLength *int
	MaxLength *int
	Minimum   *float64
	Maximum   *float64
}

type FieldOption func(*Field)

func Required() FieldOption {
	return func(f *Field) { f.Required = true }
}

func WithFormat(format Format) FieldOption {
	return func(f *Field) { f.Format = format }
}

func MinLength(n int) FieldOption {
	return func(f *Field) { f.MinLength = &n }
}

func MaxLength(n int) FieldOption {
	return func(f *Field) { f.MaxLength = &n }
}

func Minimum(v float64) FieldOption {
	return func(f *Field) { f.Minimum = &v }
}

func Maximum(v float64) FieldOption {
	return func(f *Field) { f.Maximum = &v }
}

func String(name string, opts ...FieldOption) Field {
	return newField(name, TypeString, opts)
}

func Integer(name string, opts ...FieldOption) Field {
	return newField(name, TypeInteger, opts)
}

func Number(name string, opts ...FieldOption) Field {
	return newField(name, TypeNumber, opts)
}

func Boolean(name string, opts ...FieldOption) Field {
	return newField(name, TypeBoolean, opts)
}

func newField(name string, typ Type, opts []FieldOption) Field {
	f := Field{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Schema is an immutable description of an object-shaped request body.
type Schema struct {
	fields       []Field
	allowUnknown bool
}

// Object returns a closed schema declaring fields in the given order.
func Object(fields ...Field) Schema {
	return Schema{fields: append([]Field(nil), fields...)}
}

// AllowUnknown returns a copy of s that accepts undeclared fields.
func (s Schema) AllowUnknown() Schema {
	s.fields = append([]Field(nil), s.fields...)
	s.allowUnknown = true
	return s
}

func (s Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// DefinitionError reports a structurally invalid schema. It is a programming
// error and is expected to abort startup.
type DefinitionError struct {
	Field  string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return "invalid schema definition: " + e.Reason
	}
	return fmt.Sprintf("invalid schema definition: field %q: %s", e.Field, e.Reason)
}

func (s Schema) validate() error {
	seen := make(map[string]bool, len(s.fields))
	for _, f := range s.fields {
		if !fieldNamePattern.MatchString(f.Name) {
			return &DefinitionError{Field: f.Name, Reason: "name must match " + fieldNamePattern.String()}
		}
		if seen[f.Name] {
			return &DefinitionError{Field: f.Name, Reason: "declared more than once"}
		}
		seen[f.Name] = true

		if !knownTypes[f.Type] {
			return &DefinitionError{Field: f.Name, Reason: fmt.Sprintf("unknown type %q", f.Type)}
		}
		if f.Format != "" {
			if f.Type != TypeString {
				return &DefinitionError{Field: f.Name, Reason: "format requires type string"}
			}
			if !knownFormats[f.Format] {
				return &DefinitionError{Field: f.Name, Reason: fmt.Sprintf("unknown format %q", f.Format)}
			}
		}
		if f.MinLength != nil || f.MaxLength != nil {
			if f.Type != TypeString {
				return &DefinitionError{Field: f.Name, Reason: "length bounds require type string"}
			}
			if (f.MinLength != nil && *f.MinLength < 0) || (f.MaxLength != nil && *f.MaxLength < 0) {
				return &DefinitionError{Field: f.Name, Reason: "length bounds must not be negative"}
			}
			if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
				return &DefinitionError{Field: f.Name, Reason: "minLength exceeds maxLength"}
			}
		}
		if f.Minimum != nil || f.Maximum != nil {
			if f.Type != TypeInteger && f.Type != TypeNumber {
				return &DefinitionError{Field: f.Name, Reason: "numeric bounds require type integer or number"}
			}
			if f.Minimum != nil && f.Maximum != nil && *f.Minimum > *f.Maximum {
				return &DefinitionError{Field: f.Name, Reason: "minimum exceeds maximum"}
			}
		}
	}
	return nil
}

type document struct {
	Schema               string              `json:"$schema"`
	Type                 string              `json:"type"`
	Properties           map[string]property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type property struct {
	Type      Type     `json:"type"`
	Format    Format   `json:"format,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
}

// Document renders s as a draft-07 JSON Schema. Map keys are emitted sorted, so
// equal schemas always produce identical bytes.
func (s Schema) Document() (json.RawMessage, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	doc := document{
		Schema:               "http://json-schema.org/draft-07/schema#",
		Type:                 "object",
		Properties:           make(map[string]property, len(s.fields)),
		AdditionalProperties: s.allowUnknown,
	}
	for _, f := range s.fields {
		doc.Properties[f.Name] = property{
			Type:      f.Type,
			Format:    f.Format,
			MinLength: f.MinLength,
			MaxLength: f.MaxLength,
			Minimum:   f.Minimum,
			Maximum:   f.Maximum,
		}
		if f.Required {
			doc.Required = append(doc.Required, f.Name)
		}
	}
	return json.Marshal(doc)
}
