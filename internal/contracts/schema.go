// Package contracts defines the structured output every pipeline stage must
// produce: the result types, their schemas and the parsing/validation of raw
// model payloads into them.
package contracts

// Type is a JSON value type understood by the contract schemas.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
)

const jsonSchemaDraft = "http://json-schema.org/draft-07/schema#"

// Schema describes the expected shape of a structured payload. Every
// property of an object schema is required.
type Schema struct {
	Type        Type
	Description string
	Properties  []Property
	Items       *Schema
	Enum        []string
	Minimum     *int
	Maximum     *int
}

// Property is a named member of an object schema. Order is preserved when the
// schema is rendered.
type Property struct {
	Name   string
	Schema *Schema
}

// String returns a string schema.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Integer returns an unbounded integer schema.
func Integer(description string) *Schema {
	return &Schema{Type: TypeInteger, Description: description}
}

// IntRange returns an integer schema bounded to [minimum, maximum].
func IntRange(minimum, maximum int, description string) *Schema {
	return &Schema{Type: TypeInteger, Description: description, Minimum: &minimum, Maximum: &maximum}
}

// Enum returns a string schema restricted to values.
func Enum(description string, values ...string) *Schema {
	return &Schema{Type: TypeString, Description: description, Enum: values}
}

// Array returns an array schema of items.
func Array(items *Schema, description string) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// Object returns an object schema with the given properties, all required.
func Object(description string, properties ...Property) *Schema {
	return &Schema{Type: TypeObject, Description: description, Properties: properties}
}

// Prop is shorthand for a Property literal.
func Prop(name string, schema *Schema) Property {
	return Property{Name: name, Schema: schema}
}

// Required lists the property names of an object schema.
func (s *Schema) Required() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	return names
}

// JSONSchema renders s as a draft-07 JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	doc := s.render()
	doc["$schema"] = jsonSchemaDraft
	return doc
}

func (s *Schema) render() map[string]any {
	if s == nil {
		return map[string]any{}
	}

	doc := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		doc["description"] = s.Description
	}

	switch s.Type {
	case TypeObject:
		props := make(map[string]any, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.render()
		}
		doc["properties"] = props
		doc["required"] = s.Required()
	case TypeArray:
		if s.Items != nil {
			doc["items"] = s.Items.render()
		}
	case TypeInteger:
		if s.Minimum != nil {
			doc["minimum"] = *s.Minimum
		}
		if s.Maximum != nil {
			doc["maximum"] = *s.Maximum
		}
	}

	if len(s.Enum) > 0 {
		values := make([]any, 0, len(s.Enum))
		for _, v := range s.Enum {
			values = append(values, v)
		}
		doc["enum"] = values
	}

	return doc
}
