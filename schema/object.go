package schema

import (
	"encoding/json"
	"fmt"
)

// Object creates a new object schema builder. An object with no fields
// serializes as a free-form object, which is how open argument maps are
// declared.
func Object() *ObjectBuilder {
	return &ObjectBuilder{n: &schemaNode{Type: "object", Properties: make(map[string]*schemaNode)}}
}

// ObjectBuilder constructs object type schemas.
type ObjectBuilder struct {
	n *schemaNode
}

// Desc sets the description for the object itself.
func (b *ObjectBuilder) Desc(description string) *ObjectBuilder {
	b.n.Description = description
	return b
}

// Field adds a named property. The field argument must be a Builder or a
// *RequiredField produced by a builder's Required method.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.n.Properties[name] = f.builder.node()
		b.addRequired(name)
	case Builder:
		b.n.Properties[name] = f.node()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

func (b *ObjectBuilder) addRequired(name string) {
	for _, r := range b.n.Required {
		if r == name {
			return
		}
	}
	b.n.Required = append(b.n.Required, name)
}

// Required marks this object as required when nested in another object.
func (b *ObjectBuilder) Required() *RequiredField {
	return &RequiredField{builder: b}
}

// Build serializes the schema to json.RawMessage.
func (b *ObjectBuilder) Build() (json.RawMessage, error) {
	if err := b.n.validate(); err != nil {
		return nil, err
	}
	return marshalObject(b.n)
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() json.RawMessage {
	data, err := b.Build()
	if err != nil {
		panic(err)
	}
	return data
}

func (b *ObjectBuilder) node() *schemaNode {
	return b.n
}

// marshalObject serializes an object node, keeping an empty properties map
// present so downstream consumers always see "properties".
func marshalObject(n *schemaNode) (json.RawMessage, error) {
	type objectJSON struct {
		Type        string                 `json:"type"`
		Description string                 `json:"description,omitempty"`
		Properties  map[string]*schemaNode `json:"properties"`
		Required    []string               `json:"required,omitempty"`
	}
	return json.Marshal(objectJSON{
		Type:        n.Type,
		Description: n.Description,
		Properties:  n.Properties,
		Required:    n.Required,
	})
}
