package schema

import "encoding/json"

// Array creates a new array schema builder with the given item schema.
func Array(items Builder) *ArrayBuilder {
	b := &ArrayBuilder{n: &schemaNode{Type: "array"}}
	if items != nil {
		b.n.Items = items.node()
	}
	return b
}

// ArrayBuilder constructs array type schemas.
type ArrayBuilder struct {
	n *schemaNode
}

// Desc sets the description for this field.
func (b *ArrayBuilder) Desc(description string) *ArrayBuilder {
	b.n.Description = description
	return b
}

// Required marks this field as required when used in an object.
func (b *ArrayBuilder) Required() *RequiredField {
	return &RequiredField{builder: b}
}

// Build serializes the schema to json.RawMessage.
func (b *ArrayBuilder) Build() (json.RawMessage, error) {
	if err := b.n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(b.n)
}

// MustBuild is like Build but panics on error.
func (b *ArrayBuilder) MustBuild() json.RawMessage {
	data, err := b.Build()
	if err != nil {
		panic(err)
	}
	return data
}

func (b *ArrayBuilder) node() *schemaNode {
	return b.n
}
