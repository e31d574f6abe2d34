package tool

import (
	"encoding/json"

	"github.com/spetersoncode/chainact/schema"
)

// SchemaFor generates a JSON schema from a struct type T.
// This is a convenience re-export of schema.For.
// See schema.For for full documentation.
func SchemaFor[T any]() (json.RawMessage, error) {
	return schema.For[T]()
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	return schema.MustFor[T]()
}
