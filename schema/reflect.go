package schema

import (
	"encoding/json"
	"reflect"
	"strings"
)

// For generates a JSON Schema object from a struct type T.
// Field names are taken from json tags, descriptions from desc tags,
// and fields tagged required:"true" are listed as required. String
// fields may carry an enum tag with comma-separated allowed values.
//
// Example:
//
//	type CalcArgs struct {
//	    Expression string `json:"expression" desc:"Arithmetic expression" required:"true"`
//	}
func For[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return marshalObject(&schemaNode{Type: "object", Properties: map[string]*schemaNode{}})
	}
	n := nodeFromStruct(t)
	if err := n.validate(); err != nil {
		return nil, err
	}
	return marshalObject(n)
}

// MustFor is like For but panics on error.
func MustFor[T any]() json.RawMessage {
	data, err := For[T]()
	if err != nil {
		panic(err)
	}
	return data
}

func nodeFromStruct(t reflect.Type) *schemaNode {
	n := &schemaNode{Type: "object", Properties: make(map[string]*schemaNode)}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop := nodeFromType(field.Type)
		if desc := field.Tag.Get("desc"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" && prop.Type == "string" {
			for _, v := range strings.Split(enum, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(v))
			}
		}
		n.Properties[name] = prop

		if field.Tag.Get("required") == "true" {
			n.Required = append(n.Required, name)
		}
	}
	return n
}

func nodeFromType(t reflect.Type) *schemaNode {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return &schemaNode{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &schemaNode{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &schemaNode{Type: "number"}
	case reflect.Bool:
		return &schemaNode{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &schemaNode{Type: "array", Items: nodeFromType(t.Elem())}
	case reflect.Struct:
		return nodeFromStruct(t)
	case reflect.Map:
		return &schemaNode{Type: "object"}
	default:
		return &schemaNode{Type: "string"}
	}
}
