// Package schema provides a fluent API for building the JSON Schema objects
// that chainact hands to reasoning engines: structured-response contracts,
// plan schemas, and tool parameter definitions.
//
// Schemas are built programmatically and validated at build time:
//
//	resp := schema.Object().
//		Field("action_type", schema.String().Desc("Self-classified action").Required()).
//		Field("is_done", schema.Bool().Required()).
//		MustBuild()
//
// Enums constrain string fields, which is how tool selection is restricted
// to registered names:
//
//	schema.String().Enum("calc", "compound", "stats", "none")
//
// Arrays take an item schema, and objects nest:
//
//	schema.Array(schema.Object().
//		Field("action_type", schema.String().Required()).
//		Field("description", schema.String().Required()))
//
// Use Build instead of MustBuild to surface construction errors such as an
// array without an item schema or an inverted numeric range.
package schema
