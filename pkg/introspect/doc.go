// Package introspect derives templates from type descriptions: Go structs,
// JSON Schema documents, OpenAPI component schemas and GraphQL object
// types.
//
// Every introspector maps a property to a template entry the same way.
// Explicit metadata wins (a mock struct tag, the x-mock-placeholder and
// x-mock-rule schema keywords, or a @mock GraphQL directive), then enums,
// formats and patterns, then a heuristic on the property name, and finally
// a default per type:
//
//	string   "@WORD"
//	integer  "name|1-100": 0
//	number   "name|1-100.2": 0
//	boolean  "name|1": true
//	array    "name|1-3": [element]
//
// Nested objects are followed up to Config.MaxDepth levels; deeper
// properties are omitted.
package introspect
