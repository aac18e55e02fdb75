// Package field extracts nested values from decoded YAML documents.
//
// Lookups are total: a missing key, an out of range index, a null value or
// a type mismatch along the way all yield an absent [Value] rather than an
// error. Paths use dotted keys with optional indexes, for example
// `spec.template.spec.containers[0].image`. Each path is compiled once into
// a CEL expression built from optional index operations.
package field
