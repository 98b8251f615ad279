// Package geo provides axis-aligned bounding boxes over the numeric
// dimensions of a record collection. All operations are pure functions
// over immutable inputs; there are no error conditions beyond
// construction-time validation.
package geo
