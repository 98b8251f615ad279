// Package metadata provides exact-match filtering over the categorical
// attributes of a record: single values, value sets, and inclusive
// calendar date ranges.
package metadata
