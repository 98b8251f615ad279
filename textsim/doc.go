// Package textsim defines the contract for approximate text-similarity
// indexes: signature-based retrieval of records textually close to a
// query string, restricted to an optional candidate set.
package textsim
