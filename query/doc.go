// Package query fuses the spatial, metadata and text-similarity layers
// into the hybrid two-phase pipeline: range filter, exact-match filter,
// similarity ranking, top-K selection.
package query
