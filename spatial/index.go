package spatial

import (
	"errors"
	"fmt"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
)

var (
	// ErrInvalidCapacity is returned when a node capacity is not positive.
	ErrInvalidCapacity = errors.New("capacity must be positive")

	// ErrInvalidMaxDepth is returned when a maximum depth is not positive.
	ErrInvalidMaxDepth = errors.New("max depth must be positive")

	// ErrNoPoints is returned when an index is built over an empty point set.
	ErrNoPoints = errors.New("no points to index")
)

// ErrOutOfBounds indicates an insertion outside a node's region. It is
// non-fatal: build drivers count these and continue with the remaining
// points.
type ErrOutOfBounds struct {
	Point  geo.Point
	Bounds geo.Rect
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("point %v outside region [%v, %v]", e.Point, e.Bounds.Min, e.Bounds.Max)
}

// ErrDimensionMismatch indicates a point or box whose dimensionality
// does not match the index.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Stats reports the structural shape of a built index.
type Stats struct {
	// Size is the number of points held by the index.
	Size int
	// Depth is the maximum leaf depth; an unsplit root counts as 1.
	Depth int
	// Rejected counts points refused at build time (out of bounds).
	Rejected int
}

// Index is the contract shared by every spatial index variant. An index
// is built once over a projection of the record set and is read-only
// afterwards; queries from multiple goroutines are safe provided no
// insert is in flight.
type Index interface {
	// Insert adds a projected point. The error is non-fatal: out-of-bounds
	// points are reported and skipped, never aborting a build.
	Insert(p geo.Point, id model.RecordID) error

	// RangeQuery returns the identifier of every held point lying within
	// box, bounds inclusive. Each identifier appears at most once.
	RangeQuery(box geo.Rect) []model.RecordID

	// Bounds returns the region the index was built over.
	Bounds() geo.Rect

	// Dimensions returns the record-vector positions this index projects
	// onto, in axis order.
	Dimensions() []int

	// Stats returns size, depth and rejected-point counts.
	Stats() Stats
}
