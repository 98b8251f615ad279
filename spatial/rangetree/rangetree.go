// Package rangetree implements the d-dimensional grid-partitioning
// index: every node splits at the midpoint of all configured dimensions
// at once, producing 2^d children.
package rangetree

import (
	"fmt"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/spatial"
)

// Options contains configuration options for the range tree.
type Options struct {
	spatial.Config

	// Dims selects the record-vector positions to index on.
	// Nil means all dimensions of the input points.
	Dims []int
}

// DefaultOptions contains the default configuration options for the
// range tree.
var DefaultOptions = Options{
	Config: spatial.DefaultConfig,
}

// RangeTree indexes a d-dimensional projection of a record set.
type RangeTree struct {
	tree     *spatial.Tree
	dims     []int
	rejected int
}

var _ spatial.Index = (*RangeTree)(nil)

// Build constructs a range tree over the points, inserting them in
// dataset order.
func Build(points []geo.Point, optFns ...func(o *Options)) (*RangeTree, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(points) == 0 {
		return nil, spatial.ErrNoPoints
	}

	d := len(points[0])
	dims := opts.Dims
	if dims == nil {
		dims = make([]int, d)
		for i := range dims {
			dims[i] = i
		}
	}
	for _, dim := range dims {
		if dim < 0 || dim >= d {
			return nil, fmt.Errorf("rangetree: dimension %d out of range for %d-dimensional points", dim, d)
		}
	}
	// 2^d children per split; beyond this the fan-out stops being useful.
	if len(dims) > 16 {
		return nil, fmt.Errorf("rangetree: %d dimensions exceed the supported maximum of 16", len(dims))
	}

	projected := make([]geo.Point, len(points))
	for i, p := range points {
		pp := make(geo.Point, len(dims))
		for j, dim := range dims {
			pp[j] = p[dim]
		}
		projected[i] = pp
	}

	tree, rejected, err := spatial.BuildTree(projected, nil, spatial.MidpointSplit{}, opts.Config)
	if err != nil {
		return nil, err
	}

	return &RangeTree{tree: tree, dims: dims, rejected: rejected}, nil
}

// Insert adds a point given in the tree's projected space.
func (r *RangeTree) Insert(p geo.Point, id model.RecordID) error {
	return r.tree.Insert(p, id)
}

// RangeQuery returns every record whose projected point lies within
// box, bounds inclusive.
func (r *RangeTree) RangeQuery(box geo.Rect) []model.RecordID {
	return r.tree.RangeQuery(box)
}

// Bounds returns the padded region the tree was built over.
func (r *RangeTree) Bounds() geo.Rect { return r.tree.Bounds() }

// Dimensions returns the record-vector positions the tree indexes on.
func (r *RangeTree) Dimensions() []int { return r.dims }

// Stats returns the structural statistics of the tree.
func (r *RangeTree) Stats() spatial.Stats {
	return spatial.Stats{Size: r.tree.Size(), Depth: r.tree.Depth(), Rejected: r.rejected}
}
