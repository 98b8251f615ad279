// Package quadtree implements the 2-D point-partitioning index: a
// four-way midpoint subdivision over two chosen numeric dimensions.
package quadtree

import (
	"fmt"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/spatial"
)

// Options contains configuration options for the quadtree.
type Options struct {
	spatial.Config

	// XDim and YDim select the two record-vector positions the tree
	// indexes on.
	XDim int
	YDim int
}

// DefaultOptions contains the default configuration options for the
// quadtree: the first two numeric dimensions, reference capacity and
// depth limits.
var DefaultOptions = Options{
	Config: spatial.DefaultConfig,
	XDim:   0,
	YDim:   1,
}

// Quadtree indexes the 2-D projection of a record set.
type Quadtree struct {
	tree     *spatial.Tree
	dims     []int
	rejected int
}

var _ spatial.Index = (*Quadtree)(nil)

// Build constructs a quadtree over the points' (XDim, YDim) projection,
// inserting them in dataset order. Record identifiers are the ordinal
// positions of the points.
func Build(points []geo.Point, optFns ...func(o *Options)) (*Quadtree, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(points) == 0 {
		return nil, spatial.ErrNoPoints
	}
	if d := len(points[0]); opts.XDim < 0 || opts.XDim >= d || opts.YDim < 0 || opts.YDim >= d {
		return nil, fmt.Errorf("quadtree: dimensions (%d, %d) out of range for %d-dimensional points",
			opts.XDim, opts.YDim, d)
	}
	if opts.XDim == opts.YDim {
		return nil, fmt.Errorf("quadtree: x and y dimension must differ, both are %d", opts.XDim)
	}

	projected := make([]geo.Point, len(points))
	for i, p := range points {
		projected[i] = geo.Point{p[opts.XDim], p[opts.YDim]}
	}

	tree, rejected, err := spatial.BuildTree(projected, nil, spatial.MidpointSplit{}, opts.Config)
	if err != nil {
		return nil, err
	}

	return &Quadtree{
		tree:     tree,
		dims:     []int{opts.XDim, opts.YDim},
		rejected: rejected,
	}, nil
}

// Insert adds a point given in the tree's projected 2-D space.
func (q *Quadtree) Insert(p geo.Point, id model.RecordID) error {
	return q.tree.Insert(p, id)
}

// RangeQuery returns every record whose projected point lies within
// box, bounds inclusive.
func (q *Quadtree) RangeQuery(box geo.Rect) []model.RecordID {
	return q.tree.RangeQuery(box)
}

// Bounds returns the padded region the tree was built over.
func (q *Quadtree) Bounds() geo.Rect { return q.tree.Bounds() }

// Dimensions returns the two record-vector positions the tree indexes on.
func (q *Quadtree) Dimensions() []int { return q.dims }

// Stats returns the structural statistics of the tree.
func (q *Quadtree) Stats() spatial.Stats {
	return spatial.Stats{Size: q.tree.Size(), Depth: q.tree.Depth(), Rejected: q.rejected}
}
