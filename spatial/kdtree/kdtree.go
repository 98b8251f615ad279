// Package kdtree implements the k-dimensional binary-partitioning
// index: nodes split in two at the median of the held points, with the
// split dimension cycling by depth.
package kdtree

import (
	"sort"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/spatial"
)

// Options contains configuration options for the k-d tree.
type Options struct {
	spatial.Config
}

// DefaultOptions contains the default configuration options for the
// k-d tree.
var DefaultOptions = Options{
	Config: spatial.DefaultConfig,
}

// KDTree indexes the full numeric projection of a record set.
type KDTree struct {
	tree     *spatial.Tree
	dims     []int
	rejected int
}

var _ spatial.Index = (*KDTree)(nil)

// Build constructs a k-d tree over the points, inserting them in
// dataset order.
func Build(points []geo.Point, optFns ...func(o *Options)) (*KDTree, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(points) == 0 {
		return nil, spatial.ErrNoPoints
	}

	dims := make([]int, len(points[0]))
	for i := range dims {
		dims[i] = i
	}

	tree, rejected, err := spatial.BuildTree(points, nil, MedianSplit{Epsilon: opts.Epsilon}, opts.Config)
	if err != nil {
		return nil, err
	}

	return &KDTree{tree: tree, dims: dims, rejected: rejected}, nil
}

// Insert adds a point to the tree.
func (k *KDTree) Insert(p geo.Point, id model.RecordID) error {
	return k.tree.Insert(p, id)
}

// RangeQuery returns every record whose point lies within box, bounds
// inclusive.
func (k *KDTree) RangeQuery(box geo.Rect) []model.RecordID {
	return k.tree.RangeQuery(box)
}

// Bounds returns the padded region the tree was built over.
func (k *KDTree) Bounds() geo.Rect { return k.tree.Bounds() }

// Dimensions returns the record-vector positions the tree indexes on.
func (k *KDTree) Dimensions() []int { return k.dims }

// Stats returns the structural statistics of the tree.
func (k *KDTree) Stats() spatial.Stats {
	return spatial.Stats{Size: k.tree.Size(), Depth: k.tree.Depth(), Rejected: k.rejected}
}

// MedianSplit is the k-d split strategy: a binary cut at the median of
// the node's points, on a dimension cycling with depth. Dimensions
// whose points have no spread (within Epsilon) are skipped; when no
// dimension has spread the node stays an escape-hatch leaf.
type MedianSplit struct {
	Epsilon float64
}

var _ spatial.SplitStrategy = MedianSplit{}

// Split implements spatial.SplitStrategy.
func (s MedianSplit) Split(region geo.Rect, entries []spatial.Entry, depth int) ([]geo.Rect, bool) {
	d := region.Dims()
	eps := s.Epsilon
	if eps <= 0 {
		eps = spatial.DefaultConfig.Epsilon
	}

	for off := 0; off < d; off++ {
		dim := (depth - 1 + off) % d

		minv, maxv := spread(entries, dim)
		if maxv-minv < eps {
			continue
		}

		m := median(entries, dim)
		if m >= maxv {
			// The median collides with the maximum; cut the coordinate
			// interval instead so both sides receive points.
			m = (minv + maxv) / 2
		}

		left := geo.Rect{Min: append(geo.Point{}, region.Min...), Max: append(geo.Point{}, region.Max...)}
		right := geo.Rect{Min: append(geo.Point{}, region.Min...), Max: append(geo.Point{}, region.Max...)}
		left.Max[dim] = m
		right.Min[dim] = m

		return []geo.Rect{left, right}, true
	}

	return nil, false
}

func spread(entries []spatial.Entry, dim int) (minv, maxv float64) {
	minv, maxv = entries[0].Point[dim], entries[0].Point[dim]
	for _, e := range entries[1:] {
		v := e.Point[dim]
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	return minv, maxv
}

func median(entries []spatial.Entry, dim int) float64 {
	coords := make([]float64, len(entries))
	for i, e := range entries {
		coords[i] = e.Point[dim]
	}
	sort.Float64s(coords)
	return coords[(len(coords)-1)/2]
}
