package spatial

import (
	"math"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
)

// Entry is a projected point together with its record identifier.
type Entry struct {
	Point geo.Point
	ID    model.RecordID
}

// SplitStrategy decides how a node's region subdivides. Implementations
// differ per index variant (midpoint grid, median binary split); the
// traversal, capacity and depth handling are shared by Tree.
//
// Split returns the child regions, whose union must exactly cover the
// parent region. ok is false when the strategy cannot produce a useful
// split for the given entries; the node then stays a leaf.
type SplitStrategy interface {
	Split(region geo.Rect, entries []Entry, depth int) (regions []geo.Rect, ok bool)
}

// Config carries the structural parameters of a partition tree. The
// defaults match the reference configuration: capacity 50, max depth 25.
type Config struct {
	// Capacity is the number of entries a leaf holds before it splits.
	Capacity int
	// MaxDepth bounds the tree depth; leaves at MaxDepth absorb
	// overflow instead of splitting.
	MaxDepth int
	// Epsilon is the per-dimension tolerance used to detect coincident
	// points that cannot be separated by splitting.
	Epsilon float64
	// PadFraction pads the computed enclosing region per dimension so
	// extremal points are never excluded by the boundary.
	PadFraction float64
}

// DefaultConfig is the reference configuration for partition trees.
var DefaultConfig = Config{
	Capacity:    50,
	MaxDepth:    25,
	Epsilon:     1e-10,
	PadFraction: 0.01,
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if c.MaxDepth <= 0 {
		return ErrInvalidMaxDepth
	}
	return nil
}

// Tree is a point-partitioning tree: a hierarchy of nodes each owning a
// region of the projected attribute space. Nodes are either leaves
// holding entries or internal nodes owning child regions produced by
// the configured SplitStrategy, never both.
type Tree struct {
	root     *pnode
	strategy SplitStrategy
	cfg      Config
	size     int
}

// NewTree creates an empty partition tree over bounds.
func NewTree(bounds geo.Rect, strategy SplitStrategy, cfg Config) (*Tree, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tree{
		root:     &pnode{region: bounds, depth: 1},
		strategy: strategy,
		cfg:      cfg,
	}, nil
}

// BuildTree computes the minimal enclosing region of points, pads it by
// cfg.PadFraction per dimension, and inserts every point in order. The
// second return value counts rejected (out-of-bounds) points; with the
// padded root region it should stay zero and exists as a defensive
// contract for custom subtrees.
func BuildTree(points []geo.Point, ids []model.RecordID, strategy SplitStrategy, cfg Config) (*Tree, int, error) {
	bounds, ok := geo.Bound(points)
	if !ok {
		return nil, 0, ErrNoPoints
	}

	t, err := NewTree(bounds.Pad(cfg.PadFraction), strategy, cfg)
	if err != nil {
		return nil, 0, err
	}

	rejected := 0
	for i, p := range points {
		id := model.RecordID(i)
		if ids != nil {
			id = ids[i]
		}
		if err := t.Insert(p, id); err != nil {
			rejected++
		}
	}
	return t, rejected, nil
}

// Insert adds a point to the tree. A point outside the root region is
// rejected with *ErrOutOfBounds; the tree is left unchanged.
func (t *Tree) Insert(p geo.Point, id model.RecordID) error {
	if len(p) != t.root.region.Dims() {
		return &ErrDimensionMismatch{Expected: t.root.region.Dims(), Actual: len(p)}
	}
	if err := t.root.insert(Entry{Point: p, ID: id}, t); err != nil {
		return err
	}
	t.size++
	return nil
}

// RangeQuery returns the identifiers of all entries within box, bounds
// inclusive. Every entry is owned by exactly one leaf, so identifiers
// are not repeated.
func (t *Tree) RangeQuery(box geo.Rect) []model.RecordID {
	var out []model.RecordID
	t.root.query(box, &out)
	return out
}

// Size returns the number of entries held by the tree.
func (t *Tree) Size() int { return t.size }

// Depth returns the maximum leaf depth; an unsplit root reports 1.
func (t *Tree) Depth() int { return t.root.maxDepth() }

// Bounds returns the root region.
func (t *Tree) Bounds() geo.Rect { return t.root.region }

type pnode struct {
	region   geo.Rect
	depth    int
	entries  []Entry
	children []*pnode
}

func (n *pnode) leaf() bool { return n.children == nil }

func (n *pnode) insert(e Entry, t *Tree) error {
	if !n.region.Contains(e.Point) {
		return &ErrOutOfBounds{Point: e.Point, Bounds: n.region}
	}

	if n.leaf() {
		if len(n.entries) < t.cfg.Capacity {
			n.entries = append(n.entries, e)
			return nil
		}
		if n.depth >= t.cfg.MaxDepth {
			// Graceful overflow instead of an unsplittable failure.
			n.entries = append(n.entries, e)
			return nil
		}

		n.subdivide(t)

		if n.leaf() {
			// Escape-hatch leaf: coincident points cannot be separated.
			n.entries = append(n.entries, e)
			return nil
		}
	}

	return n.insertToChild(e, t)
}

func (n *pnode) insertToChild(e Entry, t *Tree) error {
	for _, c := range n.children {
		if c.region.Contains(e.Point) {
			return c.insert(e, t)
		}
	}
	// Only reachable through floating-point boundary edge cases.
	return &ErrOutOfBounds{Point: e.Point, Bounds: n.region}
}

// subdivide transitions a leaf to an internal node, redistributing its
// entries into fresh children. It is a no-op when every held point is
// coincident within Epsilon or the strategy declines to split.
func (n *pnode) subdivide(t *Tree) {
	if coincident(n.entries, t.cfg.Epsilon) {
		return
	}

	regions, ok := t.strategy.Split(n.region, n.entries, n.depth)
	if !ok {
		return
	}

	children := make([]*pnode, len(regions))
	for i, r := range regions {
		children[i] = &pnode{region: r, depth: n.depth + 1}
	}
	n.children = children

	for _, e := range n.entries {
		// The children cover the parent region, so routing cannot fail.
		_ = n.insertToChild(e, t)
	}
	n.entries = nil
}

func (n *pnode) query(box geo.Rect, out *[]model.RecordID) {
	if !n.region.Intersects(box) {
		return
	}
	for _, e := range n.entries {
		if box.Contains(e.Point) {
			*out = append(*out, e.ID)
		}
	}
	for _, c := range n.children {
		c.query(box, out)
	}
}

func (n *pnode) maxDepth() int {
	if n.leaf() {
		return n.depth
	}
	max := n.depth
	for _, c := range n.children {
		if d := c.maxDepth(); d > max {
			max = d
		}
	}
	return max
}

// coincident reports whether all entries map to the same location
// within eps on every dimension.
func coincident(entries []Entry, eps float64) bool {
	if len(entries) < 2 {
		return false
	}
	first := entries[0].Point
	for _, e := range entries[1:] {
		for i := range first {
			if math.Abs(e.Point[i]-first[i]) >= eps {
				return false
			}
		}
	}
	return true
}

// MidpointSplit subdivides a region at its midpoint in every dimension,
// producing 2^d children: four quadrants for two dimensions, 2^d
// orthants in general.
type MidpointSplit struct{}

// Split implements SplitStrategy.
func (MidpointSplit) Split(region geo.Rect, _ []Entry, _ int) ([]geo.Rect, bool) {
	d := region.Dims()
	mid := region.Midpoint()

	regions := make([]geo.Rect, 0, 1<<d)
	for mask := 0; mask < 1<<d; mask++ {
		min := make(geo.Point, d)
		max := make(geo.Point, d)
		for i := 0; i < d; i++ {
			if mask&(1<<i) != 0 {
				min[i], max[i] = mid[i], region.Max[i]
			} else {
				min[i], max[i] = region.Min[i], mid[i]
			}
		}
		regions = append(regions, geo.Rect{Min: min, Max: max})
	}
	return regions, true
}
