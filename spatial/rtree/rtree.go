// Package rtree implements the bounding-box aggregation index. Unlike
// the partition variants it does not divide space disjointly: leaves
// group nearby points and every node keeps the minimal bounding box of
// its subtree, which drives range-query pruning. Building packs points
// in Z-order; later inserts descend by least bounding-box enlargement.
package rtree

import (
	"math"
	"sort"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/spatial"
)

// Options contains configuration options for the r-tree.
type Options struct {
	// LeafCapacity is the maximum number of points per leaf.
	LeafCapacity int
	// Fanout is the maximum number of children per internal node.
	Fanout int
}

// DefaultOptions contains the default configuration options for the
// r-tree.
var DefaultOptions = Options{
	LeafCapacity: 50,
	Fanout:       8,
}

// RTree indexes the full numeric projection of a record set.
type RTree struct {
	root *rnode
	dims []int
	size int
	opts Options
}

var _ spatial.Index = (*RTree)(nil)

type rnode struct {
	mbr      geo.Rect
	entries  []spatial.Entry
	children []*rnode
}

func (n *rnode) leaf() bool { return n.children == nil }

// Build packs the points into a balanced tree, ordered by their Z-order
// (Morton) position so nearby points share leaves.
func Build(points []geo.Point, optFns ...func(o *Options)) (*RTree, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.LeafCapacity <= 0 {
		return nil, spatial.ErrInvalidCapacity
	}
	if opts.Fanout < 2 {
		opts.Fanout = DefaultOptions.Fanout
	}
	if len(points) == 0 {
		return nil, spatial.ErrNoPoints
	}

	d := len(points[0])
	dims := make([]int, d)
	for i := range dims {
		dims[i] = i
	}

	entries := make([]spatial.Entry, len(points))
	for i, p := range points {
		entries[i] = spatial.Entry{Point: p, ID: model.RecordID(i)}
	}
	sortZOrder(entries)

	// Pack leaves, then parent levels, until a single root remains.
	var level []*rnode
	for start := 0; start < len(entries); start += opts.LeafCapacity {
		end := min(start+opts.LeafCapacity, len(entries))
		chunk := entries[start:end]
		level = append(level, &rnode{
			mbr:     entriesBound(chunk),
			entries: append([]spatial.Entry(nil), chunk...),
		})
	}
	for len(level) > 1 {
		var parents []*rnode
		for start := 0; start < len(level); start += opts.Fanout {
			end := min(start+opts.Fanout, len(level))
			group := append([]*rnode(nil), level[start:end]...)
			parents = append(parents, &rnode{
				mbr:      childrenBound(group),
				children: group,
			})
		}
		level = parents
	}

	return &RTree{root: level[0], dims: dims, size: len(points), opts: opts}, nil
}

// Insert adds a point after build. The tree absorbs any location by
// growing bounding boxes, so insertion never reports out of bounds.
func (t *RTree) Insert(p geo.Point, id model.RecordID) error {
	if len(p) != t.root.mbr.Dims() {
		return &spatial.ErrDimensionMismatch{Expected: t.root.mbr.Dims(), Actual: len(p)}
	}
	if sibling := t.insert(t.root, spatial.Entry{Point: p, ID: id}); sibling != nil {
		t.root = &rnode{
			mbr:      t.root.mbr.Union(sibling.mbr),
			children: []*rnode{t.root, sibling},
		}
	}
	t.size++
	return nil
}

func (t *RTree) insert(n *rnode, e spatial.Entry) *rnode {
	n.mbr.Extend(e.Point)

	if n.leaf() {
		n.entries = append(n.entries, e)
		if len(n.entries) > t.opts.LeafCapacity {
			return splitLeaf(n)
		}
		return nil
	}

	best := n.children[0]
	bestCost := best.mbr.Enlargement(e.Point)
	for _, c := range n.children[1:] {
		if cost := c.mbr.Enlargement(e.Point); cost < bestCost {
			best, bestCost = c, cost
		}
	}

	if sibling := t.insert(best, e); sibling != nil {
		n.children = append(n.children, sibling)
		if len(n.children) > t.opts.Fanout {
			return splitInternal(n)
		}
	}
	return nil
}

// RangeQuery returns every record whose point lies within box, bounds
// inclusive.
func (t *RTree) RangeQuery(box geo.Rect) []model.RecordID {
	var out []model.RecordID
	t.root.query(box, &out)
	return out
}

func (n *rnode) query(box geo.Rect, out *[]model.RecordID) {
	if !n.mbr.Intersects(box) {
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

// Bounds returns the minimal bounding box of all indexed points.
func (t *RTree) Bounds() geo.Rect { return t.root.mbr }

// Dimensions returns the record-vector positions the tree indexes on.
func (t *RTree) Dimensions() []int { return t.dims }

// Stats returns the structural statistics of the tree.
func (t *RTree) Stats() spatial.Stats {
	return spatial.Stats{Size: t.size, Depth: t.root.maxDepth(1)}
}

func (n *rnode) maxDepth(depth int) int {
	if n.leaf() {
		return depth
	}
	max := depth
	for _, c := range n.children {
		if d := c.maxDepth(depth + 1); d > max {
			max = d
		}
	}
	return max
}

// splitLeaf moves the upper half of the entries, ordered on the widest
// spread dimension, into a new sibling.
func splitLeaf(n *rnode) *rnode {
	dim := widestEntryDim(n.entries)
	sort.SliceStable(n.entries, func(i, j int) bool {
		return n.entries[i].Point[dim] < n.entries[j].Point[dim]
	})
	half := len(n.entries) / 2
	moved := append([]spatial.Entry(nil), n.entries[half:]...)
	n.entries = n.entries[:half]
	n.mbr = entriesBound(n.entries)
	return &rnode{mbr: entriesBound(moved), entries: moved}
}

// splitInternal moves the upper half of the children, ordered by box
// center on the widest spread dimension, into a new sibling.
func splitInternal(n *rnode) *rnode {
	dim := widestChildDim(n.children)
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].mbr.Midpoint()[dim] < n.children[j].mbr.Midpoint()[dim]
	})
	half := len(n.children) / 2
	moved := append([]*rnode(nil), n.children[half:]...)
	n.children = n.children[:half]
	n.mbr = childrenBound(n.children)
	return &rnode{mbr: childrenBound(moved), children: moved}
}

func entriesBound(entries []spatial.Entry) geo.Rect {
	points := make([]geo.Point, len(entries))
	for i, e := range entries {
		points[i] = e.Point
	}
	bound, _ := geo.Bound(points)
	return bound
}

func childrenBound(children []*rnode) geo.Rect {
	bound := children[0].mbr
	for _, c := range children[1:] {
		bound = bound.Union(c.mbr)
	}
	return bound
}

func widestEntryDim(entries []spatial.Entry) int {
	bound := entriesBound(entries)
	return widestDim(bound)
}

func widestChildDim(children []*rnode) int {
	bound := childrenBound(children)
	return widestDim(bound)
}

func widestDim(r geo.Rect) int {
	dim, widest := 0, math.Inf(-1)
	for i := range r.Min {
		if ext := r.Max[i] - r.Min[i]; ext > widest {
			dim, widest = i, ext
		}
	}
	return dim
}

// sortZOrder orders entries by their interleaved-bit (Morton) position
// within the data bounds. The ordering only steers leaf packing, so the
// quantization below does not affect query correctness.
func sortZOrder(entries []spatial.Entry) {
	bound := entriesBound(entries)
	d := bound.Dims()
	bits := 63 / d

	type keyed struct {
		key   uint64
		entry spatial.Entry
	}
	keyedEntries := make([]keyed, len(entries))
	for i, e := range entries {
		keyedEntries[i] = keyed{key: zKey(e.Point, bound, bits), entry: e}
	}
	sort.SliceStable(keyedEntries, func(i, j int) bool {
		return keyedEntries[i].key < keyedEntries[j].key
	})
	for i, ke := range keyedEntries {
		entries[i] = ke.entry
	}
}

func zKey(p geo.Point, bound geo.Rect, bits int) uint64 {
	d := len(p)
	scale := float64(uint64(1)<<bits - 1)

	var key uint64
	for dim := 0; dim < d; dim++ {
		ext := bound.Max[dim] - bound.Min[dim]
		var q uint64
		if ext > 0 {
			q = uint64((p[dim] - bound.Min[dim]) / ext * scale)
		}
		for b := 0; b < bits; b++ {
			key |= (q >> b & 1) << (b*d + dim)
		}
	}
	return key
}
