package multidex

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/metadata"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/query"
	"github.com/SaviorKas/multidex/spatial"
	"github.com/SaviorKas/multidex/spatial/kdtree"
	"github.com/SaviorKas/multidex/spatial/quadtree"
	"github.com/SaviorKas/multidex/spatial/rangetree"
	"github.com/SaviorKas/multidex/spatial/rtree"
	"github.com/SaviorKas/multidex/textsim/lsh"
)

// Variant names a spatial index implementation.
type Variant string

const (
	// VariantQuadtree is the 2-D midpoint partition over two chosen
	// dimensions.
	VariantQuadtree Variant = "quadtree"
	// VariantKDTree is the k-dimensional median binary partition.
	VariantKDTree Variant = "kdtree"
	// VariantRangeTree is the d-dimensional midpoint grid partition.
	VariantRangeTree Variant = "rangetree"
	// VariantRTree is the bounding-box aggregation tree.
	VariantRTree Variant = "rtree"
)

// AllVariants lists every supported index variant in build order.
var AllVariants = []Variant{VariantQuadtree, VariantKDTree, VariantRangeTree, VariantRTree}

// Engine indexes one record collection along its numeric dimensions and
// text attributes and answers hybrid range+metadata+similarity queries.
// An engine is read-only after New returns and safe for concurrent
// queries.
type Engine struct {
	records []model.Record
	schema  model.Schema
	indexes map[Variant]spatial.Index
	text    map[string]*lsh.Index
	logger  *Logger
}

// New builds an engine over records. The variants and the per-text-
// attribute similarity indexes are built concurrently; records must be
// ordered by RecordID as assigned by the loading collaborator.
func New(records []model.Record, schema model.Schema, optFns ...Option) (*Engine, error) {
	opts := options{
		variants:     AllVariants,
		config:       spatial.DefaultConfig,
		quadtreeDims: [2]int{0, 1},
		logger:       NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if err := schema.Validate(records); err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID != model.RecordID(i) {
			return nil, fmt.Errorf("record at position %d has id %d, want dataset order", i, records[i].ID)
		}
	}

	points := make([]geo.Point, len(records))
	for i := range records {
		points[i] = records[i].Numeric
	}

	e := &Engine{
		records: records,
		schema:  schema,
		indexes: make(map[Variant]spatial.Index, len(opts.variants)),
		text:    make(map[string]*lsh.Index, len(schema.TextAttributes)),
		logger:  opts.logger,
	}

	var mu sync.Mutex
	var g errgroup.Group

	for _, v := range opts.variants {
		v := v
		g.Go(func() error {
			start := time.Now()
			idx, err := buildVariant(v, points, opts)
			if err != nil {
				return fmt.Errorf("build %s: %w", v, err)
			}
			stats := idx.Stats()
			e.logger.WithVariant(v).Info("spatial index built",
				"size", stats.Size,
				"depth", stats.Depth,
				"rejected", stats.Rejected,
				"elapsed", time.Since(start))

			mu.Lock()
			e.indexes[v] = idx
			mu.Unlock()
			return nil
		})
	}

	for _, attr := range schema.TextAttributes {
		attr := attr
		g.Go(func() error {
			start := time.Now()
			idx, err := lsh.New(opts.lshOptions...)
			if err != nil {
				return fmt.Errorf("build text index %s: %w", attr, err)
			}
			for i := range records {
				if err := idx.Add(records[i].ID, records[i].Text[attr]); err != nil {
					return err
				}
			}
			e.logger.Info("text index built",
				"attribute", attr,
				"size", idx.Len(),
				"elapsed", time.Since(start))

			mu.Lock()
			e.text[attr] = idx
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return e, nil
}

func buildVariant(v Variant, points []geo.Point, opts options) (spatial.Index, error) {
	switch v {
	case VariantQuadtree:
		return quadtree.Build(points, func(o *quadtree.Options) {
			o.Config = opts.config
			o.XDim, o.YDim = opts.quadtreeDims[0], opts.quadtreeDims[1]
		})
	case VariantKDTree:
		return kdtree.Build(points, func(o *kdtree.Options) {
			o.Config = opts.config
		})
	case VariantRangeTree:
		return rangetree.Build(points, func(o *rangetree.Options) {
			o.Config = opts.config
		})
	case VariantRTree:
		return rtree.Build(points, func(o *rtree.Options) {
			o.LeafCapacity = opts.config.Capacity
		})
	default:
		return nil, &ErrUnknownVariant{Variant: v}
	}
}

// Request describes one hybrid query against a chosen index variant.
type Request struct {
	// Variant selects the spatial index to filter with.
	Variant Variant
	// Numeric maps dimension names to range predicates; unnamed
	// dimensions are unconstrained.
	Numeric map[string]query.Range
	// Metadata is the conjunction of exact-match predicates.
	Metadata *metadata.FilterSet
	// Text is the similarity query string.
	Text string
	// TextAttribute names the text attribute to rank on. May be empty
	// when the schema has exactly one.
	TextAttribute string
	// TopK caps the number of ranked results. Must be >= 1.
	TopK int
}

// Query runs the hybrid pipeline against the requested variant.
func (e *Engine) Query(req Request) (*query.Result, error) {
	idx, ok := e.indexes[req.Variant]
	if !ok {
		return nil, &ErrUnknownVariant{Variant: req.Variant}
	}

	attr := req.TextAttribute
	if attr == "" && len(e.text) == 1 {
		for a := range e.text {
			attr = a
		}
	}
	text, ok := e.text[attr]
	if !ok {
		return nil, &ErrUnknownTextAttribute{Attribute: attr}
	}

	res, err := query.Execute(idx, text, e.records, e.schema, query.Spec{
		Numeric:  req.Numeric,
		Metadata: req.Metadata,
		Text:     req.Text,
		TopK:     req.TopK,
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithVariant(req.Variant).Debug("query executed",
		"attribute", attr,
		"results", len(res.Ranked),
		"elapsed", res.Elapsed)
	return res, nil
}

// Stats returns the structural statistics of every built variant.
func (e *Engine) Stats() map[Variant]spatial.Stats {
	out := make(map[Variant]spatial.Stats, len(e.indexes))
	for v, idx := range e.indexes {
		out[v] = idx.Stats()
	}
	return out
}

// Schema returns the attribute schema the engine was built with.
func (e *Engine) Schema() model.Schema { return e.schema }

// Len returns the number of indexed records.
func (e *Engine) Len() int { return len(e.records) }
