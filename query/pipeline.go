package query

import (
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/metadata"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/spatial"
	"github.com/SaviorKas/multidex/textsim"
)

// ErrInvalidTopK is returned when the result cap is not positive.
var ErrInvalidTopK = textsim.ErrInvalidTopK

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Spec describes one hybrid query. Numeric dimensions not mentioned in
// Numeric are unconstrained; a nil Metadata set admits every record.
type Spec struct {
	// Numeric maps dimension names to range predicates.
	Numeric map[string]Range
	// Metadata is the conjunction of exact-match predicates.
	Metadata *metadata.FilterSet
	// Text is the similarity query string.
	Text string
	// TopK caps the number of ranked results. Must be >= 1.
	TopK int
}

// Result is the outcome of a hybrid query: at most TopK records ranked
// by descending similarity, ties broken by ascending identifier.
type Result struct {
	Ranked  []model.ScoredID
	Records []model.Record
	Elapsed time.Duration
}

// Execute runs the two-phase pipeline: spatial range query, single-pass
// metadata (and residual numeric) filtering, then similarity ranking
// restricted to the surviving candidates. Any stage producing an empty
// candidate set propagates an empty result, never an error.
func Execute(idx spatial.Index, text textsim.Index, records []model.Record, schema model.Schema, spec Spec) (*Result, error) {
	if spec.TopK < 1 {
		return nil, ErrInvalidTopK
	}

	start := time.Now()

	box, covered, err := filterBox(idx, schema, spec.Numeric)
	if err != nil {
		return nil, err
	}

	ids := idx.RangeQuery(box)
	if len(ids) == 0 {
		return emptyResult(start), nil
	}

	// One pass: metadata predicates plus numeric predicates on
	// dimensions the index does not cover.
	candidates := roaring.New()
	for _, id := range ids {
		rec := &records[int(id)]
		if !residualNumericMatch(rec, schema, spec.Numeric, covered) {
			continue
		}
		if !spec.Metadata.Matches(rec.Meta) {
			continue
		}
		candidates.Add(uint32(id))
	}
	if candidates.IsEmpty() {
		return emptyResult(start), nil
	}

	ranked, err := text.Query(spec.Text, candidates, spec.TopK)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Ranked:  ranked,
		Records: make([]model.Record, len(ranked)),
	}
	for i, s := range ranked {
		out.Records[i] = records[int(s.ID)]
	}
	out.Elapsed = time.Since(start)
	return out, nil
}

// filterBox translates the numeric filter into a box in the index's
// projected space. Unconstrained axes default to the index's built
// bounds. The returned set lists the dimension names the box covers.
func filterBox(idx spatial.Index, schema model.Schema, numeric map[string]Range) (geo.Rect, map[string]bool, error) {
	for name, r := range numeric {
		if _, ok := schema.DimensionIndex(name); !ok {
			return geo.Rect{}, nil, fmt.Errorf("query: unknown numeric dimension %q", name)
		}
		if r.Min > r.Max {
			return geo.Rect{}, nil, fmt.Errorf("query: empty range for %q (%g > %g)", name, r.Min, r.Max)
		}
	}

	bounds := idx.Bounds()
	dims := idx.Dimensions()
	covered := make(map[string]bool, len(dims))

	min := append(geo.Point{}, bounds.Min...)
	max := append(geo.Point{}, bounds.Max...)
	for axis, dim := range dims {
		name := schema.NumericDimensions[dim]
		covered[name] = true
		if r, ok := numeric[name]; ok {
			min[axis], max[axis] = r.Min, r.Max
		}
	}
	return geo.Rect{Min: min, Max: max}, covered, nil
}

func residualNumericMatch(rec *model.Record, schema model.Schema, numeric map[string]Range, covered map[string]bool) bool {
	for name, r := range numeric {
		if covered[name] {
			continue
		}
		pos, _ := schema.DimensionIndex(name)
		v := rec.Numeric[pos]
		if v < r.Min || v > r.Max {
			return false
		}
	}
	return true
}

func emptyResult(start time.Time) *Result {
	return &Result{
		Ranked:  []model.ScoredID{},
		Records: []model.Record{},
		Elapsed: time.Since(start),
	}
}
