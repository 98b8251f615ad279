// Package multidex indexes a fixed collection of multi-attribute
// records along several numeric dimensions and answers compound
// queries that combine numeric range predicates, exact-match metadata
// predicates, and approximate textual similarity to a query string,
// returning the top-N records ranked by similarity among those passing
// the filters.
//
// The engine builds one or more spatial index variants (quadtree,
// k-d tree, range tree, r-tree) over the numeric projection of the
// record set, plus a MinHash LSH index per text attribute, and fuses
// them in a two-phase filter-then-rank pipeline:
//
//	engine, _ := multidex.New(records, schema)
//	res, _ := engine.Query(multidex.Request{
//	    Variant: multidex.VariantKDTree,
//	    Numeric: map[string]query.Range{"popularity": {Min: 2, Max: 10}},
//	    Metadata: metadata.NewFilterSet(metadata.Equal("original_language", "en")),
//	    Text:    "Warner Bros",
//	    TopK:    5,
//	})
//
// All indexes are read-only after New returns; concurrent queries are
// safe.
package multidex
