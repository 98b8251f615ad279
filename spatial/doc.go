// Package spatial defines the contract shared by the point-partitioning
// index variants and the partition-tree traversal they all build on.
//
// Variants (quadtree, rangetree, kdtree) differ only in their
// SplitStrategy; insertion, capacity handling, depth bounding and
// range-query pruning live here. The bounding-box aggregation tree
// (rtree) keeps its own node shape but satisfies the same Index
// interface.
package spatial
