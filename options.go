package multidex

import (
	"github.com/SaviorKas/multidex/spatial"
	"github.com/SaviorKas/multidex/textsim/lsh"
)

type options struct {
	variants     []Variant
	config       spatial.Config
	quadtreeDims [2]int
	lshOptions   []func(o *lsh.Options)
	logger       *Logger
}

// Option configures engine construction.
type Option func(*options)

// WithVariants selects which spatial index variants the engine builds.
// By default every variant is built.
func WithVariants(variants ...Variant) Option {
	return func(o *options) {
		o.variants = variants
	}
}

// WithCapacity sets the leaf capacity of the partition trees.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		o.config.Capacity = capacity
	}
}

// WithMaxDepth bounds the depth of the partition trees.
func WithMaxDepth(maxDepth int) Option {
	return func(o *options) {
		o.config.MaxDepth = maxDepth
	}
}

// WithQuadtreeDims selects the two numeric-dimension positions the
// quadtree variant projects onto. Default: the first two.
func WithQuadtreeDims(x, y int) Option {
	return func(o *options) {
		o.quadtreeDims = [2]int{x, y}
	}
}

// WithLSHOptions forwards configuration to the text-similarity indexes.
func WithLSHOptions(optFns ...func(o *lsh.Options)) Option {
	return func(o *options) {
		o.lshOptions = append(o.lshOptions, optFns...)
	}
}

// WithLogger sets the engine logger. The default discards all output.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
