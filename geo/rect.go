package geo

import "fmt"

// Point is a position in d-dimensional attribute space.
type Point []float64

// Rect is an axis-aligned bounding box: an inclusive [Min, Max] interval
// per dimension. A degenerate box (Min[i] == Max[i]) is valid and is how
// single-valued dimensions are represented.
type Rect struct {
	Min Point
	Max Point
}

// NewRect creates a Rect and validates the min/max invariant.
func NewRect(min, max Point) (Rect, error) {
	if len(min) != len(max) {
		return Rect{}, fmt.Errorf("geo: min has %d dimensions, max has %d", len(min), len(max))
	}
	if len(min) == 0 {
		return Rect{}, fmt.Errorf("geo: rect must have at least one dimension")
	}
	for i := range min {
		if min[i] > max[i] {
			return Rect{}, fmt.Errorf("geo: min > max in dimension %d (%g > %g)", i, min[i], max[i])
		}
	}
	return Rect{Min: min, Max: max}, nil
}

// Dims returns the dimensionality of the rect.
func (r Rect) Dims() int { return len(r.Min) }

// Contains reports whether p lies within the rect, bounds inclusive.
func (r Rect) Contains(p Point) bool {
	if len(p) != len(r.Min) {
		return false
	}
	for i := range p {
		if p[i] < r.Min[i] || p[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether the two rects overlap. Touching boundaries
// count as overlap.
func (r Rect) Intersects(o Rect) bool {
	if len(o.Min) != len(r.Min) {
		return false
	}
	for i := range r.Min {
		if o.Max[i] < r.Min[i] || o.Min[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Midpoint returns the per-dimension center of the rect.
func (r Rect) Midpoint() Point {
	mid := make(Point, len(r.Min))
	for i := range r.Min {
		mid[i] = (r.Min[i] + r.Max[i]) / 2
	}
	return mid
}

// Pad grows the rect by fraction of its extent in every dimension.
// Degenerate dimensions stay degenerate; inclusive bounds still admit
// their points.
func (r Rect) Pad(fraction float64) Rect {
	min := make(Point, len(r.Min))
	max := make(Point, len(r.Max))
	for i := range r.Min {
		pad := (r.Max[i] - r.Min[i]) * fraction
		min[i] = r.Min[i] - pad
		max[i] = r.Max[i] + pad
	}
	return Rect{Min: min, Max: max}
}

// Union returns the minimal rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	min := make(Point, len(r.Min))
	max := make(Point, len(r.Max))
	for i := range r.Min {
		min[i] = r.Min[i]
		if o.Min[i] < min[i] {
			min[i] = o.Min[i]
		}
		max[i] = r.Max[i]
		if o.Max[i] > max[i] {
			max[i] = o.Max[i]
		}
	}
	return Rect{Min: min, Max: max}
}

// Enlargement returns how much the combined extent of r grows when it
// is extended to cover p. Used by the bounding-box aggregation tree to
// choose an insertion subtree.
func (r Rect) Enlargement(p Point) float64 {
	var total float64
	for i := range r.Min {
		if p[i] < r.Min[i] {
			total += r.Min[i] - p[i]
		}
		if p[i] > r.Max[i] {
			total += p[i] - r.Max[i]
		}
	}
	return total
}

// Extend grows r in place to cover p.
func (r *Rect) Extend(p Point) {
	for i := range r.Min {
		if p[i] < r.Min[i] {
			r.Min[i] = p[i]
		}
		if p[i] > r.Max[i] {
			r.Max[i] = p[i]
		}
	}
}

// Bound returns the minimal enclosing rect of points. ok is false when
// points is empty.
func Bound(points []Point) (rect Rect, ok bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	min := make(Point, len(points[0]))
	max := make(Point, len(points[0]))
	copy(min, points[0])
	copy(max, points[0])
	for _, p := range points[1:] {
		for i := range p {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return Rect{Min: min, Max: max}, true
}
