package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRect(t *testing.T) {
	r, err := NewRect(Point{0, 0}, Point{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Dims())

	// Degenerate boxes are valid.
	_, err = NewRect(Point{5, 5}, Point{5, 5})
	assert.NoError(t, err)

	_, err = NewRect(Point{1}, Point{0})
	assert.Error(t, err)

	_, err = NewRect(Point{0, 0}, Point{1})
	assert.Error(t, err)

	_, err = NewRect(Point{}, Point{})
	assert.Error(t, err)
}

func TestRectContains(t *testing.T) {
	r := Rect{Min: Point{0, 0}, Max: Point{10, 10}}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", Point{5, 5}, true},
		{"min corner", Point{0, 0}, true},
		{"max corner", Point{10, 10}, true},
		{"edge", Point{0, 7}, true},
		{"outside low", Point{-0.001, 5}, false},
		{"outside high", Point{5, 10.001}, false},
		{"dimension mismatch", Point{5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.p))
		})
	}
}

func TestRectIntersects(t *testing.T) {
	r := Rect{Min: Point{0, 0}, Max: Point{10, 10}}

	assert.True(t, r.Intersects(Rect{Min: Point{5, 5}, Max: Point{15, 15}}))
	assert.True(t, r.Intersects(Rect{Min: Point{-5, -5}, Max: Point{20, 20}}), "enclosing box")
	assert.True(t, r.Intersects(Rect{Min: Point{10, 10}, Max: Point{12, 12}}), "touching corner")
	assert.False(t, r.Intersects(Rect{Min: Point{11, 0}, Max: Point{12, 10}}))
	assert.False(t, r.Intersects(Rect{Min: Point{0, -5}, Max: Point{10, -1}}))
}

func TestRectMidpoint(t *testing.T) {
	r := Rect{Min: Point{0, 2}, Max: Point{10, 4}}
	assert.Equal(t, Point{5, 3}, r.Midpoint())

	deg := Rect{Min: Point{7}, Max: Point{7}}
	assert.Equal(t, Point{7}, deg.Midpoint())
}

func TestRectPad(t *testing.T) {
	r := Rect{Min: Point{0, 5}, Max: Point{100, 5}}
	p := r.Pad(0.01)
	assert.InDelta(t, -1.0, p.Min[0], 1e-12)
	assert.InDelta(t, 101.0, p.Max[0], 1e-12)
	// Zero-extent dimension is unchanged but still contains its value.
	assert.Equal(t, 5.0, p.Min[1])
	assert.Equal(t, 5.0, p.Max[1])
	assert.True(t, p.Contains(Point{0, 5}))
	assert.True(t, p.Contains(Point{100, 5}))
}

func TestBound(t *testing.T) {
	_, ok := Bound(nil)
	assert.False(t, ok)

	r, ok := Bound([]Point{{1, 9}, {-3, 4}, {7, 0}})
	require.True(t, ok)
	assert.Equal(t, Point{-3, 0}, r.Min)
	assert.Equal(t, Point{7, 9}, r.Max)
}

func TestRectUnionExtend(t *testing.T) {
	a := Rect{Min: Point{0, 0}, Max: Point{2, 2}}
	b := Rect{Min: Point{1, -1}, Max: Point{5, 1}}
	u := a.Union(b)
	assert.Equal(t, Point{0, -1}, u.Min)
	assert.Equal(t, Point{5, 2}, u.Max)

	assert.Equal(t, 0.0, a.Enlargement(Point{1, 1}))
	assert.Equal(t, 3.0, a.Enlargement(Point{4, 2}))

	a.Extend(Point{4, -2})
	assert.Equal(t, Point{0, -2}, a.Min)
	assert.Equal(t, Point{4, 2}, a.Max)
}
