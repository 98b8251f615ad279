package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
)

func TestNewTreeValidation(t *testing.T) {
	bounds := geo.Rect{Min: geo.Point{0, 0}, Max: geo.Point{1, 1}}

	_, err := NewTree(bounds, MidpointSplit{}, Config{Capacity: 0, MaxDepth: 5})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = NewTree(bounds, MidpointSplit{}, Config{Capacity: 4, MaxDepth: 0})
	assert.ErrorIs(t, err, ErrInvalidMaxDepth)

	_, _, err = BuildTree(nil, nil, MidpointSplit{}, DefaultConfig)
	assert.ErrorIs(t, err, ErrNoPoints)
}

func TestTreeOutOfBounds(t *testing.T) {
	bounds := geo.Rect{Min: geo.Point{0, 0}, Max: geo.Point{1, 1}}
	tree, err := NewTree(bounds, MidpointSplit{}, DefaultConfig)
	require.NoError(t, err)

	err = tree.Insert(geo.Point{2, 2}, 0)
	var oob *ErrOutOfBounds
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 0, tree.Size())

	err = tree.Insert(geo.Point{0.5}, 0)
	var dim *ErrDimensionMismatch
	require.ErrorAs(t, err, &dim)
	assert.Equal(t, 2, dim.Expected)
}

func TestTreeCoverage(t *testing.T) {
	// A range query over the full built region returns every inserted
	// identifier exactly once.
	points := []geo.Point{
		{0, 0}, {1, 1}, {2, 7}, {3, 3}, {4, 9}, {5, 5}, {6, 1}, {7, 7}, {8, 2}, {9, 9},
	}
	cfg := DefaultConfig
	cfg.Capacity = 2
	tree, rejected, err := BuildTree(points, nil, MidpointSplit{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, rejected)
	assert.Equal(t, len(points), tree.Size())

	ids := tree.RangeQuery(tree.Bounds())
	assert.Len(t, ids, len(points))

	seen := make(map[model.RecordID]int)
	for _, id := range ids {
		seen[id]++
	}
	for i := range points {
		assert.Equal(t, 1, seen[model.RecordID(i)], "id %d", i)
	}
}

func TestTreeContainment(t *testing.T) {
	// Boundary-exact points: inclusive on both sides.
	points := []geo.Point{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	tree, _, err := BuildTree(points, nil, MidpointSplit{}, DefaultConfig)
	require.NoError(t, err)

	box := geo.Rect{Min: geo.Point{2, 2}, Max: geo.Point{3, 3}}
	got := tree.RangeQuery(box)
	assert.ElementsMatch(t, []model.RecordID{1, 2}, got)

	empty := tree.RangeQuery(geo.Rect{Min: geo.Point{10, 10}, Max: geo.Point{20, 20}})
	assert.Empty(t, empty)
}

func TestTreeDepthBound(t *testing.T) {
	// Tightly clustered points force deep splits; depth must respect the
	// configured bound.
	var points []geo.Point
	for i := 0; i < 200; i++ {
		points = append(points, geo.Point{float64(i) * 1e-6, float64(i) * 1e-6})
	}
	points = append(points, geo.Point{1000, 1000})

	cfg := Config{Capacity: 2, MaxDepth: 6, Epsilon: 1e-10, PadFraction: 0.01}
	tree, rejected, err := BuildTree(points, nil, MidpointSplit{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, rejected)
	assert.LessOrEqual(t, tree.Depth(), 6)
	assert.Len(t, tree.RangeQuery(tree.Bounds()), len(points))
}

func TestTreeCoincidentPoints(t *testing.T) {
	// N identical points with capacity < N must land in a single
	// escape-hatch leaf without recursing.
	bounds := geo.Rect{Min: geo.Point{0, 0}, Max: geo.Point{10, 10}}
	cfg := Config{Capacity: 3, MaxDepth: 25, Epsilon: 1e-10, PadFraction: 0.01}
	tree, err := NewTree(bounds, MidpointSplit{}, cfg)
	require.NoError(t, err)

	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, tree.Insert(geo.Point{5, 5}, model.RecordID(i)))
	}

	assert.Equal(t, n, tree.Size())
	assert.Equal(t, 1, tree.Depth(), "coincident points must not split the root")
	assert.Len(t, tree.RangeQuery(bounds), n)
}

func TestTreeUnsplitRootDepth(t *testing.T) {
	points := []geo.Point{{0, 0}, {1, 1}}
	tree, _, err := BuildTree(points, nil, MidpointSplit{}, DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Depth())
}

func TestMidpointSplitRegions(t *testing.T) {
	region := geo.Rect{Min: geo.Point{0, 0}, Max: geo.Point{4, 4}}
	regions, ok := MidpointSplit{}.Split(region, nil, 1)
	require.True(t, ok)
	require.Len(t, regions, 4)

	// Children cover the parent: every probe point lands in at least one.
	probes := []geo.Point{{0, 0}, {4, 4}, {2, 2}, {1, 3}, {3.999, 0.001}}
	for _, p := range probes {
		found := false
		for _, r := range regions {
			if r.Contains(p) {
				found = true
				break
			}
		}
		assert.True(t, found, "point %v not covered", p)
	}
}
