package quadtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaviorKas/multidex/geo"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/spatial"
)

func TestBuildValidation(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, spatial.ErrNoPoints)

	points := []geo.Point{{1, 2}, {3, 4}}

	_, err = Build(points, func(o *Options) { o.YDim = 5 })
	assert.Error(t, err)

	_, err = Build(points, func(o *Options) { o.XDim = 1; o.YDim = 1 })
	assert.Error(t, err)
}

func TestRangeQueryScenario(t *testing.T) {
	// The reference 5-record scenario: box [(0,2),(0,2)] selects exactly
	// the first two records.
	points := []geo.Point{{0, 0}, {1, 1}, {5, 5}, {9, 9}, {10, 10}}
	qt, err := Build(points)
	require.NoError(t, err)

	got := qt.RangeQuery(geo.Rect{Min: geo.Point{0, 0}, Max: geo.Point{2, 2}})
	assert.ElementsMatch(t, []model.RecordID{0, 1}, got)
}

func TestProjection(t *testing.T) {
	// 4-dimensional points; the tree indexes dims 2 and 3 only.
	points := []geo.Point{
		{100, 200, 1, 1},
		{300, 400, 9, 9},
	}
	qt, err := Build(points, func(o *Options) {
		o.XDim = 2
		o.YDim = 3
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, qt.Dimensions())

	got := qt.RangeQuery(geo.Rect{Min: geo.Point{0, 0}, Max: geo.Point{5, 5}})
	assert.Equal(t, []model.RecordID{0}, got)
}

func TestCoverageAndStats(t *testing.T) {
	var points []geo.Point
	for i := 0; i < 300; i++ {
		points = append(points, geo.Point{float64(i % 17), float64(i % 23)})
	}
	qt, err := Build(points, func(o *Options) {
		o.Capacity = 8
	})
	require.NoError(t, err)

	stats := qt.Stats()
	assert.Equal(t, 300, stats.Size)
	assert.Equal(t, 0, stats.Rejected)
	assert.LessOrEqual(t, stats.Depth, DefaultOptions.MaxDepth)
	assert.Greater(t, stats.Depth, 1, "300 points over capacity 8 must split")

	ids := qt.RangeQuery(qt.Bounds())
	require.Len(t, ids, 300)
	seen := make(map[model.RecordID]bool, len(ids))
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestInsertAfterBuild(t *testing.T) {
	points := []geo.Point{{0, 0}, {10, 10}}
	qt, err := Build(points)
	require.NoError(t, err)

	// In-bounds insert in projected space.
	require.NoError(t, qt.Insert(geo.Point{5, 5}, 2))
	assert.Equal(t, 3, qt.Stats().Size)

	// Out-of-bounds insert is a non-fatal, typed rejection.
	err = qt.Insert(geo.Point{1e9, 1e9}, 3)
	var oob *spatial.ErrOutOfBounds
	assert.ErrorAs(t, err, &oob)
	assert.Equal(t, 3, qt.Stats().Size)
}
