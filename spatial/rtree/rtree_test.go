package rtree

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

	_, err = Build([]geo.Point{{1, 2}}, func(o *Options) { o.LeafCapacity = 0 })
	assert.ErrorIs(t, err, spatial.ErrInvalidCapacity)
}

func TestCoverage(t *testing.T) {
	var points []geo.Point
	for i := 0; i < 400; i++ {
		points = append(points, geo.Point{
			float64(i%19) * 2.5,
			float64(i % 23),
			float64(i%7) * 11,
		})
	}
	rt, err := Build(points, func(o *Options) {
		o.LeafCapacity = 16
		o.Fanout = 4
	})
	require.NoError(t, err)

	stats := rt.Stats()
	assert.Equal(t, 400, stats.Size)
	assert.Equal(t, 0, stats.Rejected)
	assert.Greater(t, stats.Depth, 1)

	ids := rt.RangeQuery(rt.Bounds())
	require.Len(t, ids, 400)
	seen := make(map[model.RecordID]bool, len(ids))
	for _, id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestRangeQuerySubset(t *testing.T) {
	points := []geo.Point{
		{0, 0}, {1, 1}, {5, 5}, {9, 9}, {10, 10},
	}
	rt, err := Build(points)
	require.NoError(t, err)

	got := rt.RangeQuery(geo.Rect{Min: geo.Point{0, 0}, Max: geo.Point{2, 2}})
	assert.ElementsMatch(t, []model.RecordID{0, 1}, got)

	assert.Empty(t, rt.RangeQuery(geo.Rect{Min: geo.Point{20, 20}, Max: geo.Point{30, 30}}))
}

func TestInsertGrowsBounds(t *testing.T) {
	points := []geo.Point{{0, 0}, {1, 1}}
	rt, err := Build(points)
	require.NoError(t, err)

	// A point far outside the built bounds is absorbed, not rejected.
	require.NoError(t, rt.Insert(geo.Point{100, 100}, 2))
	assert.Equal(t, 3, rt.Stats().Size)
	assert.True(t, rt.Bounds().Contains(geo.Point{100, 100}))

	got := rt.RangeQuery(geo.Rect{Min: geo.Point{99, 99}, Max: geo.Point{101, 101}})
	assert.Equal(t, []model.RecordID{2}, got)

	err = rt.Insert(geo.Point{1}, 3)
	var dim *spatial.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dim)
}

func TestInsertSplits(t *testing.T) {
	points := []geo.Point{{0, 0}}
	rt, err := Build(points, func(o *Options) {
		o.LeafCapacity = 4
		o.Fanout = 2
	})
	require.NoError(t, err)

	for i := 1; i < 100; i++ {
		require.NoError(t, rt.Insert(geo.Point{float64(i % 10), float64(i / 10)}, model.RecordID(i)))
	}

	stats := rt.Stats()
	assert.Equal(t, 100, stats.Size)
	assert.Greater(t, stats.Depth, 2)

	ids := rt.RangeQuery(rt.Bounds())
	assert.Len(t, ids, 100)
}
